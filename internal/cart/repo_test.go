package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-backend/pkg/db/dbtest"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

func TestResolveLinesJoinsProductData(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	shirt := dbtest.Product(t, conn, "Shirt", "250.50", 7)
	hat := dbtest.Product(t, conn, "Cap", "99.00", 2)
	first := dbtest.CartLine(t, conn, 1, shirt.ID, 2, "M")
	second := dbtest.CartLine(t, conn, 1, hat.ID, 1, "")
	dbtest.CartLine(t, conn, 2, shirt.ID, 5, "L")

	lines, err := repo.ResolveLines(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, first.ID, lines[0].CartItemID)
	assert.Equal(t, "Shirt", lines[0].Title)
	assert.True(t, decimal.RequireFromString("250.50").Equal(lines[0].Price))
	assert.Equal(t, 7, lines[0].Stock)
	require.NotNil(t, lines[0].Size)
	assert.Equal(t, "M", *lines[0].Size)
	assert.True(t, decimal.RequireFromString("501").Equal(lines[0].Subtotal()))

	assert.Equal(t, second.ID, lines[1].CartItemID)
	assert.Nil(t, lines[1].Size)
}

func TestResolveLinesScopesExplicitSelectionToUser(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	shirt := dbtest.Product(t, conn, "Shirt", "100.00", 5)
	mine := dbtest.CartLine(t, conn, 1, shirt.ID, 1, "S")
	theirs := dbtest.CartLine(t, conn, 2, shirt.ID, 1, "S")

	lines, err := repo.ResolveLines(ctx, 1, []int64{mine.ID, theirs.ID})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, mine.ID, lines[0].CartItemID)

	lines, err = repo.ResolveLines(ctx, 1, []int64{theirs.ID})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDeleteLinesOnlyTouchesOwner(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	shirt := dbtest.Product(t, conn, "Shirt", "100.00", 5)
	mine := dbtest.CartLine(t, conn, 1, shirt.ID, 1, "S")
	theirs := dbtest.CartLine(t, conn, 2, shirt.ID, 1, "S")

	deleted, err := repo.DeleteLines(ctx, 1, []int64{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
	assert.EqualValues(t, 1, dbtest.Count(t, conn, &models.CartItem{}))

	deleted, err = repo.DeleteLines(ctx, 1, nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestLineIDs(t *testing.T) {
	ids := LineIDs([]ResolvedLine{{CartItemID: 4}, {CartItemID: 9}})
	assert.Equal(t, []int64{4, 9}, ids)
}
