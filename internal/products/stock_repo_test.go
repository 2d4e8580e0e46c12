package products

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db/dbtest"
)

func TestDecrementTakesStockWhenAvailable(t *testing.T) {
	conn := dbtest.New(t)
	shirt := dbtest.Product(t, conn, "Shirt", "500.00", 3)
	repo := NewStockRepository(conn)

	ok, err := repo.Decrement(context.Background(), shirt.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, dbtest.Stock(t, conn, shirt.ID))

	ok, err = repo.Decrement(context.Background(), shirt.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, dbtest.Stock(t, conn, shirt.ID))
}

func TestDecrementRejectsOverdraw(t *testing.T) {
	conn := dbtest.New(t)
	shirt := dbtest.Product(t, conn, "Shirt", "500.00", 1)
	repo := NewStockRepository(conn)

	ok, err := repo.Decrement(context.Background(), shirt.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, dbtest.Stock(t, conn, shirt.ID))
}

func TestDecrementUnknownProduct(t *testing.T) {
	conn := dbtest.New(t)
	ok, err := NewStockRepository(conn).Decrement(context.Background(), 404, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecrementRequiresPositiveQuantity(t *testing.T) {
	conn := dbtest.New(t)
	shirt := dbtest.Product(t, conn, "Shirt", "500.00", 1)
	_, err := NewStockRepository(conn).Decrement(context.Background(), shirt.ID, 0)
	require.Error(t, err)
}

func TestRestoreAddsStock(t *testing.T) {
	conn := dbtest.New(t)
	shirt := dbtest.Product(t, conn, "Shirt", "500.00", 0)
	repo := NewStockRepository(conn)

	require.NoError(t, repo.Restore(context.Background(), shirt.ID, 4))
	stock, err := repo.CurrentStock(context.Background(), shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stock)
}

func TestRestoreUnknownProduct(t *testing.T) {
	conn := dbtest.New(t)
	err := NewStockRepository(conn).Restore(context.Background(), 404, 1)
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestCurrentStockUnknownProduct(t *testing.T) {
	conn := dbtest.New(t)
	_, err := NewStockRepository(conn).CurrentStock(context.Background(), 404)
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestStockRepositoryWithTxRollsBack(t *testing.T) {
	conn := dbtest.New(t)
	shirt := dbtest.Product(t, conn, "Shirt", "500.00", 2)
	repo := NewStockRepository(conn)

	err := conn.Transaction(func(tx *gorm.DB) error {
		ok, err := repo.WithTx(tx).Decrement(context.Background(), shirt.ID, 2)
		require.NoError(t, err)
		require.True(t, ok)
		return errors.New("abort")
	})
	require.Error(t, err)
	assert.Equal(t, 2, dbtest.Stock(t, conn, shirt.ID))
}
