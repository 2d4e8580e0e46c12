package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"github.com/storefront-labs/storefront-backend/pkg/pagination"
)

const defaultWriteTimeout = 5 * time.Second

// Notifier delivers a message to a user without blocking the caller.
type Notifier interface {
	Notify(ctx context.Context, userID int64, category enums.NotificationCategory, message string)
}

// Service persists notifications in the background. Delivery failures are logged and
// never reach the caller.
type Service struct {
	repo    Repository
	logg    *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewService wires notifications dependencies.
func NewService(repo Repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{repo: repo, logg: logg, timeout: defaultWriteTimeout}, nil
}

// Notify schedules the write and returns immediately. The write outlives the request context.
func (s *Service) Notify(ctx context.Context, userID int64, category enums.NotificationCategory, message string) {
	if s == nil || userID <= 0 || message == "" {
		return
	}
	base := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		writeCtx, cancel := context.WithTimeout(base, s.timeout)
		defer cancel()

		row := &models.Notification{
			UserID:   userID,
			Category: category,
			Message:  message,
		}
		if err := s.repo.Create(writeCtx, row); err != nil {
			logCtx := s.logg.WithFields(s.logg.WithUserID(base, userID), map[string]any{
				"category": string(category),
			})
			s.logg.Error(logCtx, "notification.write_failed", err)
		}
	}()
}

// Wait blocks until every scheduled write has finished.
func (s *Service) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

// Page is one slice of a user's notification feed.
type Page struct {
	Items      []models.Notification
	NextCursor string
}

// List returns the user's notifications newest first.
func (s *Service) List(ctx context.Context, userID int64, params pagination.Params) (*Page, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid cursor.")
	}
	var beforeID int64
	if cursor != nil {
		beforeID = cursor.ID
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListForUser(ctx, userID, beforeID, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	page := &Page{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{ID: page.Items[limit-1].ID})
	}
	return page, nil
}
