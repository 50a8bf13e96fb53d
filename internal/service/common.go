package service

import (
	"context"
	"errors"
	"fmt"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/cache"
	"go-pos-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Actor is the authenticated user performing a write.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func (a Actor) String() string { return a.ID.String() }

// Notifier fans events out to live clients. *ws.Hub implements it.
type Notifier interface {
	Publish(eventType string, data interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, interface{}) {}

// NopNotifier discards every event.
func NopNotifier() Notifier { return nopNotifier{} }

const (
	// DashboardCacheKey prefixes cached dashboard payloads.
	DashboardCacheKey = "dashboard:stats"
	// dashboardVersionKey is bumped by every write that changes the dashboard.
	dashboardVersionKey = "dashboard:version"
)

// dashboardKey names the payload for one business day at one version.
func dashboardKey(day string, version int64) string {
	return fmt.Sprintf("%s:%s:%d", DashboardCacheKey, day, version)
}

// invalidateDashboard moves readers to a fresh cache key after a write that
// changes the dashboard. Payloads under older versions expire with their TTL.
func invalidateDashboard(ctx context.Context, c cache.Cache, log zerolog.Logger) {
	if _, err := c.Incr(ctx, dashboardVersionKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

// validate runs struct validation and reports the first failure as a ValidationError.
func validate(v interface{}) error {
	errs := validator.ValidateStruct(v)
	if len(errs) == 0 {
		return nil
	}
	return &apperrors.ValidationError{Field: errs[0].FailedField, Message: errs[0].Message()}
}

// storageErr maps repository errors that are not business outcomes.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("%s: record already exists", op)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Conflict("%s: record is still referenced", op)
	}
	return apperrors.Persistence(op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
