package scheduling

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/slot"
)

const defaultSyncTimeout = 5 * time.Second

// Syncer mirrors slot mutations into a repository. Failures are logged and
// collected; the in-memory session stays authoritative.
type Syncer struct {
	repo    slot.Repository
	logger  *zap.Logger
	timeout time.Duration
	errs    []error
}

var _ slot.Observer = (*Syncer)(nil)

// NewSyncer creates a Syncer writing to repo.
func NewSyncer(repo slot.Repository, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{repo: repo, logger: logger, timeout: defaultSyncTimeout}
}

// Err returns the failures collected since the last call and clears them.
func (y *Syncer) Err() error {
	err := errors.Join(y.errs...)
	y.errs = nil
	return err
}

func (y *Syncer) SlotCreated(date time.Time, s slot.TimeSlot) {
	y.run("insert", s.ID, func(ctx context.Context) error {
		return y.repo.InsertSlot(ctx, date, s)
	})
}

func (y *Syncer) SlotUpdated(date time.Time, s slot.TimeSlot) {
	y.run("update", s.ID, func(ctx context.Context) error {
		return y.repo.UpdateSlot(ctx, date, s)
	})
}

func (y *Syncer) SlotResized(_ time.Time, id string, durationMinutes int) {
	y.run("resize", id, func(ctx context.Context) error {
		return y.repo.UpdateDuration(ctx, id, durationMinutes)
	})
}

func (y *Syncer) SlotDeleted(_ time.Time, id string) {
	y.run("delete", id, func(ctx context.Context) error {
		return y.repo.DeleteSlot(ctx, id)
	})
}

func (y *Syncer) run(op, id string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), y.timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		y.logger.Error("syncing slot", zap.String("op", op), zap.String("id", id), zap.Error(err))
		y.errs = append(y.errs, err)
		return
	}
	y.logger.Debug("slot synced", zap.String("op", op), zap.String("id", id))
}
