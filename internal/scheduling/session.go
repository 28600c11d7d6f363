// Package scheduling wires one scheduling session: the slot store and its
// mutation service, the view controller, the grid mapper and the pointer bus
// used for drag-to-resize.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/config"
	"github.com/javiermolinar/slotboard/internal/grid"
	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/view"
)

// Session errors.
var (
	ErrResizeInProgress = errors.New("a resize is already in progress")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrClosed           = errors.New("scheduling session is closed")
)

// Session owns the state of one scheduling session. It has a single active
// editor and is not safe for concurrent use.
type Session struct {
	cfg     *config.Config
	logger  *zap.Logger
	now     func() time.Time
	extra    []slot.Observer
	onSelect []view.SelectFunc
	store   *slot.Store
	service *slot.Service
	view    *view.Controller
	mapper  grid.Mapper
	bus     *grid.Bus

	resize  *grid.ResizeSession
	cancels []func()
	closed  bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger shared by every component of the session.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithObserver registers an observer for slot mutations, such as a Syncer.
func WithObserver(o slot.Observer) Option {
	return func(s *Session) { s.extra = append(s.extra, o) }
}

// OnSlotSelected registers fn to run whenever a slot becomes selected in
// the session's view controller.
func OnSlotSelected(fn view.SelectFunc) Option {
	return func(s *Session) { s.onSelect = append(s.onSelect, fn) }
}

// New builds a session from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Session{
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.store = slot.NewStore()
	s.service = slot.NewService(s.store,
		slot.WithBounds(cfg.DurationBounds()),
		slot.WithLogger(s.logger.Named("slots")),
	)
	viewOpts := []view.Option{
		view.WithClock(s.now),
		view.WithLogger(s.logger.Named("view")),
	}
	for _, fn := range s.onSelect {
		viewOpts = append(viewOpts, view.OnSelect(fn))
	}
	s.view = view.New(s.store, viewOpts...)
	s.mapper = grid.NewMapper(cfg.GridGeometry())
	s.bus = grid.NewBus()

	// The controller observes first so selection is consistent before
	// storage observers run.
	s.cancels = append(s.cancels, s.service.Observe(s.view))
	for _, o := range s.extra {
		s.cancels = append(s.cancels, s.service.Observe(o))
	}
	return s
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Service returns the mutation service.
func (s *Session) Service() *slot.Service { return s.service }

// Store returns the read side of the slot store.
func (s *Session) Store() *slot.Store { return s.store }

// View returns the view controller.
func (s *Session) View() *view.Controller { return s.view }

// Mapper returns the grid mapper.
func (s *Session) Mapper() grid.Mapper { return s.mapper }

// Bus returns the pointer bus drag sessions listen on.
func (s *Session) Bus() *grid.Bus { return s.bus }

// Seed replaces the store contents with groups.
func (s *Session) Seed(groups []slot.DaySlotGroup) error {
	if s.closed {
		return ErrClosed
	}
	return s.service.Seed(groups)
}

// Load seeds the session with every group stored in repo.
func (s *Session) Load(ctx context.Context, repo slot.Repository) error {
	groups, err := repo.LoadAllGroups(ctx)
	if err != nil {
		return fmt.Errorf("loading slots: %w", err)
	}
	if err := s.Seed(groups); err != nil {
		return fmt.Errorf("seeding session: %w", err)
	}
	return nil
}

// BeginResize starts dragging the lower edge of slot id on date from grid
// offset y. Only one drag may be live at a time.
func (s *Session) BeginResize(date time.Time, id string, y int, opts ...grid.SessionOption) (*grid.ResizeSession, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.resize != nil && s.resize.Active() {
		return nil, ErrResizeInProgress
	}
	sl, ok := s.store.Slot(date, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}

	opts = append([]grid.SessionOption{
		grid.WithBounds(s.service.Bounds()),
		grid.WithLogger(s.logger.Named("resize")),
	}, opts...)
	rs, err := grid.BeginResize(s.bus, s.service, s.mapper, date, sl, grid.Point{Y: y}, opts...)
	if err != nil {
		return nil, err
	}
	s.resize = rs
	return rs, nil
}

// ActiveResize returns the live drag session, if any.
func (s *Session) ActiveResize() (*grid.ResizeSession, bool) {
	if s.resize == nil || !s.resize.Active() {
		return nil, false
	}
	return s.resize, true
}

// Close aborts a live drag, releases its pointer listener and detaches every
// observer. Closing twice is safe.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.resize != nil {
		s.resize.Abort()
		s.resize = nil
	}
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.logger.Debug("scheduling session closed")
	return nil
}
