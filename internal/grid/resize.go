package grid

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// Resize session errors.
var (
	ErrNotResizable = errors.New("all-day slots cannot be resized")
	ErrSessionEnded = errors.New("resize session has already ended")
)

// Point is a pointer position expressed as a grid offset.
type Point struct {
	Y int
}

// PointerListener receives pointer events while a drag is in progress.
type PointerListener interface {
	PointerMoved(p Point)
	PointerReleased(p Point)
	// PointerLost is called when the source can no longer deliver a release,
	// for example when the window loses focus mid-drag.
	PointerLost()
}

// PointerSource delivers pointer events to registered listeners.
// Listen returns a function that unregisters the listener; calling it more
// than once is safe.
type PointerSource interface {
	Listen(l PointerListener) (release func())
}

// Resizer applies a committed duration. *slot.Service satisfies it.
type Resizer interface {
	Resize(date time.Time, id string, durationMinutes int) slot.Outcome
}

// SessionState is the lifecycle position of a ResizeSession.
type SessionState int

const (
	SessionActive SessionState = iota
	SessionCommitted
	SessionAborted
)

func (s SessionState) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionCommitted:
		return "committed"
	case SessionAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ResizeSession is one drag-to-resize interaction on a timed slot:
//
//	BeginResize -> Sample* -> Commit | Abort
//
// The session listens on its pointer source from BeginResize until it ends.
// Every exit path (Commit, Abort, Close, a lost pointer) releases the
// listener, so an unfinished drag never leaks.
type ResizeSession struct {
	mapper Mapper
	bounds slot.Bounds
	target Resizer
	logger *zap.Logger

	date     time.Time
	slotID   string
	origin   Point
	original int

	provisional int
	state       SessionState
	outcome     slot.Outcome
	release     func()
	onSample    func(minutes int)
	onEnd       func(*ResizeSession)
}

// SessionOption configures a ResizeSession.
type SessionOption func(*ResizeSession)

// WithBounds sets the clamp range used for provisional durations.
// It should match the bounds of the Resizer.
func WithBounds(b slot.Bounds) SessionOption {
	return func(s *ResizeSession) { s.bounds = b }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *ResizeSession) {
		if l != nil {
			s.logger = l
		}
	}
}

// OnSample registers a callback receiving every provisional duration, for
// live feedback while dragging.
func OnSample(fn func(minutes int)) SessionOption {
	return func(s *ResizeSession) { s.onSample = fn }
}

// OnEnd registers a callback run once when the session commits or aborts.
func OnEnd(fn func(*ResizeSession)) SessionOption {
	return func(s *ResizeSession) { s.onEnd = fn }
}

// BeginResize starts resizing sl, which lives on date, from pointer position
// at. It registers with src and returns ErrNotResizable for all-day slots.
func BeginResize(src PointerSource, target Resizer, m Mapper, date time.Time, sl slot.TimeSlot, at Point, opts ...SessionOption) (*ResizeSession, error) {
	if sl.IsAllDay {
		return nil, ErrNotResizable
	}

	s := &ResizeSession{
		mapper:      m,
		bounds:      slot.DefaultBounds(),
		target:      target,
		logger:      zap.NewNop(),
		date:        dateutil.Date(date),
		slotID:      sl.ID,
		origin:      at,
		original:    sl.DurationMinutes,
		provisional: sl.DurationMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.release = src.Listen(sessionListener{s})
	s.logger.Debug("resize started",
		zap.String("id", s.slotID),
		zap.Int("duration", s.original),
		zap.Int("y", at.Y),
	)
	return s, nil
}

// SlotID returns the id of the slot being resized.
func (s *ResizeSession) SlotID() string {
	return s.slotID
}

// Date returns the date of the slot being resized.
func (s *ResizeSession) Date() time.Time {
	return s.date
}

// State returns the lifecycle state.
func (s *ResizeSession) State() SessionState {
	return s.state
}

// Active reports whether the session is still accepting samples.
func (s *ResizeSession) Active() bool {
	return s.state == SessionActive
}

// Original returns the duration the slot had when the drag began.
func (s *ResizeSession) Original() int {
	return s.original
}

// Provisional returns the latest sampled duration.
func (s *ResizeSession) Provisional() int {
	return s.provisional
}

// Outcome returns the result of the commit. It is only meaningful once the
// session is committed.
func (s *ResizeSession) Outcome() slot.Outcome {
	return s.outcome
}

// Sample computes the provisional duration for pointer position p: the
// original duration grown by the vertical travel, snapped and clamped.
// Samples after the session ended are ignored.
func (s *ResizeSession) Sample(p Point) int {
	if s.state != SessionActive {
		return s.provisional
	}
	s.provisional = s.durationAt(p)
	if s.onSample != nil {
		s.onSample(s.provisional)
	}
	return s.provisional
}

// Commit samples p one last time, releases the pointer listener and applies
// the final duration through the Resizer.
func (s *ResizeSession) Commit(p Point) (slot.Outcome, error) {
	if s.state != SessionActive {
		return s.outcome, ErrSessionEnded
	}
	final := s.Sample(p)
	s.end(SessionCommitted)

	s.outcome = s.target.Resize(s.date, s.slotID, final)
	s.logger.Debug("resize committed",
		zap.String("id", s.slotID),
		zap.Int("duration", final),
		zap.Stringer("outcome", s.outcome),
	)
	s.finished()
	return s.outcome, nil
}

// Abort ends the session without changing the slot. Aborting an ended
// session is a no-op.
func (s *ResizeSession) Abort() {
	if s.state != SessionActive {
		return
	}
	s.provisional = s.original
	s.end(SessionAborted)
	s.logger.Debug("resize aborted", zap.String("id", s.slotID))
	s.finished()
}

// Close releases the session. It aborts a live drag and is safe to call on
// an ended session.
func (s *ResizeSession) Close() error {
	s.Abort()
	return nil
}

func (s *ResizeSession) durationAt(p Point) int {
	grown := s.mapper.DurationToHeight(s.original) + (p.Y - s.origin.Y)
	return s.bounds.Clamp(s.mapper.HeightToDuration(grown))
}

func (s *ResizeSession) end(state SessionState) {
	s.state = state
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

func (s *ResizeSession) finished() {
	if s.onEnd != nil {
		s.onEnd(s)
	}
}

// sessionListener keeps the listener methods off the session's public API.
type sessionListener struct {
	s *ResizeSession
}

func (l sessionListener) PointerMoved(p Point) {
	l.s.Sample(p)
}

func (l sessionListener) PointerReleased(p Point) {
	if _, err := l.s.Commit(p); err != nil {
		l.s.logger.Debug("release after session end", zap.String("id", l.s.slotID))
	}
}

func (l sessionListener) PointerLost() {
	l.s.Abort()
}
