package slot

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/dateutil"
)

// Outcome reports what a mutation did. A missing target is an expected
// situation (it may already be gone) and is not an error.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeNotResizable
	OutcomeInvalid // fields rejected, nothing changed
)

// OK reports whether the mutation was applied.
func (o Outcome) OK() bool {
	return o == OutcomeOK
}

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not found"
	case OutcomeNotResizable:
		return "not resizable"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Observer is notified after every applied mutation.
// Hosts use it to mirror changes into durable storage.
type Observer interface {
	SlotCreated(date time.Time, s TimeSlot)
	SlotUpdated(date time.Time, s TimeSlot)
	SlotResized(date time.Time, id string, durationMinutes int)
	SlotDeleted(date time.Time, id string)
}

// Hooks adapts plain functions to Observer. Nil hooks are skipped.
type Hooks struct {
	Created func(date time.Time, s TimeSlot)
	Updated func(date time.Time, s TimeSlot)
	Resized func(date time.Time, id string, durationMinutes int)
	Deleted func(date time.Time, id string)
}

func (h Hooks) SlotCreated(date time.Time, s TimeSlot) {
	if h.Created != nil {
		h.Created(date, s)
	}
}

func (h Hooks) SlotUpdated(date time.Time, s TimeSlot) {
	if h.Updated != nil {
		h.Updated(date, s)
	}
}

func (h Hooks) SlotResized(date time.Time, id string, durationMinutes int) {
	if h.Resized != nil {
		h.Resized(date, id, durationMinutes)
	}
}

func (h Hooks) SlotDeleted(date time.Time, id string) {
	if h.Deleted != nil {
		h.Deleted(date, id)
	}
}

// Service is the only writer of a Store.
// It is not safe for concurrent use: a session has a single active editor.
type Service struct {
	store     *Store
	bounds    Bounds
	logger    *zap.Logger
	observers []*observerEntry
}

type observerEntry struct {
	Observer
}

// Option configures a Service.
type Option func(*Service)

// WithBounds sets the clamp range for timed durations.
func WithBounds(b Bounds) Option {
	return func(s *Service) { s.bounds = b }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observers = append(s.observers, &observerEntry{o}) }
}

// NewService creates a Service writing to store.
func NewService(store *Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		bounds: DefaultBounds(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the store for read access.
func (s *Service) Store() *Store {
	return s.store
}

// Bounds returns the duration clamp range.
func (s *Service) Bounds() Bounds {
	return s.bounds
}

// Observe registers o and returns a function that unregisters it.
func (s *Service) Observe(o Observer) (cancel func()) {
	e := &observerEntry{o}
	s.observers = append(s.observers, e)
	return func() {
		s.observers = slices.DeleteFunc(s.observers, func(x *observerEntry) bool { return x == e })
	}
}

// Seed replaces the store contents with groups supplied by the host.
// It fails with ErrInvariantViolation when a slot id repeats.
func (s *Service) Seed(groups []DaySlotGroup) error {
	if err := s.store.load(groups, s.bounds); err != nil {
		s.logger.Error("seeding slot store", zap.Error(err))
		return err
	}
	s.logger.Debug("slot store seeded", zap.Int("groups", len(groups)), zap.Int("slots", s.store.Len()))
	return nil
}

// Slots returns a copy of the slots on date.
func (s *Service) Slots(date time.Time) []TimeSlot {
	return s.store.Slots(date)
}

// Create adds a slot on date and returns it with its minted id.
// Timed durations are clamped into bounds; all-day slots are forced to
// 00:00 for 1440 minutes.
func (s *Service) Create(date time.Time, f Fields) (TimeSlot, error) {
	sl, err := normalize(f, s.bounds)
	if err != nil {
		return TimeSlot{}, err
	}
	s.logClamp("create", f, sl)

	sl = s.store.insert(date, sl)
	s.logger.Debug("slot created",
		zap.String("date", dateutil.Format(date)),
		zap.String("id", sl.ID),
		zap.String("start", sl.StartTime),
		zap.Int("duration", sl.DurationMinutes),
	)
	s.notify(func(o Observer) { o.SlotCreated(dateutil.Date(date), sl) })
	return sl, nil
}

// Update replaces every editable field of a slot. Fields that fail
// validation leave the slot untouched and report OutcomeInvalid with the error.
func (s *Service) Update(date time.Time, id string, f Fields) (Outcome, error) {
	if _, ok := s.store.Slot(date, id); !ok {
		s.logMissing("update", date, id)
		return OutcomeNotFound, nil
	}
	sl, err := normalize(f, s.bounds)
	if err != nil {
		return OutcomeInvalid, err
	}
	s.logClamp("update", f, sl)

	sl.ID = id
	s.store.replace(date, sl)
	s.logger.Debug("slot updated", zap.String("date", dateutil.Format(date)), zap.String("id", id))
	s.notify(func(o Observer) { o.SlotUpdated(dateutil.Date(date), sl) })
	return OutcomeOK, nil
}

// Resize sets the duration of a timed slot, clamped into bounds.
// All-day slots are left untouched and report OutcomeNotResizable.
func (s *Service) Resize(date time.Time, id string, durationMinutes int) Outcome {
	sl, ok := s.store.Slot(date, id)
	if !ok {
		s.logMissing("resize", date, id)
		return OutcomeNotFound
	}
	if sl.IsAllDay {
		s.logger.Debug("all-day slot not resizable", zap.String("id", id))
		return OutcomeNotResizable
	}

	clamped := s.bounds.Clamp(durationMinutes)
	if clamped != durationMinutes {
		s.logger.Debug("duration clamped",
			zap.String("id", id),
			zap.Int("requested", durationMinutes),
			zap.Int("applied", clamped),
		)
	}
	sl.DurationMinutes = clamped
	s.store.replace(date, sl)
	s.notify(func(o Observer) { o.SlotResized(dateutil.Date(date), id, clamped) })
	return OutcomeOK
}

// Delete removes a slot. Deleting a slot that is already gone is a no-op
// reporting OutcomeNotFound.
func (s *Service) Delete(date time.Time, id string) Outcome {
	if !s.store.remove(date, id) {
		s.logMissing("delete", date, id)
		return OutcomeNotFound
	}
	s.logger.Debug("slot deleted", zap.String("date", dateutil.Format(date)), zap.String("id", id))
	s.notify(func(o Observer) { o.SlotDeleted(dateutil.Date(date), id) })
	return OutcomeOK
}

// notify calls fn for each observer registered when the mutation finished.
// Observers may unregister themselves from inside the callback.
func (s *Service) notify(fn func(Observer)) {
	for _, e := range slices.Clone(s.observers) {
		fn(e.Observer)
	}
}

func (s *Service) logMissing(op string, date time.Time, id string) {
	s.logger.Debug("slot not found",
		zap.String("op", op),
		zap.String("date", dateutil.Format(date)),
		zap.String("id", id),
	)
}

func (s *Service) logClamp(op string, f Fields, sl TimeSlot) {
	if f.IsAllDay || f.DurationMinutes == sl.DurationMinutes {
		return
	}
	s.logger.Debug("duration clamped",
		zap.String("op", op),
		zap.Int("requested", f.DurationMinutes),
		zap.Int("applied", sl.DurationMinutes),
	)
}
