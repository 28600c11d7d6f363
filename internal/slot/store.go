package slot

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/slotboard/internal/dateutil"
)

// Store holds the slots of one scheduling session, grouped by date.
//
// Readers always receive copies. Structural changes go through Service, which
// keeps ids unique, durations clamped and at most one group per date. A group
// emptied by deletion is pruned, so "has slots" and "has a group" are the same
// question.
type Store struct {
	groups map[string]*group // ISO date -> group
	index  map[string]string // slot id -> ISO date
	seq    map[string]int    // ISO date -> last sequence number handed out
}

type group struct {
	date  time.Time
	slots []TimeSlot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		groups: make(map[string]*group),
		index:  make(map[string]string),
		seq:    make(map[string]int),
	}
}

// Len returns the total number of slots.
func (s *Store) Len() int {
	return len(s.index)
}

// Slots returns a copy of the slots on date, in insertion order.
func (s *Store) Slots(date time.Time) []TimeSlot {
	g, ok := s.groups[dateutil.Format(date)]
	if !ok {
		return nil
	}
	return slices.Clone(g.slots)
}

// Slot returns the slot with id on date.
func (s *Store) Slot(date time.Time, id string) (TimeSlot, bool) {
	g, ok := s.groups[dateutil.Format(date)]
	if !ok {
		return TimeSlot{}, false
	}
	if i := g.find(id); i >= 0 {
		return g.slots[i], true
	}
	return TimeSlot{}, false
}

// Locate returns the date and contents of the slot with id, wherever it is.
func (s *Store) Locate(id string) (time.Time, TimeSlot, bool) {
	key, ok := s.index[id]
	if !ok {
		return time.Time{}, TimeSlot{}, false
	}
	g := s.groups[key]
	return g.date, g.slots[g.find(id)], true
}

// Count returns the number of slots on date.
func (s *Store) Count(date time.Time) int {
	if g, ok := s.groups[dateutil.Format(date)]; ok {
		return len(g.slots)
	}
	return 0
}

// HasSlots reports whether date has at least one slot.
func (s *Store) HasSlots(date time.Time) bool {
	return s.Count(date) > 0
}

// Groups returns a copy of every group, ordered by date.
func (s *Store) Groups() []DaySlotGroup {
	keys := make([]string, 0, len(s.groups))
	for k := range s.groups {
		keys = append(keys, k)
	}
	// ISO dates sort lexically.
	slices.Sort(keys)

	out := make([]DaySlotGroup, 0, len(keys))
	for _, k := range keys {
		g := s.groups[k]
		out = append(out, DaySlotGroup{Date: g.date, Slots: slices.Clone(g.slots)})
	}
	return out
}

// GroupsBetween returns copies of the groups dated within [from, to].
func (s *Store) GroupsBetween(from, to time.Time) []DaySlotGroup {
	lo, hi := dateutil.Format(from), dateutil.Format(to)
	var out []DaySlotGroup
	for _, g := range s.Groups() {
		if k := g.Key(); k >= lo && k <= hi {
			out = append(out, g)
		}
	}
	return out
}

// load replaces the store contents with the given groups.
// Groups sharing a date are merged in order. A repeated slot id is an
// invariant violation and leaves the store untouched.
func (s *Store) load(groups []DaySlotGroup, b Bounds) error {
	next := NewStore()
	for _, in := range groups {
		key := dateutil.Format(in.Date)
		for _, raw := range in.Slots {
			if raw.ID == "" {
				return fmt.Errorf("%w: slot on %s has no id", ErrInvariantViolation, key)
			}
			if prev, dup := next.index[raw.ID]; dup {
				return fmt.Errorf("%w: duplicate slot id %q on %s and %s", ErrInvariantViolation, raw.ID, prev, key)
			}
			sl, err := normalize(raw.Fields(), b)
			if err != nil {
				return fmt.Errorf("seeding slot %q: %w", raw.ID, err)
			}
			sl.ID = raw.ID
			next.put(in.Date, sl)
			next.observeID(key, raw.ID)
		}
	}
	*s = *next
	return nil
}

// insert appends a new slot to date's group, creating the group if needed.
func (s *Store) insert(date time.Time, sl TimeSlot) TimeSlot {
	sl.ID = s.mintID(dateutil.Format(date))
	s.put(date, sl)
	return sl
}

// replace overwrites the slot with the same id on date.
func (s *Store) replace(date time.Time, sl TimeSlot) bool {
	g, ok := s.groups[dateutil.Format(date)]
	if !ok {
		return false
	}
	i := g.find(sl.ID)
	if i < 0 {
		return false
	}
	g.slots[i] = sl
	return true
}

// remove deletes the slot with id from date's group.
func (s *Store) remove(date time.Time, id string) bool {
	key := dateutil.Format(date)
	g, ok := s.groups[key]
	if !ok {
		return false
	}
	i := g.find(id)
	if i < 0 {
		return false
	}
	g.slots = slices.Delete(g.slots, i, i+1)
	delete(s.index, id)
	if len(g.slots) == 0 {
		delete(s.groups, key)
	}
	return true
}

func (s *Store) put(date time.Time, sl TimeSlot) {
	key := dateutil.Format(date)
	if _, dup := s.index[sl.ID]; dup {
		panic(fmt.Errorf("%w: slot id %q already stored", ErrInvariantViolation, sl.ID))
	}
	g, ok := s.groups[key]
	if !ok {
		g = &group{date: dateutil.Date(date)}
		s.groups[key] = g
	}
	g.slots = append(g.slots, sl)
	s.index[sl.ID] = key
}

// mintID returns "<date>-<n>" using the date's next free sequence number.
// Sequence numbers are never reused for a date, even after its group is pruned.
func (s *Store) mintID(key string) string {
	for {
		s.seq[key]++
		id := key + "-" + strconv.Itoa(s.seq[key])
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// observeID advances the date's sequence past a seeded id of the minted form.
func (s *Store) observeID(key, id string) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, key+"-"))
	if err != nil || !strings.HasPrefix(id, key+"-") {
		return
	}
	if n > s.seq[key] {
		s.seq[key] = n
	}
}

func (g *group) find(id string) int {
	return slices.IndexFunc(g.slots, func(s TimeSlot) bool { return s.ID == id })
}
