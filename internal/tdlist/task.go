package tdlist

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Task is a recurring item for the given weekday(s). Duplicate weekdays are
// allowed; completion is tracked per weekday, so duplicates collapse there.
type Task struct {
	body     string
	weekdays []Weekday
	doneMap  map[Weekday]Date
	id       uint64
	syncID   uint64
	state    ItemState
}

// NewTask creates a Task recurring on the given weekdays. At least one
// weekday is required.
func NewTask(body string, weekdays []Weekday) (*Task, error) {
	if len(weekdays) == 0 {
		return nil, errors.New("task needs at least one weekday")
	}
	return &Task{
		body:     body,
		weekdays: append([]Weekday(nil), weekdays...),
		doneMap:  make(map[Weekday]Date),
		syncID:   newSyncID(),
		state:    StateUnchanged,
	}, nil
}

func (t *Task) Body() string   { return t.body }
func (t *Task) ID() uint64     { return t.id }
func (t *Task) SyncID() uint64 { return t.syncID }

// Weekdays returns the task's weekdays in order, duplicates included.
func (t *Task) Weekdays() []Weekday {
	return append([]Weekday(nil), t.weekdays...)
}

func (t *Task) SetBody(body string) {
	t.body = body
	t.state = StateChanged
}

func (t *Task) SetWeekdays(weekdays []Weekday) {
	t.weekdays = append([]Weekday(nil), weekdays...)
	t.state = StateChanged
}

func (t *Task) AddWeekday(weekday Weekday) {
	// Duplicates are fine.
	t.weekdays = append(t.weekdays, weekday)
	t.state = StateChanged
}

// RemoveWeekday removes every occurrence of weekday from the task. Removing a
// weekday that is not listed does nothing (but still marks the task changed).
func (t *Task) RemoveWeekday(weekday Weekday) {
	kept := make([]Weekday, 0, len(t.weekdays))
	for _, wd := range t.weekdays {
		if wd != weekday {
			kept = append(kept, wd)
		}
	}
	t.SetWeekdays(kept)
}

// ForDate reports whether the task recurs on the given date's weekday.
func (t *Task) ForDate(date Date) bool {
	for _, wd := range t.weekdays {
		if wd == date.Weekday() {
			return true
		}
	}
	return false
}

// Done reports whether the task is done for the given date. A task is
// vacuously done for dates it does not recur on.
func (t *Task) Done(date Date) bool {
	if !t.ForDate(date) {
		return true
	}
	d, ok := t.doneMap[date.Weekday()]
	return ok && !d.Before(date)
}

// SetDone marks the task's weekday-occurrence done (or not done) for the
// given date.
func (t *Task) SetDone(done bool, date Date) {
	if done {
		t.doneMap[date.Weekday()] = date
	} else {
		delete(t.doneMap, date.Weekday())
	}
	t.state = StateChanged
}

func (t *Task) String() string {
	return fmt.Sprintf("%s (ID: %d)", t.body, t.id)
}

func (t *Task) setID(id uint64)       { t.id = id }
func (t *Task) marker() ItemState     { return t.state }
func (t *Task) setMarker(s ItemState) { t.state = s }

func (t *Task) valueEqual(o *Task) bool {
	if t.body != o.body || len(t.weekdays) != len(o.weekdays) || len(t.doneMap) != len(o.doneMap) {
		return false
	}
	for i, wd := range t.weekdays {
		if o.weekdays[i] != wd {
			return false
		}
	}
	for wd, d := range t.doneMap {
		if od, ok := o.doneMap[wd]; !ok || od != d {
			return false
		}
	}
	return true
}

func (t *Task) copyValuesFrom(src *Task) {
	t.body = src.body
	t.weekdays = append([]Weekday(nil), src.weekdays...)
	t.doneMap = make(map[Weekday]Date, len(src.doneMap))
	for wd, d := range src.doneMap {
		t.doneMap[wd] = d
	}
}

func (t *Task) clone() Task {
	c := *t
	c.weekdays = append([]Weekday(nil), t.weekdays...)
	c.doneMap = make(map[Weekday]Date, len(t.doneMap))
	for wd, d := range t.doneMap {
		c.doneMap[wd] = d
	}
	return c
}

type taskDoc struct {
	Body     string           `json:"body"`
	Weekdays []Weekday        `json:"weekdays"`
	DoneMap  map[Weekday]Date `json:"doneMap"`
	ID       uint64           `json:"id"`
	SyncID   uint64           `json:"syncId"`
	State    ItemState        `json:"state"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskDoc{
		Body:     t.body,
		Weekdays: t.weekdays,
		DoneMap:  t.doneMap,
		ID:       t.id,
		SyncID:   t.syncID,
		State:    t.state,
	})
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var doc taskDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*t = Task{
		body:     doc.Body,
		weekdays: doc.Weekdays,
		doneMap:  doc.DoneMap,
		id:       doc.ID,
		syncID:   doc.SyncID,
		state:    doc.State,
	}
	if t.doneMap == nil {
		t.doneMap = make(map[Weekday]Date)
	}
	return nil
}
