package tdlist

import (
	"encoding/json"
	"fmt"
)

// Todo is a one-shot item to be done on a specific date. The date is given as
// an upcoming weekday; without one the todo is for today. After its date has
// passed, an undone todo keeps showing up for the current day.
type Todo struct {
	body   string
	date   Date
	done   Date // zero when not done
	id     uint64
	syncID uint64
	state  ItemState
}

// NewTodo creates a Todo to be done today.
func NewTodo(body string) *Todo {
	return newTodoAt(body, Today())
}

// NewDatedTodo creates a Todo to be done on the upcoming weekday.
func NewDatedTodo(body string, weekday Weekday) *Todo {
	return newTodoAt(body, dateOfWeekday(weekday, Today()))
}

func newTodoAt(body string, date Date) *Todo {
	return &Todo{
		body:   body,
		date:   date,
		syncID: newSyncID(),
		state:  StateUnchanged,
	}
}

func (t *Todo) Body() string     { return t.body }
func (t *Todo) Date() Date       { return t.date }
func (t *Todo) Weekday() Weekday { return t.date.Weekday() }
func (t *Todo) ID() uint64       { return t.id }
func (t *Todo) SyncID() uint64   { return t.syncID }

// Done reports whether the todo has been completed.
func (t *Todo) Done() bool { return !t.done.IsZero() }

// DoneOn is the completion date, zero when the todo is not done.
func (t *Todo) DoneOn() Date { return t.done }

func (t *Todo) SetBody(body string) {
	t.body = body
	t.state = StateChanged
}

// SetWeekday moves the todo to the upcoming occurrence of weekday.
func (t *Todo) SetWeekday(weekday Weekday) {
	t.date = dateOfWeekday(weekday, Today())
	t.state = StateChanged
}

func (t *Todo) SetDone(done bool) {
	t.setDoneOn(done, Today())
}

func (t *Todo) setDoneOn(done bool, today Date) {
	if done {
		t.done = today
	} else {
		t.done = Date{}
	}
	t.state = StateChanged
}

// ForDate reports whether the todo should show up for the given date.
func (t *Todo) ForDate(date Date) bool {
	return t.forDateOn(date, Today())
}

// A todo is listed on its own date; once that date has passed it is listed on
// the current day only, so it cannot show up twice in a week view.
func (t *Todo) forDateOn(date, today Date) bool {
	return !date.Before(t.date) && (date == today || t.date.After(today))
}

// canRemoveOn reports whether the todo is eligible for removal: one full day
// must have passed since completion.
func (t *Todo) canRemoveOn(today Date) bool {
	return !t.done.IsZero() && today.After(t.done)
}

func (t *Todo) String() string {
	return fmt.Sprintf("%s (ID: %d)", t.body, t.id)
}

func (t *Todo) setID(id uint64)       { t.id = id }
func (t *Todo) marker() ItemState     { return t.state }
func (t *Todo) setMarker(s ItemState) { t.state = s }

func (t *Todo) valueEqual(o *Todo) bool {
	return t.body == o.body && t.date == o.date && t.done == o.done
}

func (t *Todo) copyValuesFrom(src *Todo) {
	t.body = src.body
	t.date = src.date
	t.done = src.done
}

func (t *Todo) clone() Todo { return *t }

type todoDoc struct {
	Body   string    `json:"body"`
	Date   Date      `json:"date"`
	Done   *Date     `json:"done,omitempty"`
	ID     uint64    `json:"id"`
	SyncID uint64    `json:"syncId"`
	State  ItemState `json:"state"`
}

func (t Todo) MarshalJSON() ([]byte, error) {
	doc := todoDoc{
		Body:   t.body,
		Date:   t.date,
		ID:     t.id,
		SyncID: t.syncID,
		State:  t.state,
	}
	if !t.done.IsZero() {
		done := t.done
		doc.Done = &done
	}
	return json.Marshal(doc)
}

func (t *Todo) UnmarshalJSON(b []byte) error {
	var doc todoDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*t = Todo{
		body:   doc.Body,
		date:   doc.Date,
		id:     doc.ID,
		syncID: doc.SyncID,
		state:  doc.State,
	}
	if doc.Done != nil {
		t.done = *doc.Done
	}
	return nil
}
