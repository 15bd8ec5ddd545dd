package tdlist

import (
	"encoding/json"
	"fmt"
)

// NoSuchItemError reports a remove/mutate request for a positional id that
// does not resolve to a live item.
type NoSuchItemError struct {
	Kind string // "todo" or "task"
	ID   uint64
}

func (e NoSuchItemError) Error() string {
	return fmt.Sprintf("no %s with id %d", e.Kind, e.ID)
}

// TdList is one replica of the full tracked-item state: a Todo collection and
// a Task collection plus a client/server role fixed at creation.
//
// Positional ids are dense indexes recomputed by every normalize sweep; they
// are stable between syncs but not across them.
type TdList struct {
	todos  syncList[Todo, *Todo]
	tasks  syncList[Task, *Task]
	server bool
}

// NewClientList creates an empty client-role replica. Client replicas keep
// removed items as tombstones until the next successful sync.
func NewClientList() *TdList {
	return &TdList{
		todos: newSyncList[Todo, *Todo](false),
		tasks: newSyncList[Task, *Task](false),
	}
}

// NewServerList creates an empty server-role replica. Server replicas drop
// removed items immediately.
func NewServerList() *TdList {
	return &TdList{
		todos:  newSyncList[Todo, *Todo](true),
		tasks:  newSyncList[Task, *Task](true),
		server: true,
	}
}

// FromJSON rebuilds a replica from its serialized document form.
func FromJSON(b []byte) (*TdList, error) {
	var l TdList
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ToJSON serializes the replica, including tombstones and change markers, for
// persistence and for transport.
func (l *TdList) ToJSON() ([]byte, error) {
	return json.Marshal(l)
}

func (l *TdList) IsServer() bool { return l.server }

// Todos returns mutable handles to all live todos, in positional order.
func (l *TdList) Todos() []*Todo { return l.todos.live() }

// Tasks returns mutable handles to all live tasks, in positional order.
func (l *TdList) Tasks() []*Task { return l.tasks.live() }

// AddTodo inserts the todo at the end of the collection, assigning the next
// positional id and marking it new.
func (l *TdList) AddTodo(t *Todo) {
	t.setID(uint64(len(l.todos.items)))
	l.todos.add(*t)
}

// AddTask inserts the task at the end of the collection, assigning the next
// positional id and marking it new.
func (l *TdList) AddTask(t *Task) {
	t.setID(uint64(len(l.tasks.items)))
	l.tasks.add(t.clone())
}

// RemoveTodo tombstones the todo with the given id (removes it immediately on
// a server-role replica).
func (l *TdList) RemoveTodo(id uint64) error {
	if !l.todos.markRemoved(id) {
		return NoSuchItemError{Kind: "todo", ID: id}
	}
	return nil
}

// RemoveTask tombstones the task with the given id (removes it immediately on
// a server-role replica).
func (l *TdList) RemoveTask(id uint64) error {
	if !l.tasks.markRemoved(id) {
		return NoSuchItemError{Kind: "task", ID: id}
	}
	return nil
}

// Todo returns a mutable handle to the todo with the given positional id.
// Mutating through the handle marks the todo changed for the next sync.
func (l *TdList) Todo(id uint64) (*Todo, bool) {
	t := l.todos.get(id)
	if t == nil || t.marker() == StateRemoved {
		return nil, false
	}
	return t, true
}

// Task returns a mutable handle to the task with the given positional id.
func (l *TdList) Task(id uint64) (*Task, bool) {
	t := l.tasks.get(id)
	if t == nil || t.marker() == StateRemoved {
		return nil, false
	}
	return t, true
}

// UndoneTodosForDate returns the live todos showing up for date that are not
// yet done.
func (l *TdList) UndoneTodosForDate(date Date) []*Todo {
	return l.undoneTodosOn(date, Today())
}

// DoneTodosForDate returns the live todos showing up for date that are done.
func (l *TdList) DoneTodosForDate(date Date) []*Todo {
	return l.doneTodosOn(date, Today())
}

func (l *TdList) undoneTodosOn(date, today Date) []*Todo {
	var out []*Todo
	for _, t := range l.todos.live() {
		if t.forDateOn(date, today) && !t.Done() {
			out = append(out, t)
		}
	}
	return out
}

func (l *TdList) doneTodosOn(date, today Date) []*Todo {
	var out []*Todo
	for _, t := range l.todos.live() {
		if t.forDateOn(date, today) && t.Done() {
			out = append(out, t)
		}
	}
	return out
}

// UndoneTasksForDate returns the live tasks recurring on date that are not
// done for it.
func (l *TdList) UndoneTasksForDate(date Date) []*Task {
	var out []*Task
	for _, t := range l.tasks.live() {
		if t.ForDate(date) && !t.Done(date) {
			out = append(out, t)
		}
	}
	return out
}

// DoneTasksForDate returns the live tasks recurring on date that are done
// for it.
func (l *TdList) DoneTasksForDate(date Date) []*Task {
	var out []*Task
	for _, t := range l.tasks.live() {
		if t.ForDate(date) && t.Done(date) {
			out = append(out, t)
		}
	}
	return out
}

// RemoveOldTodos tombstones every todo completed before yesterday: a todo
// becomes eligible for removal exactly one day after its completion. Runs
// automatically before every sync.
func (l *TdList) RemoveOldTodos() {
	l.removeOldTodosOn(Today())
}

func (l *TdList) removeOldTodosOn(today Date) {
	for i := range l.todos.items {
		if l.todos.items[i].canRemoveOn(today) {
			l.todos.items[i].state = StateRemoved
		}
	}
	if l.server {
		l.todos.dropRemoved()
	}
}

// SelfSync commits tombstones and normalizes both collections without a peer:
// removed items are dropped, ids renumbered, markers reset. Also removes old
// todos first.
func (l *TdList) SelfSync() {
	l.selfSyncOn(Today())
}

func (l *TdList) selfSyncOn(today Date) {
	l.removeOldTodosOn(today)
	l.todos.syncSelf()
	l.tasks.syncSelf()
}

// Sync reconciles this replica with other, leaving both sides with the same
// merged, normalized collections. Exactly one of the two replicas must have
// the server role; Sync panics otherwise. May change the positional ids on
// both sides.
func (l *TdList) Sync(other *TdList) {
	l.syncOn(other, Today())
}

func (l *TdList) syncOn(other *TdList, today Date) {
	l.removeOldTodosOn(today)
	other.removeOldTodosOn(today)

	l.todos.sync(&other.todos)
	l.tasks.sync(&other.tasks)
}

type tdListDoc struct {
	Todos  syncListDoc[Todo] `json:"todos"`
	Tasks  syncListDoc[Task] `json:"tasks"`
	Server bool              `json:"server"`
}

type syncListDoc[T any] struct {
	Items  []T  `json:"items"`
	Server bool `json:"server"`
}

func (l TdList) MarshalJSON() ([]byte, error) {
	return json.Marshal(tdListDoc{
		Todos:  syncListDoc[Todo]{Items: l.todos.items, Server: l.todos.server},
		Tasks:  syncListDoc[Task]{Items: l.tasks.items, Server: l.tasks.server},
		Server: l.server,
	})
}

func (l *TdList) UnmarshalJSON(b []byte) error {
	var doc tdListDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	l.todos = syncList[Todo, *Todo]{items: doc.Todos.Items, server: doc.Todos.Server}
	l.tasks = syncList[Task, *Task]{items: doc.Tasks.Items, server: doc.Tasks.Server}
	l.server = doc.Server
	return nil
}
