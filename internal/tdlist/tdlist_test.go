package tdlist

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustTask(t *testing.T, body string, weekdays []Weekday) *Task {
	t.Helper()
	task, err := NewTask(body, weekdays)
	if err != nil {
		t.Fatalf("NewTask(%q): %v", body, err)
	}
	return task
}

// fixtureList builds the mixed done/undone fixture used across tests.
// 2021-04-01 is a Thursday.
func fixtureList(t *testing.T, role func() *TdList) *TdList {
	t.Helper()
	l := role()

	l.AddTodo(newTodoAt("Undone 1", NewDate(2021, time.April, 1)))
	l.AddTodo(newTodoAt("Undone 2", NewDate(2021, time.March, 29)))
	l.AddTodo(newTodoAt("Done 1", NewDate(2021, time.April, 1)))
	l.AddTodo(newTodoAt("Done 2", NewDate(2021, time.March, 30)))

	done := NewDate(2021, time.April, 1)
	if todo, ok := l.Todo(2); ok {
		todo.setDoneOn(true, done)
	}
	if todo, ok := l.Todo(3); ok {
		todo.setDoneOn(true, done)
	}

	l.AddTask(mustTask(t, "Undone 1", []Weekday{Thursday}))
	l.AddTask(mustTask(t, "Done 1", []Weekday{Thursday}))
	if task, ok := l.Task(1); ok {
		task.SetDone(true, done)
	}

	return l
}

func todoBodies(l *TdList) []string {
	var out []string
	for _, todo := range l.Todos() {
		out = append(out, todo.Body())
	}
	return out
}

func taskBodies(l *TdList) []string {
	var out []string
	for _, task := range l.Tasks() {
		out = append(out, task.Body())
	}
	return out
}

func TestAddTodoAssignsDenseIDs(t *testing.T) {
	l := NewClientList()
	l.AddTodo(NewTodo("Todo 0"))
	l.AddTodo(NewTodo("Todo 1"))
	l.AddTodo(NewTodo("Todo 2"))

	for i, todo := range l.Todos() {
		if todo.ID() != uint64(i) {
			t.Fatalf("todo %d has id %d", i, todo.ID())
		}
	}
}

func TestRemovedTodosNotVisible(t *testing.T) {
	l := NewClientList()
	l.AddTodo(NewTodo("Todo 0"))
	l.AddTodo(NewTodo("Todo 1"))
	l.AddTodo(NewTodo("Todo 2"))

	if err := l.RemoveTodo(1); err != nil {
		t.Fatalf("RemoveTodo: %v", err)
	}

	if diff := cmp.Diff([]string{"Todo 0", "Todo 2"}, todoBodies(l)); diff != "" {
		t.Fatalf("todos mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveTodoUnknownID(t *testing.T) {
	l := NewClientList()
	l.AddTodo(NewTodo("Todo 0"))

	err := l.RemoveTodo(7)
	if err == nil {
		t.Fatalf("expected error for unknown id")
	}
	var nf NoSuchItemError
	if !errors.As(err, &nf) || nf.Kind != "todo" || nf.ID != 7 {
		t.Fatalf("got %v, want NoSuchItemError for todo 7", err)
	}

	// Removing an already-tombstoned todo is also an error.
	if err := l.RemoveTodo(0); err != nil {
		t.Fatalf("RemoveTodo: %v", err)
	}
	if err := l.RemoveTodo(0); err == nil {
		t.Fatalf("expected error for already removed id")
	}
}

func TestAddTaskAssignsDenseIDs(t *testing.T) {
	l := NewClientList()
	l.AddTask(mustTask(t, "Task 0", []Weekday{Monday}))
	l.AddTask(mustTask(t, "Task 1", []Weekday{Monday}))
	l.AddTask(mustTask(t, "Task 2", []Weekday{Monday}))

	for i, task := range l.Tasks() {
		if task.ID() != uint64(i) {
			t.Fatalf("task %d has id %d", i, task.ID())
		}
	}
}

func TestRemovedTasksNotVisible(t *testing.T) {
	l := NewClientList()
	l.AddTask(mustTask(t, "Task 0", []Weekday{Monday}))
	l.AddTask(mustTask(t, "Task 1", []Weekday{Monday}))
	l.AddTask(mustTask(t, "Task 2", []Weekday{Monday}))

	if err := l.RemoveTask(1); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}

	if diff := cmp.Diff([]string{"Task 0", "Task 2"}, taskBodies(l)); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestUndoneTodosForDate(t *testing.T) {
	l := fixtureList(t, NewClientList)
	day := NewDate(2021, time.April, 1)

	got := todoBodiesOf(l.undoneTodosOn(day, day))
	if diff := cmp.Diff([]string{"Undone 1", "Undone 2"}, got); diff != "" {
		t.Fatalf("undone todos mismatch (-want +got):\n%s", diff)
	}
}

func TestDoneTodosForDate(t *testing.T) {
	l := fixtureList(t, NewClientList)
	day := NewDate(2021, time.April, 1)

	got := todoBodiesOf(l.doneTodosOn(day, day))
	if diff := cmp.Diff([]string{"Done 1", "Done 2"}, got); diff != "" {
		t.Fatalf("done todos mismatch (-want +got):\n%s", diff)
	}
}

func todoBodiesOf(todos []*Todo) []string {
	var out []string
	for _, todo := range todos {
		out = append(out, todo.Body())
	}
	return out
}

func TestUndoneTasksForDate(t *testing.T) {
	l := fixtureList(t, NewClientList)
	day := NewDate(2021, time.April, 1)

	got := l.UndoneTasksForDate(day)
	if len(got) != 1 || got[0].Body() != "Undone 1" {
		t.Fatalf("undone tasks: got %v", got)
	}
}

func TestDoneTasksForDate(t *testing.T) {
	l := fixtureList(t, NewClientList)
	day := NewDate(2021, time.April, 1)

	got := l.DoneTasksForDate(day)
	if len(got) != 1 || got[0].Body() != "Done 1" {
		t.Fatalf("done tasks: got %v", got)
	}
}

func TestRemoveOldTodosAfterOneDay(t *testing.T) {
	l := fixtureList(t, NewClientList)

	// On the completion day itself nothing is eligible.
	l.removeOldTodosOn(NewDate(2021, time.April, 1))
	if got := len(l.Todos()); got != 4 {
		t.Fatalf("after same-day sweep: %d todos, want 4", got)
	}

	// One day later the completed todos become tombstones.
	l.removeOldTodosOn(NewDate(2021, time.April, 2))
	if diff := cmp.Diff([]string{"Undone 1", "Undone 2"}, todoBodies(l)); diff != "" {
		t.Fatalf("todos mismatch (-want +got):\n%s", diff)
	}
}

func TestClientSelfSyncCommitsTombstones(t *testing.T) {
	l := fixtureList(t, NewClientList)

	l.removeOldTodosOn(NewDate(2021, time.April, 2))
	if err := l.RemoveTask(1); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}

	// Client role keeps tombstones in the backing slices until a sync.
	if got := len(l.todos.items); got != 4 {
		t.Fatalf("backing todos = %d, want 4 (tombstones retained)", got)
	}
	if got := len(l.tasks.items); got != 2 {
		t.Fatalf("backing tasks = %d, want 2 (tombstones retained)", got)
	}

	l.selfSyncOn(NewDate(2021, time.April, 2))

	if got := len(l.todos.items); got != 2 {
		t.Fatalf("backing todos = %d, want 2 after self sync", got)
	}
	if got := len(l.tasks.items); got != 1 {
		t.Fatalf("backing tasks = %d, want 1 after self sync", got)
	}
}

func TestSelfSyncIsIdempotent(t *testing.T) {
	l := fixtureList(t, NewClientList)
	l.removeOldTodosOn(NewDate(2021, time.April, 2))

	l.selfSyncOn(NewDate(2021, time.April, 2))
	once, err := l.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	l.selfSyncOn(NewDate(2021, time.April, 2))
	twice, err := l.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	if string(once) != string(twice) {
		t.Fatalf("self sync not idempotent:\nonce:  %s\ntwice: %s", once, twice)
	}
}

func TestServerRemovesImmediately(t *testing.T) {
	l := fixtureList(t, NewServerList)

	l.removeOldTodosOn(NewDate(2021, time.April, 2))
	if err := l.RemoveTask(1); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}

	if got := len(l.todos.items); got != 2 {
		t.Fatalf("backing todos = %d, want 2 (server collapses tombstones)", got)
	}
	if got := len(l.tasks.items); got != 1 {
		t.Fatalf("backing tasks = %d, want 1 (server collapses tombstones)", got)
	}
}

func TestSyncRemovesOldTodos(t *testing.T) {
	client := fixtureList(t, NewClientList)
	server := NewServerList()

	client.syncOn(server, NewDate(2021, time.April, 2))

	if got := len(client.todos.items); got != 2 {
		t.Fatalf("client todos = %d, want 2", got)
	}
	if got := len(server.todos.items); got != 2 {
		t.Fatalf("server todos = %d, want 2", got)
	}
}

func TestSyncPropagatesNewItems(t *testing.T) {
	client := NewClientList()
	server := NewServerList()

	client.AddTodo(NewTodo("Todo 1"))
	server.AddTodo(NewTodo("Todo 2"))

	client.Sync(server)

	// The client's new item is appended to the server and vice versa, so the
	// two sides converge on the same set in different orders.
	if diff := cmp.Diff([]string{"Todo 1", "Todo 2"}, todoBodies(client)); diff != "" {
		t.Fatalf("client todos mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Todo 2", "Todo 1"}, todoBodies(server)); diff != "" {
		t.Fatalf("server todos mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncPropagatesRemoval(t *testing.T) {
	client := NewClientList()
	server := NewServerList()

	client.AddTodo(NewTodo("Todo 1"))
	client.Sync(server)

	if err := server.RemoveTodo(0); err != nil {
		t.Fatalf("RemoveTodo: %v", err)
	}
	client.Sync(server)

	if got := len(client.Todos()); got != 0 {
		t.Fatalf("client todos = %d, want 0", got)
	}
	if got := len(server.Todos()); got != 0 {
		t.Fatalf("server todos = %d, want 0", got)
	}
}

func TestSyncClientRemovalReachesServer(t *testing.T) {
	client := NewClientList()
	server := NewServerList()

	client.AddTodo(NewTodo("Todo 1"))
	client.AddTodo(NewTodo("Todo 2"))
	client.Sync(server)

	if err := client.RemoveTodo(0); err != nil {
		t.Fatalf("RemoveTodo: %v", err)
	}
	client.Sync(server)

	if diff := cmp.Diff([]string{"Todo 2"}, todoBodies(client)); diff != "" {
		t.Fatalf("client todos mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Todo 2"}, todoBodies(server)); diff != "" {
		t.Fatalf("server todos mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncServerEditWinsOverUnchangedClient(t *testing.T) {
	client := NewClientList()
	server := NewServerList()

	client.AddTodo(NewTodo("Todo 1"))
	client.Sync(server)

	if todo, ok := server.Todo(0); ok {
		todo.SetBody("New Todo 1")
	}
	client.Sync(server)

	if diff := cmp.Diff([]string{"New Todo 1"}, todoBodies(client)); diff != "" {
		t.Fatalf("client todos mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"New Todo 1"}, todoBodies(server)); diff != "" {
		t.Fatalf("server todos mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncClientEditWinsOverStaleServer(t *testing.T) {
	client := NewClientList()
	server := NewServerList()

	client.AddTodo(NewTodo("Todo 1"))
	client.Sync(server)

	if todo, ok := client.Todo(0); ok {
		todo.SetBody("New Todo 1")
	}
	client.Sync(server)

	if diff := cmp.Diff([]string{"New Todo 1"}, todoBodies(client)); diff != "" {
		t.Fatalf("client todos mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"New Todo 1"}, todoBodies(server)); diff != "" {
		t.Fatalf("server todos mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncNewItemEditedBeforeFirstSync(t *testing.T) {
	client := NewClientList()
	server := NewServerList()

	client.AddTodo(NewTodo("Todo 1"))
	if todo, ok := client.Todo(0); ok {
		todo.SetBody("New Todo 1")
	}
	client.Sync(server)

	if diff := cmp.Diff([]string{"New Todo 1"}, todoBodies(client)); diff != "" {
		t.Fatalf("client todos mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"New Todo 1"}, todoBodies(server)); diff != "" {
		t.Fatalf("server todos mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncPanicsWithTwoServers(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for server/server sync")
		}
	}()
	NewServerList().Sync(NewServerList())
}

func TestSyncPanicsWithTwoClients(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for client/client sync")
		}
	}()
	NewClientList().Sync(NewClientList())
}

func TestSyncWithMultipleTasks(t *testing.T) {
	client := NewClientList()
	server := NewServerList()

	client.AddTask(mustTask(t, "Task 1", []Weekday{Friday}))
	client.AddTask(mustTask(t, "Task 2", []Weekday{Friday}))
	client.AddTask(mustTask(t, "Task 3", []Weekday{Friday}))

	// Sync may be driven from either replica.
	server.Sync(client)

	want := []string{"Task 1", "Task 2", "Task 3"}
	if diff := cmp.Diff(want, taskBodies(client)); diff != "" {
		t.Fatalf("client tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, taskBodies(server)); diff != "" {
		t.Fatalf("server tasks mismatch (-want +got):\n%s", diff)
	}

	// Server-side edits flow back to the client.
	if task, ok := server.Task(0); ok {
		task.SetBody("New Task 1")
	}
	if task, ok := server.Task(1); ok {
		task.SetBody("New Task 2")
	}
	client.Sync(server)

	want = []string{"New Task 1", "New Task 2", "Task 3"}
	if diff := cmp.Diff(want, taskBodies(client)); diff != "" {
		t.Fatalf("client tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, taskBodies(server)); diff != "" {
		t.Fatalf("server tasks mismatch (-want +got):\n%s", diff)
	}

	// Removals of several items at once.
	if err := client.RemoveTask(1); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	if err := client.RemoveTask(2); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	server.Sync(client)

	want = []string{"New Task 1"}
	if diff := cmp.Diff(want, taskBodies(client)); diff != "" {
		t.Fatalf("client tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, taskBodies(server)); diff != "" {
		t.Fatalf("server tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	l := fixtureList(t, NewClientList)

	b, err := l.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(b)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	opts := cmp.AllowUnexported(TdList{}, syncList[Todo, *Todo]{}, syncList[Task, *Task]{}, Todo{}, Task{}, Date{})
	if diff := cmp.Diff(l, back, opts); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
