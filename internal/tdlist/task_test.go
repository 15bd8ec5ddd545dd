package tdlist

import (
	"testing"
	"time"
)

func TestNewTaskRequiresWeekday(t *testing.T) {
	if _, err := NewTask("no days", nil); err == nil {
		t.Fatalf("expected error for empty weekday list")
	}
}

func TestTaskString(t *testing.T) {
	task, err := NewTask("Task", []Weekday{Wednesday})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if got, want := task.String(), "Task (ID: 0)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTaskRemoveWeekdayRemovesDuplicates(t *testing.T) {
	task, err := NewTask("Test task", []Weekday{Monday, Tuesday, Wednesday, Wednesday})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}

	task.RemoveWeekday(Wednesday)

	if got, want := len(task.Weekdays()), 2; got != want {
		t.Fatalf("got %d weekdays, want %d", got, want)
	}
	for _, wd := range task.Weekdays() {
		if wd == Wednesday {
			t.Fatalf("wednesday should be gone")
		}
	}
}

func TestTaskDonePerWeekday(t *testing.T) {
	// 2022-06-13 is a Monday, -15 a Wednesday, -16 a Thursday.
	task, err := NewTask("Task", []Weekday{Monday, Wednesday, Thursday})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}

	task.SetDone(true, NewDate(2022, time.June, 13))
	task.SetDone(true, NewDate(2022, time.June, 16))

	if !task.Done(NewDate(2022, time.June, 13)) {
		t.Fatalf("should be done for mon")
	}
	if !task.Done(NewDate(2022, time.June, 16)) {
		t.Fatalf("should be done for thu")
	}
	if task.Done(NewDate(2022, time.June, 15)) {
		t.Fatalf("should not be done for wed")
	}
	// Completion does not carry over to the following week.
	if task.Done(NewDate(2022, time.June, 20)) {
		t.Fatalf("should not be done for next week's mon")
	}
	if task.Done(NewDate(2022, time.June, 23)) {
		t.Fatalf("should not be done for next week's thu")
	}
	// Vacuously done for weekdays the task is not for (2022-06-21 is a Tuesday).
	if !task.Done(NewDate(2022, time.June, 21)) {
		t.Fatalf("should be vacuously done for tue")
	}
}

func TestTaskSetDoneUndone(t *testing.T) {
	task, err := NewTask("Task", []Weekday{Monday})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	mon := NewDate(2022, time.June, 13)

	task.SetDone(true, mon)
	if !task.Done(mon) {
		t.Fatalf("should be done after SetDone(true)")
	}
	task.SetDone(false, mon)
	if task.Done(mon) {
		t.Fatalf("should be undone after SetDone(false)")
	}
}
