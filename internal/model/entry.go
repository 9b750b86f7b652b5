package model

// Entry is one dated item of a range query: either a one-off task or a single
// occurrence of a recurring task.
type Entry struct {
	Task Task
	// OccurrenceDate is set only for occurrences; the embedded task has its
	// scheduled date and deadline cleared in that case.
	OccurrenceDate string
	IsCompleted    bool
}

func (e Entry) IsOccurrence() bool {
	return e.OccurrenceDate != ""
}

// Date is the day the entry belongs to. Empty when a one-off task has no date.
func (e Entry) Date() string {
	switch {
	case e.OccurrenceDate != "":
		return e.OccurrenceDate
	case e.Task.ScheduledDate != nil:
		return *e.Task.ScheduledDate
	case e.Task.Deadline != nil:
		return *e.Task.Deadline
	default:
		return ""
	}
}

// Done tells whether the entry counts as completed. Occurrences carry their own
// completion marker; one-off tasks use the task status.
func (e Entry) Done() bool {
	if e.IsOccurrence() {
		return e.IsCompleted || e.Task.Status == StatusCompleted
	}
	return e.Task.Status == StatusCompleted
}
