package history

import "fmt"

// CorruptHistoryError reports persisted data that is not a well-formed sequence
// of snapshot records.
type CorruptHistoryError struct {
	Record int // index of the offending record, -1 for the document itself
	Reason string
	Err    error
}

func (e *CorruptHistoryError) Error() string {
	msg := "corrupt history"
	if e.Record >= 0 {
		msg = fmt.Sprintf("%s: record %d", msg, e.Record)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptHistoryError) Unwrap() error {
	return e.Err
}

// CapacityInvariantError means the store holds more snapshots than its capacity.
// It can only happen if eviction was bypassed.
type CapacityInvariantError struct {
	Len int
	Cap int
}

func (e *CapacityInvariantError) Error() string {
	return fmt.Sprintf("history holds %d snapshots, capacity is %d", e.Len, e.Cap)
}
