package history

import "time"

// Snapshot is one recorded version of the document.
type Snapshot struct {
	Timestamp time.Time
	Text      string
	Language  string
}

// Equal reports whether two snapshots hold the same version.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Timestamp.Equal(other.Timestamp) &&
		s.Text == other.Text &&
		s.Language == other.Language
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Round(0)
}
