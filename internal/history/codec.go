package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the textual timestamp encoding used on disk.
const TimestampLayout = time.RFC3339Nano

type wireRecord struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	Language  string `json:"language"`
}

// rawRecord uses pointers so absent fields can be told apart from empty ones.
type rawRecord struct {
	Timestamp *string `json:"timestamp"`
	Text      *string `json:"text"`
	Language  *string `json:"language"`
}

// Encode serializes the full ordered history.
func Encode(h *History) ([]byte, error) {
	records := make([]wireRecord, 0, h.Len())
	for _, s := range h.All() {
		records = append(records, wireRecord{
			Timestamp: s.Timestamp.UTC().Format(TimestampLayout),
			Text:      s.Text,
			Language:  s.Language,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode rebuilds a history from Encode output. Malformed input yields a
// *CorruptHistoryError.
func Decode(data []byte, capacity int) (*History, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &CorruptHistoryError{Record: -1, Reason: "not a JSON array"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &CorruptHistoryError{Record: -1, Err: err}
	}

	snaps := make([]Snapshot, 0, len(raw))
	for i, msg := range raw {
		snap, err := decodeRecord(msg)
		if err != nil {
			err.Record = i
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	h := New(capacity)
	h.Replace(snaps)
	return h, nil
}

func decodeRecord(msg json.RawMessage) (Snapshot, *CorruptHistoryError) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || msg[0] != '{' {
		return Snapshot{}, &CorruptHistoryError{Reason: "not an object"}
	}
	var rec rawRecord
	if err := json.Unmarshal(msg, &rec); err != nil {
		return Snapshot{}, &CorruptHistoryError{Err: err}
	}
	switch {
	case rec.Timestamp == nil:
		return Snapshot{}, &CorruptHistoryError{Reason: `missing field "timestamp"`}
	case rec.Text == nil:
		return Snapshot{}, &CorruptHistoryError{Reason: `missing field "text"`}
	case rec.Language == nil:
		return Snapshot{}, &CorruptHistoryError{Reason: `missing field "language"`}
	}
	ts, err := time.Parse(TimestampLayout, *rec.Timestamp)
	if err != nil {
		return Snapshot{}, &CorruptHistoryError{Reason: "bad timestamp", Err: err}
	}
	return Snapshot{Timestamp: ts, Text: *rec.Text, Language: *rec.Language}, nil
}
