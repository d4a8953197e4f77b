// Package history implements the bounded snapshot store behind herospath.
//
// # Overview
//
// Every time the watched document is saved, its full text is captured as a
// Snapshot and appended to a History. The History keeps at most Cap() entries;
// once full, each append evicts the oldest snapshot first. Playback, diffing and
// persistence all read the same ordered view returned by All().
//
// # Core Types
//
// Snapshot:
//   - Timestamp, Text and Language of one recorded version
//   - Plain value type; copies never alias the stored entry
//
// History:
//   - Ring-structured sequence with a fixed capacity (DefaultCapacity = 1000)
//   - Mutated only by Append, Reset and Replace
//   - Generation() increments on every mutation so derived data (diffs) can be
//     cached and recomputed only when the set actually changed
//
// # Eviction
//
// Append is "evict then insert" as one step. The buffer grows until it reaches
// capacity, after which the slot holding the oldest snapshot is overwritten and
// the head index advances:
//
//	cap = 3     append a, b, c        append d
//	┌───┬───┬───┐                     ┌───┬───┬───┐
//	│ a │ b │ c │  head=0   ──────►   │ d │ b │ c │  head=1
//	└───┴───┴───┘                     └───┴───┴───┘
//	All() = [a b c]                   All() = [b c d]
//
// Len() never exceeds Cap(), not even between the eviction and the insert.
//
// # Timestamps
//
// Timestamps are normalized to UTC without a monotonic clock reading, so a
// snapshot survives an Encode/Decode round trip unchanged. Timestamps are kept
// non-decreasing in insertion order: an append stamped earlier than the current
// newest entry is clamped to that entry's timestamp.
//
// # Persistence Format
//
// Encode writes a single JSON array, one object per snapshot:
//
//	[
//	  {
//	    "timestamp": "2024-10-10T14:32:15.123456789Z",
//	    "text": "package main\n",
//	    "language": "go"
//	  }
//	]
//
// Decode is strict about structure: the document must be an array of objects and
// every object must carry timestamp, text and language. Anything else yields a
// *CorruptHistoryError. Documents holding more records than the capacity keep the
// newest ones.
//
// # Concurrency
//
// History is not safe for concurrent use. The session package serializes all
// access behind its own mutex.
package history
