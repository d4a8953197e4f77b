package timeline

import "fmt"

// FrameKind tells what a frame shows.
type FrameKind int

const (
	// FrameNone is the sentinel reported while there is nothing to play.
	FrameNone FrameKind = iota
	FrameSnapshot
	FrameDiff
)

func (k FrameKind) String() string {
	switch k {
	case FrameSnapshot:
		return "snapshot"
	case FrameDiff:
		return "diff"
	default:
		return "none"
	}
}

// Frame is one unit of playback. For FrameSnapshot, Index is the snapshot
// index. For FrameDiff, Index is the diff index (snapshot Index to Index+1).
type Frame struct {
	Kind     FrameKind `json:"kind"`
	Index    int       `json:"index"`
	Position int       `json:"position"`
}

// None reports whether f is the no-data sentinel.
func (f Frame) None() bool { return f.Kind == FrameNone }

func (f Frame) String() string {
	switch f.Kind {
	case FrameSnapshot:
		return fmt.Sprintf("snapshot %d", f.Index)
	case FrameDiff:
		return fmt.Sprintf("diff %d→%d", f.Index, f.Index+1)
	default:
		return "no data"
	}
}

// FrameCount returns the cycle length for n snapshots: n snapshot frames
// interleaved with n-1 diff frames.
func FrameCount(n int) int {
	if n <= 0 {
		return 0
	}
	return 2*n - 1
}

// FrameAt projects a frame position onto snapshot and diff indices. Even
// positions are snapshots, odd positions are diffs. Out-of-range positions
// yield the sentinel.
func FrameAt(pos, n int) Frame {
	if pos < 0 || pos >= FrameCount(n) {
		return Frame{Kind: FrameNone}
	}
	if pos%2 == 0 {
		return Frame{Kind: FrameSnapshot, Index: pos / 2, Position: pos}
	}
	return Frame{Kind: FrameDiff, Index: pos / 2, Position: pos}
}

// SnapshotPosition returns the frame position showing snapshot i.
func SnapshotPosition(i int) int { return 2 * i }
