package timeline

import (
	"github.com/five82/herospath/internal/diff"
	"github.com/five82/herospath/internal/history"
)

// Reel is the content a player cycles over: the snapshots in history order and
// the diff between each neighbouring pair.
type Reel struct {
	Snapshots []history.Snapshot `json:"snapshots"`
	Diffs     []diff.Diff        `json:"diffs"`
}

// Len returns the number of snapshots.
func (r Reel) Len() int { return len(r.Snapshots) }

// FrameCount returns the cycle length of the reel.
func (r Reel) FrameCount() int { return FrameCount(len(r.Snapshots)) }

// Frames lists every frame of the cycle in playback order.
func (r Reel) Frames() []Frame {
	total := r.FrameCount()
	frames := make([]Frame, 0, total)
	for pos := 0; pos < total; pos++ {
		frames = append(frames, FrameAt(pos, len(r.Snapshots)))
	}
	return frames
}

// View is a frame resolved against a reel.
type View struct {
	Frame Frame
	// Snapshot is the frame's snapshot, or the diff target for diff frames.
	Snapshot history.Snapshot
	// Previous is the diff source for diff frames.
	Previous history.Snapshot
	// Diff is set for diff frames only.
	Diff *diff.Diff
}

// Resolve returns the content for f. It reports false for the sentinel and
// for frames that do not fit the reel.
func (r Reel) Resolve(f Frame) (View, bool) {
	switch f.Kind {
	case FrameSnapshot:
		if f.Index < 0 || f.Index >= len(r.Snapshots) {
			return View{}, false
		}
		return View{Frame: f, Snapshot: r.Snapshots[f.Index]}, true
	case FrameDiff:
		if f.Index < 0 || f.Index >= len(r.Diffs) || f.Index+1 >= len(r.Snapshots) {
			return View{}, false
		}
		d := r.Diffs[f.Index]
		return View{
			Frame:    f,
			Snapshot: r.Snapshots[f.Index+1],
			Previous: r.Snapshots[f.Index],
			Diff:     &d,
		}, true
	default:
		return View{}, false
	}
}
