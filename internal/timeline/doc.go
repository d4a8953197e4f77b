// Package timeline drives playback of a snapshot history.
//
// A history of n snapshots plays as a cycle of 2n-1 frames:
//
//	position: 0      1       2      3       4
//	frame:    snap 0 diff 0  snap 1 diff 1  snap 2
//
// Even positions show a snapshot, odd positions show the diff from the
// snapshot before it to the one after it. After the last frame the cycle
// wraps to position 0. A single snapshot is a one-frame cycle and an empty
// history reports the FrameNone sentinel on every tick.
//
// The Player owns only the position. Time comes from an injected Scheduler,
// so tests drive it with manual ticks. TickerScheduler is the production
// implementation. Content lives in a Reel, which resolves frames to snapshots
// and diffs.
package timeline
