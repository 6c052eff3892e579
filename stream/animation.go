package stream

// An Animation renders the frame for a point in time. runtimeMs only ever
// increases between calls.
type Animation interface {
	CalculateFrame(runtimeMs int64) *Frame
}
