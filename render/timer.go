package render

import "time"

// FrameTimer measures wall time between frames.
type FrameTimer struct {
	last time.Time
	now  func() time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{now: time.Now}
}

// Delta returns the seconds since the previous call, or 0 on the first.
func (ft *FrameTimer) Delta() float64 {
	now := ft.now()
	if ft.last.IsZero() {
		ft.last = now
		return 0
	}
	delta := now.Sub(ft.last).Seconds()
	ft.last = now
	return delta
}
