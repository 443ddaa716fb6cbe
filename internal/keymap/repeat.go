package keymap

import "time"

// RepeatInfo holds the compositor's key repeat parameters. A zero Rate
// disables repeat.
type RepeatInfo struct {
	Rate  int32
	Delay time.Duration
}

// DefaultRepeat applies until the compositor sends repeat_info.
var DefaultRepeat = RepeatInfo{Rate: 25, Delay: 600 * time.Millisecond}

// NewRepeatInfo converts wl_keyboard.repeat_info arguments.
func NewRepeatInfo(rate, delayMs int32) RepeatInfo {
	if rate <= 0 {
		return RepeatInfo{}
	}
	if delayMs < 0 {
		delayMs = 0
	}
	return RepeatInfo{Rate: rate, Delay: time.Duration(delayMs) * time.Millisecond}
}

// Enabled reports whether keys repeat at all.
func (r RepeatInfo) Enabled() bool {
	return r.Rate > 0
}

// Gap is the interval between repeats once the delay has passed.
func (r RepeatInfo) Gap() time.Duration {
	if r.Rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(r.Rate)
}
