package presenter

import "time"

const (
	// NoticeVisibleFor is how long a notice stays fully visible.
	NoticeVisibleFor = 5 * time.Second
	// NoticeFadeFor is the fade-out that follows before removal.
	NoticeFadeFor = 300 * time.Millisecond
)

type NoticeState int

const (
	NoticeRemoved NoticeState = iota
	NoticeShown
	NoticeFading
)

func (s NoticeState) String() string {
	switch s {
	case NoticeShown:
		return "shown"
	case NoticeFading:
		return "fading"
	default:
		return "removed"
	}
}

// Notice is a transient, auto-dismissing message.
type Notice struct {
	Text    string
	ShownAt time.Time
}

// State returns where the notice is in its lifecycle at now.
func (n *Notice) State(now time.Time) NoticeState {
	if n == nil || n.Text == "" {
		return NoticeRemoved
	}
	elapsed := now.Sub(n.ShownAt)
	switch {
	case elapsed < NoticeVisibleFor:
		return NoticeShown
	case elapsed < NoticeVisibleFor+NoticeFadeFor:
		return NoticeFading
	default:
		return NoticeRemoved
	}
}
