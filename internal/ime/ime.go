// Package ime holds the text-input-v3 state machine: preedit and commit
// strings are buffered until done and then turned into ordered events.
package ime

import (
	"unicode/utf8"

	"github.com/bnema/waylayer/internal/protocols"
)

// Purpose selects the content type announced to the input method.
type Purpose int

const (
	PurposeNormal Purpose = iota
	PurposePassword
	PurposeTerminal
)

// String implements fmt.Stringer.
func (p Purpose) String() string {
	switch p {
	case PurposePassword:
		return "password"
	case PurposeTerminal:
		return "terminal"
	default:
		return "normal"
	}
}

// ContentType maps p to a text-input content hint and purpose.
func (p Purpose) ContentType() (hint, purpose uint32) {
	switch p {
	case PurposePassword:
		return protocols.ContentHintSensitiveData, protocols.ContentPurposePassword
	case PurposeTerminal:
		return protocols.ContentHintNone, protocols.ContentPurposeTerminal
	default:
		return protocols.ContentHintNone, protocols.ContentPurposeNormal
	}
}

// Kind discriminates Event.
type Kind int

const (
	Enabled Kind = iota
	Preedit
	Commit
	Disabled
)

func (k Kind) String() string {
	switch k {
	case Enabled:
		return "enabled"
	case Preedit:
		return "preedit"
	case Commit:
		return "commit"
	case Disabled:
		return "disabled"
	}
	return "unknown"
}

// Cursor is a byte range inside preedit text.
type Cursor struct {
	Begin int
	End   int
}

// Event is one IME notification. Cursor is only meaningful for Preedit and
// may be nil.
type Event struct {
	Kind   Kind
	Text   string
	Cursor *Cursor
}

type preedit struct {
	text  string
	begin int
	end   int
}

// State buffers text-input events between done markers.
type State struct {
	entered        bool
	pendingCommit  *string
	pendingPreedit *preedit
}

// Entered reports whether a surface currently has text input focus.
func (s *State) Entered() bool {
	return s.entered
}

// Enter records focus. It returns Enabled when the caller allows IME.
func (s *State) Enter(allowed bool) []Event {
	s.entered = true
	if !allowed {
		return nil
	}
	return []Event{{Kind: Enabled}}
}

// Leave drops focus and any buffered text.
func (s *State) Leave() []Event {
	s.entered = false
	s.pendingCommit = nil
	s.pendingPreedit = nil
	return []Event{{Kind: Disabled}}
}

// CommitString buffers a commit; it replaces any pending preedit.
func (s *State) CommitString(text string) {
	s.pendingPreedit = nil
	s.pendingCommit = &text
}

// PreeditString buffers a preedit. Cursor offsets outside the text or
// inside a UTF-8 sequence are dropped.
func (s *State) PreeditString(text string, begin, end int32) {
	s.pendingPreedit = &preedit{
		text:  text,
		begin: boundary(text, begin),
		end:   boundary(text, end),
	}
}

func boundary(text string, idx int32) int {
	if idx < 0 || int(idx) > len(text) {
		return -1
	}
	i := int(idx)
	if i < len(text) && !utf8.RuneStart(text[i]) {
		return -1
	}
	return i
}

// Done flushes the buffered state into events.
func (s *State) Done() []Event {
	if !s.entered {
		s.pendingCommit = nil
		s.pendingPreedit = nil
		return nil
	}

	var out []Event
	if s.pendingCommit != nil || s.pendingPreedit == nil {
		out = append(out, Event{Kind: Preedit})
	}
	if s.pendingCommit != nil {
		out = append(out, Event{Kind: Commit, Text: *s.pendingCommit})
		s.pendingCommit = nil
	}
	if p := s.pendingPreedit; p != nil {
		ev := Event{Kind: Preedit, Text: p.text}
		if p.begin >= 0 {
			end := p.end
			if end < 0 {
				end = p.begin
			}
			ev.Cursor = &Cursor{Begin: p.begin, End: end}
		}
		out = append(out, ev)
		s.pendingPreedit = nil
	}
	return out
}
