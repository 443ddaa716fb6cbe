package ime

import (
	"testing"

	"github.com/bnema/waylayer/internal/protocols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entered() *State {
	s := &State{}
	s.Enter(true)
	return s
}

func TestPreeditWithCursor(t *testing.T) {
	s := entered()
	s.PreeditString("ab", 1, 2)
	events := s.Done()
	require.Len(t, events, 1)
	assert.Equal(t, Event{Kind: Preedit, Text: "ab", Cursor: &Cursor{Begin: 1, End: 2}}, events[0])
}

func TestCommitThenPreedit(t *testing.T) {
	s := entered()
	s.CommitString("x")
	s.PreeditString("y", -1, -1)
	events := s.Done()
	require.Len(t, events, 3)
	assert.Equal(t, Event{Kind: Preedit}, events[0])
	assert.Equal(t, Event{Kind: Commit, Text: "x"}, events[1])
	assert.Equal(t, Event{Kind: Preedit, Text: "y"}, events[2])
}

func TestCommitReplacesPendingPreedit(t *testing.T) {
	s := entered()
	s.PreeditString("draft", 0, 0)
	s.CommitString("final")
	events := s.Done()
	assert.Equal(t, []Event{{Kind: Preedit}, {Kind: Commit, Text: "final"}}, events)
}

func TestEmptyDoneClearsPreedit(t *testing.T) {
	s := entered()
	assert.Equal(t, []Event{{Kind: Preedit}}, s.Done())
}

func TestCursorBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		begin, end int32
		want       *Cursor
	}{
		{"missing end defaults to begin", "abc", 2, -1, &Cursor{Begin: 2, End: 2}},
		{"inside multibyte rune", "é", 1, 1, nil},
		{"past the end", "ab", 5, 5, nil},
		{"at end", "ab", 2, 2, &Cursor{Begin: 2, End: 2}},
		{"multibyte boundary", "éa", 2, 3, &Cursor{Begin: 2, End: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := entered()
			s.PreeditString(tt.text, tt.begin, tt.end)
			events := s.Done()
			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0].Cursor)
		})
	}
}

func TestEnterLeave(t *testing.T) {
	s := &State{}
	assert.Nil(t, s.Enter(false))
	assert.True(t, s.Entered())
	assert.Equal(t, []Event{{Kind: Enabled}}, s.Enter(true))

	s.PreeditString("pending", 0, 0)
	assert.Equal(t, []Event{{Kind: Disabled}}, s.Leave())
	assert.False(t, s.Entered())
	assert.Nil(t, s.Done())
}

func TestPurposeContentType(t *testing.T) {
	hint, purpose := PurposePassword.ContentType()
	assert.Equal(t, protocols.ContentHintSensitiveData, hint)
	assert.Equal(t, protocols.ContentPurposePassword, purpose)

	_, purpose = PurposeTerminal.ContentType()
	assert.Equal(t, protocols.ContentPurposeTerminal, purpose)

	_, purpose = PurposeNormal.ContentType()
	assert.Equal(t, protocols.ContentPurposeNormal, purpose)
	assert.Equal(t, "terminal", PurposeTerminal.String())
}
