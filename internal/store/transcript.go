package store

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/spigell/roomeo/internal/housing"
)

// Speaker IDs used by the chat command.
const (
	SpeakerStudent   = "student"
	SpeakerAssistant = "assistant"
)

// Transcript is an append-only chat log, optionally persisted to a JSON file.
type Transcript struct {
	mu    sync.Mutex
	path  string
	turns []housing.ChatTurn
	now   func() time.Time
}

// NewTranscript returns an in-memory transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// OpenTranscript loads the transcript stored at path. A missing file starts
// an empty transcript that is created on the first append.
func OpenTranscript(path string) (*Transcript, error) {
	t := &Transcript{path: path, now: time.Now}
	if err := readJSON(path, &t.turns); err != nil {
		return nil, errors.Wrap(err, "loading transcript")
	}
	return t, nil
}

// Append records a turn and persists the transcript when it is file backed.
func (t *Transcript) Append(speakerID, text string) (housing.ChatTurn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	turn := housing.ChatTurn{
		ID:        uuid.NewString(),
		SpeakerID: speakerID,
		Text:      text,
		Timestamp: t.now().UTC(),
	}
	t.turns = append(t.turns, turn)

	if t.path == "" {
		return turn, nil
	}
	if err := writeJSON(t.path, t.turns); err != nil {
		t.turns = t.turns[:len(t.turns)-1]
		return housing.ChatTurn{}, errors.Wrap(err, "saving transcript")
	}
	return turn, nil
}

// Turns returns a copy of the recorded turns, oldest first.
func (t *Transcript) Turns() []housing.ChatTurn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.turns)
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}
