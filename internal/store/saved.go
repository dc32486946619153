// Package store keeps the student's saved rooms and roommates and the chat
// transcript.
package store

import (
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Kind names a saved collection.
type Kind string

const (
	KindRooms     Kind = "rooms"
	KindRoommates Kind = "roommates"
)

var ErrUnknownKind = errors.New("unknown saved kind")

// ParseKind accepts the collection name in singular or plural form.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rooms", "room", "listings", "listing":
		return KindRooms, nil
	case "roommates", "roommate":
		return KindRoommates, nil
	default:
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}
}

// SavedItem is one saved record reference.
type SavedItem struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
}

// SavedStore holds the IDs a student saved, per kind, in the order they were saved.
type SavedStore interface {
	Add(kind Kind, id string) error
	Remove(kind Kind, id string) error
	// Toggle saves an unsaved ID or removes a saved one and reports whether
	// the ID is saved afterwards.
	Toggle(kind Kind, id string) (bool, error)
	Contains(kind Kind, id string) (bool, error)
	IDs(kind Kind) ([]string, error)
}

// savedSet is the shared in-memory representation of both stores.
type savedSet struct {
	Rooms     []SavedItem `json:"rooms"`
	Roommates []SavedItem `json:"roommates"`
}

func (s *savedSet) items(kind Kind) (*[]SavedItem, error) {
	switch kind {
	case KindRooms:
		return &s.Rooms, nil
	case KindRoommates:
		return &s.Roommates, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
}

func (s *savedSet) index(kind Kind, id string) (int, error) {
	items, err := s.items(kind)
	if err != nil {
		return -1, err
	}
	return slices.IndexFunc(*items, func(it SavedItem) bool { return it.ID == id }), nil
}

func (s *savedSet) add(kind Kind, id string, at time.Time) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("empty id")
	}
	idx, err := s.index(kind, id)
	if err != nil || idx >= 0 {
		return err
	}
	items, _ := s.items(kind)
	*items = append(*items, SavedItem{ID: id, SavedAt: at.UTC()})
	return nil
}

func (s *savedSet) remove(kind Kind, id string) error {
	idx, err := s.index(kind, strings.TrimSpace(id))
	if err != nil || idx < 0 {
		return err
	}
	items, _ := s.items(kind)
	*items = slices.Delete(*items, idx, idx+1)
	return nil
}

func (s *savedSet) toggle(kind Kind, id string, at time.Time) (bool, error) {
	ok, err := s.contains(kind, id)
	if err != nil {
		return false, err
	}
	if ok {
		return false, s.remove(kind, id)
	}
	return true, s.add(kind, id, at)
}

func (s *savedSet) contains(kind Kind, id string) (bool, error) {
	idx, err := s.index(kind, strings.TrimSpace(id))
	return idx >= 0, err
}

func (s *savedSet) ids(kind Kind) ([]string, error) {
	items, err := s.items(kind)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(*items))
	for _, it := range *items {
		out = append(out, it.ID)
	}
	return out, nil
}
