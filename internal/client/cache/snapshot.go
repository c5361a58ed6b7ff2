package cache

import (
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// CollectionState is one cached collection with its cursor and count.
type CollectionState struct {
	Items []models.Item
	Since string
	Count int
}

// Snapshot is the cached state of both collections plus the tag index.
type Snapshot struct {
	List    CollectionState
	Archive CollectionState
	Tags    []string
}

func (s *Snapshot) state(c models.Collection) *CollectionState {
	if c == models.Archive {
		return &s.Archive
	}
	return &s.List
}

func (s *Snapshot) Items(c models.Collection) []models.Item { return s.state(c).Items }

func (s *Snapshot) SetItems(c models.Collection, items []models.Item) {
	s.state(c).Items = items
}

// Since is the sync cursor of c, empty when c was never loaded.
func (s *Snapshot) Since(c models.Collection) string { return s.state(c).Since }

func (s *Snapshot) SetSince(c models.Collection, since string) {
	s.state(c).Since = since
}

// Loaded reports whether c has completed a full sync.
func (s *Snapshot) Loaded(c models.Collection) bool { return s.state(c).Since != "" }

// AnyLoaded reports whether any collection holds a cursor.
func (s *Snapshot) AnyLoaded() bool {
	for _, c := range models.Collections {
		if s.Loaded(c) {
			return true
		}
	}
	return false
}

func (s *Snapshot) Count(c models.Collection) int { return s.state(c).Count }

func (s *Snapshot) SetCount(c models.Collection, n int) {
	s.state(c).Count = n
}

// AddCount adjusts the count of c by delta.
func (s *Snapshot) AddCount(c models.Collection, delta int) {
	s.state(c).Count += delta
}

// Find returns the collection holding id and its position there.
func (s *Snapshot) Find(id string) (models.Collection, int, bool) {
	for _, c := range models.Collections {
		if i := models.IndexOf(s.Items(c), id); i >= 0 {
			return c, i, true
		}
	}
	return "", -1, false
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{List: s.List.clone(), Archive: s.Archive.clone()}
	if s.Tags != nil {
		out.Tags = append([]string{}, s.Tags...)
	}
	return out
}

func (cs CollectionState) clone() CollectionState {
	out := CollectionState{Since: cs.Since, Count: cs.Count}
	if cs.Items == nil {
		return out
	}
	out.Items = make([]models.Item, len(cs.Items))
	for i, it := range cs.Items {
		if it.Tags != nil {
			it.Tags = append([]string{}, it.Tags...)
		}
		out.Items[i] = it
	}
	return out
}
