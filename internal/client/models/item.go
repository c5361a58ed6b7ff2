// Package models defines the client-side data model of the read-later cache:
// saved items, the collections they live in, remote responses and actions.
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status is the server-side state of a saved item.
type Status int

const (
	StatusUnread   Status = 0
	StatusArchived Status = 1
	StatusDeleted  Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusUnread:
		return "unread"
	case StatusArchived:
		return "archived"
	case StatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Item is one saved link as cached locally.
type Item struct {
	// ID is stable across syncs and is the identity key.
	ID string `json:"id"`

	Status Status `json:"status"`

	// SortKey orders a full snapshot; lower sorts first.
	SortKey int64 `json:"sortKey"`

	Favorite bool     `json:"favorite"`
	Tags     []string `json:"tags,omitempty"`

	// Display fields, passed through untouched by reconciliation.
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Image     string    `json:"image,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayTitle falls back to the URL when the item has no title.
func (i Item) DisplayTitle() string {
	if strings.TrimSpace(i.Title) != "" {
		return i.Title
	}
	return i.URL
}

// HasTag reports whether the item carries tag (case-insensitive).
func (i Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// IndexOf returns the position of id in items or -1.
func IndexOf(items []Item, id string) int {
	for n := range items {
		if items[n].ID == id {
			return n
		}
	}
	return -1
}

// RemoveByID removes the first item with id, keeping order. The input slice
// is not modified.
func RemoveByID(items []Item, id string) ([]Item, bool) {
	n := IndexOf(items, id)
	if n < 0 {
		return items, false
	}
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:n]...)
	return append(out, items[n+1:]...), true
}

// Prepend returns a new slice with item in front of items.
func Prepend(items []Item, item Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

// ParseTags splits a comma separated tag string, trimming blanks and
// dropping empty and duplicate entries.
func ParseTags(s string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// JoinTags is the inverse of ParseTags.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// MergeTags returns the sorted union of index and tags.
func MergeTags(index []string, tags ...[]string) []string {
	set := make(map[string]struct{}, len(index))
	for _, t := range index {
		set[t] = struct{}{}
	}
	for _, group := range tags {
		for _, t := range group {
			if t != "" {
				set[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
