package models

import "fmt"

// Collection names a cached list.
type Collection string

const (
	// List holds unread items.
	List Collection = "list"
	// Archive holds archived items.
	Archive Collection = "archive"
)

// Collections lists every collection in a stable order.
var Collections = []Collection{List, Archive}

// ParseCollection accepts "list"/"unread" and "archive"/"archived".
func ParseCollection(s string) (Collection, error) {
	switch s {
	case "list", "unread":
		return List, nil
	case "archive", "archived":
		return Archive, nil
	default:
		return "", fmt.Errorf("unknown collection %q", s)
	}
}

// State is the remote "state" filter that selects this collection.
func (c Collection) State() string {
	if c == Archive {
		return "archive"
	}
	return "unread"
}

// ListResponse is a parsed answer of the remote list endpoint.
type ListResponse struct {
	Items []Item
	Since string
	// Total is the server-side size of the queried collection, or 0 when
	// the response carries no total.
	Total int
}
