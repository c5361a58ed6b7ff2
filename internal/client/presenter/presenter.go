// Package presenter renders cached collections for the user.
//
// Services never draw anything themselves. After a sync or an action they
// call a ListPresenter, which keeps its own view state (search, tag filter,
// order, how many rows are shown) and decides what to draw.
package presenter

import (
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Level is the severity of a status message.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// View is a collection as the presenter should show it.
type View struct {
	Collection models.Collection
	// Items are in cache order, newest first.
	Items []models.Item
	// Count is the cached total, which can exceed len(Items).
	Count int
	Tags  []string
}

// ListPresenter draws collections and reacts to single-item changes.
type ListPresenter interface {
	Render(view View)
	RemoveRow(c models.Collection, id string)
	UpdateRow(c models.Collection, item models.Item)
	ShowMessage(level Level, msg string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Render(View)                              {}
func (Nop) RemoveRow(models.Collection, string)      {}
func (Nop) UpdateRow(models.Collection, models.Item) {}
func (Nop) ShowMessage(Level, string)                {}
