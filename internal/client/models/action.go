package models

// ActionName is the remote action verb sent to the actions endpoint.
type ActionName string

const (
	ActionArchive     ActionName = "archive"
	ActionReadd       ActionName = "readd"
	ActionFavorite    ActionName = "favorite"
	ActionUnfavorite  ActionName = "unfavorite"
	ActionDelete      ActionName = "delete"
	ActionTagsReplace ActionName = "tags_replace"
)

// Action is one entry of a send request.
type Action struct {
	Action ActionName `json:"action"`
	ItemID string     `json:"item_id"`
	Time   int64      `json:"time"`
	Tags   string     `json:"tags,omitempty"`
}

// IntentKind is what the user asked for in the UI.
type IntentKind string

const (
	IntentRead      IntentKind = "read"
	IntentFavourite IntentKind = "favourite"
	IntentDelete    IntentKind = "delete"
	IntentTags      IntentKind = "tags"
)

// Intent is a user action on a cached item, with the collection it was
// triggered from.
type Intent struct {
	Kind       IntentKind
	ItemID     string
	Collection Collection
	// Favourited is the current flag, used to pick favorite/unfavorite.
	Favourited bool
	// Tags is the comma separated replacement tag string.
	Tags string
}
