package cache

import "github.com/dmitrijs2005/readkeeper/internal/client/models"

// Keys of the metadata table.
const (
	KeyListItems    = "listFromLocalStorage"
	KeyArchiveItems = "archiveFromLocalStorage"
	KeyListSince    = "listSince"
	KeyArchiveSince = "archiveSince"
	KeyListCount    = "listCount"
	KeyArchiveCount = "archiveCount"
	KeyTags         = "tags"

	KeyUsername  = "username"
	KeyToken     = "token"
	KeyTokenSalt = "tokenSalt"

	KeyDefaultPage    = "defaultPage"
	KeyOrder          = "order"
	KeyTheme          = "theme"
	KeyUpdateInterval = "updateInterval"
)

// SessionKeys are removed together when a session ends or fails to start.
var SessionKeys = []string{KeyUsername, KeyToken, KeyTokenSalt}

func itemsKey(c models.Collection) string {
	if c == models.Archive {
		return KeyArchiveItems
	}
	return KeyListItems
}

func sinceKey(c models.Collection) string {
	if c == models.Archive {
		return KeyArchiveSince
	}
	return KeyListSince
}

func countKey(c models.Collection) string {
	if c == models.Archive {
		return KeyArchiveCount
	}
	return KeyListCount
}
