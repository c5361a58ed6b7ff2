// Package cache maps the locally cached collections, their cursors and
// counts, the tag index, the session and the user settings onto keys of the
// metadata store.
//
// Every multi-key change goes through Store.Update, which loads a Snapshot,
// lets the caller mutate it and writes it back in a single transaction while
// holding the store mutex. Remote calls must not be made from inside Update.
package cache
