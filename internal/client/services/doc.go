// Package services contains application services for the readkeeper client:
// authentication and session restore, collection sync, user actions on
// cached items and user settings.
//
// Services sit between the CLI and the lower layers. They call the remote
// Client outside of any store lock, hand responses to the reconcile engine
// inside cache.Store.Update and tell the ListPresenter what to redraw.
package services
