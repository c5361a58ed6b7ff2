// Package cli provides the readkeeper command-line client.
//
// It wires configuration, the local cache, the API client and the services
// behind a cobra command tree. Running the binary without a subcommand starts
// an interactive REPL with a background poller that refreshes the current
// list every updateInterval seconds.
//
// Key features:
//   - Login / Logout through the OAuth authorize page
//   - Browse the reading list and the archive offline, with search and tag filters
//   - Archive, re-add, favourite, delete and tag items
//   - Save new URLs
//
// See NewRootCmd, App and runREPL for details.
package cli
