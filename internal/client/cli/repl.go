package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	currentCollection() models.Collection
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Sync(ctx context.Context, c models.Collection, full bool) error
	List(ctx context.Context, c models.Collection, search, tag string) error
	More(ctx context.Context) error
	Act(ctx context.Context, kind models.IntentKind, id, tags string) error
	Add(ctx context.Context, url, tags string) error
	Tags(ctx context.Context) error
	ShowSettings(ctx context.Context) error
	SetSetting(ctx context.Context, name, value string) error
}

const (
	helpLoggedOut = "Available commands: login, (l)ist [list|archive], search, filter, more, tags, settings, set, exit"
	helpLoggedIn  = "Available commands: (l)ist [list|archive], sync [full], more, search <text>, filter [tag], " +
		"read <id>, fav <id>, delete <id>, tag <id> [tags], add <url> [tags], tags, settings, set <name> <value>, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the readkeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Cached lists can be browsed without a session; everything that talks to the
// server requires login.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			c := models.List
			if len(args) > 0 {
				parsed, err := models.ParseCollection(args[0])
				if err != nil {
					printlnFn(err)
					continue
				}
				c = parsed
			}
			_ = a.List(ctx, c, "", "")

		case "archive":
			_ = a.List(ctx, models.Archive, "", "")

		case "sync":
			full := len(args) > 0 && args[0] == "full"
			_ = a.Sync(ctx, a.currentCollection(), full)

		case "more":
			_ = a.More(ctx)

		case "search":
			_ = a.List(ctx, a.currentCollection(), strings.Join(args, " "), "")

		case "filter":
			tag := ""
			if len(args) > 0 {
				tag = args[0]
			}
			_ = a.List(ctx, a.currentCollection(), "", tag)

		case "read", "fav", "delete":
			if len(args) != 1 {
				printlnFn("Usage:", cmd, "<id>")
				continue
			}
			_ = a.Act(ctx, intentKinds[cmd], args[0], "")

		case "tag":
			if len(args) == 0 {
				printlnFn("Usage: tag <id> [tag1,tag2]")
				continue
			}
			_ = a.Act(ctx, models.IntentTags, args[0], strings.Join(args[1:], ","))

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <url> [tag1,tag2]")
				continue
			}
			_ = a.Add(ctx, args[0], strings.Join(args[1:], ","))

		case "tags":
			_ = a.Tags(ctx)

		case "settings":
			_ = a.ShowSettings(ctx)

		case "set":
			if len(args) != 2 {
				printlnFn("Usage: set <name> <value>")
				continue
			}
			_ = a.SetSetting(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

var intentKinds = map[string]models.IntentKind{
	"read":   models.IntentRead,
	"fav":    models.IntentFavourite,
	"delete": models.IntentDelete,
}
