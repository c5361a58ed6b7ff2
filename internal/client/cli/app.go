package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/readkeeper/internal/client/cache"
	"github.com/dmitrijs2005/readkeeper/internal/client/client"
	"github.com/dmitrijs2005/readkeeper/internal/client/config"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/presenter"
	"github.com/dmitrijs2005/readkeeper/internal/client/services"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// App wires configuration, the local store, the API client and the services
// behind the CLI commands.
type App struct {
	cfg *config.Config
	log logging.Logger
	db  *sql.DB
	out io.Writer

	api      client.Client
	store    *cache.Store
	view     *presenter.Terminal
	auth     services.AuthService
	syncer   services.SyncService
	actions  services.ActionService
	settings services.SettingsService

	reader     *bufio.Reader
	reschedule chan struct{}

	mu       sync.RWMutex
	userName string
	current  models.Collection
}

// NewApp opens the local database and builds the services.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}
	if dir := filepath.Dir(cfg.DatabasePath); !strings.HasPrefix(cfg.DatabasePath, ":") && !strings.HasPrefix(cfg.DatabasePath, "file:") {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", cfg.DatabasePath, "err", err)
		return nil, err
	}

	api := client.NewHTTPClient(cfg.APIBaseURL, cfg.ConsumerKey, cfg.RequestTimeout, log.With("component", "api"))
	store := cache.NewStore(db, log.With("component", "cache"))
	view := presenter.NewTerminal(out, presenter.WithPageSize(20))

	a := &App{
		cfg:      cfg,
		log:      log,
		db:       db,
		out:      out,
		api:      api,
		store:    store,
		view:     view,
		auth:     services.NewAuthService(api, store, authOptions(cfg), log),
		syncer:   services.NewSyncService(api, store, view, cfg.PageSize, log.With("component", "sync")),
		actions:  services.NewActionService(api, store, view, log.With("component", "actions")),
		settings: services.NewSettingsService(store),

		reader:     bufio.NewReader(in),
		reschedule: make(chan struct{}, 1),
		current:    models.List,
	}

	if err := a.applySettings(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func authOptions(cfg *config.Config) services.AuthOptions {
	return services.AuthOptions{
		AuthorizeURL: cfg.AuthorizeURL,
		RedirectURI:  cfg.RedirectURI,
		SealToken:    cfg.SealToken,
	}
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) applySettings(ctx context.Context) error {
	st, err := a.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	a.view.SetTheme(st.Theme)
	a.view.SetOrder(st.Order)
	a.setCurrent(st.DefaultPage)
	return nil
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userName != ""
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) currentCollection() models.Collection {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

func (a *App) setCurrent(c models.Collection) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = c
}

func (a *App) getStatus() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.userName == "" {
		return "(logged out)"
	}
	return fmt.Sprintf("(%s %s)", a.userName, a.current)
}

// Restore loads a stored session, asking for the passphrase when the token is
// sealed. Having no session is not an error.
func (a *App) Restore(ctx context.Context) error {
	name, err := a.auth.Restore(ctx, func() ([]byte, error) {
		return getPassword(a.out, "Passphrase")
	})
	if errors.Is(err, client.ErrNotLoggedIn) {
		return nil
	}
	if err != nil {
		return err
	}
	a.setUser(name)
	return nil
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in, run 'login' first")
		return client.ErrNotLoggedIn
	}
	return nil
}

// Login runs the OAuth flow: print the authorize URL, wait for the user to
// approve it, then exchange the request token.
func (a *App) Login(ctx context.Context) error {
	req, err := a.auth.BeginLogin(ctx)
	if err != nil {
		printlnFn("Login failed:", err)
		return err
	}

	printlnFn("Open this URL in a browser and approve access:")
	printlnFn(req.AuthorizeURL)
	if _, err := getSimpleText(a.reader, "Press Enter when done", a.out); err != nil {
		return err
	}

	var pass []byte
	if a.cfg.SealToken {
		pass, err = getPassword(a.out, "Choose a passphrase to protect the token")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(pass)
	}

	name, err := a.auth.CompleteLogin(ctx, req, pass)
	if err != nil {
		a.setUser("")
		printlnFn("Authentication failed")
		return err
	}
	a.setUser(name)
	printlnFn("Logged in as", name)

	_, err = a.syncer.Sync(ctx, a.currentCollection())
	return err
}

// Logout forgets the session and wipes the local cache.
func (a *App) Logout(ctx context.Context) error {
	a.syncer.Reset()
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	a.setUser("")
	printlnFn("Logged out, local data removed")
	return nil
}

// Sync refreshes c. full forces a complete snapshot.
func (a *App) Sync(ctx context.Context, c models.Collection, full bool) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.setCurrent(c)
	if full {
		a.syncer.RequestFullSync()
	}
	_, err := a.syncer.Sync(ctx, c)
	return err
}

// List shows the cached collection c with an optional search and tag filter.
// A collection that was never loaded is synced first.
func (a *App) List(ctx context.Context, c models.Collection, search, tag string) error {
	a.setCurrent(c)
	a.view.Filter(search, tag)

	snap, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if !snap.Loaded(c) && a.isLoggedIn() {
		_, err := a.syncer.Sync(ctx, c)
		return err
	}
	return a.syncer.Show(ctx, c)
}

// More shows the next page of the current list.
func (a *App) More(ctx context.Context) error {
	a.view.More()
	return nil
}

// Tags prints the tag index.
func (a *App) Tags(ctx context.Context) error {
	if err := a.syncer.Show(ctx, a.currentCollection()); err != nil {
		return err
	}
	a.view.ShowTags()
	return nil
}

// Act performs kind on the item id. Tags only matter for IntentTags.
func (a *App) Act(ctx context.Context, kind models.IntentKind, id, tags string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	intent, err := a.intentFor(ctx, kind, id)
	if err != nil {
		return err
	}
	intent.Tags = tags
	return a.actions.Perform(ctx, intent)
}

// intentFor resolves the collection and favourite flag of a cached item.
// Unknown ids are acted on from the current collection.
func (a *App) intentFor(ctx context.Context, kind models.IntentKind, id string) (models.Intent, error) {
	intent := models.Intent{Kind: kind, ItemID: id, Collection: a.currentCollection()}
	snap, err := a.store.Load(ctx)
	if err != nil {
		return intent, err
	}
	if c, i, ok := snap.Find(id); ok {
		intent.Collection = c
		intent.Favourited = snap.Items(c)[i].Favorite
	}
	return intent, nil
}

// Add saves url with optional comma separated tags.
func (a *App) Add(ctx context.Context, url, tags string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.setCurrent(models.List)
	_, err := a.actions.Add(ctx, url, models.ParseTags(tags))
	return err
}

// ShowSettings prints the current settings.
func (a *App) ShowSettings(ctx context.Context) error {
	st, err := a.settings.Load(ctx)
	if err != nil {
		return err
	}
	printlnFn("defaultPage    =", st.DefaultPage)
	printlnFn("order          =", st.Order)
	printlnFn("theme          =", st.Theme)
	printlnFn("updateInterval =", int(st.UpdateInterval/time.Second))
	return nil
}

// SetSetting validates and stores one setting and applies it right away.
func (a *App) SetSetting(ctx context.Context, name, value string) error {
	st, err := a.settings.Set(ctx, name, value)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	a.view.SetTheme(st.Theme)
	a.view.SetOrder(st.Order)
	a.notifyReschedule()
	printlnFn("Saved", name)
	return nil
}
