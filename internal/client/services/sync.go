package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/readkeeper/internal/client/cache"
	"github.com/dmitrijs2005/readkeeper/internal/client/client"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/presenter"
	"github.com/dmitrijs2005/readkeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
	"golang.org/x/sync/singleflight"
)

// errSuperseded means the cache changed under an in-flight sync (a logout
// reset the service or wiped the cursor) and the response was dropped.
var errSuperseded = errors.New("sync superseded by a concurrent change")

// SyncService fetches collections and merges them into the cache.
type SyncService interface {
	// Sync brings target up to date and re-renders it.
	Sync(ctx context.Context, target models.Collection) (reconcile.Result, error)
	// RequestFullSync makes the next Sync of any collection a full one.
	RequestFullSync()
	// Show renders the cached target without touching the network.
	Show(ctx context.Context, target models.Collection) error
	// Reset drops the results of syncs still in flight and the forced flag.
	// Call it before the session's data is wiped.
	Reset()
}

type syncService struct {
	client    client.Client
	store     *cache.Store
	engine    reconcile.Engine
	presenter presenter.ListPresenter
	log       logging.Logger
	pageSize  int

	group  singleflight.Group
	forced atomic.Bool
	// epoch changes on Reset; a sync saves only if it is unchanged.
	epoch atomic.Uint64
}

// NewSyncService builds a SyncService. pageSize > 0 pages full fetches.
func NewSyncService(c client.Client, store *cache.Store, p presenter.ListPresenter, pageSize int, log logging.Logger) SyncService {
	if log == nil {
		log = logging.Discard()
	}
	if p == nil {
		p = presenter.Nop{}
	}
	return &syncService{client: c, store: store, presenter: p, pageSize: pageSize, log: log}
}

func (s *syncService) RequestFullSync() {
	s.forced.Store(true)
}

func (s *syncService) Reset() {
	s.epoch.Add(1)
	s.forced.Store(false)
}

func (s *syncService) Sync(ctx context.Context, target models.Collection) (reconcile.Result, error) {
	forced := s.forced.Load()
	key := fmt.Sprintf("%s/%t", target, forced)

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.sync(ctx, target, forced)
	})
	if shared {
		s.log.Debug(ctx, "joined in-flight sync", "collection", target, "forced", forced)
	}
	if err != nil {
		s.log.Warn(ctx, "sync failed", "collection", target, "err", err)
		s.presenter.ShowMessage(presenter.LevelError, "sync failed: "+userMessage(err))
		return reconcile.Result{}, err
	}
	return v.(reconcile.Result), nil
}

func (s *syncService) sync(ctx context.Context, target models.Collection, forced bool) (reconcile.Result, error) {
	epoch := s.epoch.Load()
	snap, err := s.store.Load(ctx)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("load cache: %w", err)
	}
	mode := s.engine.ModeFor(snap, target, forced)

	var resp *models.ListResponse
	if mode == reconcile.Full {
		resp, err = s.fetchFull(ctx, target)
	} else {
		resp, err = s.client.Retrieve(ctx, client.RetrieveRequest{
			Since:      snap.Since(target),
			DetailType: "complete",
		})
	}
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("fetch %s: %w", target, err)
	}

	var (
		res  reconcile.Result
		view presenter.View
	)
	err = s.store.Update(ctx, func(snap *cache.Snapshot) error {
		if s.epoch.Load() != epoch {
			return errSuperseded
		}
		if mode == reconcile.Delta && !snap.Loaded(target) {
			return errSuperseded
		}
		res = s.engine.Reconcile(snap, target, resp, mode == reconcile.Full)
		view = viewOf(snap, target)
		return nil
	})
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("save %s: %w", target, err)
	}

	if res.ClearForced && forced {
		s.forced.CompareAndSwap(true, false)
	}
	if len(res.Duplicates) > 0 {
		s.log.Warn(ctx, "duplicate ids in delta", "collection", target, "ids", res.Duplicates)
	}
	s.log.Info(ctx, "synced",
		"collection", target,
		"mode", res.Mode,
		"items", len(resp.Items),
		"count", view.Count,
		"since", resp.Since,
	)

	s.presenter.Render(view)
	return res, nil
}

// fetchFull reads the whole collection, page by page when a page size is
// configured. The cursor and total come from the first page.
func (s *syncService) fetchFull(ctx context.Context, target models.Collection) (*models.ListResponse, error) {
	req := client.RetrieveRequest{
		State:      target.State(),
		Sort:       "newest",
		DetailType: "complete",
		Total:      true,
	}
	if s.pageSize <= 0 {
		return s.client.Retrieve(ctx, req)
	}

	req.Count = s.pageSize
	var out *models.ListResponse
	for {
		page, err := s.client.Retrieve(ctx, req)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = page
		} else {
			out.Items = append(out.Items, page.Items...)
		}
		if len(page.Items) < s.pageSize || (out.Total > 0 && len(out.Items) >= out.Total) {
			return out, nil
		}
		req.Offset += len(page.Items)
		s.log.Debug(ctx, "fetching next page", "collection", target, "offset", req.Offset)
	}
}

func (s *syncService) Show(ctx context.Context, target models.Collection) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cache: %w", err)
	}
	s.presenter.Render(viewOf(snap, target))
	return nil
}

func viewOf(snap *cache.Snapshot, c models.Collection) presenter.View {
	cp := snap.Clone()
	return presenter.View{
		Collection: c,
		Items:      cp.Items(c),
		Count:      cp.Count(c),
		Tags:       cp.Tags,
	}
}

// userMessage turns an error into a short status line.
func userMessage(err error) string {
	switch {
	case errors.Is(err, client.ErrNotLoggedIn):
		return "not logged in"
	case errors.Is(err, client.ErrUnauthorized):
		return "session rejected, please log in again"
	case errors.Is(err, client.ErrRateLimited):
		return "rate limited, try again later"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, client.ErrActionRejected):
		return "the server did not apply the change"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return err.Error()
	}
}
