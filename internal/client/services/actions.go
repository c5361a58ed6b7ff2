package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/readkeeper/internal/client/cache"
	"github.com/dmitrijs2005/readkeeper/internal/client/client"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/presenter"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
)

// ActionService submits user actions and mirrors them in the cache.
type ActionService interface {
	// Perform sends the action for intent. The cache is only touched after
	// the server confirmed it.
	Perform(ctx context.Context, intent models.Intent) error
	// Add saves a new URL and puts the returned item on top of List.
	Add(ctx context.Context, url string, tags []string) (*models.Item, error)
}

type actionService struct {
	client    client.Client
	store     *cache.Store
	presenter presenter.ListPresenter
	log       logging.Logger
	now       func() time.Time
}

func NewActionService(c client.Client, store *cache.Store, p presenter.ListPresenter, log logging.Logger) ActionService {
	if log == nil {
		log = logging.Discard()
	}
	if p == nil {
		p = presenter.Nop{}
	}
	return &actionService{client: c, store: store, presenter: p, log: log, now: time.Now}
}

// BuildAction maps an intent onto the remote action payload.
func BuildAction(intent models.Intent, now time.Time) (models.Action, error) {
	if strings.TrimSpace(intent.ItemID) == "" {
		return models.Action{}, fmt.Errorf("%w: empty item id", common.ErrorInvalidData)
	}
	a := models.Action{ItemID: intent.ItemID, Time: now.Unix()}

	switch intent.Kind {
	case models.IntentRead:
		if intent.Collection == models.Archive {
			a.Action = models.ActionReadd
		} else {
			a.Action = models.ActionArchive
		}
	case models.IntentFavourite:
		if intent.Favourited {
			a.Action = models.ActionUnfavorite
		} else {
			a.Action = models.ActionFavorite
		}
	case models.IntentDelete:
		a.Action = models.ActionDelete
	case models.IntentTags:
		a.Action = models.ActionTagsReplace
		a.Tags = models.JoinTags(models.ParseTags(intent.Tags))
	default:
		return models.Action{}, fmt.Errorf("%w: unknown action %q", common.ErrorInvalidData, intent.Kind)
	}
	return a, nil
}

func (s *actionService) Perform(ctx context.Context, intent models.Intent) error {
	action, err := BuildAction(intent, s.now())
	if err != nil {
		return err
	}

	res, err := s.client.Send(ctx, []models.Action{action})
	if err == nil && !res.OK(0) {
		err = client.ErrActionRejected
	}
	if err != nil {
		s.log.Warn(ctx, "action failed", "action", action.Action, "item_id", action.ItemID, "err", err)
		s.presenter.ShowMessage(presenter.LevelError, fmt.Sprintf("%s failed: %s", intent.Kind, userMessage(err)))
		return fmt.Errorf("%s %s: %w", action.Action, action.ItemID, err)
	}

	var (
		updated models.Item
		found   bool
	)
	err = s.store.Update(ctx, func(snap *cache.Snapshot) error {
		updated, found = applyIntent(snap, intent)
		return nil
	})
	if err != nil {
		// The server already applied the action; the next delta sync
		// brings the cache in line.
		s.log.Error(ctx, "cache update after action failed", "action", action.Action, "err", err)
		return fmt.Errorf("save: %w", err)
	}

	s.log.Info(ctx, "action applied", "action", action.Action, "item_id", action.ItemID, "cached", found)

	switch intent.Kind {
	case models.IntentRead, models.IntentDelete:
		s.presenter.RemoveRow(intent.Collection, intent.ItemID)
	default:
		if found {
			s.presenter.UpdateRow(intent.Collection, updated)
		}
	}
	s.presenter.ShowMessage(presenter.LevelInfo, doneMessage(action.Action))
	return nil
}

// applyIntent mirrors a confirmed action on the cached item in the
// intent's collection.
func applyIntent(snap *cache.Snapshot, intent models.Intent) (models.Item, bool) {
	c := intent.Collection
	items := snap.Items(c)

	switch intent.Kind {
	case models.IntentRead, models.IntentDelete:
		rest, ok := models.RemoveByID(items, intent.ItemID)
		if !ok {
			return models.Item{}, false
		}
		snap.SetItems(c, rest)
		snap.AddCount(c, -1)
		return models.Item{}, true

	case models.IntentFavourite, models.IntentTags:
		var tags []string
		if intent.Kind == models.IntentTags {
			tags = models.ParseTags(intent.Tags)
			snap.Tags = models.MergeTags(snap.Tags, tags)
		}
		i := models.IndexOf(items, intent.ItemID)
		if i < 0 {
			return models.Item{}, false
		}
		cp := make([]models.Item, len(items))
		copy(cp, items)
		if intent.Kind == models.IntentTags {
			cp[i].Tags = tags
		} else {
			cp[i].Favorite = !intent.Favourited
		}
		snap.SetItems(c, cp)
		return cp[i], true
	}
	return models.Item{}, false
}

func doneMessage(a models.ActionName) string {
	switch a {
	case models.ActionArchive:
		return "archived"
	case models.ActionReadd:
		return "moved back to the list"
	case models.ActionFavorite:
		return "added to favourites"
	case models.ActionUnfavorite:
		return "removed from favourites"
	case models.ActionDelete:
		return "deleted"
	case models.ActionTagsReplace:
		return "tags updated"
	default:
		return string(a)
	}
}

func (s *actionService) Add(ctx context.Context, url string, tags []string) (*models.Item, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", common.ErrorInvalidData)
	}

	item, err := s.client.Add(ctx, url, tags)
	if err != nil {
		s.log.Warn(ctx, "add failed", "url", url, "err", err)
		s.presenter.ShowMessage(presenter.LevelError, "add failed: "+userMessage(err))
		return nil, fmt.Errorf("add %s: %w", url, err)
	}

	var view presenter.View
	err = s.store.Update(ctx, func(snap *cache.Snapshot) error {
		list := snap.Items(models.List)
		if rest, ok := models.RemoveByID(list, item.ID); ok {
			list = rest
			snap.AddCount(models.List, -1)
		}
		snap.SetItems(models.List, models.Prepend(list, *item))
		snap.AddCount(models.List, 1)
		snap.Tags = models.MergeTags(snap.Tags, item.Tags)
		view = viewOf(snap, models.List)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	s.log.Info(ctx, "item added", "item_id", item.ID)
	s.presenter.Render(view)
	s.presenter.ShowMessage(presenter.LevelInfo, "added: "+item.DisplayTitle())
	return item, nil
}
