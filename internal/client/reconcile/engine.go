package reconcile

import (
	"sort"

	"github.com/dmitrijs2005/readkeeper/internal/client/cache"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Mode is how a response is applied.
type Mode int

const (
	Full Mode = iota
	Delta
)

func (m Mode) String() string {
	if m == Delta {
		return "delta"
	}
	return "full"
}

// Change lists the ids that entered, left or were replaced in place within
// one collection.
type Change struct {
	Added   []string
	Removed []string
	Updated []string
}

func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Updated) == 0
}

// Result describes one reconcile pass.
type Result struct {
	Mode   Mode
	Target models.Collection
	// Changes is keyed by collection. Full passes report the target only.
	Changes map[models.Collection]Change
	// Duplicates are ids seen more than once in a delta batch. Only the
	// first occurrence in processing order was applied.
	Duplicates []string
	// ClearForced tells the caller to drop its pending forced-sync flag.
	ClearForced bool
}

// Engine applies list responses to a snapshot. The zero value is ready to use.
type Engine struct{}

// ModeFor picks the mode for the next sync of target.
func (Engine) ModeFor(snap *cache.Snapshot, target models.Collection, forced bool) Mode {
	if forced || !snap.Loaded(target) {
		return Full
	}
	return Delta
}

// Reconcile applies resp to snap. The mode is recomputed from snap so a
// snapshot that changed after the fetch was planned is still handled
// consistently.
func (e Engine) Reconcile(snap *cache.Snapshot, target models.Collection, resp *models.ListResponse, forced bool) Result {
	if resp == nil {
		resp = &models.ListResponse{}
	}
	if e.ModeFor(snap, target, forced) == Full {
		return e.full(snap, target, resp)
	}
	return e.delta(snap, target, resp)
}

func (Engine) full(snap *cache.Snapshot, target models.Collection, resp *models.ListResponse) Result {
	firstEver := !snap.AnyLoaded()

	items := make([]models.Item, len(resp.Items))
	copy(items, resp.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortKey < items[j].SortKey })

	before := snap.Items(target)
	change := diffIDs(before, items)

	snap.SetItems(target, items)
	snap.SetSince(target, resp.Since)

	count := resp.Total
	if count == 0 {
		count = len(items)
	}
	snap.SetCount(target, count)

	tags := make([][]string, 0, len(items))
	for _, it := range items {
		tags = append(tags, it.Tags)
	}
	if firstEver {
		snap.Tags = models.MergeTags(nil, tags...)
	} else {
		snap.Tags = models.MergeTags(snap.Tags, tags...)
	}

	return Result{
		Mode:        Full,
		Target:      target,
		Changes:     map[models.Collection]Change{target: change},
		ClearForced: true,
	}
}

func (Engine) delta(snap *cache.Snapshot, target models.Collection, resp *models.ListResponse) Result {
	items := make([]models.Item, len(resp.Items))
	copy(items, resp.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortKey > items[j].SortKey })

	archiveLoaded := snap.Loaded(models.Archive)
	changes := map[models.Collection]Change{}
	res := Result{Mode: Delta, Target: target, Changes: changes}

	remove := func(c models.Collection, id string) {
		rest, ok := models.RemoveByID(snap.Items(c), id)
		if !ok {
			return
		}
		snap.SetItems(c, rest)
		snap.AddCount(c, -1)
		ch := changes[c]
		ch.Removed = append(ch.Removed, id)
		changes[c] = ch
	}
	prepend := func(c models.Collection, it models.Item) {
		snap.SetItems(c, models.Prepend(snap.Items(c), it))
		snap.AddCount(c, 1)
		ch := changes[c]
		ch.Added = append(ch.Added, it.ID)
		changes[c] = ch
	}

	seen := make(map[string]struct{}, len(items))
	tags := make([][]string, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			res.Duplicates = append(res.Duplicates, it.ID)
			continue
		}
		seen[it.ID] = struct{}{}

		switch it.Status {
		case models.StatusUnread:
			remove(models.List, it.ID)
			if archiveLoaded {
				// readd: an id lives in at most one collection.
				remove(models.Archive, it.ID)
			}
			prepend(models.List, it)
		case models.StatusArchived:
			remove(models.List, it.ID)
			if archiveLoaded {
				remove(models.Archive, it.ID)
				prepend(models.Archive, it)
			}
		case models.StatusDeleted:
			remove(models.List, it.ID)
			if archiveLoaded {
				remove(models.Archive, it.ID)
			}
		default:
			continue
		}
		tags = append(tags, it.Tags)
	}

	snap.SetSince(models.List, resp.Since)
	if archiveLoaded {
		snap.SetSince(models.Archive, resp.Since)
	}
	snap.Tags = models.MergeTags(snap.Tags, tags...)

	// A removal followed by a prepend of the same id is reported as Updated.
	for c, ch := range changes {
		changes[c] = normalize(ch)
	}
	return res
}

func diffIDs(before, after []models.Item) Change {
	old := make(map[string]struct{}, len(before))
	for _, it := range before {
		old[it.ID] = struct{}{}
	}
	cur := make(map[string]struct{}, len(after))
	var ch Change
	for _, it := range after {
		cur[it.ID] = struct{}{}
		if _, ok := old[it.ID]; !ok {
			ch.Added = append(ch.Added, it.ID)
		}
	}
	for _, it := range before {
		if _, ok := cur[it.ID]; !ok {
			ch.Removed = append(ch.Removed, it.ID)
		}
	}
	return ch
}

func normalize(ch Change) Change {
	removed := make(map[string]struct{}, len(ch.Removed))
	for _, id := range ch.Removed {
		removed[id] = struct{}{}
	}
	var out Change
	updated := map[string]struct{}{}
	for _, id := range ch.Added {
		if _, ok := removed[id]; ok {
			out.Updated = append(out.Updated, id)
			updated[id] = struct{}{}
			continue
		}
		out.Added = append(out.Added, id)
	}
	for _, id := range ch.Removed {
		if _, ok := updated[id]; !ok {
			out.Removed = append(out.Removed, id)
		}
	}
	return out
}
