package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/readkeeper/internal/client/cache"
	"github.com/dmitrijs2005/readkeeper/internal/client/client"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/presenter"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAction(t *testing.T) {
	now := time.Unix(1700000000, 0)
	cases := []struct {
		name   string
		intent models.Intent
		want   models.Action
	}{
		{"read from list", models.Intent{Kind: models.IntentRead, ItemID: "1", Collection: models.List},
			models.Action{Action: models.ActionArchive, ItemID: "1", Time: 1700000000}},
		{"read from archive", models.Intent{Kind: models.IntentRead, ItemID: "1", Collection: models.Archive},
			models.Action{Action: models.ActionReadd, ItemID: "1", Time: 1700000000}},
		{"favourite", models.Intent{Kind: models.IntentFavourite, ItemID: "2"},
			models.Action{Action: models.ActionFavorite, ItemID: "2", Time: 1700000000}},
		{"unfavourite", models.Intent{Kind: models.IntentFavourite, ItemID: "2", Favourited: true},
			models.Action{Action: models.ActionUnfavorite, ItemID: "2", Time: 1700000000}},
		{"delete", models.Intent{Kind: models.IntentDelete, ItemID: "3"},
			models.Action{Action: models.ActionDelete, ItemID: "3", Time: 1700000000}},
		{"tags", models.Intent{Kind: models.IntentTags, ItemID: "4", Tags: " go, db ,,go"},
			models.Action{Action: models.ActionTagsReplace, ItemID: "4", Time: 1700000000, Tags: "go,db"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BuildAction(tc.intent, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := BuildAction(models.Intent{Kind: "share", ItemID: "1"}, now)
	assert.ErrorIs(t, err, common.ErrorInvalidData)
	_, err = BuildAction(models.Intent{Kind: models.IntentRead}, now)
	assert.ErrorIs(t, err, common.ErrorInvalidData)
}

func seededStore(t *testing.T) *cache.Store {
	t.Helper()
	store := newStore(t)
	seed(t, store, &cache.Snapshot{
		List: cache.CollectionState{
			Items: []models.Item{item("1", models.StatusUnread, 2), item("2", models.StatusUnread, 1, "old")},
			Since: "100",
			Count: 2,
		},
		Archive: cache.CollectionState{
			Items: []models.Item{item("9", models.StatusArchived, 1)},
			Since: "100",
			Count: 1,
		},
		Tags: []string{"old"},
	})
	return store
}

func TestPerform_ReadRemovesFromList(t *testing.T) {
	store := seededStore(t)
	p := &fakePresenter{}
	fc := &fakeClient{}
	svc := NewActionService(fc, store, p, nil)

	err := svc.Perform(context.Background(), models.Intent{Kind: models.IntentRead, ItemID: "1", Collection: models.List})
	require.NoError(t, err)

	require.Len(t, fc.Sent, 1)
	assert.Equal(t, models.ActionArchive, fc.Sent[0][0].Action)

	snap := load(t, store)
	assert.Equal(t, []string{"2"}, ids(snap.Items(models.List)))
	assert.Equal(t, 1, snap.Count(models.List))
	assert.Equal(t, []string{"9"}, ids(snap.Items(models.Archive)), "no optimistic add to archive")
	assert.Equal(t, 1, snap.Count(models.Archive))

	assert.Equal(t, []string{"list/1"}, p.Removed)
	assert.Equal(t, message{presenter.LevelInfo, "archived"}, p.lastMessage())
}

func TestPerform_DeleteUncachedKeepsCount(t *testing.T) {
	store := seededStore(t)
	svc := NewActionService(&fakeClient{}, store, nil, nil)

	err := svc.Perform(context.Background(), models.Intent{Kind: models.IntentDelete, ItemID: "404", Collection: models.List})
	require.NoError(t, err)

	snap := load(t, store)
	assert.Equal(t, 2, snap.Count(models.List))
	assert.Len(t, snap.Items(models.List), 2)
}

func TestPerform_ReaddFromArchive(t *testing.T) {
	store := seededStore(t)
	fc := &fakeClient{}
	svc := NewActionService(fc, store, nil, nil)

	err := svc.Perform(context.Background(), models.Intent{Kind: models.IntentRead, ItemID: "9", Collection: models.Archive})
	require.NoError(t, err)
	assert.Equal(t, models.ActionReadd, fc.Sent[0][0].Action)

	snap := load(t, store)
	assert.Empty(t, snap.Items(models.Archive))
	assert.Equal(t, 0, snap.Count(models.Archive))
	assert.Len(t, snap.Items(models.List), 2)
}

func TestPerform_FavouriteFlipsFlag(t *testing.T) {
	store := seededStore(t)
	p := &fakePresenter{}
	svc := NewActionService(&fakeClient{}, store, p, nil)
	ctx := context.Background()

	require.NoError(t, svc.Perform(ctx, models.Intent{Kind: models.IntentFavourite, ItemID: "2", Collection: models.List}))
	snap := load(t, store)
	assert.True(t, snap.Items(models.List)[1].Favorite)
	require.Len(t, p.Updated, 1)
	assert.True(t, p.Updated[0].Favorite)

	require.NoError(t, svc.Perform(ctx, models.Intent{Kind: models.IntentFavourite, ItemID: "2", Collection: models.List, Favourited: true}))
	snap = load(t, store)
	assert.False(t, snap.Items(models.List)[1].Favorite)
	assert.Equal(t, 2, snap.Count(models.List))
}

func TestPerform_TagsReplaceAndMergeIndex(t *testing.T) {
	store := seededStore(t)
	svc := NewActionService(&fakeClient{}, store, nil, nil)

	err := svc.Perform(context.Background(), models.Intent{Kind: models.IntentTags, ItemID: "2", Collection: models.List, Tags: "new, go"})
	require.NoError(t, err)

	snap := load(t, store)
	assert.Equal(t, []string{"new", "go"}, snap.Items(models.List)[1].Tags)
	assert.Equal(t, []string{"go", "new", "old"}, snap.Tags, "index keeps tags no item uses anymore")
}

func TestPerform_FailureLeavesCacheAlone(t *testing.T) {
	cases := []struct {
		name    string
		client  *fakeClient
		wantErr error
	}{
		{"rejected status", &fakeClient{SendRet: &client.SendResult{Status: 0, Results: []bool{true}}}, client.ErrActionRejected},
		{"false result", &fakeClient{SendRet: &client.SendResult{Status: 1, Results: []bool{false}}}, client.ErrActionRejected},
		{"network", &fakeClient{SendErr: fmt.Errorf("%w: reset", client.ErrUnavailable)}, client.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := seededStore(t)
			before := load(t, store)
			p := &fakePresenter{}
			svc := NewActionService(tc.client, store, p, nil)

			err := svc.Perform(context.Background(), models.Intent{Kind: models.IntentRead, ItemID: "1", Collection: models.List})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)

			assert.Equal(t, before, load(t, store))
			assert.Empty(t, p.Removed)
			assert.Equal(t, presenter.LevelError, p.lastMessage().Level)
		})
	}
}

func TestAdd_PrependsToList(t *testing.T) {
	store := seededStore(t)
	p := &fakePresenter{}
	added := item("50", models.StatusUnread, 0, "fresh")
	fc := &fakeClient{AddRet: &added}
	svc := NewActionService(fc, store, p, nil)

	got, err := svc.Add(context.Background(), " https://example.com ", []string{"fresh"})
	require.NoError(t, err)
	assert.Equal(t, "50", got.ID)

	snap := load(t, store)
	assert.Equal(t, []string{"50", "1", "2"}, ids(snap.Items(models.List)))
	assert.Equal(t, 3, snap.Count(models.List))
	assert.Equal(t, []string{"fresh", "old"}, snap.Tags)
	require.Len(t, p.Renders, 1)
	assert.Equal(t, 3, p.Renders[0].Count)

	// adding the same url again does not duplicate the row
	_, err = svc.Add(context.Background(), "https://example.com", nil)
	require.NoError(t, err)
	snap = load(t, store)
	assert.Equal(t, []string{"50", "1", "2"}, ids(snap.Items(models.List)))
	assert.Equal(t, 3, snap.Count(models.List))
}

func TestAdd_Errors(t *testing.T) {
	store := seededStore(t)
	svc := NewActionService(&fakeClient{AddErr: client.ErrRateLimited}, store, nil, nil)

	_, err := svc.Add(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, common.ErrorInvalidData)

	_, err = svc.Add(context.Background(), "https://example.com", nil)
	assert.ErrorIs(t, err, client.ErrRateLimited)
	assert.Equal(t, 2, load(t, store).Count(models.List))
}
