package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/readkeeper/internal/client/cache"
	"github.com/dmitrijs2005/readkeeper/internal/client/client"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/presenter"
	"github.com/stretchr/testify/require"
)

// ---- store ----

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return cache.NewStore(db, nil)
}

func seed(t *testing.T, s *cache.Store, snap *cache.Snapshot) {
	t.Helper()
	require.NoError(t, s.Update(context.Background(), func(cur *cache.Snapshot) error {
		*cur = *snap.Clone()
		return nil
	}))
}

func load(t *testing.T, s *cache.Store) *cache.Snapshot {
	t.Helper()
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	return snap
}

func item(id string, status models.Status, sortKey int64, tags ...string) models.Item {
	return models.Item{ID: id, Status: status, SortKey: sortKey, Tags: tags, Title: "title " + id}
}

func ids(items []models.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// ---- fake client ----

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	RetrieveFn func(req client.RetrieveRequest) (*models.ListResponse, error)
	Requests   []client.RetrieveRequest

	SendRet *client.SendResult
	SendErr error
	Sent    [][]models.Action

	AddRet *models.Item
	AddErr error

	RequestTokenRet string
	RequestTokenErr error
	AuthorizeRet    client.Session
	AuthorizeErr    error

	Token string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) RequestToken(ctx context.Context, redirectURI, state string) (string, error) {
	return f.RequestTokenRet, f.RequestTokenErr
}

func (f *fakeClient) Authorize(ctx context.Context, code string) (client.Session, error) {
	if f.AuthorizeErr != nil {
		return client.Session{}, f.AuthorizeErr
	}
	f.SetAccessToken(f.AuthorizeRet.AccessToken)
	return f.AuthorizeRet, nil
}

func (f *fakeClient) SetAccessToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Token = token
}

func (f *fakeClient) token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Token
}

func (f *fakeClient) Retrieve(ctx context.Context, req client.RetrieveRequest) (*models.ListResponse, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	fn := f.RetrieveFn
	f.mu.Unlock()
	if fn == nil {
		return &models.ListResponse{}, nil
	}
	return fn(req)
}

func (f *fakeClient) requests() []client.RetrieveRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.RetrieveRequest(nil), f.Requests...)
}

func (f *fakeClient) Send(ctx context.Context, actions []models.Action) (*client.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, actions)
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	if f.SendRet != nil {
		return f.SendRet, nil
	}
	return &client.SendResult{Status: 1, Results: []bool{true}}, nil
}

func (f *fakeClient) Add(ctx context.Context, url string, tags []string) (*models.Item, error) {
	return f.AddRet, f.AddErr
}

// ---- fake presenter ----

type message struct {
	Level presenter.Level
	Text  string
}

type fakePresenter struct {
	mu       sync.Mutex
	Renders  []presenter.View
	Removed  []string
	Updated  []models.Item
	Messages []message
}

func (p *fakePresenter) Render(v presenter.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Renders = append(p.Renders, v)
}

func (p *fakePresenter) RemoveRow(c models.Collection, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Removed = append(p.Removed, string(c)+"/"+id)
}

func (p *fakePresenter) UpdateRow(c models.Collection, it models.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Updated = append(p.Updated, it)
}

func (p *fakePresenter) ShowMessage(level presenter.Level, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages = append(p.Messages, message{level, msg})
}

func (p *fakePresenter) lastMessage() message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Messages) == 0 {
		return message{}
	}
	return p.Messages[len(p.Messages)-1]
}
