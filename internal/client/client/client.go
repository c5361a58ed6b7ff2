package client

import (
	"context"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Client is the contract with the read-later API.
type Client interface {
	// RequestToken starts the OAuth flow and returns the request token.
	RequestToken(ctx context.Context, redirectURI, state string) (string, error)
	// Authorize exchanges an approved request token for an access token and
	// keeps it for subsequent calls.
	Authorize(ctx context.Context, code string) (Session, error)
	// SetAccessToken restores a previously stored access token. An empty
	// token logs the client out.
	SetAccessToken(token string)

	Retrieve(ctx context.Context, req RetrieveRequest) (*models.ListResponse, error)
	Send(ctx context.Context, actions []models.Action) (*SendResult, error)
	Add(ctx context.Context, url string, tags []string) (*models.Item, error)
}

// Session is the outcome of a successful OAuth authorization.
type Session struct {
	Username    string
	AccessToken string
}

// RetrieveRequest selects what the list endpoint returns. A non-empty Since
// asks for changes only and State is then left out of the request.
type RetrieveRequest struct {
	State      string
	Since      string
	Sort       string
	DetailType string
	Count      int
	Offset     int
	Total      bool
}

// SendResult is the answer to an actions batch.
type SendResult struct {
	Status  int
	Results []bool
}

// OK reports whether the batch and the action at index n were applied.
func (r *SendResult) OK(n int) bool {
	if r == nil || r.Status != 1 {
		return false
	}
	if n < 0 || n >= len(r.Results) {
		return false
	}
	return r.Results[n]
}
