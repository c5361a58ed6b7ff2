package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
	"github.com/google/uuid"
)

const (
	pathRequestToken = "/v3/oauth/request"
	pathAuthorize    = "/v3/oauth/authorize"
	pathGet          = "/v3/get"
	pathSend         = "/v3/send"
	pathAdd          = "/v3/add"
)

// HTTPClient talks JSON to the read-later API over HTTP.
type HTTPClient struct {
	baseURL     string
	consumerKey string
	httpClient  *http.Client
	log         logging.Logger

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, consumerKey string, timeout time.Duration, log logging.Logger) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logging.Discard()
	}
	return &HTTPClient{
		baseURL:     baseURL,
		consumerKey: consumerKey,
		httpClient:  &http.Client{Timeout: timeout},
		log:         log,
	}
}

func (c *HTTPClient) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *HTTPClient) token() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.accessToken == "" {
		return "", ErrNotLoggedIn
	}
	return c.accessToken, nil
}

func (c *HTTPClient) RequestToken(ctx context.Context, redirectURI, state string) (string, error) {
	body := map[string]any{
		"consumer_key": c.consumerKey,
		"redirect_uri": redirectURI,
	}
	if state != "" {
		body["state"] = state
	}
	var out struct {
		Code string `json:"code"`
	}
	if err := c.doJSON(ctx, pathRequestToken, body, &out); err != nil {
		return "", err
	}
	if out.Code == "" {
		return "", fmt.Errorf("empty request token")
	}
	return out.Code, nil
}

func (c *HTTPClient) Authorize(ctx context.Context, code string) (Session, error) {
	body := map[string]any{
		"consumer_key": c.consumerKey,
		"code":         code,
	}
	var out struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	if err := c.doJSON(ctx, pathAuthorize, body, &out); err != nil {
		return Session{}, err
	}
	if out.AccessToken == "" {
		return Session{}, fmt.Errorf("empty access token")
	}
	c.SetAccessToken(out.AccessToken)
	return Session{Username: out.Username, AccessToken: out.AccessToken}, nil
}

func (c *HTTPClient) Retrieve(ctx context.Context, req RetrieveRequest) (*models.ListResponse, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"consumer_key": c.consumerKey,
		"access_token": token,
	}
	if req.Since != "" {
		body["since"] = req.Since
	} else if req.State != "" {
		body["state"] = req.State
	}
	if req.Sort != "" {
		body["sort"] = req.Sort
	}
	if req.DetailType != "" {
		body["detailType"] = req.DetailType
	}
	if req.Count > 0 {
		body["count"] = req.Count
	}
	if req.Offset > 0 {
		body["offset"] = req.Offset
	}
	if req.Total {
		body["total"] = "1"
	}

	var out wireList
	if err := c.doJSON(ctx, pathGet, body, &out); err != nil {
		return nil, err
	}
	return out.toModel()
}

func (c *HTTPClient) Send(ctx context.Context, actions []models.Action) (*SendResult, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"consumer_key": c.consumerKey,
		"access_token": token,
		"actions":      actions,
	}
	var out wireSend
	if err := c.doJSON(ctx, pathSend, body, &out); err != nil {
		return nil, err
	}
	return out.toModel(), nil
}

func (c *HTTPClient) Add(ctx context.Context, url string, tags []string) (*models.Item, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"consumer_key": c.consumerKey,
		"access_token": token,
		"url":          url,
	}
	if len(tags) > 0 {
		body["tags"] = models.JoinTags(tags)
	}
	var out struct {
		Item   wireItem `json:"item"`
		Status flexInt  `json:"status"`
	}
	if err := c.doJSON(ctx, pathAdd, body, &out); err != nil {
		return nil, err
	}
	if out.Status != 1 {
		return nil, ErrActionRejected
	}
	item, err := out.Item.toModel("")
	if err != nil {
		return nil, err
	}
	if item.URL == "" {
		item.URL = url
	}
	if len(item.Tags) == 0 {
		item.Tags = tags
	}
	return &item, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, requestPath string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+requestPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	correlationID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set(common.AcceptHeaderName, "application/json")
	req.Header.Set(common.CorrelationHeaderName, correlationID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Warn(ctx, "request failed", "path", requestPath, "correlation_id", correlationID, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	data, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, readErr)
	}

	c.log.Debug(ctx, "request done",
		"path", requestPath,
		"status", resp.StatusCode,
		"correlation_id", correlationID,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Header.Get(common.ErrorHeaderName)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return NewAPIError(resp.StatusCode, resp.Header.Get(common.ErrorCodeHeaderName), msg)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", requestPath, err)
	}
	return nil
}
