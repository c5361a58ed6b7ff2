package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/readkeeper/internal/client/cache"
	"github.com/dmitrijs2005/readkeeper/internal/client/client"
	"github.com/dmitrijs2005/readkeeper/internal/common"
	"github.com/dmitrijs2005/readkeeper/internal/cryptox"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
	"github.com/google/uuid"
)

// ErrAuthFailed is returned when the OAuth flow is rejected, the token
// exchange fails or a sealed token cannot be opened.
var ErrAuthFailed = errors.New("authentication failed")

// PassphraseFunc asks the user for the passphrase protecting the token.
type PassphraseFunc func() ([]byte, error)

// LoginRequest is a started OAuth flow waiting for the user to approve it.
type LoginRequest struct {
	Code         string
	State        string
	AuthorizeURL string
}

// AuthService handles the session lifecycle.
//
// Contract:
//   - BeginLogin: obtain a request token and the URL the user must open.
//   - CompleteLogin: exchange the approved token, persist the session.
//   - Restore: load a stored session into the client.
//   - Logout: forget the session and wipe every cached key.
type AuthService interface {
	BeginLogin(ctx context.Context) (*LoginRequest, error)
	CompleteLogin(ctx context.Context, req *LoginRequest, passphrase []byte) (string, error)
	Restore(ctx context.Context, passphrase PassphraseFunc) (string, error)
	Logout(ctx context.Context) error
}

type AuthOptions struct {
	AuthorizeURL string
	RedirectURI  string
	// SealToken stores the access token encrypted under a passphrase.
	SealToken bool
}

type authService struct {
	client client.Client
	store  *cache.Store
	opts   AuthOptions
	log    logging.Logger
}

func NewAuthService(c client.Client, store *cache.Store, opts AuthOptions, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{client: c, store: store, opts: opts, log: log}
}

func (a *authService) BeginLogin(ctx context.Context) (*LoginRequest, error) {
	state := uuid.NewString()
	code, err := a.client.RequestToken(ctx, a.opts.RedirectURI, state)
	if err != nil {
		a.log.Warn(ctx, "request token failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	u, err := url.Parse(a.opts.AuthorizeURL)
	if err != nil {
		return nil, fmt.Errorf("authorize url: %w", err)
	}
	q := u.Query()
	q.Set("request_token", code)
	q.Set("redirect_uri", a.opts.RedirectURI)
	u.RawQuery = q.Encode()

	return &LoginRequest{Code: code, State: state, AuthorizeURL: u.String()}, nil
}

func (a *authService) CompleteLogin(ctx context.Context, req *LoginRequest, passphrase []byte) (string, error) {
	if req == nil || req.Code == "" {
		return "", fmt.Errorf("%w: no pending login", ErrAuthFailed)
	}

	sess, err := a.client.Authorize(ctx, req.Code)
	if err != nil {
		a.dropSession(ctx)
		a.log.Warn(ctx, "authorize failed", "err", err)
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	values := map[string]string{
		cache.KeyUsername: sess.Username,
		cache.KeyToken:    sess.AccessToken,
	}
	if a.opts.SealToken {
		if len(passphrase) == 0 {
			a.dropSession(ctx)
			return "", fmt.Errorf("%w: passphrase required to seal the token", ErrAuthFailed)
		}
		salt := cryptox.NewSalt()
		key := cryptox.DeriveKey(passphrase, salt)
		defer common.WipeByteArray(key)

		sealed, err := cryptox.Seal([]byte(sess.AccessToken), key)
		if err != nil {
			a.dropSession(ctx)
			return "", fmt.Errorf("seal token: %w", err)
		}
		values[cache.KeyToken] = base64.StdEncoding.EncodeToString(sealed)
		values[cache.KeyTokenSalt] = base64.StdEncoding.EncodeToString(salt)
	}

	if err := a.store.DeleteValues(ctx, cache.KeyTokenSalt); err != nil {
		a.dropSession(ctx)
		return "", fmt.Errorf("session saving error: %w", err)
	}
	if err := a.store.SetValues(ctx, values); err != nil {
		a.dropSession(ctx)
		return "", fmt.Errorf("session saving error: %w", err)
	}

	a.log.Info(ctx, "logged in", "username", sess.Username, "sealed", a.opts.SealToken)
	return sess.Username, nil
}

func (a *authService) Restore(ctx context.Context, passphrase PassphraseFunc) (string, error) {
	token, ok, err := a.store.Value(ctx, cache.KeyToken)
	if err != nil {
		return "", err
	}
	if !ok || token == "" {
		return "", client.ErrNotLoggedIn
	}
	username, _, err := a.store.Value(ctx, cache.KeyUsername)
	if err != nil {
		return "", err
	}

	saltB64, sealed, err := a.store.Value(ctx, cache.KeyTokenSalt)
	if err != nil {
		return "", err
	}
	if sealed {
		token, err = a.unseal(token, saltB64, passphrase)
		if err != nil {
			return "", err
		}
	}

	a.client.SetAccessToken(token)
	return username, nil
}

func (a *authService) unseal(token, saltB64 string, passphrase PassphraseFunc) (string, error) {
	if passphrase == nil {
		return "", fmt.Errorf("%w: token is sealed", ErrAuthFailed)
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", fmt.Errorf("%w: bad token salt", ErrAuthFailed)
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: bad sealed token", ErrAuthFailed)
	}

	pass, err := passphrase()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	key := cryptox.DeriveKey(pass, salt)
	defer common.WipeByteArray(key)
	common.WipeByteArray(pass)

	plain, err := cryptox.Open(data, key)
	if err != nil {
		return "", fmt.Errorf("%w: wrong passphrase", ErrAuthFailed)
	}
	return string(plain), nil
}

// Logout clears the client token and wipes the local store.
func (a *authService) Logout(ctx context.Context) error {
	a.client.SetAccessToken("")
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear local data: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) dropSession(ctx context.Context) {
	a.client.SetAccessToken("")
	if err := a.store.DeleteValues(ctx, cache.SessionKeys...); err != nil {
		a.log.Error(ctx, "failed to drop session keys", "err", err)
	}
}
