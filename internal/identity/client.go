// Package identity talks to the backend identity endpoints and owns the
// locally cached access token artifact.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/paylaterhq/storefront-core/pkg/config"
	pkgerrors "github.com/paylaterhq/storefront-core/pkg/errors"
	"github.com/paylaterhq/storefront-core/pkg/logger"
	"github.com/paylaterhq/storefront-core/pkg/storage"
	"github.com/paylaterhq/storefront-core/pkg/types"
)

const (
	mePath      = "/user/me"
	refreshPath = "/auth/refresh"
	logoutPath  = "/auth/logout"
)

// Client fetches the current actor and manages the token artifact.
type Client struct {
	baseURL    string
	httpClient *http.Client
	kv         storage.Store
	logg       *logger.Logger

	retryAttempts uint64
	retryBackoff  time.Duration
}

// NewClient wires the identity client against the backend API.
func NewClient(cfg config.APIConfig, sess config.SessionConfig, kv storage.Store, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api base url required")
	}
	if kv == nil {
		return nil, fmt.Errorf("storage port required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	backoff := sess.RetryBackoffStart
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		kv:            kv,
		logg:          logg,
		retryAttempts: sess.TransientRetries,
		retryBackoff:  backoff,
	}, nil
}

// Me resolves the current actor.
//
// A 401 triggers a single refresh before one retry of /user/me; a second
// auth failure clears the token artifact and resolves to UNAUTHENTICATED.
// Transient failures are retried with fibonacci backoff, bounded by config;
// auth failures are never retried.
func (c *Client) Me(ctx context.Context) (*types.Actor, error) {
	var actor *types.Actor

	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewFibonacci(c.retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resolved, err := c.resolveMe(ctx)
		if err != nil {
			if pkgerrors.IsRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		actor = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return actor, nil
}

// resolveMe performs one logical /user/me resolution, including the
// refresh-once dance.
func (c *Client) resolveMe(ctx context.Context) (*types.Actor, error) {
	token := c.currentToken(ctx)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "no session")
	}

	// A locally expired token goes straight to the refresh path instead of
	// a doomed round trip.
	if tokenExpired(token) {
		if err := c.Refresh(ctx); err != nil {
			return nil, c.clearAndFail(ctx, err)
		}
		token = c.currentToken(ctx)
	}

	actor, status, err := c.fetchMe(ctx, token)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		if err := c.Refresh(ctx); err != nil {
			return nil, c.clearAndFail(ctx, err)
		}
		actor, status, err = c.fetchMe(ctx, c.currentToken(ctx))
		if err != nil {
			return nil, err
		}
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, c.clearAndFail(ctx, pkgerrors.New(pkgerrors.CodeUnauthenticated, "session rejected"))
	}
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "empty identity payload")
	}
	return actor, nil
}

func (c *Client) fetchMe(ctx context.Context, token string) (*types.Actor, int, error) {
	req, err := c.newRequest(ctx, http.MethodGet, mePath, nil)
	if err != nil {
		return nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeTransient, err, "fetch identity")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var envelope types.SuccessEnvelope[types.Actor]
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeTransient, err, "decode identity payload")
		}
		return &envelope.Data, resp.StatusCode, nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, resp.StatusCode, nil
	default:
		return nil, resp.StatusCode, c.decodeError(resp, "fetch identity")
	}
}

// Refresh rotates the session once and stores the replacement token.
func (c *Client) Refresh(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, refreshPath, nil)
	if err != nil {
		return err
	}
	if token := c.currentToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransient, err, "refresh session")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "refresh rejected")
	}
	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp, "refresh session")
	}

	var envelope types.SuccessEnvelope[refreshPayload]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransient, err, "decode refresh payload")
	}
	if envelope.Data.AccessToken == "" {
		return pkgerrors.New(pkgerrors.CodeInternal, "refresh returned no token")
	}
	if err := c.kv.Set(ctx, storage.KeyAccessToken, envelope.Data.AccessToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store rotated token")
	}
	return nil
}

// Logout invalidates the backend session. The local artifact is cleared
// regardless of the call's outcome so subsequent lookups resolve to
// unauthenticated; both failure sources are reported together.
func (c *Client) Logout(ctx context.Context) error {
	var errs error

	if err := c.revokeRemote(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := c.clearToken(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (c *Client) revokeRemote(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, logoutPath, nil)
	if err != nil {
		return err
	}
	if token := c.currentToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransient, err, "logout")
	}
	defer resp.Body.Close()

	// An already-dead session is a successful logout.
	if resp.StatusCode >= http.StatusBadRequest &&
		resp.StatusCode != http.StatusUnauthorized &&
		resp.StatusCode != http.StatusForbidden {
		return c.decodeError(resp, "logout")
	}
	return nil
}

// SetToken stores a freshly issued token, e.g. after sign-in.
func (c *Client) SetToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token required")
	}
	if err := c.kv.Set(ctx, storage.KeyAccessToken, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store token")
	}
	return nil
}

func (c *Client) currentToken(ctx context.Context) string {
	token, err := c.kv.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "reading token artifact")
		}
		return ""
	}
	return token
}

func (c *Client) clearToken(ctx context.Context) error {
	if err := c.kv.Del(ctx, storage.KeyAccessToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear token artifact")
	}
	return nil
}

// clearAndFail drops the artifact on auth failures so guards see a plain
// unauthenticated condition, never a retry loop. Other failures pass through.
func (c *Client) clearAndFail(ctx context.Context, err error) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeUnauthenticated) {
		if clearErr := c.clearToken(ctx); clearErr != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", clearErr.Error()), "clearing token artifact")
		}
	}
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// decodeError turns a non-auth failure response into a typed error carrying
// the backend's human-readable message when one is present.
func (c *Client) decodeError(resp *http.Response, op string) error {
	code := pkgerrors.FromStatus(resp.StatusCode)

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		return pkgerrors.New(code, envelope.Error.Message).WithDetails(envelope.Error)
	}
	return pkgerrors.New(code, fmt.Sprintf("%s: status %d", op, resp.StatusCode))
}

type refreshPayload struct {
	AccessToken string `json:"access_token"`
}
