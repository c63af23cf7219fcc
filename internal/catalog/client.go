// Package catalog fetches the product snapshots that feed cart items.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/paylaterhq/storefront-core/pkg/config"
	pkgerrors "github.com/paylaterhq/storefront-core/pkg/errors"
	"github.com/paylaterhq/storefront-core/pkg/logger"
	"github.com/paylaterhq/storefront-core/pkg/types"
)

// Client reads the public product endpoints. No credentials are attached;
// the catalog is browsable anonymously.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logg       *logger.Logger
}

// NewClient wires the catalog client against the backend API.
func NewClient(cfg config.APIConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api base url required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logg: logg,
	}, nil
}

type listPayload struct {
	Items  []types.ProductSnapshot `json:"items"`
	Cursor string                  `json:"cursor"`
}

// List returns one page of product snapshots plus the cursor for the next
// page. Snapshots failing validation are dropped with a warning rather than
// poisoning the whole page.
func (c *Client) List(ctx context.Context, params Params) ([]types.ProductSnapshot, string, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(NormalizeLimit(params.Limit)))
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}

	var payload listPayload
	if err := c.getJSON(ctx, "/products?"+query.Encode(), &payload); err != nil {
		return nil, "", err
	}

	items := make([]types.ProductSnapshot, 0, len(payload.Items))
	for _, item := range payload.Items {
		if err := item.Validate(); err != nil {
			lctx := c.logg.WithProductID(ctx, item.ID)
			c.logg.Warn(c.logg.WithField(lctx, "error", err.Error()), "dropping invalid product snapshot")
			continue
		}
		items = append(items, item)
	}
	return items, payload.Cursor, nil
}

// Get returns a single product snapshot by id.
func (c *Client) Get(ctx context.Context, id string) (*types.ProductSnapshot, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	var snapshot types.ProductSnapshot
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(id), &snapshot); err != nil {
		return nil, err
	}
	if err := snapshot.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid product snapshot")
	}
	return &snapshot, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransient, err, "fetch catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		code := pkgerrors.FromStatus(resp.StatusCode)

		var envelope types.ErrorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
			return pkgerrors.New(code, envelope.Error.Message).WithDetails(envelope.Error)
		}
		return pkgerrors.New(code, fmt.Sprintf("fetch catalog: status %d", resp.StatusCode))
	}

	var envelope types.SuccessEnvelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransient, err, "decode catalog payload")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransient, err, "decode catalog payload")
	}
	return nil
}
