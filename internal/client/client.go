// Package client is a typed HTTP client for the ledger API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/api"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
}

type Client struct {
	baseURL string
	caller  string
	http    *http.Client
}

// New returns a client for the server at baseURL acting as caller. caller may
// be empty for read-only use.
func New(baseURL, caller string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		caller:  caller,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Token(ctx context.Context) (api.TokenInfo, error) {
	var out api.TokenInfo
	err := c.do(ctx, http.MethodGet, "/token", nil, &out)
	return out, err
}

// Balance returns the current balance, or the balance at snapshot when non-nil.
func (c *Client) Balance(ctx context.Context, account string, snapshot *uint64) (api.BalanceResponse, error) {
	var out api.BalanceResponse
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(account)+"/balance"+snapshotQuery(snapshot), nil, &out)
	return out, err
}

func (c *Client) Supply(ctx context.Context, snapshot *uint64) (api.SupplyResponse, error) {
	var out api.SupplyResponse
	err := c.do(ctx, http.MethodGet, "/supply"+snapshotQuery(snapshot), nil, &out)
	return out, err
}

func (c *Client) Allowance(ctx context.Context, owner, spender string) (api.AllowanceResponse, error) {
	var out api.AllowanceResponse
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(owner)+"/allowances/"+url.PathEscape(spender), nil, &out)
	return out, err
}

func (c *Client) Checkpoints(ctx context.Context, account string) ([]api.CheckpointResponse, error) {
	var out []api.CheckpointResponse
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(account)+"/checkpoints", nil, &out)
	return out, err
}

func (c *Client) Transfer(ctx context.Context, to, amount string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPost, "/transfers", api.TransferRequest{To: to, Amount: amount})
}

func (c *Client) TransferFrom(ctx context.Context, owner, to, amount string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPost, "/transfers/delegated", api.DelegatedTransferRequest{Owner: owner, To: to, Amount: amount})
}

func (c *Client) Approve(ctx context.Context, spender, amount string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPost, "/approvals", api.ApprovalRequest{Spender: spender, Amount: amount})
}

func (c *Client) Mint(ctx context.Context, to, amount string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPost, "/mint", api.MintRequest{To: to, Amount: amount})
}

func (c *Client) Burn(ctx context.Context, amount string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPost, "/burn", api.BurnRequest{Amount: amount})
}

func (c *Client) Snapshot(ctx context.Context) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPost, "/snapshots", nil)
}

func (c *Client) SetAdmin(ctx context.Context, address string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPut, "/admin", api.AddressRequest{Address: address})
}

func (c *Client) SetMinter(ctx context.Context, address string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPut, "/minter", api.AddressRequest{Address: address})
}

func (c *Client) SetRewardsContract(ctx context.Context, address string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPut, "/rewards-contract", api.AddressRequest{Address: address})
}

func (c *Client) SetName(ctx context.Context, name, symbol string) (api.OperationResponse, error) {
	return c.mutate(ctx, http.MethodPut, "/metadata", api.MetadataRequest{Name: name, Symbol: symbol})
}

type idempotencyKeyCtx struct{}

// WithIdempotencyKey makes mutations sent with ctx carry key, so a retry of the
// same request is acknowledged instead of applied twice.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

func idempotencyKey(ctx context.Context) string {
	if key, ok := ctx.Value(idempotencyKeyCtx{}).(string); ok && key != "" {
		return key
	}
	return uuid.NewString()
}

// mutate sends a state changing request. Without WithIdempotencyKey each call
// gets a fresh key.
func (c *Client) mutate(ctx context.Context, method, path string, body any) (api.OperationResponse, error) {
	var out api.OperationResponse
	err := c.do(ctx, method, path, body, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.caller != "" {
		req.Header.Set(api.HeaderCaller, c.caller)
	}
	if method != http.MethodGet {
		req.Header.Set(api.HeaderIdempotencyKey, idempotencyKey(ctx))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Code: e.Code, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func snapshotQuery(snapshot *uint64) string {
	if snapshot == nil {
		return ""
	}
	return "?snapshot=" + strconv.FormatUint(*snapshot, 10)
}
