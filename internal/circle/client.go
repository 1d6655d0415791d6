// Package circle implements a typed HTTP client for the Circle
// user-controlled wallets API.
//
// Every method is a single request/response round trip: there is no retry
// logic and no local caching, errors bubble to the caller. State-changing
// calls take a caller-generated idempotency key so a retried logical request
// does not duplicate effects on the platform.
package circle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a client for the Circle user-controlled wallets API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a new Circle API client authenticated with the given
// platform API key.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// dataEnvelope is the {"data": ...} wrapper used by all platform responses.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// apiErrorBody is the error shape returned by the platform on non-2xx
// responses.
type apiErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// do performs a request against the platform and decodes the data envelope
// into out. userToken, when non-empty, is sent as the X-User-Token header to
// authorize wallet-scoped operations.
func (c *Client) do(ctx context.Context, method, path, userToken string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userToken != "" {
		req.Header.Set("X-User-Token", userToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to circle failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read circle response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody apiErrorBody
		if err := json.Unmarshal(respBody, &errBody); err == nil && errBody.Message != "" {
			apiErr.Code = errBody.Code
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	var envelope dataEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to decode circle response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode circle response data: %w", err)
	}
	return nil
}

// GetUser fetches a user by id. Returns an *APIError with status 404 when
// the user does not exist (see IsNotFound).
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/w3s/users/"+url.PathEscape(userID), "", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// CreateUser provisions a new platform user.
func (c *Client) CreateUser(ctx context.Context, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(ctx, http.MethodPost, "/v1/w3s/users", "", body, nil)
}

// CreateSessionToken mints a short-lived session token for the user.
func (c *Client) CreateSessionToken(ctx context.Context, userID string) (*SessionToken, error) {
	body := map[string]string{"userId": userID}
	var out SessionToken
	if err := c.do(ctx, http.MethodPost, "/v1/w3s/users/token", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// accountTypeFor selects the wallet account type for a blockchain.
// AVAX-FUJI does not support smart contract accounts, so it falls back to an
// externally owned account.
func accountTypeFor(blockchain string) string {
	if blockchain == "AVAX-FUJI" {
		return "EOA"
	}
	return "SCA"
}

type initializeUserRequest struct {
	IdempotencyKey string           `json:"idempotencyKey"`
	AccountType    string           `json:"accountType"`
	Blockchains    []string         `json:"blockchains"`
	Metadata       []WalletMetadata `json:"metadata"`
}

// InitializeUser sets up the user's PIN and security questions and creates
// their first wallet on the given blockchain. The returned challenge must be
// completed by the end user on their device.
func (c *Client) InitializeUser(ctx context.Context, userToken, blockchain, name, description, idempotencyKey string) (*Challenge, error) {
	body := initializeUserRequest{
		IdempotencyKey: idempotencyKey,
		AccountType:    accountTypeFor(blockchain),
		Blockchains:    []string{blockchain},
		Metadata:       []WalletMetadata{{Name: name, RefID: description}},
	}
	var out Challenge
	if err := c.do(ctx, http.MethodPost, "/v1/w3s/user/initialize", userToken, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createWalletRequest struct {
	Blockchains []string         `json:"blockchains"`
	AccountType string           `json:"accountType"`
	Metadata    []WalletMetadata `json:"metadata"`
}

// CreateWallet issues a challenge to create an additional wallet for the
// user on the given blockchain.
func (c *Client) CreateWallet(ctx context.Context, userToken, blockchain, name, description string) (*Challenge, error) {
	body := createWalletRequest{
		Blockchains: []string{blockchain},
		AccountType: accountTypeFor(blockchain),
		Metadata:    []WalletMetadata{{Name: name, RefID: description}},
	}
	var out Challenge
	if err := c.do(ctx, http.MethodPost, "/v1/w3s/user/wallets", userToken, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWallets fetches all wallets belonging to the user.
func (c *Client) ListWallets(ctx context.Context, userID string) ([]Wallet, error) {
	var out struct {
		Wallets []Wallet `json:"wallets"`
	}
	path := "/v1/w3s/wallets?userId=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Wallets, nil
}

// GetWallet fetches a single wallet by id.
func (c *Client) GetWallet(ctx context.Context, walletID, userToken string) (*Wallet, error) {
	var out struct {
		Wallet Wallet `json:"wallet"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/w3s/wallets/"+url.PathEscape(walletID), userToken, nil, &out); err != nil {
		return nil, err
	}
	return &out.Wallet, nil
}

// ListTokenBalances fetches the token balances held by a wallet.
func (c *Client) ListTokenBalances(ctx context.Context, walletID, userToken string) ([]TokenBalance, error) {
	var out struct {
		TokenBalances []TokenBalance `json:"tokenBalances"`
	}
	path := "/v1/w3s/wallets/" + url.PathEscape(walletID) + "/balances"
	if err := c.do(ctx, http.MethodGet, path, userToken, nil, &out); err != nil {
		return nil, err
	}
	return out.TokenBalances, nil
}

type feeConfig struct {
	FeeLevel string `json:"feeLevel"`
}

type transactionFee struct {
	Type   string    `json:"type"`
	Config feeConfig `json:"config"`
}

type createTransferRequest struct {
	IdempotencyKey     string         `json:"idempotencyKey"`
	Amounts            []string       `json:"amounts"`
	DestinationAddress string         `json:"destinationAddress"`
	TokenID            string         `json:"tokenId"`
	WalletID           string         `json:"walletId"`
	Fee                transactionFee `json:"fee"`
}

// CreateTransfer issues a challenge for an outbound transfer from the wallet
// to the destination address.
func (c *Client) CreateTransfer(ctx context.Context, userToken, walletID, amount, tokenID, destination, idempotencyKey string) (*Challenge, error) {
	body := createTransferRequest{
		IdempotencyKey:     idempotencyKey,
		Amounts:            []string{amount},
		DestinationAddress: destination,
		TokenID:            tokenID,
		WalletID:           walletID,
		Fee:                transactionFee{Type: "level", Config: feeConfig{FeeLevel: "MEDIUM"}},
	}
	var out Challenge
	if err := c.do(ctx, http.MethodPost, "/v1/w3s/user/transactions/transfer", userToken, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions fetches a page of transactions for a wallet using cursor
// pagination. The platform returns transactions newest first; Before / After
// page relative to the given transaction id.
func (c *Client) ListTransactions(ctx context.Context, userToken string, opts ListTransactionsOptions) ([]Transaction, error) {
	q := url.Values{}
	q.Set("walletIds", opts.WalletID)
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.To != "" {
		q.Set("to", opts.To)
	}
	if opts.Before != "" {
		q.Set("pageBefore", opts.Before)
	}
	if opts.After != "" {
		q.Set("pageAfter", opts.After)
	}

	var out struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/w3s/transactions?"+q.Encode(), userToken, nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// GetTransaction fetches a single transaction by id.
func (c *Client) GetTransaction(ctx context.Context, transactionID, userToken string) (*Transaction, error) {
	var out struct {
		Transaction Transaction `json:"transaction"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/w3s/transactions/"+url.PathEscape(transactionID), userToken, nil, &out); err != nil {
		return nil, err
	}
	return &out.Transaction, nil
}

type pinRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

// UpdatePin issues a challenge for the user to change their PIN.
func (c *Client) UpdatePin(ctx context.Context, userToken, idempotencyKey string) (*Challenge, error) {
	var out Challenge
	if err := c.do(ctx, http.MethodPut, "/v1/w3s/user/pin", userToken, pinRequest{IdempotencyKey: idempotencyKey}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestorePin issues a challenge for the user to recover a forgotten PIN via
// their security questions.
func (c *Client) RestorePin(ctx context.Context, userToken, idempotencyKey string) (*Challenge, error) {
	var out Challenge
	if err := c.do(ctx, http.MethodPost, "/v1/w3s/user/pin/restore", userToken, pinRequest{IdempotencyKey: idempotencyKey}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetToken fetches token metadata by token id.
func (c *Client) GetToken(ctx context.Context, tokenID string) (*Token, error) {
	var out struct {
		Token Token `json:"token"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/w3s/tokens/"+url.PathEscape(tokenID), "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Token, nil
}

// GetNotificationPublicKey fetches the webhook signing public key for the
// given key id. The key id arrives on the webhook request and is treated as
// an opaque lookup key.
func (c *Client) GetNotificationPublicKey(ctx context.Context, keyID string) (*PublicKey, error) {
	var out PublicKey
	if err := c.do(ctx, http.MethodGet, "/v2/notifications/publicKey/"+url.PathEscape(keyID), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchSigningKey returns the base64-encoded DER key material for the given
// key id. It satisfies the signature verifier's key lookup interface.
func (c *Client) FetchSigningKey(ctx context.Context, keyID string) (string, error) {
	pk, err := c.GetNotificationPublicKey(ctx, keyID)
	if err != nil {
		return "", err
	}
	return pk.PublicKey, nil
}
