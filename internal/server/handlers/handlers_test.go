package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/sphere-wallet/sphere-gateway/internal/auth"
	"github.com/sphere-wallet/sphere-gateway/internal/circle"
)

// fakePlatform is an in-memory stand-in for the wallet platform API.
type fakePlatform struct {
	t *testing.T

	userExists  bool
	user        circle.User
	wallets     []circle.Wallet
	balances    []circle.TokenBalance
	numTxs      int
	failWith    int // non-zero: every request fails with this status
	failMessage string

	createdUsers  []string
	lastListQuery url.Values
}

func (p *fakePlatform) server() *httptest.Server {
	mux := http.NewServeMux()

	respond := func(w http.ResponseWriter, data string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":` + data + `}`))
	}

	fail := func(w http.ResponseWriter) bool {
		if p.failWith == 0 {
			return false
		}
		w.WriteHeader(p.failWith)
		_, _ = fmt.Fprintf(w, `{"code":150000,"message":%q}`, p.failMessage)
		return true
	}

	mux.HandleFunc("GET /v1/w3s/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if fail(w) {
			return
		}
		if !p.userExists {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":155101,"message":"user not found"}`))
			return
		}
		user, err := json.Marshal(p.user)
		if err != nil {
			p.t.Fatalf("failed to marshal user: %v", err)
		}
		respond(w, `{"user":`+string(user)+`}`)
	})

	mux.HandleFunc("POST /v1/w3s/users", func(w http.ResponseWriter, r *http.Request) {
		if fail(w) {
			return
		}
		var body struct {
			UserID string `json:"userId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		p.createdUsers = append(p.createdUsers, body.UserID)
		w.WriteHeader(http.StatusCreated)
		respond(w, `{}`)
	})

	mux.HandleFunc("POST /v1/w3s/users/token", func(w http.ResponseWriter, r *http.Request) {
		if fail(w) {
			return
		}
		respond(w, `{"userToken":"tok-1","encryptionKey":"enc-1"}`)
	})

	mux.HandleFunc("GET /v1/w3s/wallets", func(w http.ResponseWriter, r *http.Request) {
		wallets, err := json.Marshal(p.wallets)
		if err != nil {
			p.t.Fatalf("failed to marshal wallets: %v", err)
		}
		respond(w, `{"wallets":`+string(wallets)+`}`)
	})

	mux.HandleFunc("GET /v1/w3s/wallets/{id}/balances", func(w http.ResponseWriter, r *http.Request) {
		balances, err := json.Marshal(p.balances)
		if err != nil {
			p.t.Fatalf("failed to marshal balances: %v", err)
		}
		respond(w, `{"tokenBalances":`+string(balances)+`}`)
	})

	mux.HandleFunc("GET /v1/w3s/transactions", func(w http.ResponseWriter, r *http.Request) {
		p.lastListQuery = r.URL.Query()
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		n := min(p.numTxs, pageSize)
		txs := make([]circle.Transaction, n)
		for i := range txs {
			txs[i] = circle.Transaction{ID: fmt.Sprintf("tx-%d", i)}
		}
		out, err := json.Marshal(txs)
		if err != nil {
			p.t.Fatalf("failed to marshal transactions: %v", err)
		}
		respond(w, `{"transactions":`+string(out)+`}`)
	})

	challenge := func(w http.ResponseWriter, r *http.Request) {
		if fail(w) {
			return
		}
		respond(w, `{"challengeId":"ch-1"}`)
	}
	mux.HandleFunc("POST /v1/w3s/user/initialize", challenge)
	mux.HandleFunc("POST /v1/w3s/user/wallets", challenge)
	mux.HandleFunc("POST /v1/w3s/user/transactions/transfer", challenge)
	mux.HandleFunc("PUT /v1/w3s/user/pin", challenge)
	mux.HandleFunc("POST /v1/w3s/user/pin/restore", challenge)

	return httptest.NewServer(mux)
}

// get runs an authenticated GET against the given handler and decodes the
// JSON response into out.
func get(t *testing.T, handler http.HandlerFunc, target string, out any) int {
	t.Helper()

	req := httptest.NewRequest("GET", target, nil)
	ctx := auth.ContextWithProfile(req.Context(), &auth.Profile{ID: "user@example.com", Name: "User"})
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler(rr, req)

	if out != nil {
		if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rr.Code
}

func TestValidateSigninAutoProvisionsUser(t *testing.T) {
	platform := &fakePlatform{t: t, userExists: false}
	ts := platform.server()
	defer ts.Close()

	h := NewUserHandler(circle.NewClient(ts.URL, "test-key"), "app-1")

	var resp UserDataResponse
	code := get(t, h.ValidateSignin, "/api/validateSignin", &resp)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Initialised {
		t.Error("auto-provisioned user reported as initialised")
	}
	if len(platform.createdUsers) != 1 || platform.createdUsers[0] != "user@example.com" {
		t.Errorf("created users = %v, want [user@example.com]", platform.createdUsers)
	}
	if resp.AppID != "app-1" {
		t.Errorf("appId = %q, want app-1", resp.AppID)
	}
	if resp.Profile == nil || resp.Profile.ID != "user@example.com" {
		t.Errorf("profile = %+v, want ID user@example.com", resp.Profile)
	}
}

func TestValidateSigninUninitialisedUser(t *testing.T) {
	platform := &fakePlatform{
		t:          t,
		userExists: true,
		user:       circle.User{ID: "user@example.com", PinStatus: "UNSET"},
	}
	ts := platform.server()
	defer ts.Close()

	h := NewUserHandler(circle.NewClient(ts.URL, "test-key"), "app-1")

	var resp UserDataResponse
	code := get(t, h.ValidateSignin, "/api/validateSignin", &resp)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Initialised {
		t.Error("user without PIN reported as initialised")
	}
	if len(platform.createdUsers) != 0 {
		t.Errorf("existing user was re-created: %v", platform.createdUsers)
	}
	if len(resp.Wallets) != 0 {
		t.Errorf("uninitialised user response includes wallets: %v", resp.Wallets)
	}
}

func TestGetUserDataReordersFirstWallet(t *testing.T) {
	platform := &fakePlatform{
		t:          t,
		userExists: true,
		user: circle.User{
			ID:                     "user@example.com",
			PinStatus:              "ENABLED",
			SecurityQuestionStatus: "ENABLED",
		},
		wallets: []circle.Wallet{
			{ID: "wallet-1"}, {ID: "wallet-2"}, {ID: "wallet-3"},
		},
		balances: []circle.TokenBalance{
			{Token: circle.Token{Symbol: "USDC"}, Amount: "5"},
		},
	}
	ts := platform.server()
	defer ts.Close()

	h := NewUserHandler(circle.NewClient(ts.URL, "test-key"), "app-1")

	var resp UserDataResponse
	code := get(t, h.GetUserData, "/api/getUserData?firstWalletId=wallet-2", &resp)

	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !resp.Initialised {
		t.Fatal("initialised user reported as uninitialised")
	}
	if len(resp.Wallets) != 3 || resp.Wallets[0].ID != "wallet-2" {
		t.Errorf("wallet order = %v, want wallet-2 first", resp.Wallets)
	}
	if len(resp.TokensForFirstWallet) != 1 || resp.TokensForFirstWallet[0].Token.Symbol != "USDC" {
		t.Errorf("tokensForFirstWallet = %v, want one USDC balance", resp.TokensForFirstWallet)
	}
}

func TestMoveWalletFirst(t *testing.T) {
	wallets := []circle.Wallet{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	tests := []struct {
		name      string
		walletID  string
		wantFirst string
	}{
		{"reorder middle", "b", "b"},
		{"already first", "a", "a"},
		{"unknown id keeps order", "x", "a"},
		{"empty id keeps order", "", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := moveWalletFirst(wallets, tt.walletID)
			if len(got) != 3 {
				t.Fatalf("reordered slice has %d wallets, want 3", len(got))
			}
			if got[0].ID != tt.wantFirst {
				t.Errorf("first wallet = %q, want %q", got[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestFetchTransactionsPagination(t *testing.T) {
	tests := []struct {
		name           string
		numTxs         int
		target         string
		wantCount      int
		wantLastOfType bool
		wantFirstID    string
		wantCursor     string // pageBefore or pageAfter sent to the platform
		cursorParam    string
	}{
		{
			name:           "full first page trims tail",
			numTxs:         11,
			target:         "/api/fetchTransactions?walletId=wallet-1",
			wantCount:      10,
			wantLastOfType: false,
			wantFirstID:    "tx-0",
		},
		{
			name:           "short first page is last",
			numTxs:         4,
			target:         "/api/fetchTransactions?walletId=wallet-1",
			wantCount:      4,
			wantLastOfType: true,
		},
		{
			name:           "paging forward trims tail",
			numTxs:         11,
			target:         "/api/fetchTransactions?walletId=wallet-1&page[type]=next&page[lastId]=tx-cursor",
			wantCount:      10,
			wantLastOfType: false,
			wantFirstID:    "tx-0",
			wantCursor:     "tx-cursor",
			cursorParam:    "pageAfter",
		},
		{
			name:           "paging backward trims head",
			numTxs:         11,
			target:         "/api/fetchTransactions?walletId=wallet-1&page[type]=prev&page[lastId]=tx-cursor",
			wantCount:      10,
			wantLastOfType: false,
			wantFirstID:    "tx-1",
			wantCursor:     "tx-cursor",
			cursorParam:    "pageBefore",
		},
		{
			name:           "short backward page is last",
			numTxs:         4,
			target:         "/api/fetchTransactions?walletId=wallet-1&page[type]=prev&page[lastId]=tx-cursor",
			wantCount:      4,
			wantLastOfType: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := &fakePlatform{t: t, numTxs: tt.numTxs}
			ts := platform.server()
			defer ts.Close()

			h := NewTransactionHandler(circle.NewClient(ts.URL, "test-key"), "app-1")

			var resp TransactionsResponse
			code := get(t, h.FetchTransactions, tt.target, &resp)

			if code != http.StatusOK {
				t.Fatalf("status = %d, want 200", code)
			}
			if len(resp.Transactions) != tt.wantCount {
				t.Errorf("got %d transactions, want %d", len(resp.Transactions), tt.wantCount)
			}
			if resp.LastOfType != tt.wantLastOfType {
				t.Errorf("lastOfType = %v, want %v", resp.LastOfType, tt.wantLastOfType)
			}
			if tt.wantFirstID != "" && resp.Transactions[0].ID != tt.wantFirstID {
				t.Errorf("first transaction = %q, want %q", resp.Transactions[0].ID, tt.wantFirstID)
			}
			if got := platform.lastListQuery.Get("pageSize"); got != "11" {
				t.Errorf("pageSize sent to platform = %q, want 11", got)
			}
			if tt.cursorParam != "" {
				if got := platform.lastListQuery.Get(tt.cursorParam); got != tt.wantCursor {
					t.Errorf("%s sent to platform = %q, want %q", tt.cursorParam, got, tt.wantCursor)
				}
			}
		})
	}
}

func TestChallengeEndpoints(t *testing.T) {
	platform := &fakePlatform{t: t}
	ts := platform.server()
	defer ts.Close()

	wallets := circle.NewClient(ts.URL, "test-key")

	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  string
	}{
		{"initialiseCreatedUser", NewUserHandler(wallets, "app-1").InitialiseUser, "/api/initialiseCreatedUser?blockchain=MATIC-AMOY"},
		{"createNewWallet", NewWalletHandler(wallets, "app-1").CreateWallet, "/api/createNewWallet?blockchain=AVAX-FUJI"},
		{"sendTransaction", NewTransactionHandler(wallets, "app-1").SendTransaction, "/api/sendTransaction?walletId=wallet-1&destination=0xdest&amount=1&tokenId=token-1"},
		{"changePin", NewPinHandler(wallets, "app-1").ChangePin, "/api/changePin"},
		{"restorePin", NewPinHandler(wallets, "app-1").RestorePin, "/api/restorePin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ChallengeResponse
			code := get(t, tt.handler, tt.target, &resp)

			if code != http.StatusOK {
				t.Fatalf("status = %d, want 200", code)
			}
			if resp.ChallengeID != "ch-1" {
				t.Errorf("challengeId = %q, want ch-1", resp.ChallengeID)
			}
			if resp.UserToken != "tok-1" {
				t.Errorf("userToken = %q, want tok-1", resp.UserToken)
			}
			if resp.AppID != "app-1" {
				t.Errorf("appId = %q, want app-1", resp.AppID)
			}
		})
	}
}

func TestRemoteFailureReturns500WithMessage(t *testing.T) {
	platform := &fakePlatform{t: t, failWith: http.StatusForbidden, failMessage: "invalid api key"}
	ts := platform.server()
	defer ts.Close()

	h := NewUserHandler(circle.NewClient(ts.URL, "test-key"), "app-1")

	var resp struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	}
	code := get(t, h.ValidateSignin, "/api/validateSignin", &resp)

	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if resp.Message != "invalid api key" {
		t.Errorf("message = %q, want the platform's message", resp.Message)
	}
	if resp.Status != 500 {
		t.Errorf("body status = %d, want 500", resp.Status)
	}
}
