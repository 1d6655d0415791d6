package handlers

// responses.go defines the response payloads shared by the /api/* handlers
// and a helper for surfacing remote platform failures.

import (
	"errors"
	"net/http"

	"github.com/sphere-wallet/sphere-gateway/internal/api"
	"github.com/sphere-wallet/sphere-gateway/internal/auth"
	"github.com/sphere-wallet/sphere-gateway/internal/circle"
)

// UserDataResponse is returned by validateSignin and getUserData.
//
// Wallets, TokensForFirstWallet and User are only present once the user has
// completed PIN and security-question setup (Initialised is true).
type UserDataResponse struct {
	Initialised          bool                  `json:"initialised"`
	Wallets              []circle.Wallet       `json:"wallets,omitempty"`
	TokensForFirstWallet []circle.TokenBalance `json:"tokensForFirstWallet,omitempty"`
	Status               int                   `json:"status"`
	User                 *circle.User          `json:"user,omitempty"`
	AppID                string                `json:"appId"`
	Profile              *auth.Profile         `json:"profile"`
}

// ChallengeResponse is returned by operations that open a challenge the
// client-side SDK must complete (user initialization, wallet creation,
// transfers, PIN changes). UserToken and EncryptionKey let the client attach
// to the challenge.
type ChallengeResponse struct {
	ChallengeID   string `json:"challengeId"`
	Status        int    `json:"status"`
	UserToken     string `json:"userToken"`
	EncryptionKey string `json:"encryptionKey,omitempty"`
	AppID         string `json:"appId"`
}

// TransactionsResponse is returned by fetchTransactions. LastOfType reports
// whether this page is the last one in the requested paging direction.
type TransactionsResponse struct {
	Transactions []circle.Transaction `json:"transactions"`
	Status       int                  `json:"status"`
	LastOfType   bool                 `json:"lastOfType"`
	Type         string               `json:"type,omitempty"`
}

// TokenBalancesResponse is returned by getTokens.
type TokenBalancesResponse struct {
	TokenBalances []circle.TokenBalance `json:"tokenBalances"`
	Status        int                   `json:"status"`
}

// respondRemoteError surfaces a remote platform failure as a 500 with the
// platform's message where one is available.
func respondRemoteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *circle.APIError
	if errors.As(err, &apiErr) {
		api.RespondWithError(w, r, http.StatusInternalServerError, apiErr.Message)
		return
	}
	api.RespondWithError(w, r, http.StatusInternalServerError, err.Error())
}
