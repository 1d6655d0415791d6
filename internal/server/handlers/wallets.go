package handlers

// wallets.go implements the wallet-creation and token-balance endpoints.

import (
	"net/http"

	"github.com/sphere-wallet/sphere-gateway/internal/api"
	"github.com/sphere-wallet/sphere-gateway/internal/auth"
	"github.com/sphere-wallet/sphere-gateway/internal/circle"
)

// WalletHandler handles the wallet-centric /api endpoints.
type WalletHandler struct {
	wallets *circle.Client
	appID   string
}

// NewWalletHandler creates a handler for the wallet endpoints.
func NewWalletHandler(wallets *circle.Client, appID string) *WalletHandler {
	return &WalletHandler{wallets: wallets, appID: appID}
}

// CreateWallet godoc
//
//	@Summary		Create a new wallet
//	@Description	Opens the challenge that creates an additional wallet for the user.
//	@Tags			Wallets
//	@Produce		json
//	@Param			credential	query		string	true	"identity token"
//	@Param			blockchain	query		string	true	"blockchain for the new wallet"
//	@Param			name		query		string	false	"wallet name"
//	@Param			description	query		string	false	"wallet description"
//	@Success		200			{object}	ChallengeResponse
//	@Failure		401			{object}	api.ErrorResponse
//	@Failure		500			{object}	api.ErrorResponse
//	@Router			/api/createNewWallet [get]
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := auth.ProfileFromContext(ctx)
	query := r.URL.Query()

	session, err := h.wallets.CreateSessionToken(ctx, profile.ID)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	challenge, err := h.wallets.CreateWallet(ctx,
		session.UserToken,
		query.Get("blockchain"),
		query.Get("name"),
		query.Get("description"),
	)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	api.RespondWithJSON(w, http.StatusOK, ChallengeResponse{
		ChallengeID:   challenge.ChallengeID,
		Status:        http.StatusOK,
		UserToken:     session.UserToken,
		EncryptionKey: session.EncryptionKey,
		AppID:         h.appID,
	})
}

// GetTokens godoc
//
//	@Summary		Get token balances
//	@Description	Returns the token balances held by one of the user's wallets.
//	@Tags			Wallets
//	@Produce		json
//	@Param			credential	query		string	true	"identity token"
//	@Param			id			query		string	true	"wallet id"
//	@Success		200			{object}	TokenBalancesResponse
//	@Failure		401			{object}	api.ErrorResponse
//	@Failure		500			{object}	api.ErrorResponse
//	@Router			/api/getTokens [get]
func (h *WalletHandler) GetTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := auth.ProfileFromContext(ctx)

	session, err := h.wallets.CreateSessionToken(ctx, profile.ID)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	balances, err := h.wallets.ListTokenBalances(ctx, r.URL.Query().Get("id"), session.UserToken)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	api.RespondWithJSON(w, http.StatusOK, TokenBalancesResponse{
		TokenBalances: balances,
		Status:        http.StatusOK,
	})
}
