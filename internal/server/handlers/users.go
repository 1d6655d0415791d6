package handlers

// users.go implements the signin, user-data and user-initialization
// endpoints.

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sphere-wallet/sphere-gateway/internal/api"
	"github.com/sphere-wallet/sphere-gateway/internal/auth"
	"github.com/sphere-wallet/sphere-gateway/internal/circle"
)

// UserHandler handles the user-centric /api endpoints.
type UserHandler struct {
	wallets *circle.Client
	appID   string
}

// NewUserHandler creates a handler for the signin and user-data endpoints.
func NewUserHandler(wallets *circle.Client, appID string) *UserHandler {
	return &UserHandler{wallets: wallets, appID: appID}
}

// ValidateSignin godoc
//
//	@Summary		Validate signin
//	@Description	Looks up the authenticated user on the wallet platform, creating the user on first signin.
//	@Tags			Users
//	@Produce		json
//	@Param			credential	query		string	true	"identity token"
//	@Success		200			{object}	UserDataResponse
//	@Failure		401			{object}	api.ErrorResponse
//	@Failure		500			{object}	api.ErrorResponse
//	@Router			/api/validateSignin [get]
func (h *UserHandler) ValidateSignin(w http.ResponseWriter, r *http.Request) {
	h.lookupAndRespond(w, r, "")
}

// GetUserData godoc
//
//	@Summary		Get user data
//	@Description	Returns the user's wallets and the token balances of the preferred wallet.
//	@Tags			Users
//	@Produce		json
//	@Param			credential		query		string	true	"identity token"
//	@Param			firstWalletId	query		string	false	"wallet to list first"
//	@Success		200				{object}	UserDataResponse
//	@Failure		401				{object}	api.ErrorResponse
//	@Failure		500				{object}	api.ErrorResponse
//	@Router			/api/getUserData [get]
func (h *UserHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	h.lookupAndRespond(w, r, r.URL.Query().Get("firstWalletId"))
}

// lookupAndRespond fetches the user and responds with their wallet data.
// A not-found user is auto-provisioned and reported as uninitialised rather
// than surfaced as an error.
func (h *UserHandler) lookupAndRespond(w http.ResponseWriter, r *http.Request, firstWalletID string) {
	ctx := r.Context()
	profile := auth.ProfileFromContext(ctx)

	user, err := h.wallets.GetUser(ctx, profile.ID)
	if err != nil {
		if !circle.IsNotFound(err) {
			respondRemoteError(w, r, err)
			return
		}
		if err := h.wallets.CreateUser(ctx, profile.ID); err != nil {
			respondRemoteError(w, r, err)
			return
		}
		api.RespondWithJSON(w, http.StatusOK, UserDataResponse{
			Initialised: false,
			Status:      http.StatusCreated,
			AppID:       h.appID,
			Profile:     profile,
		})
		return
	}

	h.respondUserData(w, r, user, profile, firstWalletID)
}

// respondUserData shapes the combined user/wallet/balance response. A user
// is initialised once both PIN and security questions are set up; until then
// no wallet-scoped calls are possible.
func (h *UserHandler) respondUserData(w http.ResponseWriter, r *http.Request, user *circle.User, profile *auth.Profile, firstWalletID string) {
	ctx := r.Context()

	initialised := user.PinStatus == "ENABLED" && user.SecurityQuestionStatus == "ENABLED"
	if !initialised {
		api.RespondWithJSON(w, http.StatusOK, UserDataResponse{
			Initialised: false,
			Status:      http.StatusOK,
			User:        user,
			AppID:       h.appID,
			Profile:     profile,
		})
		return
	}

	session, err := h.wallets.CreateSessionToken(ctx, user.ID)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	wallets, err := h.wallets.ListWallets(ctx, user.ID)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	var tokens []circle.TokenBalance
	if len(wallets) > 0 {
		wallets = moveWalletFirst(wallets, firstWalletID)
		tokens, err = h.wallets.ListTokenBalances(ctx, wallets[0].ID, session.UserToken)
		if err != nil {
			respondRemoteError(w, r, err)
			return
		}
	}

	api.RespondWithJSON(w, http.StatusOK, UserDataResponse{
		Initialised:          true,
		Wallets:              wallets,
		TokensForFirstWallet: tokens,
		Status:               http.StatusOK,
		User:                 user,
		AppID:                h.appID,
		Profile:              profile,
	})
}

// moveWalletFirst reorders wallets so the wallet with the given id comes
// first. Order is unchanged when the id is empty or not present.
func moveWalletFirst(wallets []circle.Wallet, walletID string) []circle.Wallet {
	if walletID == "" {
		return wallets
	}
	for i, wallet := range wallets {
		if wallet.ID == walletID {
			reordered := make([]circle.Wallet, 0, len(wallets))
			reordered = append(reordered, wallet)
			reordered = append(reordered, wallets[:i]...)
			reordered = append(reordered, wallets[i+1:]...)
			return reordered
		}
	}
	return wallets
}

// InitialiseUser godoc
//
//	@Summary		Initialise a created user
//	@Description	Opens the challenge that sets up the user's PIN, security questions and first wallet.
//	@Tags			Users
//	@Produce		json
//	@Param			credential	query		string	true	"identity token"
//	@Param			blockchain	query		string	true	"blockchain for the first wallet"
//	@Param			name		query		string	false	"wallet name"
//	@Param			description	query		string	false	"wallet description"
//	@Success		200			{object}	ChallengeResponse
//	@Failure		401			{object}	api.ErrorResponse
//	@Failure		500			{object}	api.ErrorResponse
//	@Router			/api/initialiseCreatedUser [get]
func (h *UserHandler) InitialiseUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := auth.ProfileFromContext(ctx)
	query := r.URL.Query()

	session, err := h.wallets.CreateSessionToken(ctx, profile.ID)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	challenge, err := h.wallets.InitializeUser(ctx,
		session.UserToken,
		query.Get("blockchain"),
		query.Get("name"),
		query.Get("description"),
		uuid.NewString(),
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
