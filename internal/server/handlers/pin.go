package handlers

// pin.go implements the PIN change and PIN restore endpoints.

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/sphere-wallet/sphere-gateway/internal/api"
	"github.com/sphere-wallet/sphere-gateway/internal/auth"
	"github.com/sphere-wallet/sphere-gateway/internal/circle"
)

// PinHandler handles the PIN-management /api endpoints.
type PinHandler struct {
	wallets *circle.Client
	appID   string
}

// NewPinHandler creates a handler for the PIN endpoints.
func NewPinHandler(wallets *circle.Client, appID string) *PinHandler {
	return &PinHandler{wallets: wallets, appID: appID}
}

// ChangePin godoc
//
//	@Summary		Change PIN
//	@Description	Opens the challenge that lets the user change their wallet PIN.
//	@Tags			PIN
//	@Produce		json
//	@Param			credential	query		string	true	"identity token"
//	@Success		200			{object}	ChallengeResponse
//	@Failure		401			{object}	api.ErrorResponse
//	@Failure		500			{object}	api.ErrorResponse
//	@Router			/api/changePin [get]
func (h *PinHandler) ChangePin(w http.ResponseWriter, r *http.Request) {
	h.openPinChallenge(w, r, h.wallets.UpdatePin)
}

// RestorePin godoc
//
//	@Summary		Restore PIN
//	@Description	Opens the challenge that lets the user recover a forgotten PIN via their security questions.
//	@Tags			PIN
//	@Produce		json
//	@Param			credential	query		string	true	"identity token"
//	@Success		200			{object}	ChallengeResponse
//	@Failure		401			{object}	api.ErrorResponse
//	@Failure		500			{object}	api.ErrorResponse
//	@Router			/api/restorePin [get]
func (h *PinHandler) RestorePin(w http.ResponseWriter, r *http.Request) {
	h.openPinChallenge(w, r, h.wallets.RestorePin)
}

func (h *PinHandler) openPinChallenge(w http.ResponseWriter, r *http.Request, open func(ctx context.Context, userToken, idempotencyKey string) (*circle.Challenge, error)) {
	ctx := r.Context()
	profile := auth.ProfileFromContext(ctx)

	session, err := h.wallets.CreateSessionToken(ctx, profile.ID)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	challenge, err := open(ctx, session.UserToken, uuid.NewString())
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
