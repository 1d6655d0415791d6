package handlers

// transactions.go implements the transaction-history and outbound-transfer
// endpoints.

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sphere-wallet/sphere-gateway/internal/api"
	"github.com/sphere-wallet/sphere-gateway/internal/auth"
	"github.com/sphere-wallet/sphere-gateway/internal/circle"
)

// transactionsPageSize is the number of transactions returned per page. One
// extra item is requested from the platform as a sentinel: receiving fewer
// than pageSize+1 items means the page is the last one in the requested
// direction, so no separate count query is needed.
const transactionsPageSize = 10

// TransactionHandler handles the transaction-centric /api endpoints.
type TransactionHandler struct {
	wallets *circle.Client
	appID   string
}

// NewTransactionHandler creates a handler for the transaction endpoints.
func NewTransactionHandler(wallets *circle.Client, appID string) *TransactionHandler {
	return &TransactionHandler{wallets: wallets, appID: appID}
}

// FetchTransactions godoc
//
//	@Summary		Fetch transaction history
//	@Description	Returns one page of a wallet's transactions, paging forward or backward from a cursor.
//	@Tags			Transactions
//	@Produce		json
//	@Param			credential		query		string	true	"identity token"
//	@Param			walletId		query		string	true	"wallet id"
//	@Param			date			query		string	false	"only transactions up to this date"
//	@Param			page[type]		query		string	false	"paging direction: next or prev"
//	@Param			page[lastId]	query		string	false	"cursor transaction id"
//	@Success		200				{object}	TransactionsResponse
//	@Failure		401				{object}	api.ErrorResponse
//	@Failure		500				{object}	api.ErrorResponse
//	@Router			/api/fetchTransactions [get]
func (h *TransactionHandler) FetchTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := auth.ProfileFromContext(ctx)
	query := r.URL.Query()

	pageType := query.Get("page[type]")
	lastID := query.Get("page[lastId]")

	session, err := h.wallets.CreateSessionToken(ctx, profile.ID)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	opts := circle.ListTransactionsOptions{
		WalletID: query.Get("walletId"),
		To:       query.Get("date"),
		PageSize: transactionsPageSize + 1,
	}
	switch pageType {
	case "prev":
		opts.Before = lastID
	case "next":
		opts.After = lastID
	}

	transactions, err := h.wallets.ListTransactions(ctx, session.UserToken, opts)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	// Trim the sentinel item from the far end of the page: the tail when
	// paging forward (or on the first page), the head when paging backward.
	lastOfType := false
	if len(transactions) < transactionsPageSize+1 {
		lastOfType = true
	} else if pageType == "prev" {
		transactions = transactions[1:]
	} else {
		transactions = transactions[:len(transactions)-1]
	}

	api.RespondWithJSON(w, http.StatusOK, TransactionsResponse{
		Transactions: transactions,
		Status:       http.StatusOK,
		LastOfType:   lastOfType,
		Type:         pageType,
	})
}

// SendTransaction godoc
//
//	@Summary		Send an outbound transfer
//	@Description	Opens the challenge that sends tokens from one of the user's wallets to a destination address.
//	@Tags			Transactions
//	@Produce		json
//	@Param			credential	query		string	true	"identity token"
//	@Param			walletId	query		string	true	"source wallet id"
//	@Param			destination	query		string	true	"destination address"
//	@Param			amount		query		string	true	"token amount"
//	@Param			tokenId		query		string	true	"token id"
//	@Success		200			{object}	ChallengeResponse
//	@Failure		401			{object}	api.ErrorResponse
//	@Failure		500			{object}	api.ErrorResponse
//	@Router			/api/sendTransaction [get]
func (h *TransactionHandler) SendTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := auth.ProfileFromContext(ctx)
	query := r.URL.Query()

	session, err := h.wallets.CreateSessionToken(ctx, profile.ID)
	if err != nil {
		respondRemoteError(w, r, err)
		return
	}

	challenge, err := h.wallets.CreateTransfer(ctx,
		session.UserToken,
		query.Get("walletId"),
		query.Get("amount"),
		query.Get("tokenId"),
		query.Get("destination"),
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
