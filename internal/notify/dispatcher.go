package notify

// dispatcher.go orchestrates webhook processing: verify the signature, decide
// per notification type which enrichment calls are needed, render the email,
// send it.
//
// The dispatcher is the only code path that can trigger an email, and it does
// so only after the signature verifier returns true and (for transfer events)
// the transaction has reached a terminal state.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sphere-wallet/sphere-gateway/internal/circle"
)

// SignatureVerifier is the trust gate in front of the dispatcher.
// Implemented by crypto.Verifier.
type SignatureVerifier interface {
	Verify(ctx context.Context, keyID string, rawBody []byte, signatureB64 string) (bool, error)
}

// WalletEnricher is the subset of the platform client the dispatcher uses to
// enrich notifications before formatting.
type WalletEnricher interface {
	CreateSessionToken(ctx context.Context, userID string) (*circle.SessionToken, error)
	GetTransaction(ctx context.Context, transactionID, userToken string) (*circle.Transaction, error)
	GetWallet(ctx context.Context, walletID, userToken string) (*circle.Wallet, error)
	GetToken(ctx context.Context, tokenID string) (*circle.Token, error)
}

// Dispatcher turns verified webhook notifications into notification emails.
type Dispatcher struct {
	verifier SignatureVerifier
	wallets  WalletEnricher
	sender   Sender
	logger   *slog.Logger
}

// NewDispatcher wires the dispatcher's collaborators.
func NewDispatcher(verifier SignatureVerifier, wallets WalletEnricher, sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		verifier: verifier,
		wallets:  wallets,
		sender:   sender,
		logger:   logger,
	}
}

// Dispatch processes one webhook notification.
//
// Unverifiable requests, non-final transaction states, unusable recipient
// addresses, and unknown notification types are all dropped without error -
// the caller acknowledges receipt to the platform either way. A non-nil
// return means processing was attempted and failed (enrichment or send); the
// caller should log it, not surface it.
func (d *Dispatcher) Dispatch(ctx context.Context, keyID, signature string, rawBody []byte) error {
	verified, err := d.verifier.Verify(ctx, keyID, rawBody, signature)
	if err != nil || !verified {
		d.logger.Warn("webhook signature not verified",
			slog.String("key_id", keyID),
			slog.Any("error", err),
		)
		return nil
	}

	envelope, err := ParseEnvelope(keyID, signature, rawBody)
	if err != nil {
		d.logger.Warn("verified webhook body failed to parse", slog.Any("error", err))
		return nil
	}

	recipient := envelope.Notification.UserID
	if !IsValidEmail(recipient) {
		d.logger.Warn("webhook user id is not an email address, dropping",
			slog.String("notification_type", envelope.NotificationType),
		)
		return nil
	}

	var msg EmailMessage
	var ok bool

	switch envelope.Kind() {
	case KindInitialize:
		msg, err = FormatWelcome(recipient, envelope.Timestamp)
		ok = err == nil

	case KindInboundTransfer, KindOutboundTransfer:
		msg, ok, err = d.prepareTransferEmail(ctx, envelope, recipient)

	case KindWalletCreated:
		msg, ok, err = d.prepareWalletCreatedEmail(ctx, envelope, recipient)

	case KindUnhandled:
		d.logger.Info("unhandled webhook notification type, dropping",
			slog.String("notification_type", envelope.NotificationType),
		)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to process %s notification: %w", envelope.NotificationType, err)
	}
	if !ok {
		return nil
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s notification email: %w", envelope.NotificationType, err)
	}

	d.logger.Info("notification email sent",
		slog.String("notification_type", envelope.NotificationType),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// prepareTransferEmail enriches a transfer notification and renders the
// email. ok is false when the event is intentionally dropped (non-terminal
// state).
func (d *Dispatcher) prepareTransferEmail(ctx context.Context, envelope *Envelope, recipient string) (msg EmailMessage, ok bool, err error) {
	n := envelope.Notification

	if !IsTerminalState(n.State) {
		d.logger.Debug("transfer not in a terminal state, dropping",
			slog.String("state", n.State),
			slog.String("transaction_id", n.ID),
		)
		return EmailMessage{}, false, nil
	}

	session, err := d.wallets.CreateSessionToken(ctx, n.UserID)
	if err != nil {
		return EmailMessage{}, false, fmt.Errorf("failed to create session token: %w", err)
	}

	tx, err := d.wallets.GetTransaction(ctx, n.ID, session.UserToken)
	if err != nil {
		return EmailMessage{}, false, fmt.Errorf("failed to fetch transaction %s: %w", n.ID, err)
	}

	token, err := d.wallets.GetToken(ctx, n.TokenID)
	if err != nil {
		return EmailMessage{}, false, fmt.Errorf("failed to fetch token %s: %w", n.TokenID, err)
	}

	enriched := EnrichedTransaction{
		SourceAddress:      tx.SourceAddress,
		DestinationAddress: tx.DestinationAddress,
		TokenSymbol:        token.Symbol,
	}
	if len(tx.Amounts) > 0 {
		enriched.Amount = tx.Amounts[0]
	}

	msg, err = FormatTransfer(recipient, envelope.Kind(), n, enriched, envelope.Timestamp)
	if err != nil {
		return EmailMessage{}, false, err
	}
	return msg, true, nil
}

// prepareWalletCreatedEmail enriches a wallet-creation notification and
// renders the email. The created wallet's id arrives as the first
// correlation id.
func (d *Dispatcher) prepareWalletCreatedEmail(ctx context.Context, envelope *Envelope, recipient string) (msg EmailMessage, ok bool, err error) {
	n := envelope.Notification

	if len(n.CorrelationIDs) == 0 {
		return EmailMessage{}, false, fmt.Errorf("wallet-created notification has no correlation id")
	}
	walletID := n.CorrelationIDs[0]

	session, err := d.wallets.CreateSessionToken(ctx, n.UserID)
	if err != nil {
		return EmailMessage{}, false, fmt.Errorf("failed to create session token: %w", err)
	}

	wallet, err := d.wallets.GetWallet(ctx, walletID, session.UserToken)
	if err != nil {
		return EmailMessage{}, false, fmt.Errorf("failed to fetch wallet %s: %w", walletID, err)
	}

	msg, err = FormatWalletCreated(recipient, walletID, wallet.Blockchain, wallet.AccountType, envelope.Timestamp)
	if err != nil {
		return EmailMessage{}, false, err
	}
	return msg, true, nil
}
