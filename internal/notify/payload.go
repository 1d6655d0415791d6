// Package notify reacts to verified webhook notifications from the wallet
// platform by emailing the affected user.
//
// the package contains the webhook payload model, the dispatcher that decides
// what (if anything) to do for each notification type, the pure email
// formatter, and the SMTP sender.
package notify

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Kind is the closed set of notification types the dispatcher understands.
// Tags outside the set decode to KindUnhandled so new platform event types
// are logged and dropped rather than mishandled.
type Kind int

const (
	KindUnhandled Kind = iota
	KindInitialize
	KindInboundTransfer
	KindOutboundTransfer
	KindWalletCreated
)

const (
	tagInitialize       = "challenges.initialize"
	tagInboundTransfer  = "transactions.inbound"
	tagOutboundTransfer = "transactions.outbound"
	tagCreateWallet     = "challenges.createWallet"
)

// KindOf maps a notificationType tag to its Kind.
func KindOf(tag string) Kind {
	switch tag {
	case tagInitialize:
		return KindInitialize
	case tagInboundTransfer:
		return KindInboundTransfer
	case tagOutboundTransfer:
		return KindOutboundTransfer
	case tagCreateWallet:
		return KindWalletCreated
	default:
		return KindUnhandled
	}
}

// Notification is the payload common to all webhook notification types.
// Which fields are populated depends on the notification type.
type Notification struct {
	ID             string   `json:"id"`
	UserID         string   `json:"userId"`
	WalletID       string   `json:"walletId"`
	State          string   `json:"state"`
	ErrorReason    string   `json:"errorReason"`
	TxHash         string   `json:"txHash"`
	Blockchain     string   `json:"blockchain"`
	TokenID        string   `json:"tokenId"`
	UpdateDate     string   `json:"updateDate"`
	CorrelationIDs []string `json:"correlationIds"`
}

// Envelope is a webhook notification as received, with the raw body retained
// for signature verification. Immutable once parsed; lives for a single
// request.
type Envelope struct {
	KeyID            string
	Signature        string
	RawBody          []byte
	NotificationType string
	Timestamp        string
	Notification     Notification
}

// Kind returns the decoded notification type.
func (e *Envelope) Kind() Kind {
	return KindOf(e.NotificationType)
}

// webhookBody is the JSON shape of the webhook request body.
type webhookBody struct {
	NotificationType string       `json:"notificationType"`
	Notification     Notification `json:"notification"`
	Timestamp        string       `json:"timestamp"`
}

// ParseEnvelope decodes a webhook request into an Envelope. keyID and
// signature come from the request headers, rawBody is the body exactly as
// received.
func ParseEnvelope(keyID, signature string, rawBody []byte) (*Envelope, error) {
	var body webhookBody
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return nil, fmt.Errorf("failed to decode webhook body: %w", err)
	}

	return &Envelope{
		KeyID:            keyID,
		Signature:        signature,
		RawBody:          rawBody,
		NotificationType: body.NotificationType,
		Timestamp:        body.Timestamp,
		Notification:     body.Notification,
	}, nil
}

// terminalStates are the transaction states after which no further
// transitions occur. Transfer notifications are only emailed once the
// transaction reaches one of these.
var terminalStates = map[string]bool{
	"COMPLETE": true,
	"CANCELED": true,
	"FAILED":   true,
}

// IsTerminalState reports whether state is a terminal transaction state.
func IsTerminalState(state string) bool {
	return terminalStates[state]
}

// local-part@domain with no whitespace
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether address is syntactically an email address.
// The webhook's userId field is used as the notification recipient, so a
// non-address user id means there is nobody to email.
func IsValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

// EnrichedTransaction combines a transfer notification with the transaction
// and token detail fetched from the platform. It exists only for the
// duration of formatting one email.
type EnrichedTransaction struct {
	SourceAddress      string
	DestinationAddress string
	Amount             string
	TokenSymbol        string
}
