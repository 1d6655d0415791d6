package notify

// formatter.go renders notification emails. Formatting is pure: given the
// same event and enrichment data it produces identical output, and all
// user- or chain-controlled values (addresses, hashes, error reasons) are
// interpolated through html/template so they render as text, never as
// markup.

import (
	"fmt"
	"html/template"
	"strings"
)

// EmailMessage is a rendered notification email. Produced once, consumed
// once, never persisted.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// Subjects per notification type.
const (
	subjectWelcome       = "Welcome to Sphere"
	subjectInbound       = "Inbound Transfer"
	subjectOutbound      = "Outbound Transfer"
	subjectWalletCreated = "New Wallet Created"
)

// explorerBaseURLs maps a blockchain to its transaction explorer.
var explorerBaseURLs = map[string]string{
	"ETH-SEPOLIA": "https://sepolia.etherscan.io/tx/",
	"AVAX-FUJI":   "https://testnet.snowtrace.io/tx/",
	"MATIC-AMOY":  "https://amoy.polygonscan.com/tx/",
}

const headerHTML = `
<div style="text-align: center;">
<h1>Welcome to Sphere</h1>
<h2 style="color: #666;">Your secure space</h2>
</div>`

const footerHTML = `
<div style="text-align: center; color: #666; margin-top: 20px;">
    Built on Circle
</div>`

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<div style="font-family: 'Segoe UI'; padding: 20px;">` + headerHTML + `
    <div style="margin-top: 20px;">
        <p>Dear User,</p>
        <p>Thank you for joining Sphere! We're excited to have you on board.</p>
        <p>With Sphere, you can easily and securely manage your wallets, tokens and transactions.</p>
        <p>Best regards,<br />Sphere</p>
    </div>` + footerHTML + `
    <div style="text-align: center; color: #666; margin-top: 20px;">
        {{.Timestamp}}
    </div>
</div>`))

// transferData feeds the transfer template.
type transferData struct {
	Direction          string
	WalletID           string
	SourceAddress      string
	DestinationAddress string
	Amount             string
	TokenSymbol        string
	TransactionTime    string
	Blockchain         string
	ErrorReason        string
	State              string
	TxHash             string
	ExplorerURL        string
	Timestamp          string
}

var transferTemplate = template.Must(template.New("transfer").Parse(`<div style="font-family: 'Segoe UI'; padding: 20px; font-size: 20px">` + headerHTML + `
    <div style="margin-top: 20px;">
        <p>Dear User,</p>
        <p>We're writing to inform you about an <strong>{{.Direction}}</strong> transfer involving your wallet with <strong>id</strong> <span style="font-family:Monospace; background-color: silver; padding: 2px 10px; font-size: 0.9em; border-radius: 2px ">{{.WalletID}}</span>.</p>
        <h3>Transaction Details:</h3>
        <ul style="font-weight: bold">
            <li>Token Amount: {{.Amount}} {{.TokenSymbol}}</li>
            <li>From: {{.SourceAddress}}</li>
            <li>To: {{.DestinationAddress}}</li>
            <li>Transaction Time: {{.TransactionTime}}</li>
            <li>Blockchain: {{.Blockchain}}</li>
            <li>Transaction State: {{.State}}</li>
            {{if .ErrorReason}}<li>Error Reason: {{.ErrorReason}}</li>{{end}}
            {{if .ExplorerURL}}<li>Transaction Hash: <a href="{{.ExplorerURL}}" target="_blank">{{.TxHash}}</a></li>{{else}}<li>Transaction Hash: {{.TxHash}}</li>{{end}}
        </ul>
        <p>Best regards,<br />Sphere</p>
    </div>` + footerHTML + `
    <div style="text-align: center; color: #666; margin-top: 20px;">
        {{.Timestamp}}
    </div>
</div>`))

// walletCreatedData feeds the wallet-created template.
type walletCreatedData struct {
	WalletID    string
	Blockchain  string
	AccountType string
	Timestamp   string
}

var walletCreatedTemplate = template.Must(template.New("walletCreated").Parse(`<div style="font-family: 'Segoe UI'; padding: 20px; font-size: 20px">` + headerHTML + `
    <div style="margin-top: 20px;">
        <p>Dear User,</p>
        <p>We're writing to inform you that a new <strong>{{.AccountType}}</strong> wallet has been successfully created on the <strong>{{.Blockchain}}</strong> blockchain. Your wallet ID is <strong>{{.WalletID}}</strong>. You can now start using your new wallet to manage your assets.</p>
        <p>Best regards,<br />Sphere</p>
    </div>` + footerHTML + `
    <div style="text-align: center; color: #666; margin-top: 20px;">
        {{.Timestamp}}
    </div>
</div>`))

// FormatWelcome renders the welcome email sent when a user completes the
// initialization challenge.
func FormatWelcome(to, timestamp string) (EmailMessage, error) {
	var html strings.Builder
	if err := welcomeTemplate.Execute(&html, struct{ Timestamp string }{Timestamp: timestamp}); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render welcome email: %w", err)
	}
	return EmailMessage{To: to, Subject: subjectWelcome, HTML: html.String()}, nil
}

// FormatTransfer renders an inbound or outbound transfer email from the
// notification and its enrichment data.
func FormatTransfer(to string, kind Kind, n Notification, enriched EnrichedTransaction, timestamp string) (EmailMessage, error) {
	var direction, subject string
	switch kind {
	case KindInboundTransfer:
		direction, subject = "inbound", subjectInbound
	case KindOutboundTransfer:
		direction, subject = "outbound", subjectOutbound
	default:
		return EmailMessage{}, fmt.Errorf("notification type is not a transfer")
	}

	data := transferData{
		Direction:          direction,
		WalletID:           n.WalletID,
		SourceAddress:      enriched.SourceAddress,
		DestinationAddress: enriched.DestinationAddress,
		Amount:             enriched.Amount,
		TokenSymbol:        enriched.TokenSymbol,
		TransactionTime:    n.UpdateDate,
		Blockchain:         n.Blockchain,
		ErrorReason:        n.ErrorReason,
		State:              n.State,
		TxHash:             n.TxHash,
		Timestamp:          timestamp,
	}
	if base, ok := explorerBaseURLs[n.Blockchain]; ok && n.TxHash != "" {
		data.ExplorerURL = base + n.TxHash
	}

	var html strings.Builder
	if err := transferTemplate.Execute(&html, data); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render transfer email: %w", err)
	}
	return EmailMessage{To: to, Subject: subject, HTML: html.String()}, nil
}

// FormatWalletCreated renders the email sent when a wallet-creation
// challenge completes.
func FormatWalletCreated(to, walletID, blockchain, accountType, timestamp string) (EmailMessage, error) {
	data := walletCreatedData{
		WalletID:    walletID,
		Blockchain:  blockchain,
		AccountType: accountType,
		Timestamp:   timestamp,
	}

	var html strings.Builder
	if err := walletCreatedTemplate.Execute(&html, data); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render wallet-created email: %w", err)
	}
	return EmailMessage{To: to, Subject: subjectWalletCreated, HTML: html.String()}, nil
}
