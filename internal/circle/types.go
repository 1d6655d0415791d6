package circle

// types.go defines the subset of the Circle user-controlled wallets API
// surface used by the gateway. Responses arrive wrapped in a {"data": ...}
// envelope; the client unwraps the envelope before returning.

// User describes a platform end user.
//
// PinStatus and SecurityQuestionStatus are "ENABLED" once the user has
// completed the PIN / security-question setup challenge - the gateway uses
// this to decide whether a user counts as initialised.
type User struct {
	ID                     string `json:"id"`
	Status                 string `json:"status,omitempty"`
	CreateDate             string `json:"createDate,omitempty"`
	PinStatus              string `json:"pinStatus,omitempty"`
	SecurityQuestionStatus string `json:"securityQuestionStatus,omitempty"`
}

// SessionToken is a short-lived per-user credential that authorizes
// wallet-scoped operations.
type SessionToken struct {
	UserToken     string `json:"userToken"`
	EncryptionKey string `json:"encryptionKey,omitempty"`
}

// Challenge identifies a platform-issued step (PIN entry etc.) required to
// complete a state-changing operation on the end-user's device.
type Challenge struct {
	ChallengeID string `json:"challengeId"`
}

// Wallet describes a custodial wallet.
type Wallet struct {
	ID          string `json:"id"`
	Address     string `json:"address,omitempty"`
	Blockchain  string `json:"blockchain,omitempty"`
	AccountType string `json:"accountType,omitempty"`
	State       string `json:"state,omitempty"`
	UserID      string `json:"userId,omitempty"`
	Name        string `json:"name,omitempty"`
	RefID       string `json:"refId,omitempty"`
	CreateDate  string `json:"createDate,omitempty"`
	UpdateDate  string `json:"updateDate,omitempty"`
}

// Token describes an on-chain token known to the platform.
type Token struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Symbol       string `json:"symbol"`
	Blockchain   string `json:"blockchain,omitempty"`
	Decimals     int    `json:"decimals,omitempty"`
	IsNative     bool   `json:"isNative,omitempty"`
	TokenAddress string `json:"tokenAddress,omitempty"`
}

// TokenBalance pairs a token with the amount held by a wallet.
type TokenBalance struct {
	Token      Token  `json:"token"`
	Amount     string `json:"amount"`
	UpdateDate string `json:"updateDate,omitempty"`
}

// Transaction describes a single on-chain transfer.
type Transaction struct {
	ID                 string   `json:"id"`
	WalletID           string   `json:"walletId,omitempty"`
	UserID             string   `json:"userId,omitempty"`
	SourceAddress      string   `json:"sourceAddress,omitempty"`
	DestinationAddress string   `json:"destinationAddress,omitempty"`
	Amounts            []string `json:"amounts,omitempty"`
	TokenID            string   `json:"tokenId,omitempty"`
	Blockchain         string   `json:"blockchain,omitempty"`
	State              string   `json:"state,omitempty"`
	TransactionType    string   `json:"transactionType,omitempty"`
	TxHash             string   `json:"txHash,omitempty"`
	ErrorReason        string   `json:"errorReason,omitempty"`
	CreateDate         string   `json:"createDate,omitempty"`
	UpdateDate         string   `json:"updateDate,omitempty"`
}

// PublicKey is the signing public key the platform publishes per key id.
// PublicKey is base64-encoded DER (SubjectPublicKeyInfo).
type PublicKey struct {
	ID        string `json:"id"`
	Algorithm string `json:"algorithm,omitempty"`
	PublicKey string `json:"publicKey"`
}

// WalletMetadata names a wallet at creation time.
type WalletMetadata struct {
	Name  string `json:"name"`
	RefID string `json:"refId"`
}

// ListTransactionsOptions holds the cursor-pagination parameters for
// ListTransactions. Before and After are mutually exclusive cursors
// (transaction ids); PageSize bounds the number of results.
type ListTransactionsOptions struct {
	WalletID string
	To       string
	Before   string
	After    string
	PageSize int
}
