package transfer

import "time"

type AccountCreation struct {
	AccountName string `json:"account_name"`
	AccessToken string `json:"access_token"`
	PageID      string `json:"page_id"`
	// Unix seconds; zero means the token never expires.
	ExpiresAt int64 `json:"expires_at"`
	// When true the supplied token is exchanged for a long-lived one
	// before being stored.
	ExchangeToken bool `json:"exchange_token"`
}

// AccountPatch carries a partial update; nil fields are left unchanged.
type AccountPatch struct {
	AccountName *string    `json:"account_name"`
	AccessToken *string    `json:"access_token"`
	PageID      *string    `json:"page_id"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func (p *AccountPatch) IsEmpty() bool {
	return p == nil ||
		(p.AccountName == nil && p.AccessToken == nil && p.PageID == nil && p.ExpiresAt == nil)
}

// AccountInfo is the listing shape handed to the UI; it never carries
// the access token.
type AccountInfo struct {
	ID             int64      `json:"id"`
	AccountName    string     `json:"account_name"`
	PageID         string     `json:"page_id"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
