package domain

// Asset is one line of an account portfolio: a balance held against a
// single faucet. Amounts are kept as the ledger reports them, in base
// units rendered as a decimal string.
// The portfolio is rebuilt wholesale on every refresh — Asset values are
// never patched incrementally.
type Asset struct {
	Faucet FaucetID `json:"faucet"`
	Amount string   `json:"amount"`
}

// Faucet carries the cached display metadata of an asset issuer.
// The ledger remains authoritative; this is what the registry remembers
// so the UI can label balances and scale user-entered amounts.
type Faucet struct {
	ID        FaucetID `json:"id"`
	Symbol    string   `json:"symbol"`
	Decimals  int32    `json:"decimals"`
	MaxSupply string   `json:"maxSupply"`
}

// Account is a registry record for a wallet deployed from this front end.
type Account struct {
	ID       AccountID `json:"id"`
	Name     string    `json:"name"`
	IsPublic bool      `json:"isPublic"`
}

// Contact is one address-book entry.
type Contact struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}
