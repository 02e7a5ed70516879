package ports

import "context"

// TokenBalance is a fixed-point SPL token amount as reported by the chain.
type TokenBalance struct {
	Amount   int64 `json:"amount"` // base units
	Decimals int   `json:"decimals"`
}

// TransferVerifier checks that a client-reported transfer signature is real
// and final before settlement commits. Settlement treats a nil verifier as
// "trust the caller", which preserves the original contract; wiring one in
// is the hardened mode.
type TransferVerifier interface {
	// VerifyTransfer returns nil when the signature refers to a finalized
	// $GUL transfer of exactly expectedAmount base units.
	VerifyTransfer(ctx context.Context, signature string, expectedAmount int64) error
}

// ChainGateway is the full balance/transfer collaborator around the Solana
// RPC node.
type ChainGateway interface {
	TransferVerifier
	// GetTokenBalance reads the $GUL associated-token-account balance for a
	// wallet. Wallets without a token account report a zero balance.
	GetTokenBalance(ctx context.Context, owner string) (*TokenBalance, error)
}
