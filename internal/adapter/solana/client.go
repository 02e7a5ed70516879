package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gul-marketplace/config"
	"gul-marketplace/internal/core/ports"

	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// Client talks to a Solana RPC node over JSON-RPC and implements
// ports.ChainGateway for the $GUL SPL token.
type Client struct {
	client   *http.Client
	endpoint string
	mint     string
	log      zerolog.Logger
}

// NewClient creates a Solana RPC client for the configured token mint.
func NewClient(cfg config.SolanaConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client:   &http.Client{Timeout: timeout},
		endpoint: cfg.RPCEndpoint,
		mint:     cfg.TokenMint,
		log:      log,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// tokenAmount mirrors the RPC uiTokenAmount shape. Raw amounts arrive as
// decimal strings of base units.
type tokenAmount struct {
	Amount   string `json:"amount"`
	Decimals int    `json:"decimals"`
}

func (a tokenAmount) baseUnits() (int64, error) {
	return strconv.ParseInt(a.Amount, 10, 64)
}

// GetTokenBalance reads the wallet's $GUL balance by querying its token
// accounts for the configured mint. A wallet with no token account holds
// zero, matching what the storefront shows for fresh wallets.
func (c *Client) GetTokenBalance(ctx context.Context, owner string) (*ports.TokenBalance, error) {
	params := []any{
		owner,
		map[string]string{"mint": c.mint},
		map[string]string{"encoding": "jsonParsed", "commitment": "confirmed"},
	}

	var result struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							TokenAmount tokenAmount `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, fmt.Errorf("token accounts for %s: %w", owner, err)
	}

	balance := &ports.TokenBalance{Amount: 0, Decimals: 9}
	for _, acc := range result.Value {
		amt := acc.Account.Data.Parsed.Info.TokenAmount
		units, err := amt.baseUnits()
		if err != nil {
			return nil, fmt.Errorf("parse token amount %q: %w", amt.Amount, err)
		}
		balance.Amount += units
		balance.Decimals = amt.Decimals
	}
	return balance, nil
}

// VerifyTransfer confirms that signature refers to a finalized transaction
// in which some token account's $GUL balance grew by exactly expectedAmount
// base units. Pre/post token balances come straight from the transaction
// meta, so no instruction decoding is needed.
func (c *Client) VerifyTransfer(ctx context.Context, signature string, expectedAmount int64) error {
	params := []any{
		signature,
		map[string]any{
			"encoding":                       "jsonParsed",
			"commitment":                     "confirmed",
			"maxSupportedTransactionVersion": 0,
		},
	}

	var result *struct {
		Meta *struct {
			Err               any                `json:"err"`
			PreTokenBalances  []metaTokenBalance `json:"preTokenBalances"`
			PostTokenBalances []metaTokenBalance `json:"postTokenBalances"`
		} `json:"meta"`
	}
	if err := c.call(ctx, "getTransaction", params, &result); err != nil {
		return fmt.Errorf("fetch transaction %s: %w", signature, err)
	}
	if result == nil || result.Meta == nil {
		return fmt.Errorf("transaction %s not found", signature)
	}
	if result.Meta.Err != nil {
		return fmt.Errorf("transaction %s failed on-chain", signature)
	}

	pre := make(map[int]int64, len(result.Meta.PreTokenBalances))
	for _, b := range result.Meta.PreTokenBalances {
		if b.Mint != c.mint {
			continue
		}
		units, err := b.UITokenAmount.baseUnits()
		if err != nil {
			return fmt.Errorf("parse pre balance: %w", err)
		}
		pre[b.AccountIndex] = units
	}

	for _, b := range result.Meta.PostTokenBalances {
		if b.Mint != c.mint {
			continue
		}
		units, err := b.UITokenAmount.baseUnits()
		if err != nil {
			return fmt.Errorf("parse post balance: %w", err)
		}
		if units-pre[b.AccountIndex] == expectedAmount {
			c.log.Debug().
				Str("signature", signature).
				Int64("amount", expectedAmount).
				Msg("transfer verified on-chain")
			return nil
		}
	}
	return fmt.Errorf("transaction %s moved no %d base units of the expected token", signature, expectedAmount)
}

// metaTokenBalance mirrors the RPC pre/postTokenBalances entries.
type metaTokenBalance struct {
	AccountIndex  int         `json:"accountIndex"`
	Mint          string      `json:"mint"`
	UITokenAmount tokenAmount `json:"uiTokenAmount"`
}

// call performs a single JSON-RPC round trip and decodes result into out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status code %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}
