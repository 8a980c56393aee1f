package solana

import (
	"context"
	"sync"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

const (
	testMint  = "So11111111111111111111111111111111111111112"
	testOwner = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

// mockRPC records token account lookups and answers with a canned result.
type mockRPC struct {
	mu         sync.Mutex
	amount     string
	err        error
	nilValue   bool
	accounts   []sol.PublicKey
	commitment rpc.CommitmentType
}

func (m *mockRPC) GetTokenAccountBalance(_ context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts = append(m.accounts, account)
	m.commitment = commitment

	if m.err != nil {
		return nil, m.err
	}
	if m.nilValue {
		return &rpc.GetTokenAccountBalanceResult{}, nil
	}
	return &rpc.GetTokenAccountBalanceResult{
		Value: &rpc.UiTokenAmount{Amount: m.amount, Decimals: 6},
	}, nil
}

func (m *mockRPC) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}
