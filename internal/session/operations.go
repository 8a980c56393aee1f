package session

import (
	"context"
	"errors"

	"github.com/mrz1836/tokengate/internal/chain"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

// Connect opens the wallet, records its address, emits EventConnected and
// then refreshes the balance before returning.
//
// It returns ErrAlreadyConnected or ErrConnectInProgress without touching
// the provider. ErrProviderUnavailable and ErrConnectRejected leave the
// state unchanged and post exactly one toast.
func (s *WalletSession) Connect(ctx context.Context) (string, error) {
	if s.Connected() {
		return "", gateerr.ErrAlreadyConnected
	}
	if !s.connecting.CompareAndSwap(false, true) {
		return "", gateerr.ErrConnectInProgress
	}
	defer s.connecting.Store(false)

	// A concurrent Connect may have finished between the check and the swap.
	if s.Connected() {
		return "", gateerr.ErrAlreadyConnected
	}

	if s.provider == nil {
		s.logger.Error("connect: no wallet provider present")
		s.metrics.RecordConnect(gateerr.ErrProviderUnavailable)
		s.toast(ToastProviderUnavailable)
		return "", gateerr.ErrProviderUnavailable
	}

	address, err := s.provider.Connect(ctx)
	if err == nil && address == "" {
		err = errEmptyAddress
	}
	if err != nil {
		s.logger.Error("connect: provider rejected connection: %v", err)
		s.metrics.RecordConnect(err)
		s.toast(ToastConnectRejected)
		return "", gateerr.WithCause(gateerr.ErrConnectRejected, err)
	}

	s.transition.Lock()
	s.mu.Lock()
	s.epoch++
	s.state = State{Connected: true, Address: address}
	s.mu.Unlock()
	s.emit(Event{Kind: EventConnected, Address: address})
	s.transition.Unlock()

	s.metrics.RecordConnect(nil)
	s.logger.Debug("connect: wallet connected address=%s", address)

	if _, err = s.RefreshBalance(ctx); err != nil {
		s.logger.Debug("connect: initial refresh skipped: %v", err)
	}

	return address, nil
}

// Disconnect releases the wallet and resets the session. It is a no-op when
// not connected. Provider failures are logged, never returned. When access
// was granted the notifier's revoke runs before the reset; EventDisconnected
// and then EventAccessChanged(false, 0) follow.
func (s *WalletSession) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	if !s.state.Connected || s.disconnecting {
		s.mu.Unlock()
		return nil
	}
	s.disconnecting = true
	// In-flight refreshes were issued for the old epoch and will be dropped.
	s.epoch++
	address := s.state.Address
	s.mu.Unlock()

	if s.provider != nil {
		if err := s.provider.Disconnect(ctx); err != nil {
			s.logger.Error("disconnect: provider error address=%s: %v", address, err)
		}
	}

	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	wasGranted := s.state.HasAccess
	s.mu.Unlock()

	if wasGranted {
		if s.notifier != nil {
			s.notifier.Revoked(ctx)
		}
		s.metrics.RecordAccessChange(false)
	}

	s.mu.Lock()
	s.state = State{}
	s.disconnecting = false
	s.mu.Unlock()

	s.metrics.RecordDisconnect()
	s.logger.Debug("disconnect: wallet disconnected address=%s revoked=%t", address, wasGranted)

	s.emit(Event{Kind: EventDisconnected})
	s.emit(Event{Kind: EventAccessChanged, Granted: false, Balance: 0})
	return nil
}

// RefreshBalance re-reads the token balance and recomputes access. When not
// connected it returns (false, nil). A call made while another refresh for
// the same connection is outstanding returns ErrRefreshInProgress. A result that arrives after the
// session was disconnected or reconnected is discarded.
func (s *WalletSession) RefreshBalance(ctx context.Context) (bool, error) {
	s.mu.Lock()
	snap := s.state
	epoch := s.epoch
	if !snap.Connected || s.disconnecting {
		s.mu.Unlock()
		return false, nil
	}
	if s.refreshEpoch == epoch {
		s.mu.Unlock()
		return snap.HasAccess, gateerr.ErrRefreshInProgress
	}
	s.refreshEpoch = epoch
	s.mu.Unlock()
	defer s.endRefresh(epoch)

	balance := s.FetchBalance(ctx, snap.Address)

	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	if s.epoch != epoch || s.disconnecting || !s.state.Connected || s.state.Address != snap.Address {
		s.mu.Unlock()
		s.metrics.RecordRefresh(true)
		s.logger.Debug("refresh: discarded stale balance for address=%s", snap.Address)
		return false, nil
	}
	prev := s.state.HasAccess
	granted := balance >= s.cfg.RequiredBalance
	s.state.Balance = balance
	s.state.HasAccess = granted
	s.mu.Unlock()

	s.metrics.RecordRefresh(false)
	s.logger.Debug("refresh: address=%s balance=%g required=%g access=%t",
		snap.Address, balance, s.cfg.RequiredBalance, granted)

	if granted == prev {
		return granted, nil
	}

	s.metrics.RecordAccessChange(granted)
	s.emit(Event{Kind: EventAccessChanged, Granted: granted, Balance: balance})

	if s.notifier != nil {
		if granted {
			s.notifier.Granted(ctx, snap.Address, balance)
		} else {
			s.notifier.Insufficient(ctx, balance, s.cfg.RequiredBalance)
		}
	}

	return granted, nil
}

// FetchBalance returns the human-readable token balance of address without
// touching the session. It returns 0 when the mint is unset, the address is
// empty, the token account does not exist or the lookup fails.
func (s *WalletSession) FetchBalance(ctx context.Context, address string) float64 {
	if s.cfg.TokenMint == "" || address == "" || s.ledger == nil {
		return 0
	}

	raw, err := s.ledger.TokenBalance(ctx, address, s.cfg.TokenMint)
	if err != nil {
		if errors.Is(err, chain.ErrTokenAccountNotFound) {
			s.logger.Debug("balance: no token account for address=%s", address)
			return 0
		}
		s.metrics.RecordBalanceFailure()
		s.logger.Error("balance: lookup failed for address=%s: %v", address, err)
		return 0
	}

	s.logger.Debug("balance: address=%s amount=%s", address, chain.FormatDecimalAmount(raw, s.cfg.TokenDecimals))
	return chain.ScaleAmount(raw, s.cfg.TokenDecimals)
}

// endRefresh clears the outstanding refresh unless a newer connection
// has already started its own.
func (s *WalletSession) endRefresh(epoch uint64) {
	s.mu.Lock()
	if s.refreshEpoch == epoch {
		s.refreshEpoch = 0
	}
	s.mu.Unlock()
}

var errEmptyAddress = errors.New("provider returned an empty address")
