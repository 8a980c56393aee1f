// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Ledger RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Wallet session metrics
	connectsTotal   atomic.Int64
	connectsFailed  atomic.Int64
	disconnects     atomic.Int64
	refreshesTotal  atomic.Int64
	refreshesStale  atomic.Int64
	accessGrants    atomic.Int64
	accessRevokes   atomic.Int64
	balanceFailures atomic.Int64

	// Authorization channel metrics
	messagesSent   atomic.Int64
	messagesFailed atomic.Int64
}

// Global is the global metrics instance.
// Use this for recording metrics throughout the application.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records a ledger RPC call with its duration and success status.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordConnect records a wallet connect attempt.
func (m *Metrics) RecordConnect(err error) {
	m.connectsTotal.Add(1)
	if err != nil {
		m.connectsFailed.Add(1)
	}
}

// RecordDisconnect records a wallet disconnect.
func (m *Metrics) RecordDisconnect() {
	m.disconnects.Add(1)
}

// RecordRefresh records a balance refresh; stale refreshes were discarded
// because the session changed while the query was in flight.
func (m *Metrics) RecordRefresh(stale bool) {
	m.refreshesTotal.Add(1)
	if stale {
		m.refreshesStale.Add(1)
	}
}

// RecordBalanceFailure records a balance lookup that degraded to zero.
func (m *Metrics) RecordBalanceFailure() {
	m.balanceFailures.Add(1)
}

// RecordAccessChange records a builder access transition.
func (m *Metrics) RecordAccessChange(granted bool) {
	if granted {
		m.accessGrants.Add(1)
		return
	}
	m.accessRevokes.Add(1)
}

// RecordMessage records an authorization channel send.
func (m *Metrics) RecordMessage(err error) {
	if err != nil {
		m.messagesFailed.Add(1)
		return
	}
	m.messagesSent.Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RPCCallsTotal   int64 `json:"rpc_calls_total"`
	RPCErrorsTotal  int64 `json:"rpc_errors_total"`
	RPCLatencyNanos int64 `json:"rpc_latency_nanos"`
	ConnectsTotal   int64 `json:"connects_total"`
	ConnectsFailed  int64 `json:"connects_failed"`
	Disconnects     int64 `json:"disconnects"`
	RefreshesTotal  int64 `json:"refreshes_total"`
	RefreshesStale  int64 `json:"refreshes_stale"`
	BalanceFailures int64 `json:"balance_failures"`
	AccessGrants    int64 `json:"access_grants"`
	AccessRevokes   int64 `json:"access_revokes"`
	MessagesSent    int64 `json:"messages_sent"`
	MessagesFailed  int64 `json:"messages_failed"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:   m.rpcCallsTotal.Load(),
		RPCErrorsTotal:  m.rpcErrorsTotal.Load(),
		RPCLatencyNanos: m.rpcLatencyNanos.Load(),
		ConnectsTotal:   m.connectsTotal.Load(),
		ConnectsFailed:  m.connectsFailed.Load(),
		Disconnects:     m.disconnects.Load(),
		RefreshesTotal:  m.refreshesTotal.Load(),
		RefreshesStale:  m.refreshesStale.Load(),
		BalanceFailures: m.balanceFailures.Load(),
		AccessGrants:    m.accessGrants.Load(),
		AccessRevokes:   m.accessRevokes.Load(),
		MessagesSent:    m.messagesSent.Load(),
		MessagesFailed:  m.messagesFailed.Load(),
	}
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.rpcLatencyNanos.Load()) / float64(calls) / 1e6
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.connectsTotal.Store(0)
	m.connectsFailed.Store(0)
	m.disconnects.Store(0)
	m.refreshesTotal.Store(0)
	m.refreshesStale.Store(0)
	m.balanceFailures.Store(0)
	m.accessGrants.Store(0)
	m.accessRevokes.Store(0)
	m.messagesSent.Store(0)
	m.messagesFailed.Store(0)
}
