package cmd

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/api"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/ledger"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/storage/memory"
)

const (
	gov   = "0x00000000000000000000000000000000000000a1"
	rando = "0x00000000000000000000000000000000000000c3"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.Bytes()
}

func TestCLI(t *testing.T) {
	require := require.New(t)
	l, err := ledger.New("TESR Token", "TESR", 18, gov, ledger.WithJournal(memory.NewMemoryJournalStore()))
	require.NoError(err)
	reg := prometheus.NewRegistry()
	srv, err := api.NewServer(l, zap.NewNop(), reg, reg)
	require.NoError(err)
	hs := httptest.NewServer(srv)
	defer hs.Close()

	run(t, "--url", hs.URL, "--caller", gov, "transfer", rando, "2.5")
	run(t, "--url", hs.URL, "--caller", gov, "snapshot")
	run(t, "--url", hs.URL, "--caller", rando, "burn", "1")

	var bal api.BalanceResponse
	require.NoError(json.Unmarshal(run(t, "--url", hs.URL, "balance", rando, "--snapshot", "0"), &bal))
	require.Equal("2.5", bal.Balance)

	var supply api.SupplyResponse
	require.NoError(json.Unmarshal(run(t, "--url", hs.URL, "supply"), &supply))
	require.Equal("449999999", supply.TotalSupply)

	t.Cleanup(func() { idempotencyKey = "" })
	var op api.OperationResponse
	require.NoError(json.Unmarshal(run(t, "--url", hs.URL, "--caller", gov, "--idempotency-key", "cli-1", "transfer", rando, "1"), &op))
	require.False(op.Replayed)
	require.NoError(json.Unmarshal(run(t, "--url", hs.URL, "--caller", gov, "--idempotency-key", "cli-1", "transfer", rando, "1"), &op))
	require.True(op.Replayed)
	idempotencyKey = ""

	var current api.BalanceResponse
	require.NoError(json.Unmarshal(run(t, "--url", hs.URL, "balance", rando, "--snapshot", "-1"), &current))
	require.Nil(current.Snapshot)
	require.Equal("2.5", current.Balance)
}
