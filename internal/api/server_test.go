package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/ledger"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/storage/memory"
)

const (
	gov    = "0x00000000000000000000000000000000000000a1"
	minter = "0x00000000000000000000000000000000000000b2"
	rando  = "0x00000000000000000000000000000000000000c3"
)

type testServer struct {
	t   *testing.T
	srv *Server
	l   *ledger.Ledger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	l, err := ledger.New("TESR Token", "TESR", 18, gov, ledger.WithJournal(memory.NewMemoryJournalStore()))
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	srv, err := NewServer(l, zap.NewNop(), reg, reg)
	require.NoError(t, err)
	return &testServer{t: t, srv: srv, l: l}
}

func (ts *testServer) do(method, path, caller string, body any, headers ...string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set(HeaderCaller, caller)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestTokenInfo(t *testing.T) {
	require := require.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/token", "", nil)
	require.Equal(http.StatusOK, rec.Code)
	info := decode[TokenInfo](t, rec)
	require.Equal("TESR Token", info.Name)
	require.Equal(uint8(18), info.Decimals)
	require.Equal("450000000", info.TotalSupply)
	require.Equal("450000000000000000000000000", info.RawTotalSupply)
	require.Equal(gov, info.Admin)
	require.Equal(string(models.ZeroAddress), info.Minter)
}

func TestTransferAndSnapshotFlow(t *testing.T) {
	require := require.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/transfers", gov, TransferRequest{To: rando, Amount: "1.5"})
	require.Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/accounts/"+rando+"/balance?snapshot=0", "", nil)
	require.Equal(http.StatusNotFound, rec.Code)
	require.Equal("invalid_snapshot_id", decode[errorResponse](t, rec).Code)

	rec = ts.do(http.MethodPost, "/snapshots", rando, nil)
	require.Equal(http.StatusCreated, rec.Code)
	require.Zero(decode[OperationResponse](t, rec).Snapshot)

	rec = ts.do(http.MethodPost, "/transfers", rando, TransferRequest{To: gov, Amount: "0.5"})
	require.Equal(http.StatusCreated, rec.Code)

	rec = ts.do(http.MethodGet, "/accounts/"+rando+"/balance?snapshot=0", "", nil)
	require.Equal(http.StatusOK, rec.Code)
	bal := decode[BalanceResponse](t, rec)
	require.Equal("1.5", bal.Balance)
	require.NotNil(bal.Snapshot)

	rec = ts.do(http.MethodGet, "/accounts/"+rando+"/balance", "", nil)
	require.Equal("1", decode[BalanceResponse](t, rec).Balance)

	rec = ts.do(http.MethodGet, "/supply?snapshot=0", "", nil)
	require.Equal("450000000", decode[SupplyResponse](t, rec).TotalSupply)

	rec = ts.do(http.MethodGet, "/accounts/"+rando+"/checkpoints", "", nil)
	cps := decode[[]CheckpointResponse](t, rec)
	require.Len(cps, 2)
	require.Equal(uint64(1), cps[1].Epoch)
	require.Equal("1", cps[1].Value)

	rec = ts.do(http.MethodGet, "/supply?snapshot=abc", "", nil)
	require.Equal(http.StatusBadRequest, rec.Code)
}

func TestMutationErrors(t *testing.T) {
	require := require.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/transfers", "", TransferRequest{To: rando, Amount: "1"})
	require.Equal(http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/transfers", gov, TransferRequest{To: string(models.ZeroAddress), Amount: "1"})
	require.Equal(http.StatusBadRequest, rec.Code)
	require.Equal("invalid_recipient", decode[errorResponse](t, rec).Code)

	rec = ts.do(http.MethodPost, "/transfers", rando, TransferRequest{To: gov, Amount: "1"})
	require.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(http.MethodPost, "/transfers", gov, TransferRequest{To: rando, Amount: "-1"})
	require.Equal(http.StatusBadRequest, rec.Code)
	require.Equal("invalid_amount", decode[errorResponse](t, rec).Code)

	rec = ts.do(http.MethodPost, "/transfers", gov, TransferRequest{To: rando, Amount: "lots"})
	require.Equal(http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/burn", strings.NewReader("{"))
	req.Header.Set(HeaderCaller, gov)
	raw := httptest.NewRecorder()
	ts.srv.ServeHTTP(raw, req)
	require.Equal(http.StatusBadRequest, raw.Code)

	rec = ts.do(http.MethodPut, "/metadata", rando, MetadataRequest{Name: "X", Symbol: "X"})
	require.Equal(http.StatusForbidden, rec.Code)
	require.Contains(decode[errorResponse](t, rec).Error, "only admin is allowed to change name")
}

func TestRolesOverHTTP(t *testing.T) {
	require := require.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/mint", minter, MintRequest{To: rando, Amount: "20"})
	require.Equal(http.StatusForbidden, rec.Code)
	require.Equal("minter_not_set", decode[errorResponse](t, rec).Code)

	rec = ts.do(http.MethodPut, "/minter", rando, AddressRequest{Address: minter})
	require.Equal(http.StatusForbidden, rec.Code)
	rec = ts.do(http.MethodPut, "/minter", gov, AddressRequest{Address: minter})
	require.Equal(http.StatusCreated, rec.Code)
	rec = ts.do(http.MethodPut, "/minter", gov, AddressRequest{Address: rando})
	require.Equal(http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/mint", minter, MintRequest{To: rando, Amount: "20"})
	require.Equal(http.StatusCreated, rec.Code)
	require.Equal("20000000000000000000", ts.l.BalanceOf(rando).Dec())

	rec = ts.do(http.MethodPut, "/rewards-contract", gov, AddressRequest{Address: rando})
	require.Equal(http.StatusCreated, rec.Code)
	rec = ts.do(http.MethodPut, "/admin", gov, AddressRequest{Address: rando})
	require.Equal(http.StatusCreated, rec.Code)

	info := decode[TokenInfo](t, ts.do(http.MethodGet, "/token", "", nil))
	require.Equal(rando, info.Admin)
	require.Equal(minter, info.Minter)
	require.Equal(rando, info.RewardsContract)
}

func TestApprovalsOverHTTP(t *testing.T) {
	require := require.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/approvals", gov, ApprovalRequest{Spender: rando, Amount: "3"})
	require.Equal(http.StatusCreated, rec.Code)
	rec = ts.do(http.MethodPost, "/approvals", gov, ApprovalRequest{Spender: rando, Amount: "3"})
	require.Equal(http.StatusConflict, rec.Code)
	require.Equal("allowance_not_reset", decode[errorResponse](t, rec).Code)

	rec = ts.do(http.MethodPost, "/transfers/delegated", rando, DelegatedTransferRequest{Owner: gov, To: minter, Amount: "2"})
	require.Equal(http.StatusCreated, rec.Code)

	al := decode[AllowanceResponse](t, ts.do(http.MethodGet, "/accounts/"+gov+"/allowances/"+rando, "", nil))
	require.Equal("1", al.Allowance)
}

func TestIdempotencyKeyOverHTTP(t *testing.T) {
	require := require.New(t)
	ts := newTestServer(t)

	body := TransferRequest{To: rando, Amount: "1"}
	rec := ts.do(http.MethodPost, "/transfers", gov, body, HeaderIdempotencyKey, "abc")
	require.Equal(http.StatusCreated, rec.Code)
	rec = ts.do(http.MethodPost, "/transfers", gov, body, HeaderIdempotencyKey, "abc")
	require.Equal(http.StatusOK, rec.Code)
	require.True(decode[OperationResponse](t, rec).Replayed)

	rec = ts.do(http.MethodPut, "/admin", rando, AddressRequest{Address: rando}, HeaderIdempotencyKey, "abc")
	require.Equal(http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/transfers", gov, TransferRequest{To: rando, Amount: "2"}, HeaderIdempotencyKey, "abc")
	require.Equal(http.StatusConflict, rec.Code)
	require.Equal("idempotency_key_reused", decode[errorResponse](t, rec).Code)

	require.Equal("1000000000000000000", ts.l.BalanceOf(rando).Dec())
}

func TestAmountExponentRejected(t *testing.T) {
	require := require.New(t)
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/transfers", gov, TransferRequest{To: rando, Amount: "1e5000000"})
	require.Equal(http.StatusBadRequest, rec.Code)
	require.Equal("invalid_amount", decode[errorResponse](t, rec).Code)

	rec = ts.do(http.MethodPost, "/transfers", gov, TransferRequest{To: rando, Amount: strings.Repeat("1", 100<<10)})
	require.Equal(http.StatusBadRequest, rec.Code)
	require.Equal("bad_request", decode[errorResponse](t, rec).Code)
}

func TestMetrics(t *testing.T) {
	require := require.New(t)
	ts := newTestServer(t)

	ts.do(http.MethodPost, "/snapshots", gov, nil)
	ts.do(http.MethodPost, "/snapshots", gov, nil)
	ts.do(http.MethodPost, "/burn", rando, BurnRequest{Amount: "1"})

	require.Equal(2.0, testutil.ToFloat64(ts.srv.metrics.operations.WithLabelValues("snapshot", "ok")))
	require.Equal(1.0, testutil.ToFloat64(ts.srv.metrics.operations.WithLabelValues("burn", "insufficient_balance")))
	require.Equal(2.0, testutil.ToFloat64(ts.srv.metrics.currentEpoch))

	rec := ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(http.StatusOK, rec.Code)
	require.Contains(rec.Body.String(), "ledger_operations_total")
}
