package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/amount"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/ledger"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	supply := s.ledger.TotalSupply()
	writeJSON(w, http.StatusOK, TokenInfo{
		Name:            s.ledger.Name(),
		Symbol:          s.ledger.Symbol(),
		Decimals:        s.ledger.Decimals(),
		TotalSupply:     s.format(supply),
		RawTotalSupply:  supply.Dec(),
		Admin:           s.ledger.Admin().String(),
		Minter:          s.ledger.Minter().String(),
		RewardsContract: s.ledger.RewardsContract().String(),
		CurrentEpoch:    s.ledger.CurrentEpoch(),
	})
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	snapshot, err := snapshotParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	supply := s.ledger.TotalSupply()
	if snapshot != nil {
		if supply, err = s.ledger.TotalSupplyAt(*snapshot); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, SupplyResponse{
		TotalSupply:    s.format(supply),
		RawTotalSupply: supply.Dec(),
		Snapshot:       snapshot,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	account := pathAddress(r, "address")
	snapshot, err := snapshotParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	balance := s.ledger.BalanceOf(account)
	if snapshot != nil {
		if balance, err = s.ledger.BalanceOfAt(account, *snapshot); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, BalanceResponse{
		Account:    account.String(),
		Balance:    s.format(balance),
		RawBalance: balance.Dec(),
		Snapshot:   snapshot,
	})
}

func (s *Server) handleCheckpoints(w http.ResponseWriter, r *http.Request) {
	cps := s.ledger.Checkpoints(pathAddress(r, "address"))
	out := make([]CheckpointResponse, len(cps))
	for i, cp := range cps {
		out[i] = CheckpointResponse{Epoch: cp.Epoch, Value: s.format(cp.Value), RawValue: cp.Value.Dec()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	owner, spender := pathAddress(r, "owner"), pathAddress(r, "spender")
	v := s.ledger.Allowance(owner, spender)
	writeJSON(w, http.StatusOK, AllowanceResponse{
		Owner:        owner.String(),
		Spender:      spender.String(),
		Allowance:    s.format(v),
		RawAllowance: v.Dec(),
	})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	s.submit(w, r, &req, func(op *models.Operation) error {
		op.Kind = models.OpTransfer
		op.To = models.Address(req.To).Normalize()
		return s.parseAmount(op, req.Amount)
	})
}

func (s *Server) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	var req DelegatedTransferRequest
	s.submit(w, r, &req, func(op *models.Operation) error {
		op.Kind = models.OpTransferFrom
		op.From = models.Address(req.Owner).Normalize()
		op.To = models.Address(req.To).Normalize()
		return s.parseAmount(op, req.Amount)
	})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req ApprovalRequest
	s.submit(w, r, &req, func(op *models.Operation) error {
		op.Kind = models.OpApprove
		op.Spender = models.Address(req.Spender).Normalize()
		return s.parseAmount(op, req.Amount)
	})
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	s.submit(w, r, &req, func(op *models.Operation) error {
		op.Kind = models.OpMint
		op.To = models.Address(req.To).Normalize()
		return s.parseAmount(op, req.Amount)
	})
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	var req BurnRequest
	s.submit(w, r, &req, func(op *models.Operation) error {
		op.Kind = models.OpBurn
		return s.parseAmount(op, req.Amount)
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, nil, func(op *models.Operation) error {
		op.Kind = models.OpSnapshot
		return nil
	})
}

func (s *Server) handleSetAdmin(w http.ResponseWriter, r *http.Request) {
	s.submitAddress(w, r, models.OpSetAdmin)
}

func (s *Server) handleSetMinter(w http.ResponseWriter, r *http.Request) {
	s.submitAddress(w, r, models.OpSetMinter)
}

func (s *Server) handleSetRewardsContract(w http.ResponseWriter, r *http.Request) {
	s.submitAddress(w, r, models.OpSetRewardsContract)
}

func (s *Server) handleSetMetadata(w http.ResponseWriter, r *http.Request) {
	var req MetadataRequest
	s.submit(w, r, &req, func(op *models.Operation) error {
		op.Kind = models.OpSetName
		op.Name, op.Symbol = req.Name, req.Symbol
		return nil
	})
}

func (s *Server) submitAddress(w http.ResponseWriter, r *http.Request, kind models.OperationKind) {
	var req AddressRequest
	s.submit(w, r, &req, func(op *models.Operation) error {
		op.Kind = kind
		op.To = models.Address(req.Address).Normalize()
		return nil
	})
}

// submit decodes body into req (when non-nil), lets build fill in the
// operation and hands it to the ledger.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, req any, build func(*models.Operation) error) {
	caller := models.Address(r.Header.Get(HeaderCaller))
	if caller.IsZero() {
		writeError(w, errMissingCaller)
		return
	}
	if req != nil {
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(req); err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	op := models.Operation{
		Caller:         caller.Normalize(),
		IdempotencyKey: r.Header.Get(HeaderIdempotencyKey),
	}
	if err := build(&op); err != nil {
		s.metrics.operations.WithLabelValues(string(op.Kind), "invalid").Inc()
		writeError(w, err)
		return
	}

	receipt, err := s.ledger.Submit(r.Context(), op)
	if err != nil {
		_, code := errorCode(err)
		s.metrics.operations.WithLabelValues(string(op.Kind), code).Inc()
		if code == "internal" {
			s.log.Error("operation failed", zap.String("kind", string(op.Kind)), zap.Error(err))
		}
		writeError(w, err)
		return
	}
	s.metrics.operations.WithLabelValues(string(op.Kind), "ok").Inc()
	s.metrics.currentEpoch.Set(float64(s.ledger.CurrentEpoch()))

	status := http.StatusCreated
	if receipt.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, OperationResponse{
		OperationID: receipt.OperationID,
		Snapshot:    receipt.Snapshot,
		Replayed:    receipt.Replayed,
	})
}

func (s *Server) parseAmount(op *models.Operation, v string) error {
	a, err := amount.Parse(v, s.ledger.Decimals())
	if err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrInvalidAmount, err)
	}
	op.Amount = a
	return nil
}

func (s *Server) format(v *uint256.Int) string {
	return amount.Format(v, s.ledger.Decimals()).String()
}

func pathAddress(r *http.Request, name string) models.Address {
	return models.Address(mux.Vars(r)[name]).Normalize()
}

// snapshotParam returns nil when the request asks for current state.
func snapshotParam(r *http.Request) (*uint64, error) {
	raw := r.URL.Query().Get("snapshot")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot must be a non-negative integer", errBadRequest)
	}
	return &id, nil
}
