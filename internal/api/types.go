package api

// Amounts are decimal strings in whole tokens ("12.5"); Raw* fields carry the
// same value in base units.

type TokenInfo struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Decimals        uint8  `json:"decimals"`
	TotalSupply     string `json:"total_supply"`
	RawTotalSupply  string `json:"raw_total_supply"`
	Admin           string `json:"admin"`
	Minter          string `json:"minter"`
	RewardsContract string `json:"rewards_contract"`
	CurrentEpoch    uint64 `json:"current_epoch"`
}

type BalanceResponse struct {
	Account    string  `json:"account"`
	Balance    string  `json:"balance"`
	RawBalance string  `json:"raw_balance"`
	Snapshot   *uint64 `json:"snapshot,omitempty"`
}

type SupplyResponse struct {
	TotalSupply    string  `json:"total_supply"`
	RawTotalSupply string  `json:"raw_total_supply"`
	Snapshot       *uint64 `json:"snapshot,omitempty"`
}

type AllowanceResponse struct {
	Owner        string `json:"owner"`
	Spender      string `json:"spender"`
	Allowance    string `json:"allowance"`
	RawAllowance string `json:"raw_allowance"`
}

type CheckpointResponse struct {
	Epoch    uint64 `json:"epoch"`
	Value    string `json:"value"`
	RawValue string `json:"raw_value"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type DelegatedTransferRequest struct {
	Owner  string `json:"owner"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type ApprovalRequest struct {
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type MintRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type BurnRequest struct {
	Amount string `json:"amount"`
}

type AddressRequest struct {
	Address string `json:"address"`
}

type MetadataRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type OperationResponse struct {
	OperationID string `json:"operation_id,omitempty"`
	Snapshot    uint64 `json:"snapshot"`
	Replayed    bool   `json:"replayed"`
}
