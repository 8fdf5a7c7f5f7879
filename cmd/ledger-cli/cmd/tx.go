package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/api"
)

// submitCmd builds a command that sends one mutation as --caller.
func submitCmd(use, short string, nargs int, send func(ctx context.Context, args []string) (api.OperationResponse, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext()
			defer cancel()
			resp, err := send(ctx, args)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

var transferCmd = submitCmd("transfer [to] [amount]", "Transfer tokens to an account", 2,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().Transfer(ctx, args[0], args[1])
	})

var transferFromCmd = submitCmd("transfer-from [owner] [to] [amount]", "Spend an allowance granted by owner", 3,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().TransferFrom(ctx, args[0], args[1], args[2])
	})

var approveCmd = submitCmd("approve [spender] [amount]", "Allow spender to move tokens on your behalf", 2,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().Approve(ctx, args[0], args[1])
	})

var mintCmd = submitCmd("mint [to] [amount]", "Mint new tokens (minter only)", 2,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().Mint(ctx, args[0], args[1])
	})

var burnCmd = submitCmd("burn [amount]", "Burn tokens from your balance", 1,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().Burn(ctx, args[0])
	})

var snapshotCmd = submitCmd("snapshot", "Close the current snapshot", 0,
	func(ctx context.Context, _ []string) (api.OperationResponse, error) {
		return newClient().Snapshot(ctx)
	})

var setAdminCmd = submitCmd("set-admin [address]", "Hand the admin role to address", 1,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().SetAdmin(ctx, args[0])
	})

var setMinterCmd = submitCmd("set-minter [address]", "Assign the minter; works once", 1,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().SetMinter(ctx, args[0])
	})

var setRewardsContractCmd = submitCmd("set-rewards-contract [address]", "Point at the rewards contract", 1,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().SetRewardsContract(ctx, args[0])
	})

var setNameCmd = submitCmd("set-name [name] [symbol]", "Rename the token", 2,
	func(ctx context.Context, args []string) (api.OperationResponse, error) {
		return newClient().SetName(ctx, args[0], args[1])
	})
