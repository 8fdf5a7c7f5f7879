package cmd

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show token metadata, roles and the current epoch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		info, err := newClient().Token(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show the balance of an account, optionally at a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		bal, err := newClient().Balance(ctx, args[0], snapshotFlag(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, bal)
	},
}

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Show the total supply, optionally at a snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		supply, err := newClient().Supply(ctx, snapshotFlag(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, supply)
	},
}

var allowanceCmd = &cobra.Command{
	Use:   "allowance [owner] [spender]",
	Short: "Show how much spender may move from owner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		al, err := newClient().Allowance(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd, al)
	},
}

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints [address]",
	Short: "List the balance checkpoints of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		cps, err := newClient().Checkpoints(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, cps)
	},
}

func init() {
	for _, c := range []*cobra.Command{balanceCmd, supplyCmd} {
		c.Flags().Int64Var(&snapshot, "snapshot", -1, "snapshot id to read at")
	}
}
