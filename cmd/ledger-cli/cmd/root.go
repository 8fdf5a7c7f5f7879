package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/client"
)

const requestTimeout = 30 * time.Second

var (
	serverURL      string
	caller         string
	idempotencyKey string
	snapshot       int64

	rootCmd = &cobra.Command{
		Use:          "ledger-cli",
		Short:        "Snapshot token ledger CLI",
		SilenceUsage: true,
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", envOr("LEDGER_URL", "http://localhost:8080"), "ledger server base URL")
	rootCmd.PersistentFlags().StringVar(&caller, "caller", os.Getenv("LEDGER_CALLER"), "identity to act as")
	rootCmd.PersistentFlags().StringVar(&idempotencyKey, "idempotency-key", "", "reuse this key to retry a mutation safely")

	rootCmd.AddCommand(
		infoCmd,
		balanceCmd,
		supplyCmd,
		allowanceCmd,
		checkpointsCmd,

		transferCmd,
		transferFromCmd,
		approveCmd,
		mintCmd,
		burnCmd,
		snapshotCmd,

		setAdminCmd,
		setMinterCmd,
		setRewardsContractCmd,
		setNameCmd,
	)
}

func Execute() error {
	return rootCmd.Execute()
}

func newClient() *client.Client {
	return client.New(serverURL, caller)
}

func requestContext() (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if idempotencyKey != "" {
		ctx = client.WithIdempotencyKey(ctx, idempotencyKey)
	}
	return context.WithTimeout(ctx, requestTimeout)
}

// snapshotFlag returns nil unless --snapshot was given.
func snapshotFlag(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("snapshot") || snapshot < 0 {
		return nil
	}
	id := uint64(snapshot)
	return &id
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
