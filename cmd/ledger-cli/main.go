// "ledger-cli" talks to a running ledger server.
package main

import (
	"fmt"
	"os"

	"github.com/sheikh-saqib/snapshot-token-ledger/cmd/ledger-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
