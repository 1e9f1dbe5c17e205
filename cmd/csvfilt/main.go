// Command csvfilt filters rows of typed CSV and parquet files with a small
// boolean query language.
//
//	csvfilt 'price > 100 && !(stock = BP.L)' trades.csv
//
// Logging:
//   - The base logger is built here from --log-level and --log-format
//   - It is passed to components via dependency injection
//   - Every invocation is tagged with a random run id
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
