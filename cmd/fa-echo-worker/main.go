// Command fa-echo-worker is a stand-in local model worker. It prints the
// readiness sentinel and answers each request line with the prompt it got.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/fitness-advisor-cli/internal/worker/echo"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newWorkerCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newWorkerCmd() *cobra.Command {
	var opts echo.Options

	cmd := &cobra.Command{
		Use:           "fa-echo-worker",
		Short:         "Echo worker speaking the fa local backend protocol",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return echo.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sentinel, "sentinel", "MODEL_READY", "Readiness line printed once requests are accepted")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Text prepended to every reply")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "Artificial latency per reply")
	cmd.Flags().BoolVar(&opts.Concurrent, "concurrent", false, "Answer requests concurrently, possibly out of order")
	cmd.Flags().StringVar(&opts.CrashOn, "crash-on", "", "Exit with an error when this prompt arrives")

	return cmd
}
