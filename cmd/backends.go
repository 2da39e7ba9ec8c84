package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/spf13/cobra"
)

type modelPinger interface {
	Ping(ctx context.Context) (bool, error)
}

func newBackendsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backends",
		Short: "Inspect generation backends",
	}

	cmd.AddCommand(
		newBackendsStatusCmd(app),
		newBackendsWarmupCmd(app),
	)

	return cmd
}

func newBackendsStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show registered backends and the active one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeBackendStatuses(cmd, app, app.registry.Statuses(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newBackendsWarmupCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "warmup",
		Short: "Start the active backend and wait until it is ready",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			defer func() {
				err = errors.Join(err, app.shutdownBackends(cmd.Context()))
			}()

			kind := app.registry.ActiveKind()
			err = withSpinner(cmd, fmt.Sprintf("Starting %s backend...", kind), app.registry.Warmup)
			if err != nil {
				return err
			}

			if err := checkModelPulled(cmd, app); err != nil {
				return err
			}

			return writeBackendStatuses(cmd, app, app.registry.Statuses(), false)
		},
	}
}

func checkModelPulled(cmd *cobra.Command, app *app) error {
	backend, err := app.registry.Active(cmd.Context())
	if err != nil {
		return err
	}

	pinger, ok := backend.(modelPinger)
	if !ok {
		return nil
	}

	available, err := pinger.Ping(cmd.Context())
	if err != nil {
		return fmt.Errorf("check %s model: %w", backend.Kind(), err)
	}
	if !available {
		_, err = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s model is not pulled yet\n", backend.Kind())
	}
	return err
}

func writeBackendStatuses(cmd *cobra.Command, app *app, statuses []domain.BackendStatus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	rendered, err := app.statusRenderer(statuses, app.renderOptions())
	if err != nil {
		return fmt.Errorf("render backend status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
