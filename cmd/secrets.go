package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSecretsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Store backend API keys in pass or the secrets directory",
	}

	cmd.AddCommand(newSecretsSetCmd(app), newSecretsDeleteCmd(app))

	return cmd
}

func newSecretsSetCmd(app *app) *cobra.Command {
	var ref string
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a secret",
		Long:  "Store a secret under --ref. pass:// and file:// refs pick the store, bare refs go to pass with the secrets directory as fallback. Point backends.<name>.api_key_ref at the same ref.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Put(cmd.Context(), ref, value); err != nil {
				return fmt.Errorf("store secret %q: %w", ref, err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stored secret %s\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Secret reference, e.g. fitadvisor/dashscope or file://dashscope")
	cmd.Flags().StringVar(&value, "value", "", "Secret value")
	_ = cmd.MarkFlagRequired("ref")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newSecretsDeleteCmd(app *app) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Delete(cmd.Context(), ref); err != nil {
				return fmt.Errorf("delete secret %q: %w", ref, err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted secret %s\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Secret reference")
	_ = cmd.MarkFlagRequired("ref")

	return cmd
}
