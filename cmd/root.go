package cmd

import (
	"fmt"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fa",
		Short:         "Fitness Advisor CLI (fa): chat and recommendations from pluggable model backends",
		Long:          "fa (Fitness Advisor CLI) answers fitness questions and turns your food, exercise and health records into recommendations, using a remote API, a local Ollama server or a local model worker process as the text-generation backend.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.AddCommand(newVersionCmd())

	app, err := wireApp()
	if err != nil {
		rootCmd.Args = cobra.ArbitraryArgs
		rootCmd.FParseErrWhitelist.UnknownFlags = true
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	var backend string
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Generation backend for this run (dashscope, openai, gemini, ollama, local)")
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if backend == "" {
			return nil
		}
		kind, err := domain.ParseBackendKind(backend)
		if err != nil {
			return fmt.Errorf("parse --backend: %w", err)
		}
		return app.registry.SetActive(kind)
	}

	rootCmd.AddCommand(
		newChatCmd(app),
		newRecommendCmd(app),
		newBackendsCmd(app),
		newRecordsCmd(app),
		newHistoryCmd(app),
		newSecretsCmd(app),
	)

	return rootCmd
}
