package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const markdownWrapWidth = 80

func newChatCmd(app *app) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "chat [message...]",
		Short: "Ask the fitness advisor a question",
		Long:  "Send a message to the active backend and print the reply. Without arguments every non-empty stdin line is sent as its own message, all served by the same backend instance.",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				err = errors.Join(err, app.shutdownBackends(cmd.Context()))
			}()

			if len(args) > 0 {
				return chatOnce(cmd, app, strings.Join(args, " "), markdown)
			}
			return chatSession(cmd, app, markdown)
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render replies as markdown")
	return cmd
}

func chatSession(cmd *cobra.Command, app *app, markdown bool) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	var sent, failed int
	for scanner.Scan() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		sent++
		if err := chatOnce(cmd, app, message, markdown); err != nil {
			failed++
			if _, werr := fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err); werr != nil {
				return werr
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read messages: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages failed", failed, sent)
	}
	return nil
}

func chatOnce(cmd *cobra.Command, app *app, message string, markdown bool) error {
	var result domain.GenerationResult
	err := withSpinner(cmd, "Thinking...", func(ctx context.Context) error {
		var err error
		result, err = app.advisor.ChatReply(ctx, message)
		return err
	})
	if err != nil {
		return err
	}

	app.recordExchange(cmd.Context(), domain.Exchange{
		Backend: result.Backend,
		Action:  domain.ExchangeChat,
		Input:   message,
		Reply:   result.Text,
	})

	return writeReply(cmd, result.Text, markdown)
}

func writeReply(cmd *cobra.Command, text string, markdown bool) error {
	if markdown {
		rendered, err := renderMarkdown(text, isTerminal(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
		return err
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func renderMarkdown(text string, styled bool) (string, error) {
	style := glamour.WithStylePath("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWrapWidth))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return rendered, nil
}
