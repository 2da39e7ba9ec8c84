package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/fitness-advisor-cli/internal/adapters/bundlefile"
	statusadapter "github.com/bnema/fitness-advisor-cli/internal/adapters/render/status"
	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/spf13/cobra"
)

const recordsSource = "records"

type recommendOutput struct {
	Backend         domain.BackendKind        `json:"backend"`
	Category        domain.Category           `json:"category"`
	Text            string                    `json:"text,omitempty"`
	Recommendations *domain.RecommendationSet `json:"recommendations,omitempty"`
}

type recommendOptions struct {
	category   string
	bundlePath string
	structured bool
	asJSON     bool
}

func newRecommendCmd(app *app) *cobra.Command {
	var opts recommendOptions

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate recommendations from your records",
		Long:  "Build a recommendation prompt from the newest stored records (or a --bundle file with healthData, exerciseData and foodData arrays) and send it to the active backend.",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			defer func() {
				err = errors.Join(err, app.shutdownBackends(cmd.Context()))
			}()
			return runRecommend(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", string(domain.CategoryGeneral), "Recommendation category (diet, exercise, sleep, general)")
	cmd.Flags().StringVar(&opts.bundlePath, "bundle", "", "Read records from a JSON or YAML bundle file instead of the record store")
	cmd.Flags().BoolVar(&opts.structured, "structured", false, "Ask for five exercise, diet and health recommendations each")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Output as JSON")
	return cmd
}

func runRecommend(cmd *cobra.Command, app *app, opts recommendOptions) error {
	category, err := domain.ParseCategory(opts.category)
	if err != nil {
		return err
	}

	var bundle *domain.DataBundle
	source := recordsSource
	if opts.bundlePath != "" {
		loaded, err := bundlefile.Load(opts.bundlePath)
		if err != nil {
			return err
		}
		bundle = &loaded
		source = opts.bundlePath
	}

	output := recommendOutput{Category: category}
	err = withSpinner(cmd, "Preparing recommendations...", func(ctx context.Context) error {
		var (
			result domain.GenerationResult
			set    domain.RecommendationSet
			err    error
		)
		switch {
		case opts.structured && bundle != nil:
			set, result, err = app.advisor.StructuredRecommendations(ctx, *bundle, category)
		case opts.structured:
			set, result, err = app.advisor.StructuredRecommendationsFromRecords(ctx, category)
		case bundle != nil:
			result, err = app.advisor.Recommendations(ctx, *bundle, category)
		default:
			result, err = app.advisor.RecommendationsFromRecords(ctx, category)
		}
		if err != nil {
			return err
		}

		output.Backend = result.Backend
		output.Text = result.Text
		if opts.structured {
			output.Recommendations = &set
		}
		return nil
	})
	if err != nil {
		return err
	}

	app.recordExchange(cmd.Context(), domain.Exchange{
		Backend:  output.Backend,
		Action:   domain.ExchangeRecommendation,
		Category: category,
		Input:    source,
		Reply:    output.Text,
	})

	return writeRecommendOutput(cmd, output, opts.asJSON)
}

func writeRecommendOutput(cmd *cobra.Command, output recommendOutput, asJSON bool) error {
	if asJSON {
		if output.Recommendations != nil {
			output.Text = ""
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	if output.Recommendations != nil {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), statusadapter.RenderRecommendations(*output.Recommendations))
		return err
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), output.Text)
	return err
}
