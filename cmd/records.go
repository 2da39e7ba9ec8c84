package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/spf13/cobra"
)

const recordDateLayout = time.DateOnly

func newRecordsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage stored food, exercise and health records",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Store a new record",
	}
	addCmd.AddCommand(
		newRecordsAddFoodCmd(app),
		newRecordsAddExerciseCmd(app),
		newRecordsAddHealthCmd(app),
	)

	cmd.AddCommand(addCmd, newRecordsListCmd(app))
	return cmd
}

func newRecordsAddFoodCmd(app *app) *cobra.Command {
	var (
		date   string
		record domain.FoodRecord
	)

	cmd := &cobra.Command{
		Use:   "food",
		Short: "Store a food record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseRecordDate(date, app.now())
			if err != nil {
				return err
			}
			record.Date = parsed
			return appendRecords(cmd, app, domain.DataBundle{FoodRecords: []domain.FoodRecord{record}}, domain.RecordKindFood)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Record date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&record.Name, "name", "", "Food name")
	cmd.Flags().Float64Var(&record.Calories, "calories", 0, "Calories")
	cmd.Flags().Float64Var(&record.Protein, "protein", 0, "Protein in grams")
	cmd.Flags().Float64Var(&record.Carbs, "carbs", 0, "Carbohydrates in grams")
	cmd.Flags().Float64Var(&record.Fat, "fat", 0, "Fat in grams")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newRecordsAddExerciseCmd(app *app) *cobra.Command {
	var (
		date   string
		record domain.ExerciseRecord
	)

	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Store an exercise record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseRecordDate(date, app.now())
			if err != nil {
				return err
			}
			record.Date = parsed
			return appendRecords(cmd, app, domain.DataBundle{ExerciseRecords: []domain.ExerciseRecord{record}}, domain.RecordKindExercise)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Record date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&record.Type, "type", "", "Exercise type")
	cmd.Flags().Float64Var(&record.Duration, "duration", 0, "Duration in minutes")
	cmd.Flags().Float64Var(&record.CaloriesBurned, "calories-burned", 0, "Calories burned")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func newRecordsAddHealthCmd(app *app) *cobra.Command {
	var (
		date   string
		record domain.HealthRecord
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Store a health record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseRecordDate(date, app.now())
			if err != nil {
				return err
			}
			record.Date = parsed
			return appendRecords(cmd, app, domain.DataBundle{HealthRecords: []domain.HealthRecord{record}}, domain.RecordKindHealth)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Record date as YYYY-MM-DD (default today)")
	cmd.Flags().Float64Var(&record.Weight, "weight", 0, "Weight in kg")
	cmd.Flags().Float64Var(&record.Height, "height", 0, "Height in cm")
	cmd.Flags().StringVar(&record.BloodPressure, "blood-pressure", "", "Blood pressure, e.g. 120/80")
	cmd.Flags().Float64Var(&record.HeartRate, "heart-rate", 0, "Resting heart rate in bpm")
	cmd.Flags().Float64Var(&record.SleepHours, "sleep-hours", 0, "Hours slept")
	return cmd
}

func newRecordsListCmd(app *app) *cobra.Command {
	var (
		category string
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the newest records, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative, got %d", limit)
			}

			bundle, err := app.records.Recent(cmd.Context(), parsed.Fields(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(bundle)
			}
			return writeBundle(cmd.OutOrStdout(), bundle)
		},
	}

	cmd.Flags().StringVar(&category, "category", string(domain.CategoryGeneral), "Only list records used by this category (diet, exercise, sleep, general)")
	cmd.Flags().IntVar(&limit, "limit", domain.MaxRecordsPerCategory, "Records per kind, 0 for all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func parseRecordDate(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}

	parsed, err := time.Parse(recordDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --date %q: expected YYYY-MM-DD", raw)
	}
	return parsed, nil
}

func appendRecords(cmd *cobra.Command, app *app, bundle domain.DataBundle, kind domain.RecordKind) error {
	if err := app.records.Append(cmd.Context(), bundle); err != nil {
		return fmt.Errorf("store %s record: %w", kind, err)
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "stored %s record in %s\n", kind, app.records.Path())
	return err
}

func writeBundle(out io.Writer, bundle domain.DataBundle) error {
	if bundle.IsEmpty() {
		_, err := fmt.Fprintln(out, "No records stored yet.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if len(bundle.FoodRecords) > 0 {
		fmt.Fprintln(w, "FOOD\tDATE\tCALORIES\tPROTEIN\tCARBS\tFAT")
		for _, r := range bundle.FoodRecords {
			fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\n", r.Name, r.Date.Format(recordDateLayout), r.Calories, r.Protein, r.Carbs, r.Fat)
		}
		fmt.Fprintln(w)
	}
	if len(bundle.ExerciseRecords) > 0 {
		fmt.Fprintln(w, "EXERCISE\tDATE\tMINUTES\tCALORIES BURNED")
		for _, r := range bundle.ExerciseRecords {
			fmt.Fprintf(w, "%s\t%s\t%g\t%g\n", r.Type, r.Date.Format(recordDateLayout), r.Duration, r.CaloriesBurned)
		}
		fmt.Fprintln(w)
	}
	if len(bundle.HealthRecords) > 0 {
		fmt.Fprintln(w, "HEALTH\tWEIGHT\tHEIGHT\tBLOOD PRESSURE\tHEART RATE\tSLEEP")
		for _, r := range bundle.HealthRecords {
			fmt.Fprintf(w, "%s\t%g\t%g\t%s\t%g\t%g\n", r.Date.Format(recordDateLayout), r.Weight, r.Height, r.BloodPressure, r.HeartRate, r.SleepHours)
		}
	}
	return w.Flush()
}
