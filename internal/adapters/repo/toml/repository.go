package toml

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	RecordsPathKey    = "records.path"
	recordsFileMode   = 0o600
	recordsDirMode    = 0o700
	recordsConfigDir  = ".fitadvisor"
	recordsConfigFile = "records.toml"
	tempFilePattern   = ".records-*.toml.tmp"
	dateLayout        = "2006-01-02"
)

type Repository struct {
	recordsPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.RecordRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(RecordsPathKey, filepath.Join(homeDir, recordsConfigDir, recordsConfigFile))

	recordsPath := cfg.GetString(RecordsPathKey)
	if recordsPath == "" {
		return nil, errors.New("records path is empty")
	}
	recordsPath, err = normalizeRecordsPath(recordsPath, homeDir)
	if err != nil {
		return nil, err
	}

	return &Repository{recordsPath: recordsPath, mu: lockForPath(recordsPath)}, nil
}

func (r *Repository) Path() string {
	return r.recordsPath
}

func (r *Repository) Append(ctx context.Context, bundle domain.DataBundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	for _, record := range bundle.FoodRecords {
		if !record.Valid() {
			return fmt.Errorf("append food record %q: record is incomplete", record.Name)
		}
		file.Food = append(file.Food, toFoodSchema(record))
	}
	for _, record := range bundle.ExerciseRecords {
		if !record.Valid() {
			return fmt.Errorf("append exercise record %q: record is incomplete", record.Type)
		}
		file.Exercise = append(file.Exercise, toExerciseSchema(record))
	}
	for _, record := range bundle.HealthRecords {
		if !record.Valid() {
			return errors.New("append health record: record needs a date and at least one measurement")
		}
		file.Health = append(file.Health, toHealthSchema(record))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

// Recent returns up to limit records of each selected kind, newest first.
func (r *Repository) Recent(ctx context.Context, fields domain.RecordFields, limit int) (domain.DataBundle, error) {
	if err := ctx.Err(); err != nil {
		return domain.DataBundle{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.DataBundle{}, err
	}

	var bundle domain.DataBundle
	if fields.Food {
		bundle.FoodRecords = newest(convert(file.Food, fromFoodSchema), func(rec domain.FoodRecord) time.Time { return rec.Date }, limit)
	}
	if fields.Exercise {
		bundle.ExerciseRecords = newest(convert(file.Exercise, fromExerciseSchema), func(rec domain.ExerciseRecord) time.Time { return rec.Date }, limit)
	}
	if fields.Health {
		bundle.HealthRecords = newest(convert(file.Health, fromHealthSchema), func(rec domain.HealthRecord) time.Time { return rec.Date }, limit)
	}

	return bundle, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.recordsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read records file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode records file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.recordsPath), recordsDirMode); err != nil {
		return fmt.Errorf("create records directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode records file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.recordsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp records file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp records file: %w", err)
	}

	if err := tempFile.Chmod(recordsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp records file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp records file: %w", err)
	}

	if err := os.Rename(tempName, r.recordsPath); err != nil {
		return fmt.Errorf("replace records file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizeRecordsPath(path, homeDir string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve records path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func convert[S, T any](entries []S, fn func(S) T) []T {
	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		out = append(out, fn(entry))
	}
	return out
}

// newest keeps file order among records sharing a date, later entries first.
func newest[T any](records []T, date func(T) time.Time, limit int) []T {
	if len(records) == 0 {
		return nil
	}

	slices.Reverse(records)
	slices.SortStableFunc(records, func(a, b T) int {
		return cmp.Compare(date(b).Unix(), date(a).Unix())
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

func toFoodSchema(record domain.FoodRecord) foodSchema {
	return foodSchema{
		Date:     formatDate(record.Date),
		Name:     record.Name,
		Calories: record.Calories,
		Protein:  record.Protein,
		Carbs:    record.Carbs,
		Fat:      record.Fat,
	}
}

func fromFoodSchema(entry foodSchema) domain.FoodRecord {
	return domain.FoodRecord{
		Date:     parseDate(entry.Date),
		Name:     entry.Name,
		Calories: entry.Calories,
		Protein:  entry.Protein,
		Carbs:    entry.Carbs,
		Fat:      entry.Fat,
	}
}

func toExerciseSchema(record domain.ExerciseRecord) exerciseSchema {
	return exerciseSchema{
		Date:           formatDate(record.Date),
		Type:           record.Type,
		Duration:       record.Duration,
		CaloriesBurned: record.CaloriesBurned,
	}
}

func fromExerciseSchema(entry exerciseSchema) domain.ExerciseRecord {
	return domain.ExerciseRecord{
		Date:           parseDate(entry.Date),
		Type:           entry.Type,
		Duration:       entry.Duration,
		CaloriesBurned: entry.CaloriesBurned,
	}
}

func toHealthSchema(record domain.HealthRecord) healthSchema {
	return healthSchema{
		Date:          formatDate(record.Date),
		Weight:        record.Weight,
		Height:        record.Height,
		BloodPressure: record.BloodPressure,
		HeartRate:     record.HeartRate,
		SleepHours:    record.SleepHours,
	}
}

func fromHealthSchema(entry healthSchema) domain.HealthRecord {
	return domain.HealthRecord{
		Date:          parseDate(entry.Date),
		Weight:        entry.Weight,
		Height:        entry.Height,
		BloodPressure: entry.BloodPressure,
		HeartRate:     entry.HeartRate,
		SleepHours:    entry.SleepHours,
	}
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(dateLayout)
}
