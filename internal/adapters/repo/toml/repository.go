package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/bnema/observation-displayer/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	storagePathKey         = "storage.path"
	observationsFileMode   = 0o600
	observationsDirMode    = 0o700
	observationsConfigDir  = ".observation-displayer"
	observationsConfigFile = "observations.toml"
	tempFilePattern        = ".observations-*.toml.tmp"
)

// Repository keeps observations in a single TOML file, rewritten atomically
// on every change.
type Repository struct {
	observationsPath string
	mu               *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ObservationStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	observationsPath := cfg.GetString(storagePathKey)
	if observationsPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		observationsPath = filepath.Join(homeDir, observationsConfigDir, observationsConfigFile)
	}

	observationsPath, err := normalizeObservationsPath(observationsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{observationsPath: observationsPath, mu: lockForPath(observationsPath)}, nil
}

func (r *Repository) Path() string {
	return r.observationsPath
}

func (r *Repository) Insert(ctx context.Context, record domain.Record) (domain.ObservationID, error) {
	if err := ctx.Err(); err != nil {
		return domain.UnassignedID, err
	}
	if err := record.Validate(); err != nil {
		return domain.UnassignedID, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.UnassignedID, err
	}

	encoded := toSchema(record)
	encoded.ID = file.NextID
	encoded.Active = true
	file.Observations = append(file.Observations, encoded)
	file.NextID++

	if err := ctx.Err(); err != nil {
		return domain.UnassignedID, err
	}

	if err := r.writeSchema(file); err != nil {
		return domain.UnassignedID, err
	}

	return domain.ObservationID(encoded.ID), nil
}

func (r *Repository) MarkInactive(ctx context.Context, id domain.ObservationID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	for i := range file.Observations {
		if file.Observations[i].ID != int64(id) {
			continue
		}
		if !file.Observations[i].Active {
			return nil
		}
		file.Observations[i].Active = false
		return r.writeSchema(file)
	}

	return fmt.Errorf("mark observation %d inactive: %w", id, domain.ErrObservationNotFound)
}

func (r *Repository) MarkExpiredInactive(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return 0, err
	}

	var count int64
	for i := range file.Observations {
		entry := &file.Observations[i]
		if !entry.Active || entry.Temporary {
			continue
		}
		record, err := fromSchema(*entry)
		if err != nil {
			return 0, err
		}
		if record.Expired(now) {
			entry.Active = false
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	if err := r.writeSchema(file); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(file.Observations))
	for _, entry := range file.Observations {
		if !entry.Active {
			continue
		}
		record, err := fromSchema(entry)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Close is a no-op; the file is only open while it is read or written.
func (r *Repository) Close() error {
	return nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.observationsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read observations file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode observations file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeObservationsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve observations path: %w", err)
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

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.observationsPath), observationsDirMode); err != nil {
		return fmt.Errorf("create observations directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode observations file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.observationsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp observations file: %w", err)
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
		return fmt.Errorf("write temp observations file: %w", err)
	}

	if err := tempFile.Chmod(observationsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp observations file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp observations file: %w", err)
	}

	if err := os.Rename(tempName, r.observationsPath); err != nil {
		return fmt.Errorf("replace observations file: %w", err)
	}

	cleanup = false

	return nil
}

func toSchema(record domain.Record) observationSchema {
	encoded := observationSchema{
		ID:        int64(record.ID),
		CreatedAt: formatTime(record.CreatedAt),
		Author:    record.Author,
		Content:   record.Content,
		Temporary: record.Temporary,
		Location: locationSchema{
			World: record.View.World,
			X:     record.View.X,
			Y:     record.View.Y,
			Z:     record.View.Z,
			Yaw:   record.View.Yaw,
			Pitch: record.View.Pitch,
		},
	}
	if record.Expiration != nil {
		encoded.Expiration = formatTime(*record.Expiration)
	}

	return encoded
}

func fromSchema(entry observationSchema) (domain.Record, error) {
	createdAt, err := parseTime(entry.CreatedAt)
	if err != nil {
		return domain.Record{}, fmt.Errorf("observation %d created_at: %w", entry.ID, err)
	}

	record := domain.Record{
		ID:        domain.ObservationID(entry.ID),
		CreatedAt: createdAt,
		Author:    entry.Author,
		Content:   entry.Content,
		Temporary: entry.Temporary,
		View: domain.Location{
			World: entry.Location.World,
			X:     entry.Location.X,
			Y:     entry.Location.Y,
			Z:     entry.Location.Z,
			Yaw:   entry.Location.Yaw,
			Pitch: entry.Location.Pitch,
		},
	}
	if entry.Expiration != "" {
		expiration, err := parseTime(entry.Expiration)
		if err != nil {
			return domain.Record{}, fmt.Errorf("observation %d expiration: %w", entry.ID, err)
		}
		record.Expiration = &expiration
	}

	return record, nil
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", raw, err)
	}

	return parsed.UTC(), nil
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
