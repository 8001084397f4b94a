package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/kofalt/go-memoize"

	"github.com/tomhuettmann/fuel-consumption/internal/consumption"
	"github.com/tomhuettmann/fuel-consumption/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	RECORDS_FILE    = "fuel_consumptions.json"
	PROPERTIES_FILE = "car_properties.json"
)

// CarStore is the flat-file layer holding one directory per car.
type CarStore interface {
	ListCarIds() ([]string, error)
	ReadRecords(carId string) ([]models.RawRecord, error)
	ReadProperties(carId string) (*models.CarProperties, error)
}

type SiteWriter interface {
	WriteFile(name string, data []byte) error
}

type fileStore struct {
	dataDir string
	memo    *memoize.Memoizer
}

// NewCarStore reads cars from dataDir. Decoded record files are kept for an
// hour and re-read as soon as their modification time changes.
func NewCarStore(dataDir string) CarStore {
	return &fileStore{
		dataDir: dataDir,
		memo:    memoize.NewMemoizer(time.Hour, 10*time.Minute),
	}
}

func (store *fileStore) ListCarIds() ([]string, error) {
	entries, err := os.ReadDir(store.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars in %s: %w", store.dataDir, err)
	}

	carIds := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		carIds = append(carIds, entry.Name())
	}
	return carIds, nil
}

func (store *fileStore) ReadRecords(carId string) ([]models.RawRecord, error) {
	path, err := store.carFile(carId, RECORDS_FILE)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(consumption.ErrDataNotFound, "car %s", carId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	key := fmt.Sprintf("%s@%d:%d", carId, info.ModTime().UnixNano(), info.Size())
	result, err, cached := store.memo.Memoize(key, func() (any, error) {
		return readRecordsFile(path)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "car %s", carId)
	}
	if cached {
		log.Printf("using cached records for %s", carId)
	}
	return result.([]models.RawRecord), nil
}

func readRecordsFile(path string) ([]models.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []models.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(consumption.ErrMalformedRecord, "failed to decode %s: %v", path, err)
	}
	return records, nil
}

// ReadProperties returns the optional car_properties.json of a car. A car
// without one is named after its id and has no base distance.
func (store *fileStore) ReadProperties(carId string) (*models.CarProperties, error) {
	path, err := store.carFile(carId, PROPERTIES_FILE)
	if err != nil {
		return nil, err
	}

	props := &models.CarProperties{Name: carId}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return props, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, props); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if props.Name == "" {
		props.Name = carId
	}
	return props, nil
}

func (store *fileStore) carFile(carId, name string) (string, error) {
	if carId == "" || carId != filepath.Base(carId) || strings.HasPrefix(carId, ".") {
		return "", errors.Wrapf(consumption.ErrDataNotFound, "invalid car id %q", carId)
	}
	return filepath.Join(store.dataDir, carId, name), nil
}

type dirWriter struct {
	outputDir string
}

// NewSiteWriter writes generated files below outputDir, creating directories as needed.
func NewSiteWriter(outputDir string) SiteWriter {
	return &dirWriter{outputDir: outputDir}
}

func (w *dirWriter) WriteFile(name string, data []byte) error {
	path := filepath.Join(w.outputDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
