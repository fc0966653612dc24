// Package artifacts persists and loads the fitted model and scaler as gob
// blobs at fixed, configurable paths. Artifacts are written once by the
// training job and loaded read-only by the serving process at startup.
package artifacts

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"github.com/frdetect/fraud-detection-backend/internal/domain/errors"
	"github.com/frdetect/fraud-detection-backend/internal/ml/forest"
	"github.com/frdetect/fraud-detection-backend/internal/ml/scaler"
)

// Default artifact locations relative to the working directory.
const (
	DefaultModelPath  = "models/model.gob"
	DefaultScalerPath = "models/scaler.gob"
)

// ModelArtifact wraps a fitted model with training metadata.
type ModelArtifact struct {
	Model        *forest.RandomForest
	Columns      []string
	TrainedAt    time.Time
	TrainingRows int
}

// ScalerArtifact wraps a fitted scaler with fit metadata.
type ScalerArtifact struct {
	Scaler   *scaler.StandardScaler
	Columns  []string
	FittedAt time.Time
}

// Store reads and writes artifacts at its configured paths.
type Store struct {
	ModelPath  string
	ScalerPath string
}

// NewStore returns a store for the given paths, falling back to the
// defaults when a path is empty.
func NewStore(modelPath, scalerPath string) *Store {
	if modelPath == "" {
		modelPath = DefaultModelPath
	}
	if scalerPath == "" {
		scalerPath = DefaultScalerPath
	}
	return &Store{ModelPath: modelPath, ScalerPath: scalerPath}
}

// SaveModel persists a fitted model.
func (s *Store) SaveModel(artifact *ModelArtifact) error {
	return writeGob(s.ModelPath, artifact)
}

// LoadModel reads a previously persisted model.
func (s *Store) LoadModel() (*ModelArtifact, error) {
	var artifact ModelArtifact
	if err := readGob(s.ModelPath, &artifact); err != nil {
		return nil, err
	}
	if artifact.Model == nil || len(artifact.Model.Trees) == 0 {
		return nil, errors.NewParseError("model artifact is empty")
	}
	return &artifact, nil
}

// SaveScaler persists a fitted scaler.
func (s *Store) SaveScaler(artifact *ScalerArtifact) error {
	return writeGob(s.ScalerPath, artifact)
}

// LoadScaler reads a previously persisted scaler.
func (s *Store) LoadScaler() (*ScalerArtifact, error) {
	var artifact ScalerArtifact
	if err := readGob(s.ScalerPath, &artifact); err != nil {
		return nil, err
	}
	if artifact.Scaler == nil || artifact.Scaler.NumFeatures() == 0 {
		return nil, errors.NewParseError("scaler artifact is empty")
	}
	return &artifact, nil
}

func writeGob(path string, value interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewInternalError("failed to create artifact directory").WithCause(err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewInternalError("failed to create artifact file").WithCause(err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(value); err != nil {
		return errors.NewInternalError("failed to encode artifact").WithCause(err)
	}
	return nil
}

func readGob(path string, value interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewNotFoundError("artifact " + path).WithCause(err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(value); err != nil {
		return errors.NewParseError("failed to decode artifact " + path).WithCause(err)
	}
	return nil
}
