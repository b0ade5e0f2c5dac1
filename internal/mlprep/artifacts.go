package mlprep

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EncoderArtifact records the fitted classes of one label encoder, in
// transform order (class i encodes to i).
type EncoderArtifact struct {
	Classes []string `yaml:"classes"`
}

// ScalerArtifact records the fitted parameters of the standard scaler.
type ScalerArtifact struct {
	Columns []string  `yaml:"columns"`
	Means   []float64 `yaml:"means"`
	Stds    []float64 `yaml:"stds"`
}

// Artifacts is everything a downstream consumer needs to reproduce the
// preprocessing transform: encoders, scaler parameters, column layout,
// and the sampling and split settings that produced the datasets.
type Artifacts struct {
	Encoders        map[string]EncoderArtifact `yaml:"encoders"`
	TargetClasses   []string                   `yaml:"target_classes"`
	Scaler          ScalerArtifact             `yaml:"scaler"`
	FeatureNames    []string                   `yaml:"feature_names"`
	NumericalCols   []string                   `yaml:"numerical_cols"`
	CategoricalCols []string                   `yaml:"categorical_cols"`
	SampleSize      int                        `yaml:"sample_size"`
	TestSize        float64                    `yaml:"test_size"`
	RandomState     int64                      `yaml:"random_state"`
}

// Save writes the artifacts as YAML.
func (a *Artifacts) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(a); err != nil {
		f.Close()
		return fmt.Errorf("encoding artifacts: %w", err)
	}
	if err := encoder.Close(); err != nil {
		f.Close()
		return fmt.Errorf("flushing artifacts: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// LoadArtifacts reads a YAML artifacts file written by Save.
func LoadArtifacts(path string) (*Artifacts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var a Artifacts
	if err := yaml.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &a, nil
}
