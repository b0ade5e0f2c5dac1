package mlprep

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestArtifactsRoundTrip(t *testing.T) {
	artifacts := &Artifacts{
		Encoders: map[string]EncoderArtifact{
			"region":        {Classes: []string{"ar", "us"}},
			"primary_genre": {Classes: []string{"pop", "rock"}},
		},
		TargetClasses: []string{"pop", "rock"},
		Scaler: ScalerArtifact{
			Columns: []string{"tempo", "energy"},
			Means:   []float64{120.5, 0.5},
			Stds:    []float64{30, 0.25},
		},
		FeatureNames:    []string{"region", "tempo", "energy"},
		NumericalCols:   []string{"tempo", "energy"},
		CategoricalCols: []string{"region"},
		SampleSize:      1000,
		TestSize:        0.2,
		RandomState:     42,
	}

	path := filepath.Join(t.TempDir(), "preprocessing_artifacts.yaml")
	if err := artifacts.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadArtifacts(path)
	if err != nil {
		t.Fatalf("LoadArtifacts error: %v", err)
	}
	if !reflect.DeepEqual(loaded, artifacts) {
		t.Errorf("round trip changed the artifacts:\ngot  %+v\nwant %+v", loaded, artifacts)
	}
}

func TestLoadArtifactsMissing(t *testing.T) {
	if _, err := LoadArtifacts(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
