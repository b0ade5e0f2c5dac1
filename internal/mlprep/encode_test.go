package mlprep

import (
	"reflect"
	"testing"
)

func TestFitLabelEncoder(t *testing.T) {
	enc := FitLabelEncoder([]string{"rock", "pop", "rock", "jazz"})

	if !reflect.DeepEqual(enc.Classes, []string{"jazz", "pop", "rock"}) {
		t.Errorf("Classes = %v, want sorted classes", enc.Classes)
	}

	codes, err := enc.TransformAll([]string{"rock", "jazz", "pop"})
	if err != nil {
		t.Fatalf("TransformAll error: %v", err)
	}
	if !reflect.DeepEqual(codes, []int{2, 0, 1}) {
		t.Errorf("codes = %v, want [2 0 1]", codes)
	}
}

func TestLabelEncoderStableAcrossOrder(t *testing.T) {
	a := FitLabelEncoder([]string{"b", "a", "c"})
	b := FitLabelEncoder([]string{"c", "b", "a", "a"})

	if !reflect.DeepEqual(a.Classes, b.Classes) {
		t.Errorf("same values in different order produced different classes: %v vs %v", a.Classes, b.Classes)
	}
}

func TestLabelEncoderUnseen(t *testing.T) {
	enc := FitLabelEncoder([]string{"pop"})

	if _, err := enc.Transform("rock"); err == nil {
		t.Errorf("expected error for unseen label")
	}
	if _, err := enc.TransformAll([]string{"pop", "rock"}); err == nil {
		t.Errorf("expected error for unseen label in batch")
	}
}
