package mlprep

import "testing"

func TestFitScalerPopulationStd(t *testing.T) {
	data := [][]float64{{1, 3}}

	scaler, err := FitScaler([]string{"x"}, data)
	if err != nil {
		t.Fatalf("FitScaler error: %v", err)
	}
	if scaler.Means[0] != 2 {
		t.Errorf("expected mean 2, got %v", scaler.Means[0])
	}
	// Population std of {1, 3} is 1; the sample form would give sqrt(2).
	if scaler.Stds[0] != 1 {
		t.Errorf("expected population std 1, got %v", scaler.Stds[0])
	}

	if err := scaler.Transform(data); err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	if data[0][0] != -1 || data[0][1] != 1 {
		t.Errorf("expected [-1 1], got %v", data[0])
	}
}

func TestFitScalerZeroVariance(t *testing.T) {
	data := [][]float64{{5, 5, 5}, {4}}

	scaler, err := FitScaler([]string{"flat", "single"}, data)
	if err != nil {
		t.Fatalf("FitScaler error: %v", err)
	}
	if scaler.Stds[0] != 1 || scaler.Stds[1] != 1 {
		t.Errorf("expected fallback scale 1, got %v", scaler.Stds)
	}

	if err := scaler.Transform(data); err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	for _, v := range data[0] {
		if v != 0 {
			t.Errorf("expected centered zeros, got %v", data[0])
			break
		}
	}
}

func TestScalerAppliesTrainStatsToTest(t *testing.T) {
	train := [][]float64{{1, 3}}
	test := [][]float64{{5}}

	scaler, err := FitScaler([]string{"x"}, train)
	if err != nil {
		t.Fatalf("FitScaler error: %v", err)
	}
	if err := scaler.Transform(test); err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	// (5 - 2) / 1: scaled with the training statistics, not its own.
	if test[0][0] != 3 {
		t.Errorf("expected 3, got %v", test[0][0])
	}
}

func TestScalerErrors(t *testing.T) {
	if _, err := FitScaler([]string{"x"}, [][]float64{{1}, {2}}); err == nil {
		t.Errorf("expected error for column count mismatch")
	}
	if _, err := FitScaler([]string{"x"}, [][]float64{{}}); err == nil {
		t.Errorf("expected error for empty column")
	}

	scaler, err := FitScaler([]string{"x"}, [][]float64{{1, 2}})
	if err != nil {
		t.Fatalf("FitScaler error: %v", err)
	}
	if err := scaler.Transform([][]float64{{1}, {2}}); err == nil {
		t.Errorf("expected error transforming a different shape")
	}
}
