package cmd

import (
	"reflect"
	"testing"
)

func TestMissingColumns(t *testing.T) {
	header := []string{"dt", "AverageTemperature", "Country"}

	if got := missingColumns(header, []string{"dt", "Country"}); len(got) != 0 {
		t.Errorf("expected nothing missing, got %v", got)
	}

	got := missingColumns(header, []string{"dt", "City", "Latitude"})
	if !reflect.DeepEqual(got, []string{"City", "Latitude"}) {
		t.Errorf("missingColumns = %v, want [City Latitude]", got)
	}
}
