package ml

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func sampleValues() map[string]string {
	return map[string]string{
		"fixed_acidity":        "7.4",
		"volatile_acidity":     "0.7",
		"citric_acid":          "0.0",
		"residual_sugar":       "1.9",
		"chlorides":            "0.076",
		"free_sulfur_dioxide":  "11",
		"total_sulfur_dioxide": "34",
		"density":              "0.9978",
		"pH":                   "3.51",
		"sulphates":            "0.56",
		"alcohol":              "9.4",
	}
}

func TestFeatureVector(t *testing.T) {
	vector, err := FeatureVector(sampleValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{7.4, 0.7, 0.0, 1.9, 0.076, 11, 34, 0.9978, 3.51, 0.56, 9.4, 0.0}
	if !reflect.DeepEqual(vector, want) {
		t.Fatalf("got %v, want %v", vector, want)
	}
}

func TestFeatureVectorPlaceholder(t *testing.T) {
	values := sampleValues()
	for _, name := range FeatureNames {
		values[name] = "123.5"
	}
	vector, err := FeatureVector(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vector) != 12 {
		t.Fatalf("expected 12 values, got %d", len(vector))
	}
	if vector[11] != 0.0 {
		t.Fatalf("expected trailing 0.0, got %v", vector[11])
	}
}

func TestFeatureVectorErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		field  string
	}{
		{"missing field", func(v map[string]string) { delete(v, "density") }, "density"},
		{"non numeric", func(v map[string]string) { v["pH"] = "acidic" }, "pH"},
		{"empty value", func(v map[string]string) { v["alcohol"] = "" }, "alcohol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := sampleValues()
			tt.mutate(values)

			_, err := FeatureVector(values)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, verr.Field)
			}
			if verr.Error() == "" {
				t.Fatal("expected message")
			}
		})
	}
}

func TestParseMeasurement(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"7.4", 7.4},
		{"  11 ", 11},
		{"７.４", 7.4},
		{"-0.5", -0.5},
		{"1e-3", 0.001},
		{"1e400", math.Inf(1)},
		{"-1e400", math.Inf(-1)},
	}
	for _, tt := range tests {
		got, err := ParseMeasurement(tt.raw)
		if err != nil {
			t.Fatalf("ParseMeasurement(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseMeasurement(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseMeasurementRejectsHex(t *testing.T) {
	for _, raw := range []string{"0x1p3", "-0X10", "+0x8"} {
		if _, err := ParseMeasurement(raw); err == nil {
			t.Fatalf("ParseMeasurement(%q): expected error", raw)
		}
	}
}

func TestReshape(t *testing.T) {
	vector := []float64{1, 2, 3}
	matrix := Reshape(vector)
	if len(matrix) != 1 || len(matrix[0]) != 3 {
		t.Fatalf("unexpected shape: %v", matrix)
	}
	vector[0] = 9
	if matrix[0][0] != 1 {
		t.Fatal("reshape should copy the vector")
	}
}
