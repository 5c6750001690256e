package ml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// FeatureNames lists the measurements in the column order the model expects.
var FeatureNames = []string{
	"fixed_acidity",
	"volatile_acidity",
	"citric_acid",
	"residual_sugar",
	"chlorides",
	"free_sulfur_dioxide",
	"total_sulfur_dioxide",
	"density",
	"pH",
	"sulphates",
	"alcohol",
}

// Placeholder is appended after the measurements. The trained model takes
// twelve columns and the last one is always fed this value.
const Placeholder = 0.0

// VectorLen is the number of columns in a feature vector.
var VectorLen = len(FeatureNames) + 1

// ValidationError reports a form value that could not be coerced to a float.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %q %s", e.Field, e.Value, e.Reason)
}

// FeatureVector builds the ordered vector from named values.
func FeatureVector(values map[string]string) ([]float64, error) {
	vector := make([]float64, 0, VectorLen)
	for _, name := range FeatureNames {
		raw, ok := values[name]
		if !ok {
			return nil, &ValidationError{Field: name, Reason: "field is required"}
		}
		v, err := ParseMeasurement(raw)
		if err != nil {
			return nil, &ValidationError{Field: name, Value: raw, Reason: "is not a number"}
		}
		vector = append(vector, v)
	}
	return append(vector, Placeholder), nil
}

// ParseMeasurement trims raw, folds full-width characters and parses a
// decimal float. Values too large for float64 become ±Inf; hexadecimal
// literals are rejected.
func ParseMeasurement(raw string) (float64, error) {
	s := width.Narrow.String(strings.TrimSpace(raw))
	if isHexLiteral(s) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}
	v, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) {
		return v, nil
	}
	return v, err
}

func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// Reshape turns a vector into a single-row matrix.
func Reshape(vector []float64) [][]float64 {
	row := make([]float64, len(vector))
	copy(row, vector)
	return [][]float64{row}
}
