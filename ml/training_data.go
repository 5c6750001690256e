package ml

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
)

const labelColumn = "quality"

// LoadDataset reads a wine quality CSV. Both the semicolon separated UCI
// layout ("fixed acidity";...) and the comma separated underscore layout are
// accepted; extra columns are ignored. Rows go through FeatureVector so they
// have the same shape the server sends to the model.
func LoadDataset(r io.Reader) ([][]float64, []int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	header, _, _ := bytes.Cut(data, []byte("\n"))

	reader := csv.NewReader(bytes.NewReader(data))
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		reader.Comma = ';'
	}
	reader.TrimLeadingSpace = true

	columns, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	index, err := columnIndex(columns)
	if err != nil {
		return nil, nil, err
	}

	var features [][]float64
	var labels []int
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		values := make(map[string]string, len(FeatureNames))
		for _, name := range FeatureNames {
			values[name] = record[index[name]]
		}
		vector, err := FeatureVector(values)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		quality, err := ParseMeasurement(record[index[labelColumn]])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: quality: %w", line, err)
		}

		features = append(features, vector)
		labels = append(labels, int(math.Round(quality)))
	}
	if len(features) == 0 {
		return nil, nil, errors.New("dataset has no rows")
	}
	return features, labels, nil
}

func columnIndex(columns []string) (map[string]int, error) {
	wanted := append(append([]string(nil), FeatureNames...), labelColumn)
	index := make(map[string]int, len(wanted))
	for i, col := range columns {
		norm := strings.ReplaceAll(strings.TrimSpace(col), " ", "_")
		for _, name := range wanted {
			if strings.EqualFold(norm, name) {
				index[name] = i
			}
		}
	}
	var missing []string
	for _, name := range wanted {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// SplitDataset shuffles with seed and holds out testRatio of the rows.
func SplitDataset(features [][]float64, labels []int, testRatio float64, seed int64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(len(features))

	split := int(math.Round(float64(len(features)) * (1 - testRatio)))
	for i, idx := range indices {
		if i < split {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, labels[idx])
		} else {
			testX = append(testX, features[idx])
			testY = append(testY, labels[idx])
		}
	}
	return trainX, trainY, testX, testY
}

// Evaluate returns classification accuracy and the mean absolute error
// between predicted and true quality.
func Evaluate(model MLModel, testX [][]float64, testY []int) (accuracy, mae float64) {
	if len(testX) == 0 {
		return 0, 0
	}
	var correct, scored int
	var absErr float64
	for i, row := range testX {
		label, _, err := model.Predict(row)
		if err != nil {
			continue
		}
		scored++
		if label == testY[i] {
			correct++
		}
		absErr += math.Abs(float64(label - testY[i]))
	}
	if scored == 0 {
		return 0, 0
	}
	return float64(correct) / float64(scored), absErr / float64(scored)
}
