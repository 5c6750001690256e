package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"winequality/ml"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	formTemplate   = "index.html"
	resultTemplate = "result.html"
)

var fieldLabels = map[string]string{
	"fixed_acidity":        "Fixed acidity",
	"volatile_acidity":     "Volatile acidity",
	"citric_acid":          "Citric acid",
	"residual_sugar":       "Residual sugar",
	"chlorides":            "Chlorides",
	"free_sulfur_dioxide":  "Free sulfur dioxide",
	"total_sulfur_dioxide": "Total sulfur dioxide",
	"density":              "Density",
	"pH":                   "pH",
	"sulphates":            "Sulphates",
	"alcohol":              "Alcohol",
}

type formField struct {
	Name  string
	Label string
}

type formPage struct {
	Fields []formField
	Error  string
}

type resultPage struct {
	Prediction string
}

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

func formFields() []formField {
	fields := make([]formField, 0, len(ml.FeatureNames))
	for _, name := range ml.FeatureNames {
		label, ok := fieldLabels[name]
		if !ok {
			label = name
		}
		fields = append(fields, formField{Name: name, Label: label})
	}
	return fields
}

// render executes into a buffer; nothing is written when the template fails.
func render(w http.ResponseWriter, tmpl *template.Template, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
	return nil
}
