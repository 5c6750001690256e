package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleArgs() []string {
	return []string{
		"--fixed_acidity", "7.4", "--volatile_acidity", "0.7", "--citric_acid", "0",
		"--residual_sugar", "1.9", "--chlorides", "0.076", "--free_sulfur_dioxide", "11",
		"--total_sulfur_dioxide", "34", "--density", "0.9978", "--pH", "3.51",
		"--sulphates", "0.56", "--alcohol", "9.4",
	}
}

func writeRemoteConfig(t *testing.T, url string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("pipeline:\n  kind: remote\n  url: %s\n", url)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestPredictCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"predictions":[5]}`)
	}))
	defer server.Close()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(exampleArgs(), "--config", writeRemoteConfig(t, server.URL)))

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "[5]", strings.TrimSpace(out.String()))
}

func TestPredictCommandMissingFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("model server should not be called")
	}))
	defer server.Close()

	args := exampleArgs()
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args[:len(args)-2], "--config", writeRemoteConfig(t, server.URL)))

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alcohol")
}
