package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcshock/tabprep/prep"
)

const rawCSV = `id,diagnosis,radius,texture,area,Unnamed: 32
1,M,17.99,10.38,1001,
2,B,12.57,17.77,1326,
3,B,11.69,,1203,
4,M,20.29,14.34,1297,
5,B,12.45,15.70,477.1,
6,B,13.08,15.71,520.0,
7,M,19.17,24.80,1040,
8,B,9.50,12.44,273.9,
9,M,21.16,23.04,1404,
10,B,11.42,20.38,386.1,
`

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "breastcancer_raw.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecute_Success(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, rawCSV)
	out := filepath.Join(dir, "out")
	metrics := filepath.Join(dir, "tabprep.prom")

	var stdout, stderr bytes.Buffer
	code := execute([]string{"--input", input, "--output", out, "--metrics-file", metrics}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	for _, name := range []string{prep.XTrainFile, prep.XTestFile, prep.YTrainFile, prep.YTestFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.FileExists(t, metrics)
	assert.Contains(t, stdout.String(), "preprocessing complete")
	assert.Contains(t, stdout.String(), "train_rows=8")
	assert.Empty(t, stderr.String())
}

func TestExecute_ConfigFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, rawCSV)
	cfgPath := filepath.Join(dir, "run.yaml")
	cfg := "name: cli\ninput: " + input + "\noutput_dir: " + filepath.Join(dir, "from-config") + "\nimpute_scope: train\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	var stdout, stderr bytes.Buffer
	override := filepath.Join(dir, "from-flag")
	code := execute([]string{"--config", cfgPath, "--output", override, "--log-format", "json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join(override, prep.XTrainFile))
	assert.NoDirExists(t, filepath.Join(dir, "from-config"))
	assert.Contains(t, stdout.String(), `"msg":"preprocessing complete"`)
}

func TestExecute_MissingInput(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := execute([]string{
		"--input", filepath.Join(dir, "nope.csv"),
		"--fallback-dir", dir,
		"--output", filepath.Join(dir, "out"),
	}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "input file not found")
	assert.Empty(t, stderr.String())
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestExecute_MissingDiagnosis(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "id,radius\n1,2\n2,3\n")
	var stdout, stderr bytes.Buffer
	code := execute([]string{"--input", input, "--output", filepath.Join(dir, "out")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "label column not found")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestExecute_InvalidFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, rawCSV)

	var stdout, stderr bytes.Buffer
	code := execute([]string{"--input", input, "--test-size", "1.5"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error:")

	stderr.Reset()
	code = execute([]string{"--input", input, "--log-format", "xml"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "log format")
}

func TestReport(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, report(nil, &stdout, &stderr))
	assert.Equal(t, 1, report(errors.New("boom"), &stdout, &stderr))
	assert.Equal(t, "Error: boom\n", stderr.String())
	assert.Empty(t, stdout.String())
}
