// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Make1205/SDA-DGS/divergence"
	"github.com/Make1205/SDA-DGS/params"
	"github.com/Make1205/SDA-DGS/sphdec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customYAML = `schemes:
  - name: custom
    s: 7
    sigma: 1.4
    alpha: 100
    k: 14
    full: 200
    folded: true
`

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)

	return out.String(), err
}

func TestRun_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customYAML), 0o600))

	out, err := runArgs(t, "-params", path, "-list")
	require.NoError(t, err)
	for _, name := range []string{"custom", "falcon", "frodo640", "frodo976", "frodo1344"} {
		assert.Contains(t, out, name)
	}
	assert.Regexp(t, `falcon .*basis ~2\^76 exceeds float64; use a smaller -k or -sweep`, out)
	assert.NotRegexp(t, `frodo1344 .*exceeds float64`, out)
}

func TestRun_FalconSuggestsSmallerK(t *testing.T) {
	_, err := runArgs(t, "-scheme", "falcon")
	require.ErrorIs(t, err, sphdec.ErrDegenerateBasis)
	assert.Contains(t, err.Error(), "at k=72")
	assert.Contains(t, err.Error(), "smaller -k")
	assert.Contains(t, err.Error(), "-sweep")
}

func TestRun_ReportAndSampler(t *testing.T) {
	out, err := runArgs(t, "-scheme", "frodo1344", "-samples", "2000", "-runs", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "sdasvp: ")
	assert.Contains(t, out, "scheme frodo1344")
	assert.Contains(t, out, "log2 SD=")
	for _, name := range []string{"sda", "trunc", "round", "round-k"} {
		assert.Regexp(t, `cdt `+name+` +entries=7 total=\d+ memory=\d+ bits digest=[0-9a-f]{64}`, out)
		assert.Regexp(t, `cdt `+name+` +throughput over 2 runs of 2000`, out)
	}
	assert.Contains(t, out, "sda empirical mean")
}

func TestRun_CustomScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customYAML), 0o600))

	out, err := runArgs(t, "-params", path, "-scheme", "custom", "-convention", "shifted")
	require.NoError(t, err)
	assert.Contains(t, out, "scheme custom")
	assert.Contains(t, out, "shifted Rényi")
}

func TestRun_SweepWritesChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.html")
	out, err := runArgs(t, "-scheme", "frodo1344", "-sweep", "12, 15,72", "-out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "k=72  error:")
	assert.Contains(t, out, "chart written")

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html")
}

func TestRun_Errors(t *testing.T) {
	_, err := runArgs(t, "-scheme", "nope")
	require.ErrorIs(t, err, params.ErrUnknownScheme)

	_, err = runArgs(t, "-convention", "odd")
	require.ErrorIs(t, err, divergence.ErrNumericDomain)

	_, err = runArgs(t, "-out", "x.html")
	require.Error(t, err)

	_, err = runArgs(t, "-sweep", "12,x")
	require.Error(t, err)

	_, err = runArgs(t, "-prec", "0")
	require.Error(t, err)
}

func TestParseKs(t *testing.T) {
	ks, err := parseKs(" 10,12 ,,15")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 12, 15}, ks)
}
