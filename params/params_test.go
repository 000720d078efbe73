// SPDX-License-Identifier: MIT

package params_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Make1205/SDA-DGS/params"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"falcon", "frodo1344", "frodo640", "frodo976"}, params.Names())

	want := params.Scheme{Name: "frodo1344", S: 7, Sigma: 1.4, Alpha: 1000, K: 15, Full: 1000, Folded: true}
	got, err := params.Get("frodo1344")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frodo1344 mismatch (-want +got):\n%s", diff)
	}

	for _, name := range params.Names() {
		s, err := params.Get(name)
		require.NoError(t, err)
		require.NoError(t, s.Validate(), name)
	}

	_, err = params.Get("kyber")
	require.ErrorIs(t, err, params.ErrUnknownScheme)
}

func TestValidate(t *testing.T) {
	base, err := params.Get("falcon")
	require.NoError(t, err)

	cases := map[string]func(*params.Scheme){
		"name":  func(s *params.Scheme) { s.Name = "" },
		"s":     func(s *params.Scheme) { s.S = 0 },
		"sigma": func(s *params.Scheme) { s.Sigma = -1 },
		"alpha": func(s *params.Scheme) { s.Alpha = 1 },
		"k":     func(s *params.Scheme) { s.K = 0 },
		"full":  func(s *params.Scheme) { s.Full = 3 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := base
			mutate(&s)
			require.ErrorIs(t, s.Validate(), params.ErrInvalidScheme)
		})
	}
	assert.Equal(t, 40, base.WithK(40).K)
	assert.Equal(t, 72, base.K)
}

func TestLoad(t *testing.T) {
	doc := `
schemes:
  - name: toy
    s: 4
    sigma: 1.2
    alpha: 64
    k: 12
    full: 40
    folded: true
`
	r := params.Default()
	require.NoError(t, r.Load(strings.NewReader(doc)))
	toy, err := r.Get("toy")
	require.NoError(t, err)
	assert.Equal(t, params.Scheme{Name: "toy", S: 4, Sigma: 1.2, Alpha: 64, K: 12, Full: 40, Folded: true}, toy)
	assert.Contains(t, r.Names(), "falcon")

	bad := params.Default()
	err = bad.Load(strings.NewReader("schemes:\n  - {name: x, s: 0, sigma: 1, alpha: 2, k: 1, full: 1}\n"))
	require.ErrorIs(t, err, params.ErrInvalidScheme)
	assert.NotContains(t, bad.Names(), "x")

	err = bad.Load(strings.NewReader("schemes:\n  - {name: x, colour: red}\n"))
	require.ErrorIs(t, err, params.ErrInvalidScheme)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemes:\n  - {name: f, s: 2, sigma: 1, alpha: 2, k: 4, full: 2}\n"), 0o600))

	r := params.Default()
	require.NoError(t, r.LoadFile(path))
	_, err := r.Get("f")
	require.NoError(t, err)

	require.Error(t, r.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestScaleBits(t *testing.T) {
	falcon, err := params.Get("falcon")
	require.NoError(t, err)
	assert.InDelta(t, 76.0, falcon.ScaleBits(), 1e-12)
	assert.InDelta(t, 19.0, falcon.WithK(18).ScaleBits(), 1e-12)

	frodo, err := params.Get("frodo1344")
	require.NoError(t, err)
	assert.InDelta(t, 15.0*8/7, frodo.ScaleBits(), 1e-12)
}
