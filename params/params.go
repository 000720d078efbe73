// SPDX-License-Identifier: MIT

// Package params holds the discrete Gaussian parameter sets analysed by this
// module and loads additional sets from YAML.
//
// A Scheme names a target distribution (σ, one-sided or folded table), the
// table prefix fed to the basis (S entries), the Rényi order used for the
// security estimate (Alpha), the bit precision k (eps = 2^(−k/S)) and the
// length of the reference table used for normalisation (Full).
//
// Built-ins:
//
//	falcon     S=18 σ=1.8205 α=513  k=72 one-sided
//	frodo640   S=13 σ=2.8    α=200  k=15 folded
//	frodo976   S=11 σ=2.3    α=500  k=15 folded
//	frodo1344  S=7  σ=1.4    α=1000 k=15 folded
package params

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Sentinel errors.
var (
	// ErrUnknownScheme indicates a name with no built-in or loaded scheme.
	ErrUnknownScheme = errors.New("params: unknown scheme")

	// ErrInvalidScheme indicates a scheme that fails validation.
	ErrInvalidScheme = errors.New("params: invalid scheme")
)

// Scheme is one parameter set.
type Scheme struct {
	Name   string  `yaml:"name"`
	S      int     `yaml:"s"`      // table prefix length fed to the basis
	Sigma  float64 `yaml:"sigma"`  // Gaussian parameter
	Alpha  float64 `yaml:"alpha"`  // Rényi order
	K      int     `yaml:"k"`      // bits of precision; eps = 2^(−K/S)
	Full   int     `yaml:"full"`   // reference table length (entries 0..Full)
	Folded bool    `yaml:"folded"` // table of |X| instead of the one-sided profile
}

// file is the YAML document layout.
type file struct {
	Schemes []Scheme `yaml:"schemes"`
}

var builtins = []Scheme{
	{Name: "falcon", S: 18, Sigma: 1.8205, Alpha: 513, K: 72, Full: 1000},
	{Name: "frodo640", S: 13, Sigma: 2.8, Alpha: 200, K: 15, Full: 1000, Folded: true},
	{Name: "frodo976", S: 11, Sigma: 2.3, Alpha: 500, K: 15, Full: 1000, Folded: true},
	{Name: "frodo1344", S: 7, Sigma: 1.4, Alpha: 1000, K: 15, Full: 1000, Folded: true},
}

// Validate checks the invariants every consumer relies on.
//
// Errors: ErrInvalidScheme wrapped with the offending field.
func (s Scheme) Validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidScheme)
	case s.S < 1:
		return fmt.Errorf("%w: %s: s=%d must be ≥ 1", ErrInvalidScheme, s.Name, s.S)
	case !(s.Sigma > 0) || math.IsInf(s.Sigma, 0):
		return fmt.Errorf("%w: %s: sigma=%v must be finite and positive", ErrInvalidScheme, s.Name, s.Sigma)
	case !(s.Alpha > 0) || s.Alpha == 1 || math.IsInf(s.Alpha, 0):
		return fmt.Errorf("%w: %s: alpha=%v must be positive and ≠ 1", ErrInvalidScheme, s.Name, s.Alpha)
	case s.K < 1:
		return fmt.Errorf("%w: %s: k=%d must be ≥ 1", ErrInvalidScheme, s.Name, s.K)
	case s.Full < s.S:
		return fmt.Errorf("%w: %s: full=%d must be ≥ s=%d", ErrInvalidScheme, s.Name, s.Full, s.S)
	}

	return nil
}

// ScaleBits returns log2 of the basis scale D = 2^(K·(S+1)/S), the bit
// length of the largest basis entries.
func (s Scheme) ScaleBits() float64 {
	return float64(s.K) * float64(s.S+1) / float64(s.S)
}

// WithK returns a copy of s using k bits of precision.
func (s Scheme) WithK(k int) Scheme {
	s.K = k

	return s
}

// Registry is a name-indexed set of schemes.
type Registry struct {
	byName map[string]Scheme
}

// Default returns a registry holding the built-in schemes.
func Default() *Registry {
	r := &Registry{byName: make(map[string]Scheme, len(builtins))}
	for _, s := range builtins {
		r.byName[s.Name] = s
	}

	return r
}

// Get returns the scheme called name.
func (r *Registry) Get(name string) (Scheme, error) {
	s, ok := r.byName[name]
	if !ok {
		return Scheme{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}

	return s, nil
}

// Names returns all scheme names in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Add validates s and inserts it, replacing any scheme with the same name.
func (r *Registry) Add(s Scheme) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.byName[s.Name] = s

	return nil
}

// Load decodes a YAML document of the form
//
//	schemes:
//	  - {name: toy, s: 4, sigma: 1.2, alpha: 64, k: 12, full: 40, folded: true}
//
// and adds every scheme to r. Unknown keys are rejected. Nothing is added
// when any scheme fails validation.
func (r *Registry) Load(in io.Reader) error {
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("Load: %w: %v", ErrInvalidScheme, err)
	}
	for _, s := range f.Schemes {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("Load: %w", err)
		}
	}
	for _, s := range f.Schemes {
		r.byName[s.Name] = s
	}

	return nil
}

// LoadFile is Load on the named file.
func (r *Registry) LoadFile(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("LoadFile: %w", err)
	}
	defer fh.Close()

	return r.Load(fh)
}

// Get returns the built-in scheme called name.
func Get(name string) (Scheme, error) { return Default().Get(name) }

// Names returns the built-in scheme names in ascending order.
func Names() []string { return Default().Names() }
