// SPDX-License-Identifier: MIT

// Package cdt implements a cumulative distribution table (CDT) sampler for
// symmetric discrete distributions given by integer weights.
//
// A table built from weights w_0 … w_{s−1} stores the running sums
// C_i = w_0 + … + w_i. Sample draws r uniformly in [0, C_{s−1}), returns
// j = #{i : C_i ≤ r} (so P(j) = w_j / C_{s−1}) and attaches a uniformly
// random sign. The scan always touches every entry, so the running time does
// not depend on the sampled value.
//
// The weights are typically the integer coefficients returned by the sphere
// decoder for a folded Gaussian table; MemoryBits measures the table's
// storage cost and Digest fingerprints it for reports.
package cdt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Sentinel errors.
var (
	// ErrEmptyTable indicates no weights or an all-zero table.
	ErrEmptyTable = errors.New("cdt: empty table")

	// ErrNonMonotone indicates a negative weight (cumulative sums must not decrease).
	ErrNonMonotone = errors.New("cdt: cumulative table must be non-decreasing")
)

// Table is an immutable cumulative table. Safe for concurrent Sample calls
// with distinct sources.
type Table struct {
	cum   []*big.Int
	total *big.Int
	nbyte int  // bytes drawn per uniform candidate
	mask  byte // mask applied to the leading byte
}

// NewTable builds a table from non-negative integer weights.
//
// Errors: ErrEmptyTable, ErrNonMonotone.
// Complexity: O(s) big-integer additions.
func NewTable(weights []*big.Int) (*Table, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("NewTable: %w", ErrEmptyTable)
	}
	cum := make([]*big.Int, len(weights))
	acc := new(big.Int)
	for i, w := range weights {
		if w == nil || w.Sign() < 0 {
			return nil, fmt.Errorf("NewTable: weight %d: %w", i, ErrNonMonotone)
		}
		acc.Add(acc, w)
		cum[i] = new(big.Int).Set(acc)
	}
	if acc.Sign() == 0 {
		return nil, fmt.Errorf("NewTable: %w", ErrEmptyTable)
	}

	bitLen := new(big.Int).Sub(acc, big.NewInt(1)).BitLen()
	if bitLen == 0 {
		bitLen = 1
	}
	t := &Table{
		cum:   cum,
		total: acc,
		nbyte: (bitLen + 7) / 8,
		mask:  byte(0xFF >> uint((8-bitLen%8)%8)),
	}

	return t, nil
}

// FromFloats rounds each coefficient to the nearest integer magnitude and builds a table.
// Decoder output may carry a global sign; magnitudes are used.
func FromFloats(coeffs []float64) (*Table, error) {
	w := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		if c < 0 {
			c = -c
		}
		f := new(big.Float).SetFloat64(c + 0.5)
		w[i], _ = f.Int(nil)
	}

	return NewTable(w)
}

// Size returns the number of entries.
func (t *Table) Size() int { return len(t.cum) }

// Total returns a copy of the last cumulative entry.
func (t *Table) Total() *big.Int { return new(big.Int).Set(t.total) }

// Cumulative returns a copy of the running sums.
func (t *Table) Cumulative() []*big.Int {
	out := make([]*big.Int, len(t.cum))
	for i, c := range t.cum {
		out[i] = new(big.Int).Set(c)
	}

	return out
}

// MemoryBits returns Σ bitlen(C_i), the storage cost of the table.
func (t *Table) MemoryBits() int {
	var bits int
	for _, c := range t.cum {
		bits += c.BitLen()
	}

	return bits
}

// Digest returns the hex BLAKE3 fingerprint of the cumulative entries.
func (t *Table) Digest() string {
	h := blake3.New()
	var n [8]byte
	for _, c := range t.cum {
		b := c.Bytes()
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(b)
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}

// uniform draws r ∈ [0, total) by rejection from src.
func (t *Table) uniform(src io.Reader, buf []byte, r *big.Int) error {
	for {
		if _, err := io.ReadFull(src, buf); err != nil {
			return fmt.Errorf("Sample: %w", err)
		}
		buf[0] &= t.mask
		r.SetBytes(buf)
		if r.Cmp(t.total) < 0 {
			return nil
		}
	}
}

// Sample draws one signed value from src.
//
// Randomness layout: ⌈bitlen(total−1)/8⌉ bytes per uniform candidate
// (rejection on overflow), then one byte whose low bit is the sign
// (0 → negative).
func (t *Table) Sample(src io.Reader) (int, error) {
	buf := make([]byte, t.nbyte)
	r := new(big.Int)

	return t.sample(src, buf, r)
}

func (t *Table) sample(src io.Reader, buf []byte, r *big.Int) (int, error) {
	if err := t.uniform(src, buf, r); err != nil {
		return 0, err
	}
	res := 0
	for _, c := range t.cum {
		if c.Cmp(r) <= 0 {
			res++
		}
	}
	var sign [1]byte
	if _, err := io.ReadFull(src, sign[:]); err != nil {
		return 0, fmt.Errorf("Sample: %w", err)
	}
	if sign[0]&1 == 0 {
		res = -res
	}

	return res, nil
}

// Draw returns n samples from src.
func (t *Table) Draw(src io.Reader, n int) ([]int, error) {
	out := make([]int, n)
	buf := make([]byte, t.nbyte)
	r := new(big.Int)
	var err error
	for i := range out {
		if out[i], err = t.sample(src, buf, r); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// KeyedSource is a deterministic byte stream from a keyed BLAKE2b XOF.
// Not safe for concurrent use.
type KeyedSource struct {
	xof blake2b.XOF
}

// NewKeyedSource returns a source seeded by key (at most 64 bytes).
func NewKeyedSource(key []byte) (*KeyedSource, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, fmt.Errorf("NewKeyedSource: %w", err)
	}

	return &KeyedSource{xof: xof}, nil
}

// Read implements io.Reader.
func (s *KeyedSource) Read(p []byte) (int, error) { return s.xof.Read(p) }

// Reset rewinds the stream to its first byte.
func (s *KeyedSource) Reset() { s.xof.Reset() }
