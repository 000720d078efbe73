// SPDX-License-Identifier: MIT

package sphdec

import (
	"context"
	"fmt"
	"math"
)

// engine holds all search data and policies for one Solve call.
// Frames are flat per-layer arrays indexed by layer; the active layer
// is the top of the implicit stack.
type engine struct {
	// Configuration / policy
	n         int
	zeroEps   float64
	nodeLimit int64
	onImprove func(Improvement)
	ctx       context.Context

	// Triangular factor (dense buffer): r[i*n+j], and rotated target z.
	r []float64
	z []float64

	// Per-layer frames
	center []float64 // rounded real center of the layer
	step   []int     // zig-zag position: 0 center, odd −δ, even +δ
	dist   []float64 // partial squared distance of layers above
	lastW  []float64 // d of the last center/+δ candidate (widening test)

	// Current search state
	x        []float64
	radiusSq float64
	nodes    int64

	// Current best incumbent
	best         []float64
	improvements int
}

// newEngine prefetches R into a flat buffer and allocates frames.
func newEngine(ctx context.Context, r []float64, z []float64, n int, opts Options) *engine {
	return &engine{
		n:         n,
		zeroEps:   opts.ZeroEps,
		nodeLimit: opts.NodeLimit,
		onImprove: opts.OnImprove,
		ctx:       ctx,
		r:         r,
		z:         z,
		center:    make([]float64, n),
		step:      make([]int, n),
		dist:      make([]float64, n),
		lastW:     make([]float64, n),
		x:         make([]float64, n),
		radiusSq:  opts.RadiusSq,
		best:      make([]float64, n),
	}
}

// at is a fast accessor into the dense triangular buffer.
func (e *engine) at(i, j int) float64 { return e.r[i*e.n+j] }

// enter opens the frame of layer l: center = round((z_l − Σ_{j>l} R_lj x_j) / R_ll).
func (e *engine) enter(l int) {
	zi := e.z[l]
	for j := l + 1; j < e.n; j++ {
		zi -= e.at(l, j) * e.x[j]
	}
	e.center[l] = math.Round(zi / e.at(l, l))
	e.step[l] = 0
}

// layerDist returns (z_l − Σ_{j≥l} R_lj x_j)² + dist[l].
func (e *engine) layerDist(l int) float64 {
	term := e.z[l]
	for j := l; j < e.n; j++ {
		term -= e.at(l, j) * e.x[j]
	}

	return term*term + e.dist[l]
}

// tick applies the node budget, then counts a node event and runs the
// sparse context poll. A refused node is not counted.
func (e *engine) tick() error {
	if e.nodeLimit > 0 && e.nodes >= e.nodeLimit {
		return fmt.Errorf("%w: %d nodes", ErrNodeLimit, e.nodeLimit)
	}
	e.nodes++
	if e.nodes&(checkEvery-1) == 0 {
		if err := e.ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCanceled, err)
		}
	}

	return nil
}

// record accepts x as the new incumbent at squared distance d.
// The first record may equal the caller's bound; later ones must be strictly smaller.
func (e *engine) record(d float64) {
	if d <= e.zeroEps || (e.improvements > 0 && d >= e.radiusSq) {
		return
	}
	copy(e.best, e.x)
	e.radiusSq = d
	e.improvements++
	if e.onImprove != nil {
		e.onImprove(Improvement{
			NormSq: d,
			Coeffs: append([]float64(nil), e.x...),
			Nodes:  e.nodes,
		})
	}
}

// run walks the tree until it is exhausted or a limit stops it.
//
// Per layer, candidates are visited in the order center, center−1,
// center+1, center−2, center+2, …; a new ±δ round starts only while the
// previous center/+δ candidate is still within the current bound.
func (e *engine) run() error {
	l := e.n - 1
	e.dist[l] = 0
	e.enter(l)

	var (
		s     int
		v, d  float64
		delta float64
		err   error
	)
	for l < e.n {
		s = e.step[l]
		if s%2 == 1 && !(e.lastW[l] <= e.radiusSq) {
			l++ // layer exhausted: pop the frame
			continue
		}

		v = e.center[l]
		if s > 0 {
			delta = float64((s + 1) / 2)
			if s%2 == 1 {
				v -= delta
			} else {
				v += delta
			}
		}
		e.step[l]++
		e.x[l] = v

		if err = e.tick(); err != nil {
			return err
		}
		d = e.layerDist(l)
		if s%2 == 0 {
			e.lastW[l] = d
		}
		if !(d <= e.radiusSq) { // also prunes NaN from overflowing terms
			continue
		}
		if l == 0 {
			e.record(d)
			continue
		}
		l-- // descend: push the child frame
		e.dist[l] = d
		e.enter(l)
	}

	return nil
}

// result snapshots the incumbent.
func (e *engine) result() Result {
	res := Result{
		Coeffs:       make([]float64, e.n),
		Improvements: e.improvements,
		Nodes:        e.nodes,
		Found:        e.improvements > 0,
	}
	if res.Found {
		for i, v := range e.best {
			res.Coeffs[i] = v + 0 // normalizes −0 from rounding negative centers
		}
		res.NormSq = e.radiusSq
	}

	return res
}
