// Package sdadgs approximates discrete Gaussian probability tables with
// short integer vectors found by a sphere decoder, and measures how close
// the resulting finite-precision tables are to the ideal distribution.
//
// 🚀 What is inside?
//
//	• Sphere decoder: Schnorr–Euchner enumeration for SVP and CVP on any
//	  full-column-rank real basis, with cancellation and node limits
//	• Lattice bases: exact big-integer construction from a probability table
//	• Divergences: statistical distance and Rényi divergence at high precision
//	• Gaussian tables: one-sided and folded profiles for named schemes
//	• CDT sampler: cumulative table sampling, digests and throughput
//
// Under the hood the module is organised in small packages:
//
//	matrix/      dense float64 matrices, Householder QR, vector kernels
//	sphdec/      triangularisation and the iterative enumerator (Solve)
//	latbasis/    (s+1)×(s+1) basis from probabilities and precision ε
//	divergence/  StatDist, Renyi, RenyiHalf on *big.Float vectors
//	gaussian/    normalised Gaussian tables
//	params/      built-in Falcon and Frodo schemes, YAML loading
//	cdt/         cumulative distribution table sampler
//	analysis/    end-to-end runs, precision sweeps and HTML charts
//	cmd/sdasvp   command-line front end
//
// Quick example:
//
//	scheme, _ := params.Get("frodo1344")
//	rep, err := analysis.Run(scheme)
//	// rep.SDA.StatDist is log2 of the statistical distance to the target.
//
//	go install github.com/Make1205/SDA-DGS/cmd/sdasvp@latest
package sdadgs
