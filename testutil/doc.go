// Package testutil provides testing utilities for sparse sets.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Value Generation
//
//	rng := testutil.NewRNG(seed)
//	vals := rng.Values(1000, 64)       // uniform in [0, 64)
//	vals = rng.SkewedValues(1000, 64, 1.5) // Zipfian, many duplicates
//
// # Reference Model
//
//	want := testutil.DistinctInOrder(vals) // first-occurrence order
//
// # Whitespace-Insensitive Comparison
//
//	testutil.JSONEq(`[1, 2, 3]`, `[1,2,3]`) // true
//	testutil.JSONEq(`["a b"]`, `["ab"]`)    // false: quoted whitespace is kept
package testutil
