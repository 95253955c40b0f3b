// Package testutil provides testing utilities for blockio.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and helpers for
// generating deterministic file contents.
//
// # Deterministic Content
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Bytes(4096)    // random bytes
//	text := rng.Text(100)      // printable ASCII
//
// # Block Boundaries
//
//	for _, size := range testutil.BoundarySizes(blockSize) {
//	    // 0, 1, block-1, block, block+1, 2*block, ...
//	}
package testutil
