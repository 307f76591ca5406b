// Package weft implements the .weft binary ephemeris format: a
// piecewise-Chebyshev approximation scheme for scalar time series, its
// on-disk layout, the evaluator that reads it, and the writer that
// builds it from sampled data.
//
// This package is the sole subject of the starloom-go ephemeris engine.
// Everything else in the repository (cmd/, ephemeris/, events/, render/)
// is a thin driver on top of it.
package weft

import "errors"

// ErrDomain is returned when a Chebyshev evaluation argument lies
// outside [-1, 1], or a DataSource value lies outside its declared
// timespan, or a step-size string is malformed.
var ErrDomain = errors.New("weft: value outside domain")

// ErrFormat is returned for a malformed preamble, an unknown block
// marker, a truncated block, a section header whose advertised
// blockSize mismatches what was read, a forty-eight-hour block with no
// preceding header, or a NaN coefficient.
var ErrFormat = errors.New("weft: malformed file")

// ErrOutOfRange is returned internally by a block's Evaluate method
// when the requested time lies outside that block's own span. The
// file-level evaluator catches this and either tries the next
// candidate block or returns ErrNoBlock.
var ErrOutOfRange = errors.New("weft: time outside block span")

// ErrNoBlock is returned when no block in the file contains the
// requested time.
var ErrNoBlock = errors.New("weft: no block covers the requested time")

// ErrIncompatibleFiles is returned by Combine when the two files
// disagree on body, source tag, precision, quantity, or value
// behavior.
var ErrIncompatibleFiles = errors.New("weft: files are not combinable")

// ErrMissingMember is returned when a weftball archive lacks one of
// the three expected per-quantity files.
var ErrMissingMember = errors.New("weft: weftball missing a member file")
