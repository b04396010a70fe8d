package bmpkit

import "errors"

// Error kinds returned by the codec and the transforms. Callers match them
// with errors.Is; the wrapped message carries the detail.
var (
	// ErrFormat means the input is not an uncompressed bottom-up 24-bit BMP.
	ErrFormat = errors.New("bmpkit: unsupported format")
	// ErrTruncated means the file declares more data than it holds.
	ErrTruncated = errors.New("bmpkit: truncated data")
	// ErrIO wraps file open, read and write failures.
	ErrIO = errors.New("bmpkit: i/o failure")
	// ErrInvalidParameter reports bad dimensions, coordinates or cluster counts.
	ErrInvalidParameter = errors.New("bmpkit: invalid parameter")
)
