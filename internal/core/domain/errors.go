package domain

import "errors"

var (
	// ErrDecode indicates digest text was not valid hexadecimal.
	ErrDecode = errors.New("unable to hex decode checksum")

	// ErrLength indicates a digest did not describe exactly 32 bytes.
	ErrLength = errors.New("invalid checksum length")
)
