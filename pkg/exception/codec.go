package exception

import "errors"

// Codec errors
var (
	ErrInvalidMagic        = errors.New("codec: invalid magic")
	ErrUnsupportedVersion  = errors.New("codec: unsupported frame version")
	ErrInvalidHeaderSize   = errors.New("codec: invalid header size")
	ErrChecksumMismatch    = errors.New("codec: checksum mismatch")
	ErrPayloadTooLarge     = errors.New("codec: payload too large")
	ErrPayloadSizeMismatch = errors.New("codec: payload size mismatch")
)
