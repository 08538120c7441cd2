package exception

import "errors"

// Cluster errors
var (
	ErrInvalidPartition  = errors.New("cluster: invalid partition")
	ErrForeignRun        = errors.New("cluster: report belongs to another run")
	ErrDuplicateRank     = errors.New("cluster: duplicate rank report")
	ErrSizeMismatch      = errors.New("cluster: size mismatch")
	ErrMissingReports    = errors.New("cluster: missing reports")
	ErrCollectorClosed   = errors.New("cluster: collector closed")
	ErrShutdown          = errors.New("cluster: shutdown")
	ErrUnknownFrame      = errors.New("cluster: unknown frame type")
	ErrInvalidMergeMode  = errors.New("cluster: invalid merge mode")
	ErrNilReporterClient = errors.New("cluster: nil reporter client")
)
