package observability

import "go.uber.org/zap"

// Field constructors re-exported so callers do not import zap directly.
//
//nolint:gochecknoglobals // Aliases of zap constructors
var (
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Error    = zap.Error
	Any      = zap.Any
)
