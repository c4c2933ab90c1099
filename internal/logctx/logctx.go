// Package logctx carries a zerolog logger through context.Context.
//
// The CLI attaches the configured logger once; the harness enriches it with
// the fields of the measurement in progress:
//
//	ctx = logctx.WithLogger(ctx, *logging.L())
//	ctx = logctx.WithAlgorithm(ctx, sorting.Tree)
//	log := logctx.FromContext(ctx)
//	log.Debug().Msg("timing")
package logctx

import (
	"context"
	"fmt"

	"github.com/naastyyshha/sortbench/pkg/logging"
	"github.com/rs/zerolog"
)

type loggerKey struct{}

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from the context. Without one it falls back
// to the global logger from pkg/logging; it never returns a zero logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return logger
		}
	}
	return *logging.L()
}

// WithStr returns a new context whose logger has a string field added.
func WithStr(ctx context.Context, key, value string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With().Str(key, value).Logger())
}

// WithInt returns a new context whose logger has an int field added.
func WithInt(ctx context.Context, key string, value int) context.Context {
	return WithLogger(ctx, FromContext(ctx).With().Int(key, value).Logger())
}

// WithAlgorithm tags log lines with the algorithm being measured.
func WithAlgorithm(ctx context.Context, alg fmt.Stringer) context.Context {
	return WithStr(ctx, "algorithm", alg.String())
}

// WithCase tags log lines with the input distribution.
func WithCase(ctx context.Context, c fmt.Stringer) context.Context {
	return WithStr(ctx, "case", c.String())
}

// WithSize tags log lines with the input length.
func WithSize(ctx context.Context, n int) context.Context {
	return WithInt(ctx, "n", n)
}
