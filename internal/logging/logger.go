// Package logging defines the small structured-logging surface the client
// depends on, so packages are not tied to a concrete logging backend.
package logging

import "context"

// Logger is a context-aware structured logger. Variadic args are
// alternating key-value pairs:
//
//	log.Info(ctx, "session restored", "user", u.Username)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given pairs.
	With(args ...any) Logger
}

// Nop is a Logger that discards everything. Useful as a default in tests.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
