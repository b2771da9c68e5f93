// Package requestcontext carries per-request values (request id, acting user,
// request time) through context.Context.
package requestcontext

import (
	"context"
	"time"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	actorKey
	timeKey
	clientIPKey
)

// SystemActor is recorded as the author of changes made outside a request,
// such as the repair worker or a CLI reindex.
const SystemActor = "system"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the acting user for audit columns, falling back to SystemActor.
func Actor(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey).(string); ok && v != "" {
		return v
	}
	return SystemActor
}

// WithTime pins the request time so every write in a request shares one timestamp.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey, t)
}

// Now returns the pinned request time, or the current UTC time when none is set.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(timeKey).(time.Time); ok && !v.IsZero() {
		return v
	}
	return time.Now().UTC()
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok {
		return v
	}
	return ""
}
