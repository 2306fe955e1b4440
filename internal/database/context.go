package database

import (
	"context"
	"time"
)

const defaultQueryTimeout = 5 * time.Second

func (d *Database) withDBContext(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := d.boundContext(ctx)
	defer cancel()
	return fn(ctx)
}

func withDBContextResult[T any](d *Database, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := d.boundContext(ctx)
	defer cancel()
	return fn(ctx)
}

func (d *Database) boundContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok || d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}
