package system

import (
	"context"
	"io"
)

// Reader wraps r so that every Read first checks ctx. Once ctx is cancelled
// or its deadline passes, Read returns ctx.Err() without touching r, which
// lets a long streaming loop stop at the next chunk boundary.
func Reader(ctx context.Context, r io.Reader) io.Reader {
	if ctx == nil || ctx.Done() == nil {
		return r
	}
	return &contextReader{ctx: ctx, r: r}
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
