package pool

import (
	"sync"
)

// BufferPool manages a pool of fixed size byte slices used as read chunks.
type BufferPool struct {
	size int       // Size of each buffer.
	pool sync.Pool // Thread-safe pool of buffers.
}

// Creates a new buffer pool with a specified buffer size.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
}

// Retrieves a zeroed buffer of exactly Size bytes from the pool.
// The caller owns it exclusively until it is returned with Put.
func (bp *BufferPool) Get() *[]byte {
	return bp.pool.Get().(*[]byte)
}

// Returns a buffer to the pool.
func (bp *BufferPool) Put(buf *[]byte) {
	// Don't pool buffers that were resliced or did not come from this pool.
	if buf == nil || len(*buf) != bp.size || cap(*buf) != bp.size {
		return
	}

	clear(*buf) // Ensure the next borrower starts clean.
	bp.pool.Put(buf)
}

// Size returns the length of every buffer handed out by the pool.
func (bp *BufferPool) Size() int {
	return bp.size
}
