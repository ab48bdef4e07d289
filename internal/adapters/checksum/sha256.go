package checksum

import (
	"context"
	sha256_lib "crypto/sha256"
	"io"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/pkg/pool"
	"github.com/iamNilotpal/checksum/pkg/system"
)

// Mirrors bufio: a reader that keeps returning (0, nil) is treated as broken.
const maxConsecutiveEmptyReads = 100

// Engine streams sources through SHA-256 using fixed size chunks, so memory
// use per computation is one chunk no matter how long the source is.
// An Engine is safe for concurrent use; every Compute call borrows its own
// chunk and hash state.
type Engine struct {
	name string
	pool *pool.BufferPool
}

// NewEngine returns an Engine reading chunkSize bytes at a time.
// A non-positive chunkSize selects domain.DefaultChunkSize.
func NewEngine(chunkSize int) *Engine {
	if chunkSize <= 0 {
		chunkSize = domain.DefaultChunkSize
	}
	return &Engine{name: SHA256, pool: pool.NewBufferPool(chunkSize)}
}

// Compute hashes everything r delivers until io.EOF. Only the n bytes
// returned by each Read are fed to the hash, so a short final chunk never
// picks up bytes left over from an earlier, longer one.
func (e *Engine) Compute(ctx context.Context, r io.Reader) (domain.Checksum, int64, error) {
	buf := e.pool.Get()
	defer e.pool.Put(buf)

	h := sha256_lib.New()
	src := system.Reader(ctx, r)

	var total int64
	empty := 0
	for {
		n, err := src.Read(*buf)
		if n > 0 {
			h.Write((*buf)[:n])
			total += int64(n)
			empty = 0
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Checksum{}, 0, err
		}

		if n == 0 {
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return domain.Checksum{}, 0, io.ErrNoProgress
			}
		}
	}

	var sum domain.Checksum
	h.Sum(sum[:0])
	return sum, total, nil
}

func (e *Engine) ChunkSize() int {
	return e.pool.Size()
}

func (e *Engine) Name() string {
	return e.name
}
