package tcp

import "sync"

// defaultBufSize mirrors the teacher's maxRawSize read-buffer sizing: large
// enough for a typical request line plus headers without a realloc, small
// enough that a pool of them stays cheap.
const defaultBufSize = 1<<16 - 1

// BufferPool hands out reusable byte slices for connection read buffers, so
// steady-state request handling does not allocate once the pool has warmed
// up, the same trade the teacher makes with its package-level bufPool.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool constructs a pool of buffers of the given size. A size of 0
// uses defaultBufSize.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		size = defaultBufSize
	}
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
}

// Get returns a buffer ready for use, its length unspecified beyond "at
// least the configured size" — callers slice it down as needed.
func (p *BufferPool) Get() []byte {
	b := p.pool.Get().(*[]byte)
	return *b
}

// Put returns a buffer to the pool. Callers must not retain b afterwards.
func (p *BufferPool) Put(b []byte) {
	p.pool.Put(&b)
}
