package pool

import "sync/atomic"

// BufferPool hands out fixed-size byte buffers for stream draining, avoiding
// a fresh allocation per chunk read.
type BufferPool struct {
	buffers chan []byte
	size    int
	gets    int64
	puts    int64
	misses  int64
}

// NewBufferPool pre-allocates count buffers of size bytes each.
func NewBufferPool(count, size int) *BufferPool {
	if count <= 0 {
		count = 1
	}
	if size <= 0 {
		size = 32 * 1024
	}

	p := &BufferPool{
		buffers: make(chan []byte, count),
		size:    size,
	}
	for i := 0; i < count; i++ {
		p.buffers <- make([]byte, size)
	}
	return p
}

// Get returns a buffer from the pool, allocating when the pool is drained.
func (p *BufferPool) Get() []byte {
	atomic.AddInt64(&p.gets, 1)
	select {
	case buf := <-p.buffers:
		return buf
	default:
		atomic.AddInt64(&p.misses, 1)
		return make([]byte, p.size)
	}
}

// Put returns a buffer to the pool. Foreign-sized buffers are dropped.
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) != p.size {
		return
	}
	atomic.AddInt64(&p.puts, 1)
	select {
	case p.buffers <- buf[:p.size]:
	default:
	}
}

// BufferPoolStats holds statistics about the buffer pool.
type BufferPoolStats struct {
	Available  int   `json:"available"`
	BufferSize int   `json:"buffer_size"`
	Gets       int64 `json:"gets"`
	Puts       int64 `json:"puts"`
	Misses     int64 `json:"misses"`
}

// Stats returns current pool statistics.
func (p *BufferPool) Stats() BufferPoolStats {
	return BufferPoolStats{
		Available:  len(p.buffers),
		BufferSize: p.size,
		Gets:       atomic.LoadInt64(&p.gets),
		Puts:       atomic.LoadInt64(&p.puts),
		Misses:     atomic.LoadInt64(&p.misses),
	}
}
