package sim

import (
	"sync"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// ViewPool recycles body-view buffers for frames that are observed but
// not kept.
type ViewPool struct {
	pool sync.Pool
}

func NewViewPool() *ViewPool {
	return &ViewPool{
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]dynamo.BodyView, 0, 16)
				return &s
			},
		},
	}
}

// Get returns an empty buffer.
func (p *ViewPool) Get() []dynamo.BodyView {
	return (*p.pool.Get().(*[]dynamo.BodyView))[:0]
}

func (p *ViewPool) Put(s []dynamo.BodyView) {
	s = s[:0]
	p.pool.Put(&s)
}
