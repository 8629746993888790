package postproc

import (
	"github.com/pthm-cable/mercurial/parallel"
	"github.com/pthm-cable/mercurial/texture"
)

// Threshold writes max where src is strictly above cutoff and 0 elsewhere.
func Threshold(src, dst *texture.Texture, cutoff, max float32) {
	for i, v := range src.Pix {
		if v > cutoff {
			dst.Pix[i] = max
		} else {
			dst.Pix[i] = 0
		}
	}
}

// Chain is the two-pass post-process: blur into the intermediate texture, then
// threshold into the presented texture. It holds no per-frame state.
type Chain struct {
	Sigma   float64
	Cutoff  float32
	Maximum float32

	pool *parallel.Pool
}

// NewChain creates a chain. pool may be nil for single-threaded filtering.
func NewChain(sigma float64, cutoff, maximum float32, pool *parallel.Pool) *Chain {
	return &Chain{
		Sigma:   sigma,
		Cutoff:  cutoff,
		Maximum: maximum,
		pool:    pool,
	}
}

// Blur runs pass 1.
func (c *Chain) Blur(sim, intermediate *texture.Texture) {
	Blur(sim, intermediate, c.Sigma, c.pool)
}

// Threshold runs pass 2.
func (c *Chain) Threshold(intermediate, out *texture.Texture) {
	Threshold(intermediate, out, c.Cutoff, c.Maximum)
}

// Apply runs both passes in order.
func (c *Chain) Apply(sim, intermediate, out *texture.Texture) {
	c.Blur(sim, intermediate)
	c.Threshold(intermediate, out)
}
