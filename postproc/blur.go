// Package postproc converts the raw paint texture into the binary mask shown to the
// user: a separable Gaussian blur followed by a binary threshold.
package postproc

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/mercurial/parallel"
	"github.com/pthm-cable/mercurial/texture"
)

// GaussianKernel generates a 1D Gaussian kernel for the given sigma.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is 2 * ceil(sigma * 3) + 1, which covers 99.7% of the
// distribution. For sigma <= 0, returns a single-element identity kernel.
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1

	weights := make([]float64, size)
	twoSigmaSq := 2 * sigma * sigma
	for i := range weights {
		x := float64(i - halfSize)
		weights[i] = math.Exp(-(x * x) / twoSigmaSq)
	}
	floats.Scale(1/floats.Sum(weights), weights)

	kernel := make([]float32, size)
	for i, w := range weights {
		kernel[i] = float32(w)
	}
	return kernel
}

// kernelCache caches computed Gaussian kernels keyed by sigma * 100.
type kernelCache struct {
	mu    sync.RWMutex
	cache map[int][]float32
}

var defaultKernelCache = &kernelCache{cache: make(map[int][]float32)}

// CachedGaussianKernel returns a shared kernel for sigma. Callers must not modify it.
func CachedGaussianKernel(sigma float64) []float32 {
	return defaultKernelCache.get(sigma)
}

func (c *kernelCache) get(sigma float64) []float32 {
	key := int(sigma * 100)

	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := GaussianKernel(float64(key) / 100)

	c.mu.Lock()
	c.cache[key] = kernel
	c.mu.Unlock()
	return kernel
}

// tempPool recycles the float buffers holding the horizontal pass.
var tempPool = sync.Pool{
	New: func() any { return new([]float32) },
}

func getTempBuffer(n int) *[]float32 {
	buf := tempPool.Get().(*[]float32)
	if cap(*buf) < n {
		*buf = make([]float32, n)
	}
	*buf = (*buf)[:n]
	return buf
}

// Blur applies a separable Gaussian blur from src into dst with edge extension.
// src and dst must be the same size and may not alias.
func Blur(src, dst *texture.Texture, sigma float64, pool *parallel.Pool) {
	if sigma <= 0 {
		dst.CopyFrom(src)
		return
	}

	kernel := CachedGaussianKernel(sigma)
	w, h := src.Width, src.Height

	temp := getTempBuffer(w * h)
	defer tempPool.Put(temp)
	tmp := *temp

	run := func(n int, fn func(start, end int)) {
		if pool != nil {
			pool.Run(n, fn)
		} else {
			fn(0, n)
		}
	}

	// Pass 1: horizontal (src -> temp), one row per item
	run(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			blurRow(src.Pix[y*w:(y+1)*w], tmp[y*w:(y+1)*w], kernel)
		}
	})

	// Pass 2: vertical (temp -> dst), one column per item
	run(w, func(x0, x1 int) {
		for x := x0; x < x1; x++ {
			blurColumn(tmp, dst.Pix, x, w, h, kernel)
		}
	})
}

// blurRow convolves one row with the kernel, clamping at the row ends.
func blurRow(src, dst []float32, kernel []float32) {
	half := len(kernel) / 2
	last := len(src) - 1
	for x := range dst {
		var sum float32
		for k, weight := range kernel {
			kx := x + k - half
			if kx < 0 {
				kx = 0
			} else if kx > last {
				kx = last
			}
			sum += src[kx] * weight
		}
		dst[x] = sum
	}
}

// blurColumn convolves column x of src into dst, clamping at the column ends.
func blurColumn(src, dst []float32, x, w, h int, kernel []float32) {
	half := len(kernel) / 2
	for y := 0; y < h; y++ {
		var sum float32
		for k, weight := range kernel {
			ky := y + k - half
			if ky < 0 {
				ky = 0
			} else if ky >= h {
				ky = h - 1
			}
			sum += src[ky*w+x] * weight
		}
		dst[y*w+x] = sum
	}
}
