// Shader debug tool - runs the same stroke through the GPU and CPU devices and
// writes both masks plus a difference image for inspection.
//
// Usage: go run ./cmd/shaderdebug -frames 30 -out debug
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mercurial/config"
	"github.com/pthm-cable/mercurial/paint"
	"github.com/pthm-cable/mercurial/particles"
	"github.com/pthm-cable/mercurial/pointer"
	"github.com/pthm-cable/mercurial/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outDir := flag.String("out", "debug", "Output directory for PNGs")
	frames := flag.Int("frames", 30, "Frames to paint")
	seed := flag.Int64("seed", 1, "RNG seed for the particle noise")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	opts := renderer.OptionsFromConfig()

	// The GPU device needs a GL context
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(opts.CanvasSize), int32(opts.CanvasSize), "Shader Debug")
	defer rl.CloseWindow()

	gpu, err := renderer.NewRaylibDevice(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create GPU device: %v\n", err)
		os.Exit(1)
	}
	defer gpu.Close()
	cpu, err := renderer.NewSoftwareDevice(opts, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create CPU device: %v\n", err)
		os.Exit(1)
	}

	arena, err := particles.NewArena(cfg.Particles.Count, cfg.Particles.Alignment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to allocate particles: %v\n", err)
		os.Exit(1)
	}
	field, err := particles.NewField(arena, cfg.Particles.UpperBound, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create field: %v\n", err)
		os.Exit(1)
	}
	defer field.Release()

	center := float32(opts.CanvasSize) / 2
	tracker := pointer.NewTracker(1, float32(cfg.Input.DefaultForce), pointer.MaxContacts)
	tracker.Begin(pointer.Event{Positions: []pointer.Point{{X: center, Y: center}}})

	var gpuMask, cpuMask *image.Gray
	for i := 0; i < *frames; i++ {
		args := paint.Args{
			Noise:      field.Values(),
			UpperBound: field.UpperBound(),
			Sample:     tracker.Sample(),
		}
		gpuMask = runFrame(gpu, args)
		cpuMask = runFrame(cpu, args)
		if gpuMask == nil || cpuMask == nil {
			fmt.Fprintf(os.Stderr, "Frame %d: no drawable available\n", i)
			os.Exit(1)
		}
		field.Reseed()
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output dir: %v\n", err)
		os.Exit(1)
	}
	diff, differing := diffMasks(gpuMask, cpuMask)
	for name, img := range map[string]image.Image{"gpu.png": gpuMask, "cpu.png": cpuMask, "diff.png": diff} {
		if err := writePNG(filepath.Join(*outDir, name), img); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	total := len(gpuMask.Pix)
	fmt.Printf("Masks written to: %s (%dx%d, %d frames)\n", *outDir, opts.CanvasSize, opts.CanvasSize, *frames)
	fmt.Printf("Differing texels: %d / %d (%.3f%%)\n", differing, total, 100*float64(differing)/float64(total))
}

func runFrame(dev renderer.Device, args paint.Args) *image.Gray {
	drawable := dev.NextDrawable()
	if drawable == nil {
		return nil
	}
	cb := dev.NewCommandBuffer()
	cb.EncodePaint(args)
	cb.EncodeBlur()
	cb.EncodeThreshold(drawable)
	if err := cb.Commit(); err != nil {
		return nil
	}
	drawable.Present()
	return drawable.Snapshot()
}

// diffMasks marks texels set on only one side: red for GPU only, blue for CPU only.
func diffMasks(gpu, cpu *image.Gray) (*image.RGBA, int) {
	b := gpu.Bounds()
	out := image.NewRGBA(b)
	differing := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := gpu.GrayAt(x, y).Y
			c := cpu.GrayAt(x, y).Y
			switch {
			case g == c:
				out.SetRGBA(x, y, color.RGBA{g / 4, g / 4, g / 4, 255})
			case g > c:
				out.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
				differing++
			default:
				out.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
				differing++
			}
		}
	}
	return out, differing
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
