// Package app assembles the painting surface, light rig, device and telemetry into
// a runnable program, either in a raylib window or headless.
package app

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mercurial/camera"
	"github.com/pthm-cable/mercurial/config"
	"github.com/pthm-cable/mercurial/lightrig"
	"github.com/pthm-cable/mercurial/parallel"
	"github.com/pthm-cable/mercurial/particles"
	"github.com/pthm-cable/mercurial/pointer"
	"github.com/pthm-cable/mercurial/relief"
	"github.com/pthm-cable/mercurial/renderer"
	"github.com/pthm-cable/mercurial/surface"
	"github.com/pthm-cable/mercurial/telemetry"
	"github.com/pthm-cable/mercurial/ui"
)

// Options configures an App.
type Options struct {
	Seed           int64
	LogStats       bool    // Log perf, stats and relief summaries
	StatsWindowSec float64 // Seconds of frames per stats window
	OutputDir      string  // Directory for CSV logs and images (empty = disabled)
	Headless       bool    // No window; implies the software device
	Software       bool    // Use the software device even with a window
}

// App holds the complete program state.
type App struct {
	opts Options
	rng  *rand.Rand

	// Frame work and relief work never share a pool.
	framePool  *parallel.Pool
	reliefPool *parallel.Pool

	field   *particles.Field
	rig     *lightrig.Rig
	device  renderer.Device
	surface *surface.Surface

	// Telemetry
	perf        *telemetry.PerfCollector
	reliefLog   *telemetry.ReliefLog
	output      *telemetry.OutputManager
	frame       uint64
	windowStart time.Time
	windowFrame uint64
	windowBase  surface.Stats

	// Window only
	camera       *camera.Camera
	panel        *ui.ParameterPanel
	hud          *ui.HUD
	perfPanel    *ui.PerfPanel
	display      *ui.ImageTexture
	shown        image.Image // Last image uploaded to display
	showPerf     bool
	pointerDown  bool
	screenWidth  float32
	screenHeight float32
}

// New builds the app. With a window, the window must already be open.
func New(opts Options) (*App, error) {
	cfg := config.Cfg()
	a := &App{
		opts:        opts,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		reliefLog:   telemetry.NewReliefLog(),
		windowStart: time.Now(),
	}
	a.framePool, a.reliefPool = newPools(cfg.Relief.Workers)

	arena, err := particles.NewArena(cfg.Particles.Count, cfg.Particles.Alignment)
	if err != nil {
		return nil, fmt.Errorf("allocating particles: %w", err)
	}
	a.field, err = particles.NewField(arena, cfg.Particles.UpperBound, a.rng)
	if err != nil {
		arena.Release()
		return nil, fmt.Errorf("creating particle field: %w", err)
	}

	a.rig, err = lightrig.NewRig(lightrig.DefaultGroups(), cfg.Relief.Ambient)
	if err != nil {
		return nil, fmt.Errorf("creating light rig: %w", err)
	}

	a.device, err = a.newDevice()
	if err != nil {
		return nil, err
	}
	slog.Info("device ready",
		"device", a.device.Name(),
		"particles", a.field.Len(),
		"execution_width", a.device.ExecutionWidth(),
		"thread_groups", a.device.ThreadGroups(),
	)

	a.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := a.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	a.surface, err = surface.New(surface.Options{
		Device:   a.device,
		Field:    a.field,
		Tracker:  pointer.NewTracker(float32(cfg.Input.SurfaceScale), float32(cfg.Input.DefaultForce), cfg.Input.MaxContacts),
		Shader:   relief.NewShaderFromConfig(a.reliefPool),
		Lights:   a.rig,
		Perf:     a.perf,
		OnRelief: a.observeRelief,
	})
	if err != nil {
		return nil, err
	}

	if !opts.Headless {
		a.initWindow()
	}
	a.refreshShading()
	return a, nil
}

// newPools creates the frame pool (GOMAXPROCS workers) and the relief pool.
// reliefWorkers <= 0 gives the relief pool half of GOMAXPROCS, at least one.
func newPools(reliefWorkers int) (framePool, reliefPool *parallel.Pool) {
	if reliefWorkers <= 0 {
		reliefWorkers = max(1, runtime.GOMAXPROCS(0)/2)
	}
	return parallel.NewPool(0), parallel.NewPool(reliefWorkers)
}

func (a *App) newDevice() (renderer.Device, error) {
	cfg := config.Cfg()
	devOpts := renderer.OptionsFromConfig()
	if a.opts.Headless || a.opts.Software || cfg.GPU.Software {
		return renderer.NewSoftwareDevice(devOpts, a.framePool)
	}
	dev, err := renderer.NewRaylibDevice(devOpts)
	if err != nil {
		return nil, fmt.Errorf("creating raylib device: %w", err)
	}
	return dev, nil
}

func (a *App) initWindow() {
	cfg := config.Cfg()
	a.screenWidth = float32(rl.GetScreenWidth())
	a.screenHeight = float32(rl.GetScreenHeight())
	panelW := float32(cfg.Screen.PanelWidth)
	view := float32(cfg.Derived.ViewSize)

	a.camera = camera.New(a.screenWidth-panelW, a.screenHeight, view, view)
	a.panel = ui.NewParameterPanel(a.rig, int32(a.screenWidth-panelW), 0, int32(panelW), int32(a.screenHeight))
	a.hud = ui.NewHUD()
	a.perfPanel = ui.NewPerfPanel(10, a.hud.Height()+10)
	a.display = &ui.ImageTexture{}
}

// refreshShading re-renders the shading image after a rig change.
func (a *App) refreshShading() {
	if !a.rig.ConsumeChanged() {
		return
	}
	img := lightrig.RenderPreview(a.rig.Snapshot(), config.Cfg().Relief.PreviewSize)
	a.surface.SetShadingImage(img)
	if a.panel != nil {
		a.panel.SetPreview(img)
	}
}

// step runs one frame of the surface and the telemetry around it.
func (a *App) step() {
	a.refreshShading()
	if err := a.surface.Tick(); err != nil && !errors.Is(err, renderer.ErrNoDrawable) {
		slog.Error("frame failed", "error", err)
	}
	a.frame++
	a.flushTelemetry(false)
}

// Update processes input and runs one frame. Draw must follow.
func (a *App) Update() {
	a.perf.RecordFrame()
	a.perf.StartTick()
	a.handleInput()
	a.step()
}

// Frame returns the number of frames stepped.
func (a *App) Frame() uint64 {
	return a.frame
}

// Surface exposes the presentation surface.
func (a *App) Surface() *surface.Surface {
	return a.surface
}

// Unload flushes telemetry and releases every resource.
func (a *App) Unload() {
	a.flushTelemetry(true)
	if err := a.surface.Close(); err != nil {
		slog.Error("failed to close device", "error", err)
	}
	if a.panel != nil {
		a.panel.Close()
	}
	if a.display != nil {
		a.display.Unload()
	}
	if err := a.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	a.field.Release()
	a.reliefPool.Stop()
	a.framePool.Stop()
}
