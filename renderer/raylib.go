package renderer

import (
	_ "embed"
	"fmt"
	"image"
	"strconv"
	"strings"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mercurial/paint"
	"github.com/pthm-cable/mercurial/pointer"
	"github.com/pthm-cable/mercurial/postproc"
)

var (
	//go:embed shaders/paint.comp
	paintComputeSource string
	//go:embed shaders/blur.fs
	blurFragmentSource string
	//go:embed shaders/threshold.fs
	thresholdFragmentSource string
)

// GL enums not exported by rlgl.
const (
	glComputeShader = 0x91B9
	glDynamicCopy   = 0x88EA
)

// maxBlurTaps matches the weights array length in blur.fs.
const maxBlurTaps = 64

// TextureDrawable is a drawable that lives on the GPU and can be drawn directly.
type TextureDrawable interface {
	Drawable
	Texture2D() rl.Texture2D
}

// RaylibDevice runs the paint kernel as a GLSL compute shader and the blur and
// threshold passes as fragment shaders into render textures. It must only be used
// from the goroutine that owns the raylib window.
type RaylibDevice struct {
	opts   Options
	groups int

	computeProgram uint32
	compute        rl.Shader // wraps computeProgram for uniform access
	noiseBuffer    uint32
	pointsLoc      int32
	forceLoc       int32
	upperBoundLoc  int32

	blur         rl.Shader
	directionLoc int32
	threshold    rl.Shader

	sim          rl.RenderTexture2D
	scratch      rl.RenderTexture2D
	intermediate rl.RenderTexture2D

	ring      []*gpuDrawable
	displayed *gpuDrawable
}

// NewRaylibDevice compiles the pipeline. The window must already be open and the
// binary built against an OpenGL 4.3 context for the compute pass.
func NewRaylibDevice(opts Options) (*RaylibDevice, error) {
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("%w: no window", ErrDeviceUnavailable)
	}
	groups, err := paint.CheckGeometry(opts.ParticleCount, opts.ExecutionWidth)
	if err != nil {
		return nil, fmt.Errorf("creating paint pipeline: %w", err)
	}
	weights := postproc.GaussianKernel(opts.BlurSigma)
	if len(weights) > maxBlurTaps {
		return nil, fmt.Errorf("blur sigma %g needs %d taps, max %d", opts.BlurSigma, len(weights), maxBlurTaps)
	}

	d := &RaylibDevice{opts: opts, groups: groups}

	// The thread group width is fixed into the shader at pipeline creation.
	src := strings.Replace(paintComputeSource, "EXECUTION_WIDTH", strconv.Itoa(opts.ExecutionWidth), 1)
	shaderID := rl.CompileShader(src, glComputeShader)
	if shaderID == 0 {
		return nil, fmt.Errorf("%w: paint compute shader failed to compile", ErrDeviceUnavailable)
	}
	d.computeProgram = rl.LoadComputeShaderProgram(shaderID)
	if d.computeProgram == 0 {
		return nil, fmt.Errorf("%w: paint compute program failed to link", ErrDeviceUnavailable)
	}
	d.compute = rl.Shader{ID: d.computeProgram}
	d.pointsLoc = rl.GetShaderLocation(d.compute, "points")
	d.forceLoc = rl.GetShaderLocation(d.compute, "force")
	d.upperBoundLoc = rl.GetShaderLocation(d.compute, "upperBound")
	rl.SetShaderValue(d.compute, rl.GetShaderLocation(d.compute, "maxRadius"), []float32{opts.MaxRadius}, rl.ShaderUniformFloat)
	rl.SetShaderValue(d.compute, rl.GetShaderLocation(d.compute, "ink"), []float32{opts.Ink}, rl.ShaderUniformFloat)
	rl.SetShaderValue(d.compute, rl.GetShaderLocation(d.compute, "laneCount"), []float32{float32(opts.ParticleCount)}, rl.ShaderUniformFloat)

	d.noiseBuffer = rl.LoadShaderBuffer(uint32(opts.ParticleCount*4), nil, glDynamicCopy)

	d.blur = rl.LoadShaderFromMemory("", blurFragmentSource)
	if !rl.IsShaderValid(d.blur) {
		d.Close()
		return nil, fmt.Errorf("%w: blur shader failed to compile", ErrDeviceUnavailable)
	}
	d.directionLoc = rl.GetShaderLocation(d.blur, "direction")
	rl.SetShaderValueV(d.blur, rl.GetShaderLocation(d.blur, "weights"), weights, rl.ShaderUniformFloat, int32(len(weights)))
	rl.SetShaderValue(d.blur, rl.GetShaderLocation(d.blur, "halfSize"), []float32{float32(len(weights) / 2)}, rl.ShaderUniformFloat)

	d.threshold = rl.LoadShaderFromMemory("", thresholdFragmentSource)
	if !rl.IsShaderValid(d.threshold) {
		d.Close()
		return nil, fmt.Errorf("%w: threshold shader failed to compile", ErrDeviceUnavailable)
	}
	rl.SetShaderValue(d.threshold, rl.GetShaderLocation(d.threshold, "cutoff"), []float32{opts.Cutoff}, rl.ShaderUniformFloat)
	rl.SetShaderValue(d.threshold, rl.GetShaderLocation(d.threshold, "maximum"), []float32{opts.Maximum}, rl.ShaderUniformFloat)

	size := int32(opts.CanvasSize)
	d.sim = newTarget(size)
	d.scratch = newTarget(size)
	d.intermediate = newTarget(size)
	for i := 0; i < opts.drawables(); i++ {
		d.ring = append(d.ring, &gpuDrawable{dev: d, target: newTarget(size)})
	}

	return d, nil
}

// newTarget creates a cleared, edge-clamped render texture.
func newTarget(size int32) rl.RenderTexture2D {
	rt := rl.LoadRenderTexture(size, size)
	rl.SetTextureWrap(rt.Texture, rl.WrapClamp)
	rl.BeginTextureMode(rt)
	rl.ClearBackground(rl.Black)
	rl.EndTextureMode()
	return rt
}

// Name implements Device.
func (d *RaylibDevice) Name() string { return "raylib" }

// ExecutionWidth implements Device. It is the configured width templated into the
// compute shader's local_size_x, not a value queried from the driver.
func (d *RaylibDevice) ExecutionWidth() int { return d.opts.ExecutionWidth }

// ThreadGroups implements Device.
func (d *RaylibDevice) ThreadGroups() int { return d.groups }

// NewCommandBuffer implements Device.
func (d *RaylibDevice) NewCommandBuffer() CommandBuffer {
	return &gpuCommandBuffer{dev: d}
}

// NextDrawable implements Device.
func (d *RaylibDevice) NextDrawable() Drawable {
	for _, dr := range d.ring {
		if dr.state == drawableFree {
			dr.state = drawableAcquired
			return dr
		}
	}
	return nil
}

// ClearCanvas implements Device.
func (d *RaylibDevice) ClearCanvas() {
	rl.BeginTextureMode(d.sim)
	rl.ClearBackground(rl.Black)
	rl.EndTextureMode()
}

// Close releases every GPU resource.
func (d *RaylibDevice) Close() error {
	if d.computeProgram != 0 {
		rl.UnloadShaderProgram(d.computeProgram)
		d.computeProgram = 0
	}
	if d.noiseBuffer != 0 {
		rl.UnloadShaderBuffer(d.noiseBuffer)
		d.noiseBuffer = 0
	}
	if d.blur.ID != 0 {
		rl.UnloadShader(d.blur)
		d.blur = rl.Shader{}
	}
	if d.threshold.ID != 0 {
		rl.UnloadShader(d.threshold)
		d.threshold = rl.Shader{}
	}
	for _, rt := range []rl.RenderTexture2D{d.sim, d.scratch, d.intermediate} {
		if rt.ID != 0 {
			rl.UnloadRenderTexture(rt)
		}
	}
	for _, dr := range d.ring {
		rl.UnloadRenderTexture(dr.target)
	}
	d.ring = nil
	return nil
}

func (d *RaylibDevice) dispatchPaint(args paint.Args) {
	if args.Sample.Active() == 0 {
		return
	}
	// The buffer update copies the noise, so the field may be reseeded afterwards.
	rl.UpdateShaderBuffer(d.noiseBuffer, unsafe.Pointer(&args.Noise[0]), uint32(len(args.Noise)*4), 0)

	rl.SetShaderValueV(d.compute, d.pointsLoc, args.Sample.Floats(), rl.ShaderUniformVec2, pointer.MaxContacts)
	rl.SetShaderValue(d.compute, d.forceLoc, []float32{args.Sample.Force}, rl.ShaderUniformFloat)
	rl.SetShaderValue(d.compute, d.upperBoundLoc, []float32{float32(args.UpperBound)}, rl.ShaderUniformFloat)

	rl.EnableShader(d.computeProgram)
	rl.BindShaderBuffer(d.noiseBuffer, 0)
	rl.BindImageTexture(d.sim.Texture.ID, 1, int32(rl.UncompressedR8g8b8a8), false)
	rl.ComputeShaderDispatch(uint32(d.groups), 1, 1)
	rl.DisableShader()
}

func (d *RaylibDevice) dispatchBlur() {
	rl.SetShaderValue(d.blur, d.directionLoc, []float32{1, 0}, rl.ShaderUniformVec2)
	drawPass(d.blur, d.sim.Texture, d.scratch)
	rl.SetShaderValue(d.blur, d.directionLoc, []float32{0, 1}, rl.ShaderUniformVec2)
	drawPass(d.blur, d.scratch.Texture, d.intermediate)
}

// drawPass draws src through shader into dst as a full-target quad.
func drawPass(shader rl.Shader, src rl.Texture2D, dst rl.RenderTexture2D) {
	rl.BeginTextureMode(dst)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(shader)
	// Negative source height keeps texel rows in place across render texture passes.
	source := rl.NewRectangle(0, 0, float32(src.Width), -float32(src.Height))
	rl.DrawTextureRec(src, source, rl.NewVector2(0, 0), rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()
}

type gpuDrawable struct {
	dev    *RaylibDevice
	target rl.RenderTexture2D
	state  drawableState
}

func (g *gpuDrawable) Present() {
	d := g.dev
	if d.displayed != nil && d.displayed != g {
		d.displayed.state = drawableFree
	}
	g.state = drawableDisplayed
	d.displayed = g
}

func (g *gpuDrawable) Discard() {
	if g.state == drawableAcquired {
		g.state = drawableFree
	}
}

// Snapshot reads the drawable back from the GPU. The red channel carries the mask.
func (g *gpuDrawable) Snapshot() *image.Gray {
	img := rl.LoadImageFromTexture(g.target.Texture)
	defer rl.UnloadImage(img)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	w, h := int(g.target.Texture.Width), int(g.target.Texture.Height)
	out := image.NewGray(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		out.Pix[i] = colors[i].R
	}
	return out
}

func (g *gpuDrawable) Texture2D() rl.Texture2D {
	return g.target.Texture
}

type gpuCommandBuffer struct {
	commandList
	dev *RaylibDevice
}

func (c *gpuCommandBuffer) EncodePaint(args paint.Args) {
	noise := append([]int32(nil), args.Noise...)
	args.Noise = noise
	c.record(func() { c.dev.dispatchPaint(args) })
}

func (c *gpuCommandBuffer) EncodeBlur() {
	c.record(c.dev.dispatchBlur)
}

func (c *gpuCommandBuffer) EncodeThreshold(dst Drawable) {
	target := dst.(*gpuDrawable)
	c.record(func() {
		drawPass(c.dev.threshold, c.dev.intermediate.Texture, target.target)
	})
}
