package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mercurial/camera"
	"github.com/pthm-cable/mercurial/config"
	"github.com/pthm-cable/mercurial/pointer"
)

// handleInput processes keyboard, mouse and touch input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.surface.Clear()
		a.pointerDown = false
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.showPerf = !a.showPerf
	}

	a.handleCameraInput()
	a.handlePointer()
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h

	panelW := float32(config.Cfg().Screen.PanelWidth)
	a.camera.Resize(w-panelW, h)
	a.panel.SetBounds(int32(w-panelW), 0, int32(panelW), int32(h))
}

// handleCameraInput processes camera pan/zoom controls.
func (a *App) handleCameraInput() {
	panSpeed := float32(8.0)
	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Pan(0, -panSpeed)
	}

	// Right drag pans
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		a.camera.Pan(-d.X, -d.Y)
	}

	mouse := rl.GetMousePosition()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && mouse.X < a.camera.ViewportW {
		a.camera.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}

// handlePointer turns touches, or the left mouse button when there are none, into
// surface pointer events. A gesture only starts on the canvas; once started it
// follows the pointer anywhere.
func (a *App) handlePointer() {
	var screen []rl.Vector2
	if n := rl.GetTouchPointCount(); n > 0 {
		for i := int32(0); i < n; i++ {
			screen = append(screen, rl.GetTouchPosition(i))
		}
	} else if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		screen = append(screen, rl.GetMousePosition())
	}

	down := len(screen) > 0
	switch {
	case down && !a.pointerDown:
		if !onCanvas(a.camera, screen[0]) {
			return
		}
		a.surface.PointerDown(pointerEvent(a.camera, screen))
		a.pointerDown = true
	case down && a.pointerDown:
		a.surface.PointerMove(pointerEvent(a.camera, screen))
	case !down && a.pointerDown:
		a.surface.PointerUp()
		a.pointerDown = false
	}
}

// onCanvas reports whether a screen position lands on the canvas.
func onCanvas(cam *camera.Camera, p rl.Vector2) bool {
	if p.X >= cam.ViewportW || p.Y >= cam.ViewportH {
		return false
	}
	vx, vy := cam.ScreenToCanvas(p.X, p.Y)
	return cam.Contains(vx, vy)
}

// pointerEvent maps screen positions to view coordinates. Neither mouse nor
// raylib touch input reports pressure.
func pointerEvent(cam *camera.Camera, screen []rl.Vector2) pointer.Event {
	ev := pointer.Event{Positions: make([]pointer.Point, 0, len(screen))}
	for _, p := range screen {
		vx, vy := cam.ScreenToCanvas(p.X, p.Y)
		ev.Positions = append(ev.Positions, pointer.Point{X: vx, Y: vy})
	}
	return ev
}
