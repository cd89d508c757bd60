package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput forwards window events to the field and handles keyboard controls.
func (g *Game) handleInput() {
	g.handleResize()
	g.handlePointer()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.toggleTheme()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.field.Reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}
	if rl.IsKeyPressed(rl.KeyD) {
		g.debugMode = !g.debugMode
	}
}

// handleResize checks for window resize and rebuilds the grid.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.field.Resize(float64(w), float64(h))
	if g.perfPanel != nil {
		g.perfPanel.SetPosition(int32(w)-260, 10)
	}
}

// handlePointer latches the pointer position and clicks.
func (g *Game) handlePointer() {
	if !rl.IsCursorOnScreen() {
		g.field.ClearPointer()
		return
	}

	pos := rl.GetMousePosition()
	g.field.SetPointer(float64(pos.X), float64(pos.Y))

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.field.Click(float64(pos.X), float64(pos.Y))
	}
}

// toggleTheme swaps between the dark and light palettes.
func (g *Game) toggleTheme() {
	g.darkMode = !g.darkMode
	t := g.theme()
	g.styler.SetTheme(t)
	g.background.SetTheme(t)
	g.hud.SetBackground(t.Background)
	g.logThemeChange(t.Name)
}
