package main

import (
	"image/color"
	"log"

	"github.com/Long-Lost-AS/LostEditor/editor"
	"github.com/Long-Lost-AS/LostEditor/level"
	"github.com/Long-Lost-AS/LostEditor/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
)

const toolbarHeight = 48

// Game is the Ebiten shell around the editing session. Input handling
// lives in Update; Draw only replays cached chunk surfaces plus the
// UI.
type Game struct {
	session  *editor.Session
	renderer *render.Renderer
	ui       *editorUI
	watcher  *level.Watcher

	levelPath string
	tool      Tool

	screenW, screenH int
	painting         bool
	panning          bool
	lastX, lastY     int
	frame            []render.DrawCommand
}

func newGame(session *editor.Session, renderer *render.Renderer, watcher *level.Watcher, levelPath string) *Game {
	g := &Game{
		session:   session,
		renderer:  renderer,
		watcher:   watcher,
		levelPath: levelPath,
		screenW:   1280,
		screenH:   800,
	}
	g.ui = buildUI(func(tool Tool) { g.tool = tool })
	return g
}

func (g *Game) Update() error {
	g.ui.Update()
	g.drainWatcher()
	g.handleKeys()
	g.handleCamera()
	g.handlePaint()
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case r, ok := <-g.watcher.Reloads:
			if !ok {
				g.watcher = nil
				return
			}
			if err := installTileset(g.session, g.renderer, r.Tileset, r.Path); err != nil {
				log.Printf("reload %s: %v", r.Path, err)
				continue
			}
			g.renderer.Cache().InvalidateAll()
			g.session.RequestRedraw()
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("tileset watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.session.Undo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.session.Redo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := level.SaveMap(g.session.Map(), g.levelPath); err != nil {
			log.Printf("save: %v", err)
		}
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyLevel()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if g.painting {
			g.session.CancelStroke()
			g.painting = false
		}
	}
}

func (g *Game) copyLevel() {
	data, err := g.session.Map().Encode()
	if err != nil {
		log.Printf("copy: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
}

func (g *Game) handleCamera() {
	x, y := ebiten.CursorPosition()

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		cam := g.session.Camera()
		factor := 1.1
		if wheelY < 0 {
			factor = 1 / 1.1
		}
		// Zoom around the cursor so the cell under it stays put.
		vp := g.session.Viewport(g.screenW, g.screenH)
		cx, cy := vp.ScreenToCanvas(float64(x), float64(y))
		cam.Zoom *= factor
		if cam.Zoom < 0.1 {
			cam.Zoom = 0.1
		}
		if cam.Zoom > 16 {
			cam.Zoom = 16
		}
		cam.X = cx - float64(x)/cam.Zoom
		cam.Y = cy - float64(y)/cam.Zoom
		g.session.SetCamera(cam)
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		g.panning = true
		g.session.BeginCameraGesture()
		g.lastX, g.lastY = x, y
	case g.panning && ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		cam := g.session.Camera()
		cam.X -= float64(x-g.lastX) / cam.Zoom
		cam.Y -= float64(y-g.lastY) / cam.Zoom
		g.session.SetCamera(cam)
		g.lastX, g.lastY = x, y
	case g.panning:
		g.panning = false
		g.session.EndCameraGesture()
	}
}

func (g *Game) handlePaint() {
	x, y := ebiten.CursorPosition()
	overUI := y < toolbarHeight

	vp := g.session.Viewport(g.screenW, g.screenH)
	cellX, cellY := vp.Cell(float64(x), float64(y), g.session.Map().CellSize)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !overUI {
		if g.tool == ToolFill {
			g.session.StartStroke()
			g.session.Fill(cellX, cellY)
			g.session.EndStroke()
			return
		}
		g.painting = true
		g.session.StartStroke()
	}

	if g.painting && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		switch g.tool {
		case ToolBrush:
			g.session.Paint(cellX, cellY)
		case ToolErase:
			g.session.Erase(cellX, cellY)
		}
		return
	}

	if g.painting {
		g.painting = false
		g.session.EndStroke()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 36, 255})

	if g.session.ConsumeRedraw() || g.frame == nil {
		g.frame = g.session.Render(g.renderer, g.screenW, g.screenH)
	}
	for i := range g.frame {
		screen.DrawImage(g.frame[i].Image, &g.frame[i].Options)
	}

	g.ui.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.screenW || outsideHeight != g.screenH {
		g.screenW, g.screenH = outsideWidth, outsideHeight
		g.session.RequestRedraw()
	}
	return outsideWidth, outsideHeight
}
