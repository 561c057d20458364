package main

import (
	"flag"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/Long-Lost-AS/LostEditor/editor"
	"github.com/Long-Lost-AS/LostEditor/level"
	"github.com/Long-Lost-AS/LostEditor/render"
	"github.com/Long-Lost-AS/LostEditor/terrain"
	"github.com/Long-Lost-AS/LostEditor/tile"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
)

func main() {
	var (
		levelPath  = flag.String("level", "level.json", "level file to open or create")
		tilesetDir = flag.String("tilesets", "tilesets", "directory of tileset specs")
		macroPath  = flag.String("macro", "", "editing script to run on startup")
		width      = flag.Int("width", 64, "grid width for new levels")
		height     = flag.Int("height", 48, "grid height for new levels")
		cellSize   = flag.Int("cell", 16, "cell size in pixels for new levels")
	)
	flag.Parse()

	registry := level.NewRegistry()
	renderer := render.NewRenderer(registry)

	m, err := openOrCreate(*levelPath, *width, *height, *cellSize)
	if err != nil {
		log.Fatalf("open level: %v", err)
	}

	session := editor.NewSession(m, registry, renderer.Cache())
	if err := loadTilesets(session, renderer, *tilesetDir); err != nil {
		log.Fatalf("load tilesets: %v", err)
	}
	if len(registry.Tilesets()) > 0 {
		session.SetBrush(tile.MustPack(0, 0, tile.IndexRef(0), false, false))
	}

	if *macroPath != "" {
		src, err := os.ReadFile(*macroPath)
		if err != nil {
			log.Fatalf("read macro: %v", err)
		}
		if err := session.RunMacro(src); err != nil {
			log.Fatalf("macro: %v", err)
		}
	}

	watcher, err := level.NewWatcher(*tilesetDir)
	if err != nil {
		log.Printf("tileset watch disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard disabled: %v", err)
	}

	g := newGame(session, renderer, watcher, *levelPath)

	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowTitle("LostEditor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func openOrCreate(path string, w, h, cellSize int) (*level.Map, error) {
	if _, err := os.Stat(path); err == nil {
		return level.LoadMap(path)
	}
	m := level.NewMap(w, h, cellSize)
	m.AddLayer("ground", "Ground")
	return m, nil
}

// loadTilesets registers every spec in dir along with its image and
// terrain rule sets. A tileset that fails to load is skipped so one
// bad spec cannot keep the editor from starting.
func loadTilesets(session *editor.Session, renderer *render.Renderer, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.y*ml"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := loadTileset(session, renderer, path); err != nil {
			log.Printf("tileset %s: %v", path, err)
		}
	}
	return nil
}

func loadTileset(session *editor.Session, renderer *render.Renderer, path string) error {
	ts, err := level.LoadTileset(path)
	if err != nil {
		return err
	}
	return installTileset(session, renderer, ts, path)
}

// installTileset registers a loaded tileset along with its image and
// terrain rule sets. Startup and hot reload both land here.
func installTileset(session *editor.Session, renderer *render.Renderer, ts *level.Tileset, path string) error {
	session.Registry().Register(ts)

	img, err := loadImage(filepath.Join(filepath.Dir(path), ts.Image))
	if err != nil {
		return err
	}
	renderer.SetImage(ts.Name, img)

	ref := tile.HashRef(ts.Name)
	cols := ts.Cols(img.Bounds().Dx())
	for _, def := range ts.Terrains {
		rs, err := terrain.FromDef(def, ref, cols)
		if err != nil {
			log.Printf("terrain %q in %s: %v", def.Name, path, err)
			continue
		}
		session.RegisterTerrain(rs)
	}
	return nil
}

func loadImage(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(src), nil
}
