// Package ebitenhost runs a replay sprite tree in an Ebitengine window.
//
// Each ebiten tick snapshots mouse, touch and keyboard state, runs one
// engine frame at wall-clock time and draws the returned textures with
// the game origin at the window centre and Y pointing up. Device services
// are backed by the desktop: HTTP for the network, a YAML file for
// storage, the system clipboard and ebiten's audio players.
package ebitenhost

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/replay"
)

// Game adapts a replay engine to ebiten.Game.
type Game struct {
	cfg    *Config
	log    *zap.Logger
	engine *replay.Engine

	platform *desktop
	render   *renderer
	input    inputReader
	view     viewport

	start time.Time
	shots []string
}

// NewGame builds the desktop platform and runs the initial frame.
func NewGame(root replay.Sprite, cfg *Config, log *zap.Logger, natives replay.NativeSpriteMap) (*Game, error) {
	if cfg == nil {
		cfg = Defaults()
	}
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{cfg: cfg, log: log, start: time.Now()}
	w, h := float64(cfg.Window.Width), float64(cfg.Window.Height)
	g.view = newViewport(w, h, w*cfg.Window.Scale, h*cfg.Window.Scale)

	p, err := newDesktop(cfg, log, func() viewport { return g.view })
	if err != nil {
		return nil, err
	}
	g.platform = p
	g.render = newRenderer(log, cfg.Assets.Dir, cfg.Assets.Fonts)

	e, err := replay.New(root, p, replay.Options{
		NativeSprites: natives,
		Timestamp:     g.now(),
		StrictIDs:     cfg.Engine.StrictIDs,
		Debug:         cfg.Engine.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	g.engine = e
	return g, nil
}

// now returns milliseconds since the game started.
func (g *Game) now() float64 {
	return float64(time.Since(g.start)) / float64(time.Millisecond)
}

// Update runs one engine frame. A frame error stops the ebiten loop.
func (g *Game) Update() error {
	in := g.input.read(g.view)
	g.platform.touch = g.input.sawTouch
	if key := g.cfg.Screenshot.Key; key != "" && in.JustPressedKeys[key] {
		g.Screenshot("key")
	}
	if _, err := g.engine.RunNextFrame(g.now(), in); err != nil {
		var fe *replay.FrameError
		if errors.As(err, &fe) {
			g.log.Error("frame failed",
				zap.Int("frame", fe.Frame),
				zap.String("sprite", fe.GlobalID),
				zap.Stringer("phase", fe.Phase),
				zap.Any("panic", fe.Value),
			)
		}
		return err
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.render.draw(screen, g.engine.Textures(), g.view)
	if g.cfg.Window.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	g.flushScreenshots(screen)
}

// Layout uses the whole window; the viewport letterboxes the game area.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.view = newViewport(float64(g.cfg.Window.Width), float64(g.cfg.Window.Height),
		float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Engine returns the running engine.
func (g *Game) Engine() *replay.Engine { return g.engine }

// Close tears the sprite tree down.
func (g *Game) Close() error { return g.engine.Close() }

// Run opens a window and runs root until the window closes or a frame
// fails. A nil cfg uses Defaults.
func Run(root replay.Sprite, cfg *Config, natives replay.NativeSpriteMap) error {
	if cfg == nil {
		cfg = Defaults()
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	replay.SetLogger(log)

	g, err := NewGame(root, cfg, log, natives)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(int(float64(cfg.Window.Width)*cfg.Window.Scale), int(float64(cfg.Window.Height)*cfg.Window.Scale))
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(cfg.Window.TPS)

	log.Info("game started",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)
	runErr := ebiten.RunGame(g)
	if err := g.Close(); err != nil && runErr == nil {
		runErr = err
	}
	log.Info("game stopped", zap.Int("frames", g.engine.Frame()))
	return runErr
}
