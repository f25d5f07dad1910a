// Package replay is a declarative 2D sprite engine. Games are written as a
// tree of sprites that describe, every frame, what should be on screen; the
// engine keeps each sprite's private state alive across frames, works out
// which sprites appeared and disappeared, and flattens the tree into a list
// of positioned textures for a host to draw.
//
// # Quick start
//
// Declare definitions once, as package-level pointers:
//
//	type BallState struct{ X, VX float64 }
//
//	var Ball = &replay.Definition[struct{}, BallState]{
//		Name: "Ball",
//		Init: func(a replay.InitArgs[struct{}, BallState]) BallState {
//			return BallState{VX: 2}
//		},
//		Loop: func(a replay.LoopArgs[struct{}, BallState]) BallState {
//			s := a.State
//			s.X += s.VX
//			return s
//		},
//		Render: func(a replay.RenderArgs[struct{}, BallState]) []replay.Sprite {
//			return []replay.Sprite{replay.Circle(10, replay.ColorRed).At(a.State.X, 0)}
//		},
//	}
//
// Then hand the root to a host. The desktop host lives in ebitenhost:
//
//	ebitenhost.Run(Ball.Sprite("Game", struct{}{}), ebitenhost.Defaults(), nil)
//
// Tests drive the same tree with replaytest, which substitutes
// deterministic time, randomness and device services.
//
// # Coordinates
//
// The origin is the centre of the game area and Y increases upward. Each
// sprite's [BaseProps] place it in its parent's space: the anchor is
// subtracted, then scale, then rotation (degrees, positive is clockwise on
// screen), then translation. Opacity multiplies down the tree, clamped to
// [0, 1] at each level.
//
// # Frames
//
// [Engine.RunNextFrame] advances simulated time, fires due timers, runs
// device callbacks that completed since the last frame, applies queued
// UpdateState calls, then walks the tree parent first. Each sprite loops,
// renders, has its children reconciled against the previous frame by ID,
// and then its children are visited in declared order. New sprites are
// initialised and rendered but do not loop in the frame they appear.
//
// A panic inside any sprite callback aborts the frame and is returned as a
// [*FrameError].
//
// # Context
//
// [Context] values are provided during Render and read by any descendant:
//
//	var Theme = replay.NewContext("theme", replay.ColorWhite)
//
//	// in a parent's Render
//	Theme.Provide(a.Scope, replay.ColorRed)
//
//	// in a descendant's Loop or Render
//	c := Theme.Read(a.Scope)
//
// # Native sprites
//
// Hosts register widgets the engine cannot draw itself in a
// [NativeSpriteMap]. The engine only sequences their Create, Loop and
// Cleanup calls; their state is opaque.
package replay
