package replaytest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/replay"
)

type walkerState struct{ X float64 }

var walker = &replay.Definition[struct{}, walkerState]{
	Name: "Walker",
	Loop: func(a replay.LoopArgs[struct{}, walkerState]) walkerState {
		return walkerState{X: a.State.X + 1}
	},
	Render: func(a replay.RenderArgs[struct{}, walkerState]) []replay.Sprite {
		return []replay.Sprite{replay.Circle(10, replay.ColorRed).At(a.State.X, 0).Tagged("player")}
	},
}

func TestPlayerMovesOneUnitPerFrame(t *testing.T) {
	h, err := New(walker.Sprite("Game", struct{}{}), Options{})
	require.NoError(t, err)

	player, err := h.GetTexture("player")
	require.NoError(t, err)
	assert.Equal(t, 0.0, player.X)

	require.NoError(t, h.NextFrame())
	player, err = h.GetTexture("player")
	require.NoError(t, err)
	assert.Equal(t, 1.0, player.X)
	assert.Equal(t, replay.TextureCircle, player.Type)
}

type arenaState struct{ ShowEnemy bool }

var enemy = &replay.Definition[struct{}, struct{}]{
	Name: "Enemy",
	Render: func(replay.RenderArgs[struct{}, struct{}]) []replay.Sprite {
		return []replay.Sprite{replay.Circle(8, replay.ColorRed).Tagged("enemy")}
	},
}

var arena = &replay.Definition[struct{}, arenaState]{
	Name: "Arena",
	Loop: func(a replay.LoopArgs[struct{}, arenaState]) arenaState {
		in := a.Inputs()
		if in.KeyJustPressed("e") || in.Pointer.JustPressed {
			return arenaState{ShowEnemy: true}
		}
		return a.State
	},
	Render: func(a replay.RenderArgs[struct{}, arenaState]) []replay.Sprite {
		out := []replay.Sprite{replay.Rectangle(300, 20, replay.ColorBlue).At(0, -240).Tagged("floor")}
		if a.State.ShowEnemy {
			out = append(out, enemy.Sprite("enemy", struct{}{}).At(50, 50))
		}
		return out
	},
}

func TestEnemySpawnsOnTriggerFrame(t *testing.T) {
	triggers := map[string]func(h *Harness){
		"key":     func(h *Harness) { h.KeyDown("e") },
		"pointer": func(h *Harness) { h.Click(0, 0) },
	}
	for name, trigger := range triggers {
		t.Run(name, func(t *testing.T) {
			h, err := New(arena.Sprite("Game", struct{}{}), Options{})
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				assert.False(t, h.TextureExists("enemy"), "frame %d", h.Frame())
				require.NoError(t, h.NextFrame())
			}
			assert.False(t, h.TextureExists("enemy"))
			assert.True(t, h.TextureExists("floor"))

			trigger(h)
			require.NoError(t, h.NextFrame())
			assert.True(t, h.TextureExists("enemy"), "enemy appears on the frame that reads the input")

			e, err := h.GetTexture("enemy")
			require.NoError(t, err)
			assert.Equal(t, 50.0, e.X)
			assert.Equal(t, 50.0, e.Y)

			require.NoError(t, h.Frames(2))
			assert.True(t, h.TextureExists("enemy"))
		})
	}
}

func TestTimerIDsAreSequential(t *testing.T) {
	var ids []replay.TimerID
	root := &replay.Definition[struct{}, struct{}]{
		Name: "Timers",
		Init: func(a replay.InitArgs[struct{}, struct{}]) struct{} {
			for i := 0; i < 3; i++ {
				ids = append(ids, a.Device.Timer().Start(func() {}, 100))
			}
			return struct{}{}
		},
	}
	_, err := New(root.Sprite("Game", struct{}{}), Options{})
	require.NoError(t, err)
	assert.Equal(t, []replay.TimerID{"timer-1", "timer-2", "timer-3"}, ids)
}
