package replay

import (
	"strconv"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs routes the package logger into an in-memory observer for the
// duration of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

// chain renders a straight line of Props nested descendants.
var chain *Definition[int, struct{}]

func init() {
	chain = &Definition[int, struct{}]{
		Name: "Link",
		Render: func(a RenderArgs[int, struct{}]) []Sprite {
			if a.Props == 0 {
				return nil
			}
			return []Sprite{chainLink(a.Props - 1)}
		},
	}
}

func chainLink(depth int) Sprite { return chain.Sprite("next", depth) }

func TestDebugFrameStats(t *testing.T) {
	logs := observeLogs(t)
	root := staticRoot(func() []Sprite {
		return []Sprite{Circle(5, ColorRed), chainLink(2)}
	})
	e := newTestEngine(t, root.Sprite("Game", struct{}{}), Options{Debug: true})
	stepFrames(t, e, 1)

	frames := logs.FilterMessage("frame").All()
	if len(frames) != 2 {
		t.Fatalf("frame logs = %d, want 2", len(frames))
	}
	last := frames[1].ContextMap()
	if last["frame"] != int64(1) {
		t.Errorf("frame = %v, want 1", last["frame"])
	}
	if last["instances"] != int64(4) {
		t.Errorf("instances = %v, want 4", last["instances"])
	}
	if last["textures"] != int64(1) {
		t.Errorf("textures = %v, want 1", last["textures"])
	}
	if frames[0].LoggerName != "replay" {
		t.Errorf("logger name = %q", frames[0].LoggerName)
	}
}

func TestDebugOffLogsNothing(t *testing.T) {
	logs := observeLogs(t)
	root := staticRoot(func() []Sprite { return []Sprite{chainLink(40)} })
	e := newTestEngine(t, root.Sprite("Game", struct{}{}), Options{})
	stepFrames(t, e, 2)
	if logs.Len() != 0 {
		t.Errorf("got %d log entries with debug off", logs.Len())
	}
}

func TestDebugTreeDepthWarning(t *testing.T) {
	logs := observeLogs(t)
	root := staticRoot(func() []Sprite { return []Sprite{chainLink(40)} })
	newTestEngine(t, root.Sprite("Game", struct{}{}), Options{Debug: true})

	warns := logs.FilterMessage("sprite tree too deep").All()
	if len(warns) == 0 {
		t.Fatal("expected a depth warning")
	}
	if warns[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v", warns[0].Level)
	}
	if d := warns[0].ContextMap()["depth"]; d != int64(debugMaxTreeDepth+1) {
		t.Errorf("first warning depth = %v, want %d", d, debugMaxTreeDepth+1)
	}
}

func TestDebugChildCountWarning(t *testing.T) {
	logs := observeLogs(t)
	leaf := &Definition[struct{}, struct{}]{Name: "Leaf"}
	n := debugMaxChildCount + 1
	root := staticRoot(func() []Sprite {
		out := make([]Sprite, n)
		for i := range out {
			out[i] = leaf.Sprite(strconv.Itoa(i), struct{}{})
		}
		return out
	})
	newTestEngine(t, root.Sprite("Game", struct{}{}), Options{Debug: true})

	warns := logs.FilterMessage("sprite has too many children").All()
	if len(warns) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warns))
	}
	ctx := warns[0].ContextMap()
	if ctx["sprite"] != "Game" || ctx["children"] != int64(n) {
		t.Errorf("context = %v", ctx)
	}
}
