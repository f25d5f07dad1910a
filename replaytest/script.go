package replaytest

import (
	"errors"
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/replay"
)

// Step is a single action in a script.
type Step struct {
	Action  string    `yaml:"action"`
	Label   string    `yaml:"label,omitempty"`
	X       float64   `yaml:"x,omitempty"`
	Y       float64   `yaml:"y,omitempty"`
	FromX   float64   `yaml:"fromX,omitempty"`
	FromY   float64   `yaml:"fromY,omitempty"`
	ToX     float64   `yaml:"toX,omitempty"`
	ToY     float64   `yaml:"toY,omitempty"`
	Frames  int       `yaml:"frames,omitempty"`
	Key     string    `yaml:"key,omitempty"`
	Numbers []float64 `yaml:"numbers,omitempty"`
	// Expr is the condition for "until" and "expect" steps.
	Expr string `yaml:"expr,omitempty"`
}

// script is the top-level document.
type script struct {
	Steps []Step `yaml:"steps"`
}

// Script is a parsed, compiled sequence of steps.
type Script struct {
	steps    []Step
	programs []*vm.Program
}

// Env is the environment "until" and "expect" expressions run against.
//
//	frame >= 10 && Exists("player") && X("player") > 0
type Env struct {
	Frame    int     `expr:"frame"`
	Time     float64 `expr:"time"`
	Textures int     `expr:"textures"`

	h *Harness
}

// Exists reports whether a texture is tagged testID.
func (e Env) Exists(testID string) bool { return e.h.TextureExists(testID) }

// HasText reports whether a text texture shows text.
func (e Env) HasText(text string) bool {
	_, err := e.h.GetByText(text)
	return err == nil
}

// X returns the x position of the texture tagged testID, or NaN.
func (e Env) X(testID string) float64 {
	t, err := e.h.GetTexture(testID)
	if err != nil {
		return math.NaN()
	}
	return t.X
}

// Y returns the y position of the texture tagged testID, or NaN.
func (e Env) Y(testID string) float64 {
	t, err := e.h.GetTexture(testID)
	if err != nil {
		return math.NaN()
	}
	return t.Y
}

// Opacity returns the opacity of the texture tagged testID, or NaN.
func (e Env) Opacity(testID string) float64 {
	t, err := e.h.GetTexture(testID)
	if err != nil {
		return math.NaN()
	}
	return t.Opacity
}

// Stored returns a storage value, or "".
func (e Env) Stored(key string) string { return e.h.Storage.Items[key] }

// Played reports whether a sound was played.
func (e Env) Played(fileName string) bool { return e.h.Audio.Played(fileName) }

// Copied reports whether text was copied to the clipboard.
func (e Env) Copied(text string) bool {
	for _, c := range e.h.Clipboard.Copied {
		if c == text {
			return true
		}
	}
	return false
}

func (h *Harness) env() Env {
	return Env{Frame: h.Frame(), Time: h.timeMS, Textures: len(h.textures), h: h}
}

// LoadScript parses a YAML (or JSON) script and compiles its expressions.
//
//	steps:
//	  - action: click
//	    x: 0
//	    y: 40
//	  - action: until
//	    expr: 'HasText("Score: 1")'
func LoadScript(data []byte) (*Script, error) {
	var doc script
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	s := &Script{steps: doc.Steps, programs: make([]*vm.Program, len(doc.Steps))}
	for i, st := range doc.Steps {
		switch st.Action {
		case "frames", "wait", "press", "move", "release", "click", "drag", "keyDown", "keyUp":
		case "random":
			if len(st.Numbers) == 0 {
				return nil, fmt.Errorf("parse script: step %d: random needs numbers", i)
			}
		case "until", "expect":
			p, err := expr.Compile(st.Expr, expr.Env(Env{}), expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("parse script: step %d: %w", i, err)
			}
			s.programs[i] = p
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return s, nil
}

// Len returns the number of steps.
func (s *Script) Len() int { return len(s.steps) }

// Run executes every step against h, stopping at the first failure.
func (s *Script) Run(h *Harness) error {
	for i, st := range s.steps {
		if err := s.run(h, i, st); err != nil {
			name := st.Action
			if st.Label != "" {
				name = st.Label
			}
			return fmt.Errorf("step %d (%s): %w", i, name, err)
		}
	}
	return nil
}

func (s *Script) run(h *Harness, i int, st Step) error {
	switch st.Action {
	case "frames", "wait":
		return h.Frames(max(st.Frames, 1))
	case "press":
		h.Press(st.X, st.Y)
		return h.NextFrame()
	case "move":
		h.Move(st.X, st.Y)
		return h.NextFrame()
	case "release":
		h.Release(st.X, st.Y)
		return h.NextFrame()
	case "click":
		h.Click(st.X, st.Y)
		return h.Frames(2)
	case "drag":
		frames := max(st.Frames, 2)
		h.Drag(replay.Point{X: st.FromX, Y: st.FromY}, replay.Point{X: st.ToX, Y: st.ToY}, frames)
		return h.Frames(frames)
	case "keyDown":
		h.KeyDown(st.Key)
		return h.NextFrame()
	case "keyUp":
		h.KeyUp(st.Key)
		return h.NextFrame()
	case "random":
		h.SetRandomNumbers(st.Numbers...)
		return nil
	case "until":
		return h.JumpToFrame(func() error {
			return s.check(h, i)
		})
	case "expect":
		return s.check(h, i)
	}
	return nil
}

// check evaluates step i's expression against the current frame.
func (s *Script) check(h *Harness, i int) error {
	out, err := expr.Run(s.programs[i], h.env())
	if err != nil {
		return fmt.Errorf("evaluate %q: %w", s.steps[i].Expr, err)
	}
	if ok, _ := out.(bool); !ok {
		return fmt.Errorf("expectation failed: %s", s.steps[i].Expr)
	}
	return nil
}
