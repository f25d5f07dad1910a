package replay

import "fmt"

// contextEntry is one provided value.
type contextEntry struct {
	key   any
	value any
}

// Scope is the render-time context stack threaded through a frame's
// traversal. Each visited sprite owns the top frame while its callbacks run;
// values it provides are visible to its descendants only.
type Scope struct {
	frames    [][]contextEntry
	rendering bool
}

// reset clears the stack at the start of a traversal.
func (s *Scope) reset() {
	for i := range s.frames {
		s.frames[i] = nil
	}
	s.frames = s.frames[:0]
	s.rendering = false
}

// push opens the frame of a sprite being visited.
func (s *Scope) push() {
	s.frames = append(s.frames, nil)
}

// pop closes the current sprite's frame.
func (s *Scope) pop() {
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// provided returns the entries added by the current sprite.
func (s *Scope) provided() []contextEntry {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// restore replays cached entries into the current frame. Used when a render
// is skipped and its previous output is reused.
func (s *Scope) restore(entries []contextEntry) {
	if len(s.frames) == 0 || len(entries) == 0 {
		return
	}
	s.frames[len(s.frames)-1] = append(s.frames[len(s.frames)-1], entries...)
}

func (s *Scope) provide(key, value any) {
	if s == nil || !s.rendering || len(s.frames) == 0 {
		panic("replay: context can only be provided during Render")
	}
	top := len(s.frames) - 1
	for i := range s.frames[top] {
		if s.frames[top][i].key == key {
			s.frames[top][i].value = value
			return
		}
	}
	s.frames[top] = append(s.frames[top], contextEntry{key: key, value: value})
}

// lookup walks ancestor frames from nearest to root. The current sprite's
// own frame is skipped.
func (s *Scope) lookup(key any) (any, bool) {
	if s == nil {
		return nil, false
	}
	for i := len(s.frames) - 2; i >= 0; i-- {
		for _, e := range s.frames[i] {
			if e.key == key {
				return e.value, true
			}
		}
	}
	return nil, false
}

// Context is a typed key for values broadcast down the sprite tree.
type Context[T any] struct {
	name string
	def  T
}

// NewContext creates a context key. Read returns def when no ancestor
// provided a value.
func NewContext[T any](name string, def T) *Context[T] {
	return &Context[T]{name: name, def: def}
}

// Provide makes v visible to every descendant of the sprite whose Render is
// running. Panics outside Render.
func (c *Context[T]) Provide(s *Scope, v T) {
	c.check()
	s.provide(c, v)
}

// Read returns the value provided by the nearest ancestor, or the default.
func (c *Context[T]) Read(s *Scope) T {
	c.check()
	v, ok := s.lookup(c)
	if !ok {
		return c.def
	}
	return v.(T)
}

// String returns the context name.
func (c *Context[T]) String() string {
	return fmt.Sprintf("Context(%s)", c.name)
}

func (c *Context[T]) check() {
	if c == nil {
		panic("replay: nil context key")
	}
}
