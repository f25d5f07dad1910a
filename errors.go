package replay

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrDuplicateID is reported when siblings share an ID and
	// Options.StrictIDs is set.
	ErrDuplicateID = errors.New("replay: duplicate sprite id")
	// ErrNoNativeImpl is reported when a native sprite has no registered
	// implementation.
	ErrNoNativeImpl = errors.New("replay: no native sprite implementation")
	// ErrEngineClosed is returned by frame calls after Close.
	ErrEngineClosed = errors.New("replay: engine closed")
	// ErrInvalidRoot is returned by New for a non-custom root descriptor.
	ErrInvalidRoot = errors.New("replay: root must be a custom sprite")
)

// FrameError reports a panic raised by a sprite callback. The frame that
// raised it was aborted.
type FrameError struct {
	Frame    int
	GlobalID string
	Phase    Phase
	Value    any
	Stack    []byte
}

func newFrameError(frame int, inst *instance, phase Phase, v any) *FrameError {
	fe := &FrameError{Frame: frame, Phase: phase, Value: v, Stack: debug.Stack()}
	if inst != nil {
		fe.GlobalID = inst.globalID
	}
	return fe
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("replay: frame %d aborted in %s of %q: %v", e.Frame, e.Phase, e.GlobalID, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *FrameError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func nativeMissing(inst *instance) error {
	return fmt.Errorf("%w: %q (sprite %q)", ErrNoNativeImpl, inst.nativeName, inst.globalID)
}

func duplicateID(parent *instance, id string) error {
	return fmt.Errorf("%w: %q under %q", ErrDuplicateID, id, parent.globalID)
}
