package replay

import (
	"sync"
	"testing"
)

func TestDeviceCallbacksDeferredToNextFrame(t *testing.T) {
	var got []string
	var duringLoop []string
	root := &Definition[struct{}, int]{
		Name: "Root",
		Loop: func(a LoopArgs[struct{}, int]) int {
			if a.State == 0 {
				_ = a.Device.Network().Get("/score", func(r Response) {
					got = append(got, "network")
					a.UpdateState(func(s int) int { return s + 100 })
				})
				_ = a.Device.Storage().GetItem("k", func(v string, ok bool) {
					got = append(got, "storage")
				})
				a.Device.Clipboard().Copy("x", func(error) { got = append(got, "clipboard") })
				a.Device.Alert().OKCancel("sure?", func(ok bool) { got = append(got, "alert") })
				duringLoop = append(duringLoop, got...)
			}
			return a.State + 1
		},
	}

	e := newTestEngine(t, root.Sprite("Game", struct{}{}), Options{})
	stepFrames(t, e, 1)
	if len(duringLoop) != 0 || len(got) != 0 {
		t.Fatalf("callbacks ran mid-frame: %v", got)
	}

	stepFrames(t, e, 1)
	assertStrings(t, "callbacks", got, []string{"network", "storage", "clipboard", "alert"})
	// The network callback's update is applied at the same boundary.
	if s := e.root.state.(int); s != 102 {
		t.Fatalf("state = %d, want 102", s)
	}
}

func TestDeferredQueueConcurrentPush(t *testing.T) {
	q := &deferredQueue{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.push(func() {})
		}()
	}
	wg.Wait()
	if n := len(q.drain()); n != 50 {
		t.Fatalf("drained %d, want 50", n)
	}
	if n := len(q.drain()); n != 0 {
		t.Fatalf("second drain = %d", n)
	}
}

func TestInputsKeyHelpers(t *testing.T) {
	in := Inputs{
		Keys:            map[string]bool{"ArrowUp": true},
		JustPressedKeys: map[string]bool{" ": true},
	}
	if !in.KeyDown("ArrowUp") || in.KeyDown("a") {
		t.Fatal("KeyDown")
	}
	if !in.KeyJustPressed(" ") {
		t.Fatal("KeyJustPressed")
	}
	var empty Inputs
	if empty.KeyDown("a") {
		t.Fatal("nil maps should read false")
	}
}
