package pngnote

import (
	"sync"

	"github.com/rivo/tview"
)

// testApp is a navigator.App that queues updates until drain is called, so
// background work never touches widgets concurrently with the test.
type testApp struct {
	mu      sync.Mutex
	queue   []func()
	focused tview.Primitive
	stopped bool
}

func (a *testApp) Run() error { return nil }

func (a *testApp) QueueUpdateDraw(f func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, f)
}

func (a *testApp) drain() {
	for {
		a.mu.Lock()
		queue := a.queue
		a.queue = nil
		a.mu.Unlock()
		if len(queue) == 0 {
			return
		}
		for _, f := range queue {
			f()
		}
	}
}

func (a *testApp) SetFocus(p tview.Primitive) {
	a.focused = p
}

func (a *testApp) SetRoot(root tview.Primitive, fullscreen bool) {
	_, _ = root, fullscreen
}

func (a *testApp) Stop() {
	a.stopped = true
}

func (a *testApp) EnableMouse(_ bool) {}
