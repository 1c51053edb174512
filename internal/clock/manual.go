package clock

// Manual is a DisplayClock advanced by explicit Tick calls. Tests drive
// surfaces with it, and hosts with their own refresh loop (such as a game
// loop's Draw) embed it.
type Manual struct {
	subs subscribers
}

func NewManual() *Manual {
	return &Manual{}
}

// Subscribe implements surface.DisplayClock.
func (m *Manual) Subscribe(fn func()) func() {
	return m.subs.add(fn)
}

// Tick delivers one tick to every subscriber on the calling goroutine.
func (m *Manual) Tick() {
	m.subs.dispatch()
}

// Subscribers returns the number of live subscriptions.
func (m *Manual) Subscribers() int {
	return m.subs.len()
}
