package cpu

// Timers are the delay and sound counters, both counting down at the rate the
// driver calls Tick.
type Timers struct {
	Delay uint8
	Sound uint8
}

// Tick decrements both timers and returns true when the sound timer has just
// run out.
func (t *Timers) Tick() bool {
	if t.Delay > 0 {
		t.Delay--
	}
	beep := false
	if t.Sound > 0 {
		beep = t.Sound == 1
		t.Sound--
	}
	return beep
}
