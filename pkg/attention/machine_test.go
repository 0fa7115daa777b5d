package attention

import (
	"testing"
	"time"
)

// fakeClock advances a fixed amount per frame so duration gates can be
// tested without sleeping.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0), step: step}
}

func (c *fakeClock) tick() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newTestMachine(step time.Duration) (*Machine, *fakeClock) {
	m := NewMachine(DefaultConfig())
	clock := newFakeClock(step)
	m.now = clock.tick
	return m, clock
}

func distracted() Frame {
	return Frame{Distracted: true, Cause: CauseHeadMovement}
}

func focused() Frame {
	return Frame{}
}

func TestMachine_DistractionRequiresCountAndDuration(t *testing.T) {
	// 100ms per frame: 3 frames accumulate only 200ms of episode time,
	// so the count threshold alone must not confirm.
	m, _ := newTestMachine(100 * time.Millisecond)

	for i := 0; i < 10; i++ {
		if tr := m.Observe(distracted()); tr != nil {
			t.Fatalf("frame %d: confirmed too early (%v elapsed)", i, tr.Duration)
		}
	}

	// Frame 21 is 2000ms after the episode opened on frame 1
	var confirmed *Transition
	for i := 10; i < 30 && confirmed == nil; i++ {
		confirmed = m.Observe(distracted())
	}

	if confirmed == nil {
		t.Fatal("expected a distraction confirmation")
	}
	if confirmed.To != StateDistracted {
		t.Errorf("state: got %v, want %v", confirmed.To, StateDistracted)
	}
	if confirmed.Cause != CauseHeadMovement {
		t.Errorf("cause: got %s, want %s", confirmed.Cause, CauseHeadMovement)
	}
	if confirmed.Duration < DefaultConfig().MinDistractionDuration {
		t.Errorf("duration %v below minimum", confirmed.Duration)
	}
	if m.State() != StateDistracted {
		t.Errorf("machine state: got %v, want %v", m.State(), StateDistracted)
	}
}

func TestMachine_FastFramesStillGateOnDuration(t *testing.T) {
	// 1s per frame: 3 distracted frames span 2s, confirming exactly at
	// the count threshold.
	m, _ := newTestMachine(time.Second)

	if tr := m.Observe(distracted()); tr != nil {
		t.Fatal("frame 1 must not confirm")
	}
	if tr := m.Observe(distracted()); tr != nil {
		t.Fatal("frame 2 must not confirm")
	}
	tr := m.Observe(distracted())
	if tr == nil {
		t.Fatal("frame 3 at 2s elapsed should confirm")
	}
	if tr.Duration != 2*time.Second {
		t.Errorf("duration: got %v, want 2s", tr.Duration)
	}
}

func TestMachine_SingleFocusedFrameResetsEpisode(t *testing.T) {
	m, _ := newTestMachine(time.Second)

	// Two distracted frames, then one focused flicker
	m.Observe(distracted())
	m.Observe(distracted())
	if tr := m.Observe(focused()); tr != nil {
		t.Fatal("single focused frame must not confirm focus")
	}

	// The episode restarted: two more distracted frames only span 1s
	if tr := m.Observe(distracted()); tr != nil {
		t.Fatal("episode should have restarted")
	}
	if tr := m.Observe(distracted()); tr != nil {
		t.Fatal("1s elapsed since restart, must not confirm")
	}
	// Third frame after restart reaches both gates
	if tr := m.Observe(distracted()); tr == nil {
		t.Fatal("expected confirmation after full episode")
	}
}

func TestMachine_FocusConfirmation(t *testing.T) {
	m, _ := newTestMachine(time.Second)

	// Confirm distracted first
	m.Observe(distracted())
	m.Observe(distracted())
	if tr := m.Observe(distracted()); tr == nil {
		t.Fatal("expected distraction confirmation")
	}

	// Focus restores after exactly 3 consecutive focused frames, with no
	// duration requirement.
	if tr := m.Observe(focused()); tr != nil {
		t.Fatal("focused frame 1 must not confirm")
	}
	if tr := m.Observe(focused()); tr != nil {
		t.Fatal("focused frame 2 must not confirm")
	}
	tr := m.Observe(focused())
	if tr == nil {
		t.Fatal("focused frame 3 should confirm")
	}
	if tr.To != StateFocused {
		t.Errorf("state: got %v, want %v", tr.To, StateFocused)
	}
	if tr.From != StateDistracted {
		t.Errorf("from: got %v, want %v", tr.From, StateDistracted)
	}
}

func TestMachine_NoRepeatConfirmation(t *testing.T) {
	m, _ := newTestMachine(time.Second)

	confirmations := 0
	for i := 0; i < 20; i++ {
		if tr := m.Observe(distracted()); tr != nil {
			confirmations++
		}
	}
	if confirmations != 1 {
		t.Errorf("distraction confirmations: got %d, want 1", confirmations)
	}

	confirmations = 0
	for i := 0; i < 20; i++ {
		if tr := m.Observe(focused()); tr != nil {
			confirmations++
		}
	}
	if confirmations != 1 {
		t.Errorf("focus confirmations: got %d, want 1", confirmations)
	}
}

func TestMachine_AlternatingFramesNeverConfirm(t *testing.T) {
	m, _ := newTestMachine(time.Second)

	for i := 0; i < 40; i++ {
		var f Frame
		if i%2 == 0 {
			f = distracted()
		} else {
			f = focused()
		}
		if tr := m.Observe(f); tr != nil {
			t.Fatalf("frame %d: unexpected confirmation to %v", i, tr.To)
		}
	}
	if m.State() != StateUnknown {
		t.Errorf("state: got %v, want %v", m.State(), StateUnknown)
	}
}

func TestMachine_ResetCountersClosesEpisode(t *testing.T) {
	m, _ := newTestMachine(time.Second)

	m.Observe(distracted())
	m.Observe(distracted())
	m.ResetCounters()

	// Counting starts over after a no-signal gap
	m.Observe(distracted())
	if tr := m.Observe(distracted()); tr != nil {
		t.Fatal("episode should have restarted after counter reset")
	}
	if tr := m.Observe(distracted()); tr == nil {
		t.Fatal("expected confirmation after fresh full episode")
	}
}
