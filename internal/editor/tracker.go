package editor

import (
	"errors"
	"sync"
)

// State is the sync status of one plan.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateDirty
	StateSaving
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	}
	return "unknown"
}

var (
	ErrSaveInFlight = errors.New("a save for this plan is already in progress")
	ErrNotLoaded    = errors.New("plan has not been loaded")
)

// Tracker is the sync state machine of one plan:
//
//	Idle → Loading → Ready ⇄ Dirty → Saving → Ready
//	                                 Saving → Error → Dirty
//
// Edits made while a save is in flight keep the plan Dirty afterwards, and
// edits made while Loading leave it Dirty once the load finishes.
type Tracker struct {
	mu       sync.Mutex
	state    State
	revision uint64
	saving   uint64
	resume   State
	lastErr  error
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// LastError returns the error of the most recent failed save.
func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// BeginLoad moves to Loading.
func (t *Tracker) BeginLoad() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateLoading
	t.lastErr = nil
}

// FinishLoad moves Loading to Ready.
func (t *Tracker) FinishLoad() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateLoading {
		t.state = StateReady
	}
}

// Reset returns to Idle, dropping any pending status.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateIdle
	t.lastErr = nil
}

// MarkDirty records a local edit.
func (t *Tracker) MarkDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revision++
	switch t.state {
	case StateLoading, StateReady, StateError:
		t.state = StateDirty
	}
}

// BeginSave moves to Saving and returns a token for FinishSave. It fails
// while another save is in flight or before the plan was loaded.
func (t *Tracker) BeginSave() (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case StateSaving:
		return 0, ErrSaveInFlight
	case StateIdle, StateLoading:
		return 0, ErrNotLoaded
	}
	t.resume = t.state
	t.state = StateSaving
	t.saving = t.revision
	return t.saving, nil
}

// CancelSave undoes BeginSave for a save that never reached the network.
func (t *Tracker) CancelSave(token uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateSaving || token != t.saving {
		return
	}
	t.state = t.resume
	if t.state == StateReady && t.revision != token {
		t.state = StateDirty
	}
}

// FinishSave settles the save started with token. On success the plan is
// Ready unless it was edited after the snapshot was taken.
func (t *Tracker) FinishSave(token uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateSaving || token != t.saving {
		return
	}
	if err != nil {
		t.state = StateError
		t.lastErr = err
		return
	}
	t.lastErr = nil
	if t.revision == token {
		t.state = StateReady
	} else {
		t.state = StateDirty
	}
}
