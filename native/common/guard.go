package common

// PauseView reports whether supervised value movement is halted.
type PauseView interface {
	Paused() bool
}

// Guard rejects the operation when the system is paused. Burn paths skip
// this guard so supply can keep shrinking while paused.
func Guard(p PauseView) error {
	if p == nil {
		return nil
	}
	if p.Paused() {
		return ErrSystemPaused
	}
	return nil
}
