package pulse

type ReleaseGuard struct {
	delegate Releaser
}

func NewReleaseGuard(delegate Releaser) ReleaseGuard {
	return ReleaseGuard{delegate: delegate}
}

func (r *ReleaseGuard) Keep() {
	r.delegate = nil
}

func (r *ReleaseGuard) Release() {
	if r.delegate != nil {
		r.delegate.Release()
		r.delegate = nil
	}
}

// FrameScope collects resources that live for a single frame only.
// Calling Release releases all tracked resources in reverse order.
type FrameScope struct {
	tracked []Releaser
}

// Track registers value with the scope and returns it unchanged.
func Track[T Releaser](scope *FrameScope, value T) T {
	scope.tracked = append(scope.tracked, value)
	return value
}

func (s *FrameScope) Len() int {
	return len(s.tracked)
}

func (s *FrameScope) Release() {
	for idx := len(s.tracked) - 1; idx >= 0; idx-- {
		s.tracked[idx].Release()
		s.tracked[idx] = nil
	}

	s.tracked = s.tracked[:0]
}
