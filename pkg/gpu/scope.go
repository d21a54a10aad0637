package gpu

import "errors"

// Scope owns resources acquired during initialization and releases them in
// reverse order. Acquire resources through Add right after they are created,
// then either Release the scope on failure or hand it to the owner.
type Scope struct {
	resources []Releaser
}

// Add takes ownership of r. nil is ignored.
func (s *Scope) Add(r Releaser) {
	if r == nil {
		return
	}
	s.resources = append(s.resources, r)
}

// Release releases every owned resource, last acquired first. The scope is
// empty afterwards, so calling Release again is a no-op.
func (s *Scope) Release() error {
	var errs []error
	for i := len(s.resources) - 1; i >= 0; i-- {
		if err := s.resources[i].Release(); err != nil {
			errs = append(errs, err)
		}
	}
	s.resources = nil
	return errors.Join(errs...)
}

// ReleaserFunc adapts a function to Releaser.
type ReleaserFunc func() error

func (f ReleaserFunc) Release() error {
	return f()
}
