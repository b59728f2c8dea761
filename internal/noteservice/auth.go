package noteservice

import "context"

// AuthPassed reports whether the unlock flag has been recorded.
func (s *Service) AuthPassed(ctx context.Context) bool {
	return s.store.HasAuthPassed(ctx)
}

// SetAuthPassed records the unlock flag.
func (s *Service) SetAuthPassed(ctx context.Context) error {
	return s.store.SetAuthPassed(ctx)
}

// ClearAuth forgets the unlock flag.
func (s *Service) ClearAuth(ctx context.Context) error {
	return s.store.ClearAuth(ctx)
}
