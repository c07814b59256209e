package service

import "errors"

// Sentinel errors for workflow violations. Handlers map these to HTTP codes:
// ErrForbidden → 403, ErrAwardConflict → 409, the rest → 400.
var (
	ErrForbidden      = errors.New("operation not permitted for this role")
	ErrAlreadyAwarded = errors.New("abstract of quotation is already awarded")
	ErrAwardConflict  = errors.New("award conflict: the abstract was modified concurrently")
)
