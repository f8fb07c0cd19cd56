package services

import "errors"

// Service-level errors mapped to HTTP statuses by the handlers. Store
// failures never leak their details past ErrInternal.
var (
	ErrParentNotFound      = errors.New("parent comment not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrNotFoundOrForbidden = errors.New("comment not found or access denied")
	ErrInternal            = errors.New("internal error")
)
