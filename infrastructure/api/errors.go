package api

import "github.com/reelrec/reelrec/infrastructure/api/middleware"

// ErrNotFound indicates a requested resource does not exist.
var ErrNotFound = middleware.ErrNotFound
