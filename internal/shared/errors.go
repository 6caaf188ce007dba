package shared

import "github.com/devmarket/devmarket/internal/platform/httpx"

// ErrNotFound indicates resource not found. Package-level not-found errors
// wrap it so the HTTP layer maps them to 404.
var ErrNotFound = httpx.ErrNotFound
