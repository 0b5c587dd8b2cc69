// backend-go/internal/domain/errors.go
package domain

import "errors"

// Sentinel errors callers branch on. Repositories translate driver-level
// not-found conditions into these.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrAlertNotFound    = errors.New("alert not found")
	ErrNoForecast       = errors.New("no forecast generated for product")
)
