package population

import "github.com/L3pereira/ndgms/internal/model"

// Locator decides whether an epicenter is close enough to a populated
// area to justify an immediate-response alert. Accuracy is deliberately
// pluggable; the static implementation below is a coarse default.
//
//go:generate mockery --name Locator
type Locator interface {
	IsNearPopulatedArea(loc model.Location) bool
}
