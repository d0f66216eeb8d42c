package services

import (
	"time"

	"github.com/LovationAdmin/horizon-api/models"
)

// PendingWindow is how long a transaction is shown as still clearing.
const PendingWindow = 2 * 24 * time.Hour

// ResolveStatus returns pending while now is within PendingWindow of date.
// Dates in the future are pending too.
func ResolveStatus(date, now time.Time) models.Status {
	if now.Sub(date) <= PendingWindow {
		return models.StatusPending
	}
	return models.StatusSuccess
}

func ResolveStatusNow(date time.Time) models.Status {
	return ResolveStatus(date, time.Now())
}
