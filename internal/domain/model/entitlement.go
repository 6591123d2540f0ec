package model

import "time"

// ProductAccess grants a user the right to download a product a bounded
// number of times, optionally until an expiry. Repurchase increments
// DownloadsRemaining; it never resets or lowers it.
type ProductAccess struct {
	UserID             string
	ProductID          string
	DownloadsRemaining int
	ExpiresAt          *time.Time
	LastPurchasedAt    time.Time
	LastDownloadedAt   *time.Time
}

// Usable reports whether the record permits a download right now.
func (a *ProductAccess) Usable(now time.Time) bool {
	if a.DownloadsRemaining <= 0 {
		return false
	}
	if a.ExpiresAt != nil && !now.Before(*a.ExpiresAt) {
		return false
	}
	return true
}
