package model

import "time"

// DownloadToken is a short-lived bearer credential authorizing file-URL
// resolution, independent of login state. A token is usable while
// now < ExpiresAt AND (MaxDownloads is nil OR DownloadCount < MaxDownloads).
// Each successful redemption increments DownloadCount by exactly one,
// atomically with respect to concurrent redemptions of the same token.
type DownloadToken struct {
	Token         string // opaque random hex, primary key
	ProductID     string
	UserID        *string
	OrderID       *string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	MaxDownloads  *int // nil = unlimited
	DownloadCount int
}

func (t *DownloadToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *DownloadToken) Exhausted() bool {
	return t.MaxDownloads != nil && t.DownloadCount >= *t.MaxDownloads
}

// DownloadLog is an append-only record of a redeemed token. Best-effort;
// a failed append never blocks the download.
type DownloadLog struct {
	ID        string
	Token     string
	ProductID string
	FileIndex int
	CreatedAt time.Time
}
