package model

import (
	"time"

	"mixpool-commerce/internal/domain"
)

// TierAccess gates whether a product requires purchase vs. an active
// subscription of sufficient level.
type TierAccess string

const (
	TierPaid  TierAccess = "paid"  // one-off purchase, proof of order required
	TierBasic TierAccess = "basic" // any active subscription
	TierPro   TierAccess = "pro"   // active pro subscription
)

// ProductFile is a pointer to the underlying asset. Bytes are never proxied
// through this service; callers fetch the URL directly.
type ProductFile struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Product is a downloadable catalog item (track, mixtape, pack).
// DownloadLimit is the per-purchase token quota; nil means unlimited.
type Product struct {
	ID            string
	Title         string
	Published     bool
	TierAccess    TierAccess
	Price         int64 // minor currency unit
	DownloadLimit *int
	DownloadCount int64 // aggregate, best-effort counter
	Files         []ProductFile
	CreatedAt     time.Time
}

// FileAt bounds-checks idx against the product's file list.
func (p *Product) FileAt(idx int) (ProductFile, error) {
	if idx < 0 || idx >= len(p.Files) {
		return ProductFile{}, domain.ErrFileIndexOutOfRange
	}
	return p.Files[idx], nil
}

// NewProduct validates and constructs a product.
func NewProduct(id, title string, tier TierAccess, price int64, files []ProductFile) (*Product, error) {
	if id == "" || title == "" || price < 0 || len(files) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	switch tier {
	case TierPaid, TierBasic, TierPro:
	default:
		return nil, domain.ErrInvalidArgument
	}
	return &Product{
		ID:         id,
		Title:      title,
		TierAccess: tier,
		Price:      price,
		Files:      files,
		CreatedAt:  time.Now(),
	}, nil
}
