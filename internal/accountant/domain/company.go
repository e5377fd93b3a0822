package domain

import "time"

// Company is a bookkeeping administration owned by a single principal.
type Company struct {
	ID        string
	Name      string
	OwnerID   string
	KvK       string // Chamber of Commerce number, optional
	CreatedAt time.Time
	UpdatedAt time.Time
}
