package repositories

import "gorm.io/gorm"

// Page selects a 1-based page of Size rows. A zero Size means no limit.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	if p.Size <= 0 {
		return db
	}
	return db.Offset(p.Offset()).Limit(p.Size)
}
