package course

import "gorm.io/gorm"

// Course represents a sellable course
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Author       string  `json:"author"`
	Price        float64 `json:"price" gorm:"default:0"` // in rupees, 0 = free
	Duration     string  `json:"duration"`               // label e.g. "6 weeks"
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `json:"-" gorm:"default:false"`
}

// IsFree reports whether the course can be enrolled without payment.
func (c *Course) IsFree() bool {
	return c.Price <= 0
}
