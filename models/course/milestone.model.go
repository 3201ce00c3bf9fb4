package course

import "gorm.io/gorm"

// Milestone represents a course sub-unit whose completion contributes to progress
type Milestone struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"` // Milestone order in course
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}

// MilestoneContent represents a content item within a milestone
type MilestoneContent struct {
	gorm.Model
	MilestoneID uint   `json:"milestone_id" gorm:"index;not null"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, PDF
	TextContent string `json:"text_content" gorm:"type:text"`      // For TEXT type
	VideoURL    string `json:"video_url"`                          // For VIDEO type
	PdfURL      string `json:"pdf_url"`                            // For PDF type
	OrderIndex  int    `json:"order_index" gorm:"default:0"`       // Order within milestone
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
