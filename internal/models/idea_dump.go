package models

import "time"

// IdeaDump is a committed analysis of a raw idea dump. It may optionally be
// attached to an existing business model, whose fields were used as read-only
// context while the analysis was generated.
type IdeaDump struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	BusinessModelID *uint `gorm:"index:idx_dump_business_model" json:"businessModelId,omitempty"`

	// RawText is the original dump the analysis ran on.
	RawText string `gorm:"type:text" json:"rawText"`

	Title          string `gorm:"size:255" json:"title"`
	Summary        string `gorm:"type:text" json:"summary"`
	Pros           string `gorm:"type:text" json:"pros"`
	Cons           string `gorm:"type:text" json:"cons"`
	Classification string `gorm:"size:64" json:"classification"`
}
