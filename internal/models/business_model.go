package models

import "time"

// BusinessModel is a committed lean-canvas style model generated from a
// free-text business idea. Field columns mirror the generation schema order.
type BusinessModel struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// SourceIdea is the raw input text the generation session ran on.
	SourceIdea string `gorm:"type:text" json:"sourceIdea"`

	Summary                string `gorm:"type:text" json:"summary"`
	Problem                string `gorm:"type:text" json:"problem"`
	Solution               string `gorm:"type:text" json:"solution"`
	UniqueValueProposition string `gorm:"type:text" json:"uniqueValueProposition"`
	CustomerSegments       string `gorm:"type:text" json:"customerSegments"`
	EarlyAdopters          string `gorm:"type:text" json:"earlyAdopters"`
	ExistingAlternatives   string `gorm:"type:text" json:"existingAlternatives"`
	Channels               string `gorm:"type:text" json:"channels"`
	RevenueStreams         string `gorm:"type:text" json:"revenueStreams"`
	Costs                  string `gorm:"type:text" json:"costs"`
	KeyMetrics             string `gorm:"type:text" json:"keyMetrics"`
	UnfairAdvantage        string `gorm:"type:text" json:"unfairAdvantage"`
	HighLevelConcept       string `gorm:"type:text" json:"highLevelConcept"`
}
