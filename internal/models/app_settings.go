package models

type AppSettings struct {
	ID               uint   `gorm:"primaryKey"` // single-row table (ID=1)
	Version          int    `gorm:"not null;default:1"`
	PreferredBackend string `gorm:"not null;default:auto"` // "auto" | "managed" | "local"
	Locale           string `gorm:"not null"`
	DefaultModelKey  string `gorm:"size:255"` // managed model used when the managed backend is selected
	UpdatedAt        string
}
