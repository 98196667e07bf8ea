package models

import "gorm.io/gorm"

// Category groups flashcard sets by topic. Names are unique; set creation
// reuses an existing row when the name already exists.
type Category struct {
	gorm.Model
	Name string `gorm:"not null;size:100;uniqueIndex" json:"name"`
}
