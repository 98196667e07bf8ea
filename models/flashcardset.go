package models

import "gorm.io/gorm"

// Difficulty levels a set can be tagged with.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// FlashcardSet represents a collection of flashcards
type FlashcardSet struct {
	gorm.Model
	PublicID    string `gorm:"size:100;uniqueIndex" json:"public_id"`
	Name        string `gorm:"not null;size:200" json:"name"`
	Description string `json:"description"`

	CategoryID *uint     `json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`

	Difficulty string `gorm:"size:20;default:beginner" json:"difficulty"`
	IsPublic   bool   `gorm:"default:false" json:"is_public"`

	UserID uint `gorm:"not null;index" json:"-"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Flashcards []Flashcard `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE" json:"flashcards,omitempty"`

	// Derived counters, written only by stats.Recompute.
	TotalCards    int `gorm:"default:0" json:"total_cards"`
	StillLearning int `gorm:"default:0" json:"still_learning"`
	Mastered      int `gorm:"default:0" json:"mastered"`
}
