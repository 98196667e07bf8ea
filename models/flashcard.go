package models

import (
	"gorm.io/gorm"
)

// Flashcard represents an individual word card
type Flashcard struct {
	gorm.Model
	PublicID    string `gorm:"size:100;uniqueIndex" json:"public_id"`
	Word        string `gorm:"not null;size:50;index:idx_word_pinyin" json:"word"`
	Translation string `gorm:"not null;size:500" json:"translation"`
	Pinyin      string `gorm:"size:200;index:idx_word_pinyin" json:"pinyin"`

	Definition      string `json:"definition"`
	ExampleSentence string `json:"example_sentence"`
	AudioURL        string `gorm:"size:500" json:"audio_url"`
	HSKLevel        *int   `gorm:"index" json:"hsk_level"`

	SetID        uint         `gorm:"not null;index" json:"-"`
	FlashcardSet FlashcardSet `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE" json:"-"`

	Mastered bool `gorm:"default:false" json:"mastered"`
}
