// Package stats maintains the derived counters on a flashcard set. Every
// card write path calls Recompute inside its own transaction; nothing else
// may touch total_cards, still_learning or mastered.
package stats

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hanzicards/hanzicards-api/models"
)

// Recompute recounts the cards owned by setID and writes the three derived
// columns back to the set. Pass the same *gorm.DB (transaction) that carried
// the triggering card mutation so the pair commits or rolls back as one unit.
// The set row is locked before counting; under read committed, two card
// writes to the same set would otherwise each count only its own row and the
// last committer would leave stale totals. If the set row no longer exists
// (cascade delete of the parent) Recompute is a no-op. SQLite has no
// row-level locks; its driver drops the clause and serializes writers
// itself.
func Recompute(db *gorm.DB, setID uint) error {
	var set models.FlashcardSet
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&set, setID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stats: lock set %d: %w", setID, err)
	}

	var total, mastered int64

	if err := db.Model(&models.Flashcard{}).
		Where("set_id = ?", setID).
		Count(&total).Error; err != nil {
		return fmt.Errorf("stats: count cards for set %d: %w", setID, err)
	}

	if err := db.Model(&models.Flashcard{}).
		Where("set_id = ? AND mastered = ?", setID, true).
		Count(&mastered).Error; err != nil {
		return fmt.Errorf("stats: count mastered for set %d: %w", setID, err)
	}

	err = db.Model(&models.FlashcardSet{}).
		Where("id = ?", setID).
		Updates(map[string]interface{}{
			"total_cards":    total,
			"mastered":       mastered,
			"still_learning": total - mastered,
		}).Error
	if err != nil {
		return fmt.Errorf("stats: update counters for set %d: %w", setID, err)
	}
	return nil
}
