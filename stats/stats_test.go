package stats

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanzicards/hanzicards-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.FlashcardSet{}, &models.Flashcard{}))
	return db
}

func seedSet(t *testing.T, db *gorm.DB) *models.FlashcardSet {
	t.Helper()
	user := models.User{Username: "lin", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	set := models.FlashcardSet{PublicID: "set-1", Name: "HSK 1", UserID: user.ID}
	require.NoError(t, db.Create(&set).Error)
	return &set
}

func addCard(t *testing.T, db *gorm.DB, setID uint, word string, mastered bool) *models.Flashcard {
	t.Helper()
	card := models.Flashcard{
		PublicID:    "card-" + word,
		Word:        word,
		Translation: "t",
		Pinyin:      "p",
		Mastered:    mastered,
		SetID:       setID,
	}
	require.NoError(t, db.Create(&card).Error)
	return &card
}

func counters(t *testing.T, db *gorm.DB, setID uint) (total, learning, mastered int) {
	t.Helper()
	var set models.FlashcardSet
	require.NoError(t, db.First(&set, setID).Error)
	return set.TotalCards, set.StillLearning, set.Mastered
}

func TestRecompute_CountsCards(t *testing.T) {
	db := newTestDB(t)
	set := seedSet(t, db)
	addCard(t, db, set.ID, "一", false)
	addCard(t, db, set.ID, "二", true)
	addCard(t, db, set.ID, "三", true)

	require.NoError(t, Recompute(db, set.ID))

	total, learning, mastered := counters(t, db, set.ID)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, learning)
	assert.Equal(t, 2, mastered)
	assert.Equal(t, total, learning+mastered)
}

func TestRecompute_EmptySetZeroesCounters(t *testing.T) {
	db := newTestDB(t)
	set := seedSet(t, db)
	card := addCard(t, db, set.ID, "一", true)
	require.NoError(t, Recompute(db, set.ID))

	require.NoError(t, db.Delete(card).Error)
	require.NoError(t, Recompute(db, set.ID))

	total, learning, mastered := counters(t, db, set.ID)
	assert.Zero(t, total)
	assert.Zero(t, learning)
	assert.Zero(t, mastered)
}

func TestRecompute_IgnoresOtherSets(t *testing.T) {
	db := newTestDB(t)
	set := seedSet(t, db)
	other := models.FlashcardSet{PublicID: "set-2", Name: "HSK 2", UserID: set.UserID}
	require.NoError(t, db.Create(&other).Error)

	addCard(t, db, set.ID, "一", false)
	addCard(t, db, other.ID, "二", true)

	require.NoError(t, Recompute(db, set.ID))
	require.NoError(t, Recompute(db, other.ID))

	total, learning, mastered := counters(t, db, set.ID)
	assert.Equal(t, []int{1, 1, 0}, []int{total, learning, mastered})

	total, learning, mastered = counters(t, db, other.ID)
	assert.Equal(t, []int{1, 0, 1}, []int{total, learning, mastered})
}

func TestRecompute_MissingSetIsNoOp(t *testing.T) {
	db := newTestDB(t)
	// Set row already gone (cascade path): nothing to update, no error.
	assert.NoError(t, Recompute(db, 9999))
}

func TestRecompute_RollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)
	set := seedSet(t, db)
	addCard(t, db, set.ID, "一", false)
	require.NoError(t, Recompute(db, set.ID))

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, tx.Create(&models.Flashcard{
		PublicID: "card-rollback", Word: "四", Translation: "t", Pinyin: "p", SetID: set.ID,
	}).Error)
	require.NoError(t, Recompute(tx, set.ID))
	tx.Rollback()

	total, learning, mastered := counters(t, db, set.ID)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, learning)
	assert.Equal(t, 0, mastered)

	var count int64
	require.NoError(t, db.Model(&models.Flashcard{}).Where("set_id = ?", set.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
