package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name (or "non_field_errors") to the messages
// raised against it.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Has reports whether any error was recorded for the given field.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// FlashcardInput is the raw, untrusted card payload.
type FlashcardInput struct {
	Word            string
	Translation     string
	Pinyin          string
	Definition      string
	ExampleSentence string
	AudioURL        string
	HSKLevel        *int
	Mastered        bool
}

// NormalizedFlashcard is a FlashcardInput whose text fields have been
// trimmed of surrounding whitespace.
type NormalizedFlashcard FlashcardInput

// card mirrors NormalizedFlashcard with validation tags. Field names are
// reported through the json tag so errors key the way the API spells them.
type card struct {
	Word            string `json:"word" validate:"required,max=50,hanzi"`
	Translation     string `json:"translation" validate:"required"`
	ExampleSentence string `json:"example_sentence" validate:"omitempty,max=1000"`
	HSKLevel        *int   `json:"hsk_level" validate:"omitempty,min=1,max=6"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// hanzi: at least one CJK Unified Ideograph (U+4E00..U+9FFF).
	v.RegisterValidation("hanzi", func(fl validator.FieldLevel) bool {
		return ContainsHanzi(fl.Field().String())
	})
	return v
}

// ContainsHanzi reports whether s contains at least one CJK Unified
// Ideograph.
func ContainsHanzi(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// ValidateFlashcard normalizes and validates a card payload. It performs no
// I/O; resolving the target set against the store is the caller's job. On
// failure the returned FieldErrors carries every violation, keyed by field.
func ValidateFlashcard(in FlashcardInput) (NormalizedFlashcard, FieldErrors) {
	norm := NormalizedFlashcard{
		Word:            strings.TrimSpace(in.Word),
		Translation:     strings.TrimSpace(in.Translation),
		Pinyin:          strings.TrimSpace(in.Pinyin),
		Definition:      strings.TrimSpace(in.Definition),
		ExampleSentence: strings.TrimSpace(in.ExampleSentence),
		AudioURL:        strings.TrimSpace(in.AudioURL),
		HSKLevel:        in.HSKLevel,
		Mastered:        in.Mastered,
	}

	errs := FieldErrors{}
	err := validate.Struct(card{
		Word:            norm.Word,
		Translation:     norm.Translation,
		ExampleSentence: norm.ExampleSentence,
		HSKLevel:        norm.HSKLevel,
	})
	if err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs.add(fe.Field(), cardMessage(fe))
		}
	}

	// Both word and translation missing collapses into one combined error
	// instead of two per-field ones.
	if norm.Word == "" && norm.Translation == "" {
		delete(errs, "word")
		delete(errs, "translation")
		errs.add("non_field_errors", "word and translation are required")
	}

	// Chinese words need a pinyin rendering.
	if ContainsHanzi(norm.Word) && norm.Pinyin == "" {
		errs.add("pinyin", "pinyin is required for Chinese words")
	}

	if len(errs) > 0 {
		return NormalizedFlashcard{}, errs
	}
	return norm, nil
}

func cardMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "word":
		switch fe.Tag() {
		case "required":
			return "word must not be empty"
		case "max":
			return fmt.Sprintf("word is too long (maximum %s characters)", fe.Param())
		case "hanzi":
			return "word must contain Chinese characters"
		}
	case "translation":
		return "translation must not be empty"
	case "example_sentence":
		return fmt.Sprintf("example sentence is too long (maximum %s characters)", fe.Param())
	case "hsk_level":
		return "HSK level must be between 1 and 6"
	}
	return fmt.Sprintf("invalid value for %s", fe.Field())
}

// SetInput is the raw flashcard-set payload.
type SetInput struct {
	Name        string
	Description string
	Category    string
	Difficulty  string
	IsPublic    bool
}

// NormalizedSet is a SetInput with trimmed text fields and the difficulty
// defaulted to beginner.
type NormalizedSet SetInput

// ValidateFlashcardSet normalizes and validates a set payload.
func ValidateFlashcardSet(in SetInput) (NormalizedSet, FieldErrors) {
	norm := NormalizedSet{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Difficulty:  strings.TrimSpace(in.Difficulty),
		IsPublic:    in.IsPublic,
	}
	if norm.Difficulty == "" {
		norm.Difficulty = "beginner"
	}

	errs := FieldErrors{}
	if norm.Name == "" {
		errs.add("name", "name must not be empty")
	} else if utf8.RuneCountInString(norm.Name) > 200 {
		errs.add("name", "name is too long (maximum 200 characters)")
	}
	switch norm.Difficulty {
	case "beginner", "intermediate", "advanced":
	default:
		errs.add("difficulty", "difficulty must be one of beginner, intermediate, advanced")
	}

	if len(errs) > 0 {
		return NormalizedSet{}, errs
	}
	return norm, nil
}
