package utils

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const (
	slugMaxLen      = 75
	slugStartDigits = 3
	slugMaxAttempts = 10
)

// ErrSlugExhausted is returned when no unique slug could be found within
// the retry budget.
var ErrSlugExhausted = errors.New("slug: no unique slug found after max attempts")

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^\w-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// slugIntn picks the random part of a suffix. A variable so tests can
// pin it and drive the retry loop deterministically.
var slugIntn = rand.Intn

// Slugify normalizes a display title into a URL-safe slug and appends a
// random numeric suffix with digits+1 digits to improve uniqueness.
func Slugify(text string, digits int) string {
	s := strings.ToLower(text)
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > slugMaxLen {
		s = s[:slugMaxLen]
	}
	exp := 1
	for i := 0; i < digits; i++ {
		exp *= 10
	}
	return fmt.Sprintf("%s-%d", s, exp+slugIntn(9*exp))
}

// UniqueSlug returns a slug for the given title that no other row of
// model carries. The record being saved may keep a slug it already owns
// (rename case). Each collision widens the random suffix by one digit;
// after slugMaxAttempts tries it gives up with ErrSlugExhausted.
func UniqueSlug(db *gorm.DB, model interface{}, id uint, title string) (string, error) {
	for digits := slugStartDigits; digits < slugStartDigits+slugMaxAttempts; digits++ {
		slug := Slugify(title, digits)

		var existing []uint
		if err := db.Model(model).Where("slug = ?", slug).Limit(1).Pluck("id", &existing).Error; err != nil {
			return "", err
		}
		if len(existing) == 0 || existing[0] == id {
			return slug, nil
		}
	}
	return "", ErrSlugExhausted
}
