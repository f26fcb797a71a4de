package security

import (
	"regexp"
	"unicode/utf8"
)

type Strength string

const (
	Weak    Strength = "weak"
	Average Strength = "average"
	Strong  Strength = "strong"
)

var (
	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`\d`)
	// a special character only counts when something precedes it; ",-," in
	// the class is a range of one, so '-' itself does not count but ',' does
	specialRe = regexp.MustCompile(`.[!,@,#,$,%,^,&,*,?,_,~,-,(,)]`)
)

// CheckPassword scores a candidate password.
func CheckPassword(password string) Strength {
	length := utf8.RuneCountInString(password)
	if length <= 4 {
		return Weak
	}

	unique := make(map[rune]struct{})
	for _, r := range password {
		unique[r] = struct{}{}
	}
	if len(unique) < 3 {
		return Weak
	}

	score := 0
	if length >= 6 {
		score++
	}
	if length >= 8 {
		score++
	}
	if lowerRe.MatchString(password) && upperRe.MatchString(password) {
		score += 2
	}
	if digitRe.MatchString(password) {
		score++
	}
	if specialRe.MatchString(password) {
		score++
	}

	switch {
	case score >= 4:
		return Strong
	case score >= 2:
		return Average
	default:
		return Weak
	}
}
