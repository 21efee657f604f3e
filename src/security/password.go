// Package security covers credential handling: the signup password-strength
// meter, bcrypt hashing for stored credentials, and session token generation.
package security

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Strength labels map score bands for the signup meter.
type Strength string

const (
	StrengthVeryWeak Strength = "very-weak"
	StrengthWeak     Strength = "weak"
	StrengthFair     Strength = "fair"
	StrengthStrong   Strength = "strong"
)

// commonPasswords are rejected outright regardless of composition. The real
// blocklist lives with the frontend assets; this is the serverside floor.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "123456": {}, "12345678": {},
	"qwerty": {}, "letmein": {}, "abc123": {}, "111111": {},
	"iloveyou": {}, "admin": {}, "welcome": {}, "monkey": {},
}

// ScorePassword rates a password 0..100. Length dominates, character-class
// variety adds, repeated and sequential runs subtract, known-common passwords
// floor to zero.
func ScorePassword(pw string) int {
	if pw == "" {
		return 0
	}
	if _, ok := commonPasswords[strings.ToLower(pw)]; ok {
		return 0
	}
	score := 0
	// length: 4 points per char up to 48
	n := len(pw)
	if n > 12 {
		score = 48
	} else {
		score = n * 4
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	for _, ok := range []bool{hasLower, hasUpper, hasDigit, hasSymbol} {
		if ok {
			score += 13
		}
	}
	score -= 10 * repeatedRuns(pw)
	score -= 10 * sequentialRuns(pw)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// StrengthFor maps a score into the meter band.
func StrengthFor(score int) Strength {
	switch {
	case score < 30:
		return StrengthVeryWeak
	case score < 55:
		return StrengthWeak
	case score < 80:
		return StrengthFair
	}
	return StrengthStrong
}

// repeatedRuns counts runs of 3+ identical characters ("aaa", "111").
func repeatedRuns(s string) int {
	runs, runLen := 0, 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			runLen++
			if runLen == 3 {
				runs++
			}
		} else {
			runLen = 1
		}
	}
	return runs
}

// sequentialRuns counts ascending runs of 3+ consecutive characters
// ("abc", "123").
func sequentialRuns(s string) int {
	runs, runLen := 0, 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1]+1 {
			runLen++
			if runLen == 3 {
				runs++
			}
		} else {
			runLen = 1
		}
	}
	return runs
}

// HashPassword bcrypt-hashes a password at the default cost.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether pw matches the stored bcrypt hash.
func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
