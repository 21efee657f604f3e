package security

import (
	"regexp"
	"testing"
)

func TestScorePasswordBands(t *testing.T) {
	cases := []struct {
		name string
		pw   string
		band Strength
	}{
		{"empty", "", StrengthVeryWeak},
		{"common floored", "Password", StrengthVeryWeak},
		{"common numeric", "123456", StrengthVeryWeak},
		{"short lowercase", "abcf", StrengthVeryWeak},
		{"medium lowercase", "kittens", StrengthWeak},
		{"medium mixed", "kitten42", StrengthFair},
		{"long mixed case digits", "Tr4nquil-Otter", StrengthStrong},
		{"long varied", "correct#Horse9battery", StrengthStrong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := ScorePassword(tc.pw)
			if score < 0 || score > 100 {
				t.Fatalf("score %d out of range", score)
			}
			if got := StrengthFor(score); got != tc.band {
				t.Fatalf("ScorePassword(%q) = %d -> %s, want %s", tc.pw, score, got, tc.band)
			}
		})
	}
}

func TestScorePasswordPenalties(t *testing.T) {
	base := ScorePassword("xkqvmzpt")
	repeated := ScorePassword("xkqvmaaa")
	sequential := ScorePassword("xkqvmabc")
	if repeated >= base {
		t.Fatalf("repeated run not penalized: %d >= %d", repeated, base)
	}
	if sequential >= base {
		t.Fatalf("sequential run not penalized: %d >= %d", sequential, base)
	}
}

func TestScorePasswordMonotonicInLength(t *testing.T) {
	short := ScorePassword("aQ1!")
	long := ScorePassword("aQ1!aQ1!xyzW")
	if long <= short {
		t.Fatalf("longer password scored lower: %d <= %d", long, short)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Fatalf("hash equals plaintext")
	}
	if !VerifyPassword(hash, "hunter2hunter2") {
		t.Fatalf("verify rejected correct password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("verify accepted wrong password")
	}
}

func TestNewTokenShape(t *testing.T) {
	hexRe := regexp.MustCompile(`^[0-9a-f]{64}$`)
	a, err := NewToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	b, err := NewToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if !hexRe.MatchString(a) {
		t.Fatalf("token %q not 64 hex chars", a)
	}
	if a == b {
		t.Fatalf("two tokens identical")
	}
}

func TestNewVerificationCodeShape(t *testing.T) {
	codeRe := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 20; i++ {
		c, err := NewVerificationCode()
		if err != nil {
			t.Fatalf("code: %v", err)
		}
		if !codeRe.MatchString(c) {
			t.Fatalf("code %q not 6 digits", c)
		}
	}
}
