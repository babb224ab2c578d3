// internal/form/phone_test.go
//
// Unit-tests for email and NANP phone rules.
//
// Run: go test ./internal/form -run 'Phone|Email' -v

package form

import (
	"math/rand"
	"strings"
	"testing"
)

func randomDigits(r *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + r.Intn(10)))
	}
	return b.String()
}

func TestNormalizePhone_TenDigits(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		d := randomDigits(r, 10)
		if got := NormalizePhone(d); got != "+1"+d {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", d, got, "+1"+d)
		}
	}
}

func TestNormalizePhone_ElevenDigitsLeadingOne(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		d := "1" + randomDigits(r, 10)
		if got := NormalizePhone(d); got != "+"+d {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", d, got, "+"+d)
		}
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{
		"6025550123",
		"16025550123",
		"(602) 555-0123",
		"+1 602.555.0123",
		"+16025550123",
		"12345",
		"  555  ",
		"",
	}
	for _, in := range inputs {
		once := NormalizePhone(in)
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("NormalizePhone not idempotent for %q: %q then %q", in, once, twice)
		}
	}
	if got := NormalizePhone("+16025550123"); got != "+16025550123" {
		t.Errorf("canonical form changed: %q", got)
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"6025550123", true},
		{"602-555-0123", true},
		{"602.555.0123", true},
		{"602 555 0123", true},
		{"(602) 555-0123", true},
		{"(602)555-0123", true},
		{"1-602-555-0123", true},
		{"+1 (602) 555-0123", true},
		{"+16025550123", true},
		{"  602-555-0123  ", true},

		{"12345", false},
		{"555-0123", false},
		{"602-555-01234", false},
		{"26025550123", false},
		{"+2 602 555 0123", false},
		{"602-555-CALL", false},
		{"602x555x0123", false},
		{"602_555_0123", false},
		{"(602 555-0123", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsValidPhone(c.in); got != c.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsValidPhone_RejectsLetters(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	letters := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZé"
	for i := 0; i < 200; i++ {
		d := []rune(randomDigits(r, 10))
		l := []rune(letters)
		d[r.Intn(len(d))] = l[r.Intn(len(l))]
		if IsValidPhone(string(d)) {
			t.Fatalf("IsValidPhone(%q) accepted a letter", string(d))
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"ann.lee+forms@example.co.uk", true},
		{" a@b.com ", true},
		{"a@b", false},
		{"a@@b.com", false},
		{"a@b@c.com", false},
		{"a b@c.com", false},
		{"@b.com", false},
		{"a@.com", false},
		{"a@b.", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsValidEmail(c.in); got != c.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
