package validate

import (
	"testing"
	"unicode"
)

// FuzzSanitizeLine tests that sanitized lines hold no control characters.
// Run with: go test ./internal/validate/ -fuzz=FuzzSanitizeLine -fuzztime=30s
func FuzzSanitizeLine(f *testing.F) {
	seeds := []string{
		"add entity",
		"set n1 name door\r",
		"\x00\x1b[31mred\x1b[0m",
		"\tundo\t",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		for _, r := range SanitizeLine(input) {
			if unicode.IsControl(r) && r != '\n' {
				t.Fatalf("control character %U survived", r)
			}
		}
	})
}

// FuzzSpawnargKey tests that accepted keys can be written as a quoted token.
func FuzzSpawnargKey(f *testing.F) {
	for _, seed := range []string{"origin", "light_radius", "bad key", `"`, ""} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, key string) {
		if SpawnargKey(key) != nil {
			return
		}
		for _, r := range key {
			if r == '"' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				t.Fatalf("key %q accepted with %q", key, r)
			}
		}
	})
}
