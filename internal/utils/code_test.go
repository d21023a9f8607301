package utils

import (
	"strings"
	"testing"
)

func TestGenerateStudentCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := GenerateStudentCode()
		if len(code) != StudentCodeLength {
			t.Fatalf("expected %d chars, got %q", StudentCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeCharset, r) {
				t.Fatalf("code %q contains character outside charset", code)
			}
		}
		seen[code] = true
	}
	// 1000 draws from a 36^6 space virtually never collide completely
	if len(seen) < 900 {
		t.Errorf("suspiciously many duplicate codes: %d unique of 1000", len(seen))
	}
}
