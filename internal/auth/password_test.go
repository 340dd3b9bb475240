package auth

import "testing"

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"letters digits specials", "Abc123!@#", true},
		{"mixed case with symbol", "Senha@123", true},
		{"symbol at end", "Senha123!", true},
		{"seven characters", "Abc123!", false},
		{"no letter", "12345678!", false},
		{"no digit", "abcdefgh!", false},
		{"no special, too short", "abc123", false},
		{"digits only", "12345678", false},
		{"no special", "senha123", false},
		{"no digit, short", "Senha@", false},
		{"very short", "S@1", false},
		{"space counts as special", "pass word1", true},
		{"non-ascii letter is special", "passwörd1", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPassword(tt.password); got != tt.want {
				t.Errorf("IsValidPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
