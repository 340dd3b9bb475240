package auth

import "unicode/utf8"

// MinPasswordLength is the minimum number of characters a password needs.
const MinPasswordLength = 8

// IsValidPassword reports whether candidate is at least MinPasswordLength
// characters long and contains an ASCII letter, a decimal digit and at least
// one character that is neither.
func IsValidPassword(candidate string) bool {
	if utf8.RuneCountInString(candidate) < MinPasswordLength {
		return false
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range candidate {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}
