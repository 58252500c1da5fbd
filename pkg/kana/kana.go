// Package kana holds small kana conversions used to compare readings.
package kana

// ToHiragana converts Katakana to Hiragana. Other runes, including the
// prolonged sound mark ー, are left alone.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// IsKana reports whether s is non-empty and made only of hiragana,
// katakana and the prolonged sound mark.
func IsKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 0x3041 && r <= 0x309F:
		case r >= 0x30A0 && r <= 0x30FF:
		default:
			return false
		}
	}
	return true
}
