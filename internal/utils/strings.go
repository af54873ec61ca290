package utils

import (
	"strings"
)

// TruncateBytes cuts s to at most n bytes without splitting a UTF-8 sequence.
// Providers reject over-long references rather than trimming them.
func TruncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// MaskPhoneNumber keeps the country code and the last 3 digits visible for logs
func MaskPhoneNumber(phone string) string {
	if len(phone) <= 6 {
		return phone
	}
	return phone[:3] + strings.Repeat("*", len(phone)-6) + phone[len(phone)-3:]
}

// FirstNonEmpty returns the first argument that is not blank
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
