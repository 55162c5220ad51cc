package models

import "strings"

// SanitizeKeySegment escapes the key delimiter so a client-controlled
// segment cannot address another bucket. IPv6 addresses rely on this.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewIPKey builds the bucket key for a client IP.
func NewIPKey(ip string) string {
	return string(KeyPrefixIP) + ":" + SanitizeKeySegment(ip)
}
