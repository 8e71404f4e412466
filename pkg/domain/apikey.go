package domain

import "strings"

// ModelKey is an LLM provider key registered by the user.
type ModelKey struct {
	ModelName string `json:"model_name"`
	APIKey    string `json:"api_key"`
	IsActive  bool   `json:"is_active"`
	IsVisible bool   `json:"is_visible"`
}

// ModelSummary is the key-less model entry offered by the chat harness.
type ModelSummary struct {
	ModelName string `json:"model_name"`
	IsActive  bool   `json:"is_active"`
}

// MaskSecret hides all but the last four characters of s. Secrets of four
// characters or fewer are hidden entirely.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
