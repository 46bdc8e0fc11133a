// internal/platform/sourceset/configextract.go
package sourceset

import "time"

// Type-safe extraction helpers for a ports.SourceConfig.Custom map, so
// individual source adapters don't repeat the same type-switch boilerplate.

// String extracts a string value with a default fallback.
func String(custom map[string]string, key, defaultValue string) string {
	if custom == nil {
		return defaultValue
	}
	if val, ok := custom[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

// Duration extracts a time.Duration value, parsed via time.ParseDuration.
func Duration(custom map[string]string, key string, defaultValue time.Duration) time.Duration {
	if custom == nil {
		return defaultValue
	}
	val, exists := custom[key]
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultValue
}
