// Package env reads process environment variables with a fallback for
// values that are unset or blank.
package env

import "os"

// Get returns the named variable, or fallback when it is unset or empty.
func Get(name, fallback string) string {
	if val, ok := os.LookupEnv(name); ok && val != "" {
		return val
	}
	return fallback
}
