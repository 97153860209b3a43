package bootstrap

import "os"

// OSEnv is the real process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

func (OSEnv) Setenv(key, value string) error { return os.Setenv(key, value) }

// MapEnv is an in-memory environment, used by tests and dry runs.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapEnv) Setenv(key, value string) error {
	m[key] = value
	return nil
}

// Getenv adapts the map to a LookupFunc.
func (m MapEnv) Getenv(key string) string { return m[key] }
