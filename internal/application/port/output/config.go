package output

import "time"

type ConfigPort interface {
	Get(key string) string
	Require(key string) (string, error)
	GetWithDefault(key string, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetDuration(key string, defaultValue time.Duration) time.Duration
}
