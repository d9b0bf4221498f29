package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"pagequery/internal/application/port/output"
)

var _ output.ConfigPort = (*EnvService)(nil)

var ErrMissing = errors.New("required environment variable is missing")

type EnvService struct {
	appEnv string
	loaded []string
}

// NewEnvService загружает .env и затем .env.$APP_ENV поверх него.
// Отсутствие файлов не ошибка: переменные могут прийти из окружения.
func NewEnvService(dir string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	s := &EnvService{appEnv: appEnv}

	base := filepath.Join(dir, ".env")
	if err := godotenv.Load(base); err == nil {
		s.loaded = append(s.loaded, base)
	}

	overlay := filepath.Join(dir, ".env."+appEnv)
	if err := godotenv.Overload(overlay); err == nil {
		s.loaded = append(s.loaded, overlay)
	}

	return s
}

func (e *EnvService) AppEnv() string {
	return e.appEnv
}

// Loaded lists the env files that were found and applied.
func (e *EnvService) Loaded() []string {
	return e.loaded
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) Require(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%w: %s", ErrMissing, key)
	}
	return val, nil
}

func (e *EnvService) GetWithDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDuration accepts Go durations ("5s") or bare milliseconds ("500").
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
