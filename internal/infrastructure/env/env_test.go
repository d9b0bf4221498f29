package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewEnvService_LoadsAndOverlays(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "PQ_TEST_A=base\nPQ_TEST_B=base\n")
	writeFile(t, dir, ".env.test", "PQ_TEST_B=overlay\n")
	t.Setenv("APP_ENV", "test")
	t.Setenv("PQ_TEST_A", "")
	t.Setenv("PQ_TEST_B", "")
	os.Unsetenv("PQ_TEST_A")
	os.Unsetenv("PQ_TEST_B")

	s := NewEnvService(dir)

	assert.Equal(t, "test", s.AppEnv())
	assert.Equal(t, []string{filepath.Join(dir, ".env"), filepath.Join(dir, ".env.test")}, s.Loaded())
	assert.Equal(t, "base", s.Get("PQ_TEST_A"))
	assert.Equal(t, "overlay", s.Get("PQ_TEST_B"))
}

func TestNewEnvService_NoFiles(t *testing.T) {
	t.Setenv("APP_ENV", "")

	s := NewEnvService(t.TempDir())

	assert.Equal(t, "dev", s.AppEnv())
	assert.Empty(t, s.Loaded())
}

func TestEnvService_Getters(t *testing.T) {
	s := &EnvService{}
	t.Setenv("PQ_BOOL", "true")
	t.Setenv("PQ_BAD_BOOL", "maybe")
	t.Setenv("PQ_INT", "42")
	t.Setenv("PQ_DUR", "3s")
	t.Setenv("PQ_MS", "250")
	t.Setenv("PQ_EMPTY", "")

	assert.True(t, s.GetBool("PQ_BOOL", false))
	assert.True(t, s.GetBool("PQ_BAD_BOOL", true))
	assert.False(t, s.GetBool("PQ_EMPTY", false))
	assert.Equal(t, 42, s.GetInt("PQ_INT", 0))
	assert.Equal(t, 7, s.GetInt("PQ_BOOL", 7))
	assert.Equal(t, 3*time.Second, s.GetDuration("PQ_DUR", 0))
	assert.Equal(t, 250*time.Millisecond, s.GetDuration("PQ_MS", 0))
	assert.Equal(t, time.Minute, s.GetDuration("PQ_BOOL", time.Minute))
	assert.Equal(t, "fallback", s.GetWithDefault("PQ_EMPTY", "fallback"))
}

func TestEnvService_Require(t *testing.T) {
	s := &EnvService{}
	t.Setenv("PQ_SET", "v")
	t.Setenv("PQ_UNSET", "")

	v, err := s.Require("PQ_SET")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	_, err = s.Require("PQ_UNSET")
	assert.ErrorIs(t, err, ErrMissing)
}
