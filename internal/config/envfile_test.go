package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.env")
	content := `# comment
BOT_TOKEN=abc123
export SUPPORT_URL="https://t.me/helpdesk"
TARIFF_BASIC_STARS='75'
BROKEN LINE
ALREADY_SET=from_file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("ALREADY_SET", "from_env")
	for _, k := range []string{"BOT_TOKEN", "SUPPORT_URL", "TARIFF_BASIC_STARS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "abc123", os.Getenv("BOT_TOKEN"))
	assert.Equal(t, "https://t.me/helpdesk", os.Getenv("SUPPORT_URL"), "quotes and export prefix are stripped")
	assert.Equal(t, "75", os.Getenv("TARIFF_BASIC_STARS"))
	assert.Equal(t, "from_env", os.Getenv("ALREADY_SET"), "existing environment wins over the file")
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, LoadEnvFile(""))
}
