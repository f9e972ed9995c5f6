package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collab.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
[invite]
secret = "s3cret"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "1", cfg.Directory.CurrentUser)
	assert.Equal(t, "https://app.eonix.io", cfg.Invite.BaseURL)
	assert.Equal(t, 168, cfg.Invite.TTLHours)
	assert.True(t, cfg.Issues.SeedDemoData)
	assert.Equal(t, 30, cfg.Webhooks.FlushRatePerMinute)
	// missing roster falls back to the demo team
	assert.Len(t, cfg.Directory.Members, 5)

	require.NoError(t, Validate(cfg))
}

func TestLoadConfigRoster(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000

[directory]
current_user = "a"

[[directory.members]]
id = "a"
name = "Ada Lovelace"
email = "ada@eonix.io"
role = "admin"

[[directory.members]]
id = "b"
name = "Bob Martin"
email = "bob@eonix.io"
initials = "BM"
role = "viewer"

[invite]
secret = "s3cret"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	require.Len(t, cfg.Directory.Members, 2)
	assert.Equal(t, "Ada Lovelace", cfg.Directory.Members[0].Name)
	assert.Equal(t, "viewer", cfg.Directory.Members[1].Role)
	require.NoError(t, Validate(cfg))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("EONIX_SERVER_PORT", "7777")
	path := writeConfig(t, `
[invite]
secret = "s3cret"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
}

func TestValidateFailures(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 8090
		cfg.Directory.CurrentUser = "1"
		cfg.Directory.Members = DefaultRoster()
		cfg.Invite.Secret = "s"
		cfg.Webhooks.FlushRatePerMinute = 30
		return cfg
	}

	cfg := base()
	cfg.Server.Port = 0
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.Directory.Members = nil
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.Directory.CurrentUser = "nope"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.Directory.Members[0].Role = "owner"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.Invite.Secret = ""
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.Webhooks.FlushRatePerMinute = 0
	assert.Error(t, Validate(cfg))
}
