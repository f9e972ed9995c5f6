package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// MemberEntry is a roster member as declared in configuration.
type MemberEntry struct {
	ID       string `koanf:"id"`
	Name     string `koanf:"name"`
	Email    string `koanf:"email"`
	Initials string `koanf:"initials"`
	Role     string `koanf:"role"`
}

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`

	Directory struct {
		CurrentUser string        `koanf:"current_user"`
		Members     []MemberEntry `koanf:"members"`
	} `koanf:"directory"`

	Invite struct {
		Secret   string `koanf:"secret"`
		BaseURL  string `koanf:"base_url"`
		TTLHours int    `koanf:"ttl_hours"`
	} `koanf:"invite"`

	Issues struct {
		PostgresDSN  string `koanf:"postgres_dsn"`
		SeedDemoData bool   `koanf:"seed_demo_data"`
	} `koanf:"issues"`

	Webhooks struct {
		FlushRatePerMinute int `koanf:"flush_rate_per_minute"`
	} `koanf:"webhooks"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"server.port":                    8090,
		"directory.current_user":         "1",
		"invite.base_url":                "https://app.eonix.io",
		"invite.ttl_hours":               168,
		"issues.seed_demo_data":          true,
		"webhooks.flush_rate_per_minute": 30,
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{"./collab.toml", "$HOME/.collab.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix EONIX_
	k.Load(env.Provider("EONIX_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "EONIX_")), "_", ".", -1)
	}), nil)

	// Unmarshal into Config struct
	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// A missing roster falls back to the built-in demo team so the service is
	// usable out of the box.
	if len(config.Directory.Members) == 0 {
		config.Directory.Members = DefaultRoster()
	}

	return &config, nil
}

// DefaultRoster is the built-in demo team used when no roster is configured.
func DefaultRoster() []MemberEntry {
	return []MemberEntry{
		{ID: "1", Name: "Nahom Keneni", Email: "nahom@eonix.io", Initials: "NK", Role: "admin"},
		{ID: "2", Name: "Sarah Chen", Email: "sarah@eonix.io", Initials: "SC", Role: "editor"},
		{ID: "3", Name: "Marcus Johnson", Email: "marcus@eonix.io", Initials: "MJ", Role: "editor"},
		{ID: "4", Name: "Elena Rodriguez", Email: "elena@eonix.io", Initials: "ER", Role: "viewer"},
		{ID: "5", Name: "David Park", Email: "david@eonix.io", Initials: "DP", Role: "viewer"},
	}
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# Eonix Collab Configuration

[server]
port = 8090

[directory]
current_user = "1"

[[directory.members]]
id = "1"
name = "Nahom Keneni"
email = "nahom@eonix.io"
initials = "NK"
role = "admin"

[[directory.members]]
id = "2"
name = "Sarah Chen"
email = "sarah@eonix.io"
initials = "SC"
role = "editor"

[invite]
secret = "change-me"
base_url = "https://app.eonix.io"
ttl_hours = 168

[issues]
# Leave empty for in-memory issues; set a DSN to persist them in Postgres.
postgres_dsn = ""
seed_demo_data = true

[webhooks]
flush_rate_per_minute = 30
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", config.Server.Port)
	}

	if len(config.Directory.Members) == 0 {
		return fmt.Errorf("directory roster is required")
	}

	if config.Directory.CurrentUser == "" {
		return fmt.Errorf("directory current_user is required")
	}

	found := false
	for _, m := range config.Directory.Members {
		if m.ID == "" || m.Name == "" {
			return fmt.Errorf("roster members require id and name")
		}
		switch m.Role {
		case "admin", "editor", "viewer":
		default:
			return fmt.Errorf("roster member %s has unknown role %q", m.ID, m.Role)
		}
		if m.ID == config.Directory.CurrentUser {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("current_user %s not found in roster", config.Directory.CurrentUser)
	}

	if config.Invite.Secret == "" {
		return fmt.Errorf("invite secret is required")
	}

	if config.Webhooks.FlushRatePerMinute <= 0 {
		return fmt.Errorf("webhooks flush_rate_per_minute must be positive")
	}

	return nil
}
