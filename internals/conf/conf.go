package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	z "github.com/Oudwins/zog"
)

// Config mirrors ~/.smithers/config.json. Only the vibekanban section is owned
// by this layer; unknown top-level keys are preserved on save.
type Config struct {
	Vibekanban VibekanbanConfig `json:"vibekanban"`
}

type VibekanbanConfig struct {
	ProjectID string `json:"project_id" zog:"project_id"`
	Port      int    `json:"port" zog:"port"`
}

var vibekanbanSchema = z.Struct(z.Shape{
	"ProjectID": z.String().Optional().Trim(),
	"Port":      z.Int().Default(8080),
})

var ConfigSchema = z.Struct(z.Shape{
	"vibekanban": vibekanbanSchema,
})

var config *Config

func GetConfig() *Config {
	if config == nil {
		loaded, err := load()
		if err != nil {
			// A broken config file should not take the CLI down; fall back to
			// defaults and let the caller resolve settings from there.
			loaded = defaults()
		}
		config = loaded
	}
	return config
}

// Reset clears the cached config. Tests use it together with t.Setenv("HOME", ...).
func Reset() {
	config = nil
}

func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".smithers", "config.json"), nil
}

func defaults() *Config {
	parsed := &Config{}
	if err := ConfigSchema.Parse(map[string]any{}, parsed); err != nil {
		// The schema has static defaults; parsing an empty map cannot fail.
		panic(fmt.Sprintf("[Smithers] Failed to parse default config: %v", err))
	}
	return parsed
}

func load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return defaults(), nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	parsed := &Config{}
	if err := ConfigSchema.Parse(payload, parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %v", path, err)
	}
	return parsed, nil
}

// SaveProjectID persists a discovered or explicitly selected project id.
// It read-modify-writes the config file so keys owned by other smithers
// subsystems survive.
func SaveProjectID(projectID string) error {
	path, err := Path()
	if err != nil {
		return err
	}

	payload := map[string]any{}
	if data, err := os.ReadFile(path); err == nil && strings.TrimSpace(string(data)) != "" {
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	section, _ := payload["vibekanban"].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}
	section["project_id"] = projectID
	payload["vibekanban"] = section

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return err
	}

	if config != nil {
		config.Vibekanban.ProjectID = projectID
	}
	return nil
}
