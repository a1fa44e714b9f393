package vibekanban

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/smithers-cli/smithers/internals/conf"
	"github.com/smithers-cli/smithers/internals/env"
	"github.com/smithers-cli/smithers/internals/schemas"
)

// Settings is the effective vibekanban configuration for one CLI invocation.
type Settings struct {
	Enabled   bool
	ProjectID string
	Port      int
}

// UIBaseURL is where the kanban board is served.
func (s Settings) UIBaseURL() string {
	return "http://localhost:" + strconv.Itoa(s.Port)
}

// APIBaseURL returns the API endpoint. The API port is always the UI port + 1,
// never independently configured.
func (s Settings) APIBaseURL() string {
	return APIBaseURL(s.Port)
}

func APIBaseURL(port int) string {
	return "http://localhost:" + strconv.Itoa(port+1)
}

// ConfigError means no project could be selected without user input. It is
// fatal to the integration but must not abort the host CLI's primary flow.
type ConfigError struct {
	Reason   string
	Projects []schemas.Project
}

func (e *ConfigError) Error() string {
	return "vibekanban: " + e.Reason
}

// ResolvePort applies the precedence env var, then config file, then 8080.
func ResolvePort() int {
	if port := env.Get().VIBEKANBAN_PORT; port != 0 {
		return port
	}
	return conf.GetConfig().Vibekanban.Port
}

// ResolveEnabled reads the kill switch. Disabled short-circuits every
// downstream component into a no-op.
func ResolveEnabled() bool {
	// zog defaults the flag to true when the variable is unset.
	return env.Get().VIBEKANBAN_ENABLED
}

// ResolveSettings produces the effective settings. The project id applies, per
// field, the first available source: env var, then config file, then
// auto-discovery against the service. A project discovered as the only one is
// persisted; zero or multiple candidates yield a *ConfigError.
//
// The client parameter exists for tests; pass nil to build one from the
// resolved port.
func ResolveSettings(ctx context.Context, client *Client) (Settings, error) {
	settings := Settings{
		Enabled: ResolveEnabled(),
		Port:    ResolvePort(),
	}
	if !settings.Enabled {
		return settings, nil
	}

	if projectID := env.Get().VIBEKANBAN_PROJECT; projectID != "" {
		settings.ProjectID = projectID
		return settings, nil
	}
	if projectID := conf.GetConfig().Vibekanban.ProjectID; projectID != "" {
		settings.ProjectID = projectID
		return settings, nil
	}

	if client == nil {
		client = NewClient(WithBaseURL(settings.APIBaseURL()))
	}
	projectID, err := DiscoverProject(ctx, client)
	if err != nil {
		return settings, err
	}
	settings.ProjectID = projectID
	return settings, nil
}

// DiscoverProject queries the service for available projects. Exactly one
// project selects (and persists) it; zero or multiple require manual
// selection and yield a *ConfigError.
func DiscoverProject(ctx context.Context, client *Client) (string, error) {
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return "", fmt.Errorf("vibekanban: discover projects: %w", err)
	}

	switch len(projects) {
	case 0:
		return "", &ConfigError{Reason: "no projects exist; create one in the vibe-kanban UI"}
	case 1:
		projectID := projects[0].ID
		if err := conf.SaveProjectID(projectID); err != nil {
			// Discovery still succeeded; the next run just discovers again.
			slog.Warn("failed to persist discovered project id", "error", err)
		} else {
			slog.Debug("auto-discovered vibekanban project", "project_id", projectID, "name", projects[0].Name)
		}
		return projectID, nil
	default:
		return "", &ConfigError{
			Reason:   "multiple projects exist; run `smithers projects <name>` to pick one",
			Projects: projects,
		}
	}
}

// FindProjectByName resolves a project by case-insensitive partial name match,
// preferring an exact match when several share a substring.
func FindProjectByName(name string, projects []schemas.Project) (*schemas.Project, []schemas.Project) {
	needle := strings.ToLower(strings.TrimSpace(name))
	var matches []schemas.Project
	for _, project := range projects {
		if strings.Contains(strings.ToLower(project.Name), needle) {
			matches = append(matches, project)
		}
	}

	if len(matches) == 1 {
		return &matches[0], matches
	}
	if len(matches) > 1 {
		for i := range matches {
			if strings.ToLower(matches[i].Name) == needle {
				return &matches[i], matches
			}
		}
	}
	return nil, matches
}
