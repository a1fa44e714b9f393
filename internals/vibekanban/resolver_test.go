package vibekanban

import (
	"errors"
	"testing"

	"github.com/smithers-cli/smithers/internals/conf"
	"github.com/smithers-cli/smithers/internals/env"
	"github.com/smithers-cli/smithers/internals/schemas"
	"github.com/smithers-cli/smithers/internals/vibekanban/vktest"
)

func resetState(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	env.Reset()
	conf.Reset()
	t.Cleanup(func() {
		env.Reset()
		conf.Reset()
	})
}

func TestResolvePortPrecedence(t *testing.T) {
	resetState(t)

	if got := ResolvePort(); got != 8080 {
		t.Fatalf("expected default port 8080, got %d", got)
	}

	t.Setenv("SMITHERS_VIBEKANBAN_PORT", "9100")
	env.Reset()
	if got := ResolvePort(); got != 9100 {
		t.Fatalf("expected env port 9100, got %d", got)
	}
}

func TestAPIBaseURLIsAlwaysPortPlusOne(t *testing.T) {
	settings := Settings{Port: 8080}
	if got := settings.APIBaseURL(); got != "http://localhost:8081" {
		t.Fatalf("expected api on 8081, got %s", got)
	}
	if got := settings.UIBaseURL(); got != "http://localhost:8080" {
		t.Fatalf("expected ui on 8080, got %s", got)
	}
}

func TestResolveSettingsEnvBeatsFile(t *testing.T) {
	resetState(t)
	if err := conf.SaveProjectID("from-file"); err != nil {
		t.Fatalf("SaveProjectID: %v", err)
	}
	t.Setenv("SMITHERS_VIBEKANBAN_PROJECT_ID", "from-env")
	env.Reset()
	conf.Reset()

	settings, err := ResolveSettings(t.Context(), nil)
	if err != nil {
		t.Fatalf("ResolveSettings: %v", err)
	}
	if settings.ProjectID != "from-env" {
		t.Fatalf("expected env project to win, got %q", settings.ProjectID)
	}
}

func TestResolveSettingsDisabledSkipsDiscovery(t *testing.T) {
	resetState(t)
	t.Setenv("SMITHERS_VIBEKANBAN_ENABLED", "false")
	env.Reset()

	server := vktest.New(schemas.Project{ID: "p1", Name: "megarepo"})
	client := newTestClient(t, server)

	settings, err := ResolveSettings(t.Context(), client)
	if err != nil {
		t.Fatalf("ResolveSettings: %v", err)
	}
	if settings.Enabled {
		t.Fatalf("expected disabled settings")
	}
	if server.Requests() != 0 {
		t.Fatalf("expected zero network calls when disabled, got %d", server.Requests())
	}
}

func TestResolveSettingsAutoDiscoversSingleProject(t *testing.T) {
	resetState(t)

	server := vktest.New(schemas.Project{ID: "p1", Name: "megarepo"})
	client := newTestClient(t, server)

	settings, err := ResolveSettings(t.Context(), client)
	if err != nil {
		t.Fatalf("ResolveSettings: %v", err)
	}
	if settings.ProjectID != "p1" {
		t.Fatalf("expected discovered project p1, got %q", settings.ProjectID)
	}

	// Discovery persists, so the next resolution hits the file, not the service.
	conf.Reset()
	before := server.Requests()
	settings, err = ResolveSettings(t.Context(), client)
	if err != nil {
		t.Fatalf("ResolveSettings (second): %v", err)
	}
	if settings.ProjectID != "p1" {
		t.Fatalf("expected persisted project p1, got %q", settings.ProjectID)
	}
	if server.Requests() != before {
		t.Fatalf("expected no further discovery calls")
	}
}

func TestResolveSettingsAmbiguousProjects(t *testing.T) {
	resetState(t)

	server := vktest.New(
		schemas.Project{ID: "p1", Name: "megarepo"},
		schemas.Project{ID: "p2", Name: "sideproject"},
	)
	client := newTestClient(t, server)

	_, err := ResolveSettings(t.Context(), client)
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if len(configErr.Projects) != 2 {
		t.Fatalf("expected candidates in error, got %+v", configErr.Projects)
	}
}

func TestResolveSettingsNoProjects(t *testing.T) {
	resetState(t)

	server := vktest.New()
	client := newTestClient(t, server)

	_, err := ResolveSettings(t.Context(), client)
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestFindProjectByName(t *testing.T) {
	projects := []schemas.Project{
		{ID: "p1", Name: "megarepo"},
		{ID: "p2", Name: "mega"},
		{ID: "p3", Name: "other"},
	}

	match, _ := FindProjectByName("other", projects)
	if match == nil || match.ID != "p3" {
		t.Fatalf("expected unique match p3, got %+v", match)
	}

	// "mega" matches two names but one exactly.
	match, candidates := FindProjectByName("MEGA", projects)
	if match == nil || match.ID != "p2" {
		t.Fatalf("expected exact match p2, got %+v (candidates %+v)", match, candidates)
	}

	match, candidates = FindProjectByName("e", projects)
	if match != nil {
		t.Fatalf("expected ambiguous lookup to return nil, got %+v", match)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected all candidates, got %+v", candidates)
	}

	match, candidates = FindProjectByName("nope", projects)
	if match != nil || len(candidates) != 0 {
		t.Fatalf("expected no matches, got %+v / %+v", match, candidates)
	}
}
