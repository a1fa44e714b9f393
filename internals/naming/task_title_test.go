package naming

import "testing"

func TestImplTitle(t *testing.T) {
	cases := []struct {
		stage int
		name  string
		want  string
	}{
		{1, "Add models", "[impl] Stage 1: Add models"},
		{12, "  Wire handlers  ", "[impl] Stage 12: Wire handlers"},
		{3, "First line\nsecond line", "[impl] Stage 3: First line"},
	}
	for _, c := range cases {
		if got := ImplTitle(c.stage, c.name); got != c.want {
			t.Fatalf("ImplTitle(%d, %q) = %q, want %q", c.stage, c.name, got, c.want)
		}
	}
}

func TestFixTitle(t *testing.T) {
	if got := FixTitle(123, "feature-branch"); got != "[fix] PR #123: feature-branch" {
		t.Fatalf("unexpected fix title %q", got)
	}
}

func TestTitleDerivationIsDeterministic(t *testing.T) {
	first := ImplTitle(1, "Add models")
	second := ImplTitle(1, "Add models")
	if first != second {
		t.Fatalf("expected identical titles, got %q and %q", first, second)
	}
}

func TestIsManagedTitle(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"[impl] Stage 1: Add models", true},
		{"[fix] PR #123: feature-branch", true},
		{"[impl]no space", false},
		{"Manual task", false},
		{"prefix [impl] in the middle", false},
	}
	for _, c := range cases {
		if got := IsManagedTitle(c.title); got != c.want {
			t.Fatalf("IsManagedTitle(%q) = %v, want %v", c.title, got, c.want)
		}
	}
}
