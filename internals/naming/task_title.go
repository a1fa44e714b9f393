package naming

import (
	"fmt"
	"strings"
)

// Title prefixes marking tasks as smithers-created. Cleanup sweeps only these.
const (
	PrefixImplement = "[impl] "
	PrefixFix       = "[fix] "
)

// ImplTitle derives the canonical task title for an implement-mode stage.
// Titles are the dedup key against the kanban service, so derivation must be
// deterministic for a given stage.
func ImplTitle(stage int, stageName string) string {
	return fmt.Sprintf("%sStage %d: %s", PrefixImplement, stage, normalize(stageName))
}

// FixTitle derives the canonical task title for a fix-mode PR iteration.
func FixTitle(prNumber int, branch string) string {
	return fmt.Sprintf("%sPR #%d: %s", PrefixFix, prNumber, normalize(branch))
}

// IsManagedTitle reports whether a title belongs to a smithers-created task.
func IsManagedTitle(title string) bool {
	return strings.HasPrefix(title, PrefixImplement) || strings.HasPrefix(title, PrefixFix)
}

// normalize keeps titles single-line. Stage names come from plan files and can
// carry trailing newlines or padding.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
