package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spkr/internal/migrations"
)

func TestRenderStatus(t *testing.T) {
	applied := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	out := Styles().RenderStatus([]migrations.Status{
		{Name: "create songs table", Applied: true, AppliedAt: applied},
		{Name: "create playlists table", Applied: true, AppliedAt: applied, Changed: true},
		{Name: "create users table"},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}

	if !strings.Contains(lines[0], "create songs table") || !strings.Contains(lines[0], "✓") {
		t.Errorf("applied line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "changed since applied") {
		t.Errorf("changed line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "pending") {
		t.Errorf("pending line = %q", lines[2])
	}
	if lines[4] != "2 applied, 1 pending" {
		t.Errorf("summary = %q", lines[4])
	}

	if got := Styles().RenderStatus(nil); !strings.Contains(got, "no migrations declared") {
		t.Errorf("empty status = %q", got)
	}
}
