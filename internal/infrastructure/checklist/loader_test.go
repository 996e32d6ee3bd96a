package checklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/usecase"
)

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	steps, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(steps) != len(usecase.DefaultChecklist()) {
		t.Fatalf("expected default checklist, got %d steps", len(steps))
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checklist.yaml")
	content := "steps:\n  - Verify the ONT power LED\n  - \"\"\n  - Check fiber connector\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	steps, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0] != "Verify the ONT power LED" || steps[1] != "Check fiber connector" {
		t.Fatalf("steps = %v", steps)
	}
}

func TestLoadRejectsEmptyChecklist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checklist.yaml")
	if err := os.WriteFile(path, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty checklist")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
