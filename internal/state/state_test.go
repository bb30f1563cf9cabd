package state

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.Files == nil {
		t.Error("Files map should be initialized")
	}
	if len(s.Files) != 0 {
		t.Error("Files map should be empty")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nested", "manifest.json")

	state := NewState()
	state.BuildID = "build-1"
	state.Fingerprint = "sha256:feed"
	state.Files["content/index.md"] = &FileState{
		MTime:  123456789,
		Hash:   "sha256:abc123",
		Output: "public/index.html",
	}

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	if loaded.BuildID != "build-1" {
		t.Errorf("BuildID mismatch: got %s", loaded.BuildID)
	}
	if loaded.Fingerprint != "sha256:feed" {
		t.Errorf("Fingerprint mismatch: got %s", loaded.Fingerprint)
	}
	if len(loaded.Files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(loaded.Files))
	}

	fileState := loaded.Files["content/index.md"]
	if fileState == nil {
		t.Fatal("File state not found")
	}
	if fileState.MTime != 123456789 {
		t.Errorf("MTime mismatch: got %d, want 123456789", fileState.MTime)
	}
	if fileState.Hash != "sha256:abc123" {
		t.Errorf("Hash mismatch: got %s, want sha256:abc123", fileState.Hash)
	}
	if fileState.Output != "public/index.html" {
		t.Errorf("Output mismatch: got %s, want public/index.html", fileState.Output)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nonexistent.json")

	// Should return empty state, not error
	state, err := Load(statePath)
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}

	if state == nil {
		t.Fatal("State should not be nil")
	}
	if len(state.Files) != 0 {
		t.Error("State should be empty")
	}
}

func TestLoadCorrupt(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "manifest.json")
	if err := os.WriteFile(statePath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write state: %v", err)
	}

	if _, err := Load(statePath); err == nil {
		t.Error("Expected an error for a corrupt state file")
	}
}

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")

	content := []byte("Hello, World!")
	if err := os.WriteFile(testFile, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	hash, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	if hash[:7] != "sha256:" {
		t.Errorf("Hash should start with 'sha256:', got: %s", hash)
	}
	if hash != HashBytes(content) {
		t.Errorf("ComputeHash and HashBytes disagree: %s vs %s", hash, HashBytes(content))
	}

	if err := os.WriteFile(testFile, []byte("Different content"), 0644); err != nil {
		t.Fatalf("Failed to update test file: %v", err)
	}
	hash2, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Second ComputeHash failed: %v", err)
	}
	if hash == hash2 {
		t.Error("Hash should change when content changes")
	}
}

func TestHasChanged(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")
	output := filepath.Join(tmpDir, "test.html")

	if err := os.WriteFile(testFile, []byte("Initial content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.WriteFile(output, []byte("<div></div>"), 0644); err != nil {
		t.Fatalf("Failed to create output file: %v", err)
	}

	state := NewState()

	// New file - should be changed
	changed, err := state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("New file should be marked as changed")
	}

	if err := state.Update(testFile, output, ""); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Unchanged file should not be marked as changed")
	}

	// Touch file (change mtime but not content)
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(testFile, future, future); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after touch: %v", err)
	}
	if changed {
		t.Error("File with only mtime change should not be marked as changed")
	}

	// Actually change content
	if err := os.WriteFile(testFile, []byte("New content"), 0644); err != nil {
		t.Fatalf("Failed to update file: %v", err)
	}
	later := future.Add(time.Hour)
	if err := os.Chtimes(testFile, later, later); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after content change: %v", err)
	}
	if !changed {
		t.Error("File with new content should be marked as changed")
	}
}

func TestHasChangedMissingOutput(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")
	output := filepath.Join(tmpDir, "test.html")

	if err := os.WriteFile(testFile, []byte("content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	state := NewState()
	if err := state.Update(testFile, output, ""); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err := state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Source whose output is missing should be marked as changed")
	}
}

func TestPrune(t *testing.T) {
	state := NewState()
	state.Files["a.md"] = &FileState{Output: "a.html"}
	state.Files["b.md"] = &FileState{Output: "b.html"}
	state.Files["c.md"] = &FileState{Output: "c.html"}

	stale := state.Prune(map[string]bool{"b.md": true})
	sort.Strings(stale)

	if len(stale) != 2 || stale[0] != "a.html" || stale[1] != "c.html" {
		t.Errorf("Prune returned %v, want [a.html c.html]", stale)
	}
	if len(state.Files) != 1 || state.Files["b.md"] == nil {
		t.Errorf("Prune should keep only b.md, got %v", state.Files)
	}
}

func TestHasChangedPageTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")
	output := filepath.Join(tmpDir, "test.html")
	template := filepath.Join(tmpDir, "post.html")

	for path, content := range map[string]string{
		testFile: "---\ntemplate: post.html\n---\nhello",
		output:   "<article></article>",
		template: "<article>{{ Content }}</article>",
	} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}

	state := NewState()
	if err := state.Update(testFile, output, template); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if state.Files[testFile].Template != template || state.Files[testFile].TemplateHash == "" {
		t.Fatalf("Template not recorded: %+v", state.Files[testFile])
	}

	changed, err := state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Page with untouched template should not be marked as changed")
	}

	if err := os.WriteFile(template, []byte("<section>{{ Content }}</section>"), 0644); err != nil {
		t.Fatalf("Failed to rewrite template: %v", err)
	}
	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Page whose template changed should be marked as changed")
	}

	if err := os.Remove(template); err != nil {
		t.Fatalf("Failed to remove template: %v", err)
	}
	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Page whose template was removed should be marked as changed")
	}
}

func TestUpdateMissingSource(t *testing.T) {
	state := NewState()
	if err := state.Update(filepath.Join(t.TempDir(), "missing.md"), "out.html", ""); err == nil {
		t.Error("Expected an error for a missing source")
	}
	if len(state.Files) != 0 {
		t.Errorf("Nothing should be recorded, got %v", state.Files)
	}
}
