package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileState represents the last build of a single source page
type FileState struct {
	MTime        int64  `json:"mtime"`
	Hash         string `json:"hash"`
	Output       string `json:"output"`
	Template     string `json:"template,omitempty"` // set when front matter picks a template
	TemplateHash string `json:"template_hash,omitempty"`
}

// State is the build manifest
type State struct {
	BuildID     string                `json:"build_id"`
	BuiltAt     time.Time             `json:"built_at"`
	Fingerprint string                `json:"fingerprint"` // template + options of the last build
	Files       map[string]*FileState `json:"files"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if state.Files == nil {
		state.Files = make(map[string]*FileState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HashBytes computes the SHA256 hash of data in the same format as ComputeHash
func HashBytes(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// HasChanged checks if a source has changed since the last build
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().Unix()

	fileState, exists := s.Files[path]
	if !exists {
		// New file
		return true, nil
	}

	// Output removed since the last build
	if fileState.Output != "" {
		if _, err := os.Stat(fileState.Output); os.IsNotExist(err) {
			return true, nil
		}
	}

	// Page template edited, created or removed
	if fileState.Template != "" {
		hash, err := templateHash(fileState.Template)
		if err != nil {
			return false, err
		}
		if hash != fileState.TemplateHash {
			return true, nil
		}
	}

	// Fast path: check mtime first
	if mtime == fileState.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records the build of a source and the page it produced.
// template is the page's own template file, empty when the site template was used.
func (s *State) Update(path, output, template string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	fileState := &FileState{
		MTime:  info.ModTime().Unix(),
		Hash:   hash,
		Output: output,
	}
	if template != "" {
		if fileState.TemplateHash, err = templateHash(template); err != nil {
			return err
		}
		fileState.Template = template
	}
	s.Files[path] = fileState

	return nil
}

// templateHash hashes a template file. A missing file hashes to "".
func templateHash(path string) (string, error) {
	hash, err := ComputeHash(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	return hash, err
}

// Prune drops sources that are not in keep and returns their outputs
func (s *State) Prune(keep map[string]bool) []string {
	var stale []string
	for path, fileState := range s.Files {
		if keep[path] {
			continue
		}
		if fileState.Output != "" {
			stale = append(stale, fileState.Output)
		}
		delete(s.Files, path)
	}
	return stale
}
