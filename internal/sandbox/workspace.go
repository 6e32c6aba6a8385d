package sandbox

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/moby/patternmatcher"
)

// WorkspacePrefix starts every ephemeral workspace directory name
const WorkspacePrefix = "cv-work-"

// workspace is a host directory mounted into exactly one container run
type workspace struct {
	dir string
}

func newWorkspace(root string) (*workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, WorkspacePrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WorkspaceError{Message: fmt.Sprintf("failed to create workspace %s", dir), Cause: err}
	}
	return &workspace{dir: dir}, nil
}

// materialize writes every file at its relative path, creating parent directories
func (w *workspace) materialize(files map[string][]byte) error {
	for rel, content := range files {
		clean := strings.TrimLeft(strings.ReplaceAll(rel, `\`, "/"), "/")
		clean = path.Clean(clean)
		if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
			return &WorkspaceError{Message: fmt.Sprintf("input path escapes the workspace: %q", rel)}
		}

		hostPath := filepath.Join(w.dir, filepath.FromSlash(clean))
		if err := os.MkdirAll(filepath.Dir(hostPath), 0o755); err != nil {
			return &WorkspaceError{Message: fmt.Sprintf("failed to create directory for %s", clean), Cause: err}
		}
		if err := os.WriteFile(hostPath, content, 0o644); err != nil {
			return &WorkspaceError{Message: fmt.Sprintf("failed to write %s", clean), Cause: err}
		}
	}
	return nil
}

// collect reads every file matching a pattern. Patterns under MountDir are made
// relative, other absolute patterns are skipped, and patterns that match nothing
// yield nothing.
func (w *workspace) collect(patterns []string) (map[string][]byte, error) {
	matchers, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}

	collected := make(map[string][]byte)
	if len(matchers) == 0 {
		return collected, nil
	}

	err = filepath.WalkDir(w.dir, func(hostPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.dir, hostPath)
		if err != nil {
			return err
		}
		matched, err := anyMatch(matchers, rel)
		if err != nil || !matched {
			return err
		}
		content, err := os.ReadFile(hostPath)
		if err != nil {
			return err
		}
		collected[filepath.ToSlash(rel)] = content
		return nil
	})
	if err != nil {
		return nil, &WorkspaceError{Message: "failed to collect outputs", Cause: err}
	}
	return collected, nil
}

// compilePatterns builds one matcher per pattern so a "!" pattern cannot cancel another
func compilePatterns(patterns []string) ([]*patternmatcher.PatternMatcher, error) {
	matchers := make([]*patternmatcher.PatternMatcher, 0, len(patterns))
	for _, p := range patterns {
		rel, ok := relativePattern(p)
		if !ok {
			continue
		}
		pm, err := patternmatcher.New([]string{rel})
		if err != nil {
			return nil, &WorkspaceError{Message: fmt.Sprintf("invalid output pattern %q", p), Cause: err}
		}
		matchers = append(matchers, pm)
	}
	return matchers, nil
}

func relativePattern(p string) (string, bool) {
	switch {
	case strings.HasPrefix(p, MountDir+"/"):
		p = strings.TrimPrefix(p, MountDir+"/")
	case strings.HasPrefix(p, "/"):
		return "", false
	}
	if strings.TrimSpace(p) == "" {
		return "", false
	}
	return p, true
}

// anyMatch reports whether rel, or a directory containing it, matches a pattern
func anyMatch(matchers []*patternmatcher.PatternMatcher, rel string) (bool, error) {
	for _, pm := range matchers {
		ok, err := pm.MatchesOrParentMatches(rel)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (w *workspace) remove() error {
	return os.RemoveAll(w.dir)
}
