package sandbox

import "context"

// MountDir is where the workspace is mounted inside the container
const MountDir = "/workspace"

// Job is one sandboxed execution
type Job struct {
	Image *Image
	// Command is the argv executed inside the container
	Command []string
	// Files are written into the workspace, keyed by relative path
	Files map[string][]byte
	// Outputs are glob patterns, relative to the workspace or under MountDir.
	// "**" matches across directories; a matched directory yields all its files.
	Outputs []string
}

// BuildResult is what a completed sandbox run produced
type BuildResult struct {
	Image   string
	Command []string
	Stdout  string
	Stderr  string
	// ReturnCode is the container's exit code; nil when it was not observed
	ReturnCode  *int
	BuildStdout string
	BuildStderr string
	// Outputs maps slash-separated workspace-relative paths to file contents
	Outputs map[string][]byte
}

// OutputKeys returns the collected output paths
func (r *BuildResult) OutputKeys() []string {
	keys := make([]string, 0, len(r.Outputs))
	for k := range r.Outputs {
		keys = append(keys, k)
	}
	return keys
}

// Executor runs a job to completion
type Executor interface {
	Execute(ctx context.Context, job Job) (*BuildResult, error)
}
