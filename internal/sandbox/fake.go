package sandbox

import (
	"context"
	"path/filepath"
	"sync"
)

// Fake is an in-memory Executor. The job's input files plus Produced form the
// virtual workspace, and outputs are collected from it with the same pattern
// rules as DockerExecutor.
type Fake struct {
	// Produced are files the command "writes" into the workspace
	Produced map[string][]byte
	// ReturnCode is reported on the result; nil means unobserved
	ReturnCode *int
	Stdout     string
	Stderr     string
	// BuildErr and ExecErr, when set, fail the matching stage
	BuildErr error
	ExecErr  error

	mu   sync.Mutex
	jobs []Job
}

// Execute records the job and returns the scripted result
func (f *Fake) Execute(ctx context.Context, job Job) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()

	if f.BuildErr != nil {
		return nil, f.BuildErr
	}
	if f.ExecErr != nil {
		return nil, f.ExecErr
	}

	files := make(map[string][]byte, len(job.Files)+len(f.Produced))
	for k, v := range job.Files {
		files[k] = v
	}
	for k, v := range f.Produced {
		files[k] = v
	}

	matchers, err := compilePatterns(job.Outputs)
	if err != nil {
		return nil, err
	}
	outputs := make(map[string][]byte)
	for rel, content := range files {
		ok, err := anyMatch(matchers, filepath.FromSlash(rel))
		if err != nil {
			return nil, &WorkspaceError{Message: "failed to collect outputs", Cause: err}
		}
		if ok {
			outputs[rel] = content
		}
	}

	result := &BuildResult{
		Command:    job.Command,
		Stdout:     f.Stdout,
		Stderr:     f.Stderr,
		ReturnCode: f.ReturnCode,
		Outputs:    outputs,
	}
	if job.Image != nil {
		result.Image = job.Image.Tag
	}
	return result, nil
}

// Jobs returns the jobs executed so far
func (f *Fake) Jobs() []Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Job(nil), f.jobs...)
}
