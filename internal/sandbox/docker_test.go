package sandbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner stands in for the docker CLI. On "run" it reads the mounted
// workspace and writes the produced files into it.
type scriptedRunner struct {
	build    CommandResult
	run      CommandResult
	produced map[string]string

	mu    sync.Mutex
	calls [][]string
	seen  map[string]string
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) (*CommandResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string{name}, args...))

	switch args[0] {
	case "build":
		res := r.build
		return &res, nil
	case "run":
		dir := mountedDir(args)
		r.seen = map[string]string{}
		_ = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, _ := filepath.Rel(dir, p)
			content, _ := os.ReadFile(p)
			r.seen[filepath.ToSlash(rel)] = string(content)
			return nil
		})
		for rel, content := range r.produced {
			p := filepath.Join(dir, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return nil, err
			}
			if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
				return nil, err
			}
		}
		res := r.run
		return &res, nil
	}
	return nil, errors.New("unexpected command")
}

func (r *scriptedRunner) subcommands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c[1])
	}
	return out
}

func mountedDir(args []string) string {
	for i, a := range args {
		if a == "-v" && i+1 < len(args) {
			return strings.TrimSuffix(args[i+1], ":"+MountDir)
		}
	}
	return ""
}

type fixture struct {
	exec   *DockerExecutor
	runner *scriptedRunner
	root   string
	image  *Image
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	recipe := filepath.Join(dir, "Dockerfile")
	require.NoError(t, os.WriteFile(recipe, []byte("FROM alpine\n"), 0o644))

	root := filepath.Join(dir, "workspaces")
	require.NoError(t, os.Mkdir(root, 0o755))

	runner := &scriptedRunner{}
	return &fixture{
		exec: &DockerExecutor{
			Engine:        "docker",
			WorkspaceRoot: root,
			Runner:        runner,
			lookPath:      func(string) (string, error) { return "/usr/bin/docker", nil },
		},
		runner: runner,
		root:   root,
		image:  NewImage("Jane Doe", recipe),
	}
}

func (f *fixture) assertNoWorkspaces(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	assert.Empty(t, entries, "workspace directory should be removed")
}

func TestDockerExecutor_Success(t *testing.T) {
	f := newFixture(t)
	f.runner.run = CommandResult{Stdout: "ok"}
	f.runner.produced = map[string]string{
		"main.pdf":      "%PDF",
		"build.log":     "log",
		"main.aux":      "aux",
		"out/a.txt":     "a",
		"out/sub/b.txt": "b",
		"deep/x/y.aux":  "y",
	}

	result, err := f.exec.Execute(context.Background(), Job{
		Image:   f.image,
		Command: []string{"sh", "-lc", "true"},
		Files: map[string][]byte{
			"main.tex":      []byte(`\documentclass{article}`),
			"/fonts/a.ttf":  {0x00, 0xff},
			`styles\cv.sty`: []byte("sty"),
		},
		Outputs: []string{"main.pdf", "/workspace/build.log", "/etc/passwd", "missing.*", "out", "**/*.aux"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"main.tex":      `\documentclass{article}`,
		"fonts/a.ttf":   "\x00\xff",
		"styles/cv.sty": "sty",
	}, f.runner.seen)

	assert.Equal(t, map[string][]byte{
		"main.pdf":      []byte("%PDF"),
		"build.log":     []byte("log"),
		"main.aux":      []byte("aux"),
		"out/a.txt":     []byte("a"),
		"out/sub/b.txt": []byte("b"),
		"deep/x/y.aux":  []byte("y"),
	}, result.Outputs)
	assert.Equal(t, "jane-doe:latest", result.Image)
	assert.Equal(t, "ok", result.Stdout)
	require.NotNil(t, result.ReturnCode)
	assert.Equal(t, 0, *result.ReturnCode)

	assert.Equal(t, []string{"build", "run"}, f.runner.subcommands())
	build := f.runner.calls[0]
	assert.Equal(t, []string{"/usr/bin/docker", "build", "-t", "jane-doe:latest", "-f", f.image.Recipe, f.image.ContextDir}, build)
	run := f.runner.calls[1]
	assert.Equal(t, []string{"--rm"}, run[2:3])
	assert.Equal(t, []string{"-w", MountDir, "jane-doe:latest", "sh", "-lc", "true"}, run[5:])

	f.assertNoWorkspaces(t)
}

func TestDockerExecutor_NoMatchesYieldsNoEntries(t *testing.T) {
	f := newFixture(t)

	result, err := f.exec.Execute(context.Background(), Job{
		Image:   f.image,
		Command: []string{"true"},
		Outputs: []string{"main.pdf"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Outputs)
}

func TestDockerExecutor_EngineUnavailable(t *testing.T) {
	f := newFixture(t)
	f.exec.lookPath = func(string) (string, error) { return "", errNotOnPath }

	_, err := f.exec.Execute(context.Background(), Job{Image: f.image})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEngineUnavailable))
	assert.Empty(t, f.runner.subcommands())
}

var errNotOnPath = errors.New("executable file not found in $PATH")

func TestDockerExecutor_RecipeNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.exec.Execute(context.Background(), Job{Image: NewImage("cv", filepath.Join(t.TempDir(), "nope", "Dockerfile"))})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecipeNotFound))
	assert.Empty(t, f.runner.subcommands())
}

func TestDockerExecutor_BuildFailureNeverCreatesWorkspace(t *testing.T) {
	f := newFixture(t)
	f.runner.build = CommandResult{ExitCode: 17, Stderr: "no such base image"}

	_, err := f.exec.Execute(context.Background(), Job{
		Image:   f.image,
		Command: []string{"true"},
		Files:   map[string][]byte{"main.tex": []byte("x")},
	})
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrBuildFailure))
	var buildErr *BuildFailureError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, 17, buildErr.ExitCode)
	assert.Contains(t, err.Error(), "code 17")
	assert.Contains(t, err.Error(), "no such base image")

	assert.Equal(t, []string{"build"}, f.runner.subcommands())
	f.assertNoWorkspaces(t)
}

func TestDockerExecutor_ExecutionFailureRemovesWorkspace(t *testing.T) {
	f := newFixture(t)
	f.runner.run = CommandResult{ExitCode: 2, Stdout: "partial", Stderr: "boom"}

	_, err := f.exec.Execute(context.Background(), Job{
		Image:   f.image,
		Command: []string{"false"},
		Files:   map[string][]byte{"main.tex": []byte("x")},
	})
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrExecutionFailure))
	var execErr *ExecutionFailureError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 2, execErr.ExitCode)
	assert.Equal(t, "boom", execErr.Stderr)
	assert.Equal(t, []string{"false"}, execErr.Command)
	f.assertNoWorkspaces(t)
}

func TestDockerExecutor_InvalidPatternRemovesWorkspace(t *testing.T) {
	f := newFixture(t)

	_, err := f.exec.Execute(context.Background(), Job{
		Image:   f.image,
		Command: []string{"true"},
		Outputs: []string{"[unterminated"},
	})
	require.Error(t, err)

	var wsErr *WorkspaceError
	assert.True(t, errors.As(err, &wsErr))
	f.assertNoWorkspaces(t)
}

func TestDockerExecutor_RejectsEscapingInputPath(t *testing.T) {
	f := newFixture(t)

	_, err := f.exec.Execute(context.Background(), Job{
		Image:   f.image,
		Command: []string{"true"},
		Files:   map[string][]byte{"../escape.txt": []byte("x")},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"build"}, f.runner.subcommands())
	f.assertNoWorkspaces(t)
}

func TestDockerExecutor_RebuildsImageEveryCall(t *testing.T) {
	f := newFixture(t)
	job := Job{Image: f.image, Command: []string{"true"}}

	_, err := f.exec.Execute(context.Background(), job)
	require.NoError(t, err)
	_, err = f.exec.Execute(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, []string{"build", "run", "build", "run"}, f.runner.subcommands())
}

// gatedRunner holds every image build until release is closed
type gatedRunner struct {
	started chan struct{}
	release chan struct{}

	mu       sync.Mutex
	builds   int
	buildErr error
}

func newGatedRunner() *gatedRunner {
	return &gatedRunner{started: make(chan struct{}, 4), release: make(chan struct{})}
}

func (r *gatedRunner) Run(ctx context.Context, _ string, args ...string) (*CommandResult, error) {
	switch args[0] {
	case "build":
		r.mu.Lock()
		r.builds++
		r.mu.Unlock()
		r.started <- struct{}{}
		select {
		case <-r.release:
			return &CommandResult{}, nil
		case <-ctx.Done():
			r.mu.Lock()
			r.buildErr = ctx.Err()
			r.mu.Unlock()
			return &CommandResult{ExitCode: -1}, ctx.Err()
		}
	case "run":
		if err := ctx.Err(); err != nil {
			return &CommandResult{ExitCode: -1}, err
		}
		return &CommandResult{}, nil
	}
	return nil, errors.New("unexpected command")
}

func (r *gatedRunner) state() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builds, r.buildErr
}

func (f *fixture) waiters(tag string) int {
	f.exec.mu.Lock()
	defer f.exec.mu.Unlock()
	if shared, ok := f.exec.inflight[tag]; ok {
		return shared.waiters
	}
	return 0
}

func TestDockerExecutor_InterruptedRunIsCancellation(t *testing.T) {
	f := newFixture(t)
	runner := newGatedRunner()
	close(runner.release)
	f.exec.Runner = runner

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.exec.Execute(ctx, Job{Image: f.image, Command: []string{"true"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	var execErr *ExecutionFailureError
	assert.False(t, errors.As(err, &execErr))
	var wsErr *WorkspaceError
	assert.False(t, errors.As(err, &wsErr))
	f.assertNoWorkspaces(t)
}

func TestDockerExecutor_SharedBuildSurvivesOneCallerCanceling(t *testing.T) {
	f := newFixture(t)
	runner := newGatedRunner()
	f.exec.Runner = runner
	job := Job{Image: f.image, Command: []string{"true"}}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.exec.Execute(firstCtx, job)
		firstErr <- err
	}()
	<-runner.started

	secondErr := make(chan error, 1)
	go func() {
		_, err := f.exec.Execute(context.Background(), job)
		secondErr <- err
	}()
	require.Eventually(t, func() bool { return f.waiters(f.image.Tag) == 2 }, time.Second, 5*time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(runner.release)
	require.NoError(t, <-secondErr)

	builds, buildErr := runner.state()
	assert.Equal(t, 1, builds)
	assert.NoError(t, buildErr)
	f.assertNoWorkspaces(t)
}

func TestDockerExecutor_BuildStopsWhenLastCallerCancels(t *testing.T) {
	f := newFixture(t)
	runner := newGatedRunner()
	f.exec.Runner = runner

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := f.exec.Execute(ctx, Job{Image: f.image, Command: []string{"true"}})
		errCh <- err
	}()
	<-runner.started
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)
	require.Eventually(t, func() bool {
		_, err := runner.state()
		return errors.Is(err, context.Canceled)
	}, time.Second, 5*time.Millisecond)
	f.assertNoWorkspaces(t)
}
