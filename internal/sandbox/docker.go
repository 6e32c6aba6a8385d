package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-forge/internal/logfields"
)

// DefaultEngine is the container engine CLI
const DefaultEngine = "docker"

// DockerExecutor runs jobs with the docker CLI: build the image, run the command
// with a fresh workspace mounted at MountDir, collect outputs, remove the workspace.
type DockerExecutor struct {
	// Engine is the CLI binary name or path
	Engine string
	// WorkspaceRoot is where workspaces are created; defaults to os.TempDir()
	WorkspaceRoot string
	Runner        CommandRunner
	Logger        *slog.Logger

	lookPath func(string) (string, error)
	builds   singleflight.Group

	mu       sync.Mutex
	inflight map[string]*sharedBuild
}

// sharedBuild is the context of one in-flight image build. It is canceled
// only once every caller waiting on the build has given up.
type sharedBuild struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewDockerExecutor creates an executor using the docker CLI on PATH
func NewDockerExecutor(logger *slog.Logger) *DockerExecutor {
	return &DockerExecutor{
		Engine: DefaultEngine,
		Runner: ExecRunner{},
		Logger: logger,
	}
}

func (e *DockerExecutor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *DockerExecutor) runner() CommandRunner {
	if e.Runner == nil {
		return ExecRunner{}
	}
	return e.Runner
}

func (e *DockerExecutor) enginePath() (string, error) {
	engine := e.Engine
	if engine == "" {
		engine = DefaultEngine
	}
	lookPath := e.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(engine)
	if err != nil {
		return "", &EngineUnavailableError{Engine: engine, Cause: err}
	}
	return path, nil
}

// Execute builds job.Image, runs job.Command and collects job.Outputs.
// A failed build never creates a workspace. The workspace is removed on every path.
func (e *DockerExecutor) Execute(ctx context.Context, job Job) (result *BuildResult, err error) {
	if job.Image == nil {
		return nil, &WorkspaceError{Message: "job has no image"}
	}
	engine, err := e.enginePath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(job.Image.Recipe); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return nil, &RecipeNotFoundError{Path: job.Image.Recipe, Cause: statErr}
		}
		return nil, &WorkspaceError{Message: fmt.Sprintf("failed to stat build recipe %s", job.Image.Recipe), Cause: statErr}
	}

	build, err := e.buildImage(ctx, engine, job.Image)
	if err != nil {
		return nil, err
	}

	ws, err := newWorkspace(e.WorkspaceRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := ws.remove(); rmErr != nil {
			e.logger().Warn("failed to remove workspace", logfields.Workspace(ws.dir), logfields.Error(rmErr))
			if err == nil {
				err = &WorkspaceError{Message: "failed to remove workspace", Cause: rmErr}
			}
		}
	}()

	if err := ws.materialize(job.Files); err != nil {
		return nil, err
	}

	args := []string{"run", "--rm", "-v", ws.dir + ":" + MountDir, "-w", MountDir, job.Image.Tag}
	args = append(args, job.Command...)

	started := time.Now()
	run, err := e.runner().Run(ctx, engine, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &WorkspaceError{Message: "failed to start container", Cause: err}
	}
	e.logger().Debug("container finished",
		logfields.Image(job.Image.Tag),
		logfields.ExitCode(run.ExitCode),
		logfields.DurationMS(float64(time.Since(started).Milliseconds())),
	)
	if run.ExitCode != 0 {
		return nil, &ExecutionFailureError{
			Command:  job.Command,
			ExitCode: run.ExitCode,
			Stdout:   run.Stdout,
			Stderr:   run.Stderr,
		}
	}

	outputs, err := ws.collect(job.Outputs)
	if err != nil {
		return nil, err
	}

	code := run.ExitCode
	result = &BuildResult{
		Image:       job.Image.Tag,
		Command:     job.Command,
		Stdout:      run.Stdout,
		Stderr:      run.Stderr,
		ReturnCode:  &code,
		BuildStdout: build.Stdout,
		BuildStderr: build.Stderr,
		Outputs:     outputs,
	}
	keys := result.OutputKeys()
	sort.Strings(keys)
	e.logger().Debug("collected outputs", logfields.Outputs(keys))
	return result, nil
}

// buildImage rebuilds the tag. Concurrent builds of one tag in this process share
// a single invocation; each caller stops waiting when its own ctx is done.
func (e *DockerExecutor) buildImage(ctx context.Context, engine string, image *Image) (*CommandResult, error) {
	shared := e.joinBuild(ctx, image.Tag)
	defer e.leaveBuild(shared)

	ch := e.builds.DoChan(image.Tag, func() (any, error) {
		defer e.forgetBuild(image.Tag, shared)
		e.logger().Info("building sandbox image", logfields.Image(image.Tag), logfields.Path(image.Recipe))
		res, err := e.runner().Run(shared.ctx, engine, "build", "-t", image.Tag, "-f", image.Recipe, image.ContextDir)
		if err != nil {
			if shared.ctx.Err() != nil {
				return nil, err
			}
			return nil, &WorkspaceError{Message: "failed to start image build", Cause: err}
		}
		if res.ExitCode != 0 {
			return nil, &BuildFailureError{
				Image:    image.Tag,
				ExitCode: res.ExitCode,
				Stdout:   res.Stdout,
				Stderr:   res.Stderr,
			}
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("image build %s: %w", image.Tag, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			// joined a build its earlier waiters abandoned
			if errors.Is(r.Err, context.Canceled) && ctx.Err() == nil {
				return e.buildImage(ctx, engine, image)
			}
			return nil, r.Err
		}
		return r.Val.(*CommandResult), nil
	}
}

func (e *DockerExecutor) joinBuild(ctx context.Context, tag string) *sharedBuild {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inflight == nil {
		e.inflight = make(map[string]*sharedBuild)
	}
	shared, ok := e.inflight[tag]
	if !ok || shared.ctx.Err() != nil {
		buildCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		shared = &sharedBuild{ctx: buildCtx, cancel: cancel}
		e.inflight[tag] = shared
	}
	shared.waiters++
	return shared
}

func (e *DockerExecutor) leaveBuild(shared *sharedBuild) {
	e.mu.Lock()
	defer e.mu.Unlock()
	shared.waiters--
	if shared.waiters == 0 {
		shared.cancel()
	}
}

func (e *DockerExecutor) forgetBuild(tag string, shared *sharedBuild) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inflight[tag] == shared {
		delete(e.inflight, tag)
	}
}
