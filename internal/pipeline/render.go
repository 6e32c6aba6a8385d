// Package pipeline orchestrates one render: expand the career document, fill the
// template, compile it in the sandbox and persist the artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-forge/internal/compile"
	"github.com/jonathan/resume-forge/internal/dates"
	"github.com/jonathan/resume-forge/internal/experience"
	"github.com/jonathan/resume-forge/internal/intermediate"
	"github.com/jonathan/resume-forge/internal/localize"
	"github.com/jonathan/resume-forge/internal/logfields"
	"github.com/jonathan/resume-forge/internal/metrics"
	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/rendering"
	"github.com/jonathan/resume-forge/internal/sandbox"
	"github.com/jonathan/resume-forge/internal/types"
)

// ProgressEvent represents a progress update during a render
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when render progress occurs
type ProgressCallback func(event ProgressEvent)

// RenderOptions holds everything one render needs
type RenderOptions struct {
	DocumentPath string `validate:"required"`
	// TemplatePath is the template file; files next to it are copied into the workspace
	TemplatePath string `validate:"required"`
	// RecipePath is the Dockerfile the sandbox image is built from
	RecipePath string `validate:"required"`
	OutDir     string `validate:"required"`

	Basename    string
	ConfigHash  string
	Language    string
	Exclude     []string `validate:"dive,required"`
	Labels      types.Ordered[localize.Label]
	Environment map[string]any

	// Plan defaults to compile.DefaultPlan()
	Plan     *compile.Plan
	Executor sandbox.Executor `validate:"required"`

	Clock      dates.Clock
	Logger     *slog.Logger
	Recorder   metrics.Recorder
	Printer    *observability.Printer
	OnProgress ProgressCallback
}

// Validate checks that required options are set
func (o *RenderOptions) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return &RenderError{Message: "invalid options", Cause: err}
	}
	return nil
}

func (o *RenderOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *RenderOptions) recorder() metrics.Recorder {
	if o.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return o.Recorder
}

// emitProgress calls the progress callback if configured
func (o *RenderOptions) emitProgress(stage, message string, content any) {
	if o.OnProgress != nil {
		o.OnProgress(ProgressEvent{Stage: stage, Message: message, Content: content})
	}
}

// timed runs fn as one stage, recording its duration and result
func (o *RenderOptions) timed(stage string, fn func() error) error {
	started := time.Now()
	err := fn()
	o.recorder().ObserveStageDuration(stage, time.Since(started))
	result := metrics.ResultSuccess
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result = metrics.ResultCanceled
	case err != nil:
		result = metrics.ResultFailed
	}
	o.recorder().IncStageResult(stage, result)
	return err
}

// Expand loads the career document and expands it for the configured language
func Expand(opts RenderOptions) (*types.IntermediateDocument, error) {
	var doc *types.CareerDocument
	err := opts.timed(metrics.StageLoad, func() error {
		var err error
		doc, err = experience.LoadDocument(opts.DocumentPath)
		return err
	})
	if err != nil {
		return nil, err
	}
	opts.emitProgress(metrics.StageLoad, fmt.Sprintf("Loaded career document %s", opts.DocumentPath), nil)

	assembler := intermediate.NewAssembler(opts.logger())
	if opts.Clock != nil {
		assembler.Clock = opts.Clock
	}

	var out *types.IntermediateDocument
	err = opts.timed(metrics.StageExpand, func() error {
		var err error
		out, err = assembler.Expand(doc, intermediate.Options{
			Language:    opts.Language,
			Exclude:     opts.Exclude,
			Labels:      opts.Labels,
			Environment: opts.Environment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	opts.recorder().SetDocumentFigures(out.Metrics.ExperienceYears, out.Metrics.Companies, out.Metrics.Projects)
	opts.emitProgress(metrics.StageExpand,
		fmt.Sprintf("Expanded %d employers for %s", len(out.Experience), out.Lang), out.Metrics)
	return out, nil
}

// Render compiles the career document and returns the absolute path of the PDF.
// The .tex file is always written once the template renders, and a .log file is
// written whenever the sandbox ran or failed with captured output.
func Render(ctx context.Context, opts RenderOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	started := time.Now()
	pdfPath, err := render(ctx, &opts)
	opts.recorder().ObserveRenderDuration(time.Since(started))

	switch {
	case err == nil:
		opts.recorder().IncRenderOutcome(metrics.ResultSuccess)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		opts.recorder().IncRenderOutcome(metrics.ResultCanceled)
	default:
		opts.recorder().IncRenderOutcome(metrics.ResultFailed)
	}
	return pdfPath, err
}

func render(ctx context.Context, opts *RenderOptions) (string, error) {
	logger := opts.logger()
	templateDir := filepath.Dir(opts.TemplatePath)

	// Template parsing and support file collection are independent of the document
	var tmpl *rendering.Template
	var support map[string][]byte
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tmpl, err = rendering.LoadTemplate(templateDir, filepath.Base(opts.TemplatePath))
		return err
	})
	g.Go(func() error {
		var err error
		support, err = rendering.SupportFiles(templateDir)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	doc, err := Expand(*opts)
	if err != nil {
		return "", err
	}
	if opts.Printer != nil {
		opts.Printer.PrintMetrics(doc)
		opts.Printer.PrintExperience(doc.Experience)
		opts.Printer.PrintSkills(doc.Skills)
	}

	var tex string
	err = opts.timed(metrics.StageRender, func() error {
		var err error
		tex, err = tmpl.Render(doc)
		return err
	})
	if err != nil {
		return "", err
	}

	today := opts.Clock.Today()
	stem := Stem(opts.Basename, doc.Person.Name, opts.ConfigHash, doc.Lang, today)
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return "", &RenderError{Message: fmt.Sprintf("failed to create output directory %s", opts.OutDir), Cause: err}
	}
	texPath := filepath.Join(opts.OutDir, stem+".tex")
	logPath := filepath.Join(opts.OutDir, stem+".log")
	pdfPath := filepath.Join(opts.OutDir, stem+".pdf")

	if err := os.WriteFile(texPath, []byte(tex), 0644); err != nil {
		return "", &RenderError{Message: "failed to write rendered source", Cause: err}
	}
	logger.Info("rendered template", logfields.Path(texPath), logfields.Lang(doc.Lang))
	opts.emitProgress(metrics.StageRender, fmt.Sprintf("Rendered %s", filepath.Base(texPath)), nil)

	plan := compile.DefaultPlan()
	if opts.Plan != nil {
		plan = *opts.Plan
	}
	files := make(map[string][]byte, len(support)+1)
	for k, v := range support {
		files[k] = v
	}
	files[rendering.MainSource] = []byte(tex)

	job := sandbox.Job{
		Image:   sandbox.NewImage(opts.Basename, opts.RecipePath),
		Command: plan.Command,
		Files:   files,
		Outputs: plan.Outputs(),
	}

	var result *sandbox.BuildResult
	sandboxErr := opts.timed(metrics.StageSandbox, func() error {
		var err error
		result, err = opts.Executor.Execute(ctx, job)
		return err
	})
	if sandboxErr != nil {
		result = capturedResult(sandboxErr, job)
		if result == nil {
			return "", sandboxErr
		}
	}
	opts.emitProgress(metrics.StageSandbox, "Sandbox run finished", result.OutputKeys())

	var outcome *compile.Outcome
	_ = opts.timed(metrics.StageResolve, func() error {
		outcome = compile.Resolve(result, plan)
		return outcome.Err()
	})
	if err := os.WriteFile(logPath, outcome.Log, 0644); err != nil {
		return "", &RenderError{Message: "failed to write build log", Cause: err}
	}
	logger.Info("resolved build",
		logfields.ExitCode(outcome.ExitCode),
		logfields.LogSource(string(outcome.LogSource)),
		logfields.Path(logPath),
	)
	if opts.Printer != nil {
		opts.Printer.PrintOutcome(outcome)
	}

	if sandboxErr != nil {
		return "", &RenderError{Message: "sandbox run failed", LogPath: logPath, Cause: sandboxErr}
	}
	if err := outcome.Err(); err != nil {
		return "", &RenderError{Message: "compilation failed", LogPath: logPath, Cause: err}
	}

	if err := os.WriteFile(pdfPath, outcome.Artifact, 0644); err != nil {
		return "", &RenderError{Message: "failed to write artifact", Cause: err}
	}
	abs, err := filepath.Abs(pdfPath)
	if err != nil {
		abs = pdfPath
	}
	opts.emitProgress(metrics.StageResolve, fmt.Sprintf("Wrote %s", abs), abs)
	return abs, nil
}

// capturedResult rebuilds a result from the stdio a failed sandbox run carries,
// so the log explains the failure. Other errors carry nothing to persist.
func capturedResult(err error, job sandbox.Job) *sandbox.BuildResult {
	var execErr *sandbox.ExecutionFailureError
	if errors.As(err, &execErr) {
		code := execErr.ExitCode
		return &sandbox.BuildResult{
			Image:      job.Image.Tag,
			Command:    job.Command,
			Stdout:     execErr.Stdout,
			Stderr:     execErr.Stderr,
			ReturnCode: &code,
		}
	}
	var buildErr *sandbox.BuildFailureError
	if errors.As(err, &buildErr) {
		code := buildErr.ExitCode
		return &sandbox.BuildResult{
			Image:       job.Image.Tag,
			Command:     job.Command,
			ReturnCode:  &code,
			BuildStdout: buildErr.Stdout,
			BuildStderr: buildErr.Stderr,
		}
	}
	return nil
}
