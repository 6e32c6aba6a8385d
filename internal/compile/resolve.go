package compile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-forge/internal/sandbox"
)

// LogSource records where the chosen log came from
type LogSource string

const (
	LogFromBuild      LogSource = "build"
	LogFromInner      LogSource = "inner"
	LogFromDiagnostic LogSource = "diagnostic"
)

// ExitSource records where the exit status came from
type ExitSource string

const (
	ExitFromStatusFile ExitSource = "status_file"
	ExitFromProcess    ExitSource = "process"
	ExitDefaulted      ExitSource = "default"
)

// Outcome is the resolved result of one build
type Outcome struct {
	ExitCode   int
	ExitSource ExitSource
	Log        []byte
	LogSource  LogSource
	// Artifact is the primary output's content; nil when missing
	Artifact []byte

	plan    Plan
	command []string
}

// Resolve picks the exit status and log for result
func Resolve(result *sandbox.BuildResult, plan Plan) *Outcome {
	outputs := result.Outputs
	command := result.Command
	if len(command) == 0 {
		command = plan.Command
	}

	out := &Outcome{plan: plan, command: command, Artifact: outputs[plan.Artifact]}
	out.ExitCode, out.ExitSource = resolveExit(result, plan)

	switch {
	case len(outputs[plan.BuildLog]) > 0:
		out.Log, out.LogSource = outputs[plan.BuildLog], LogFromBuild
	case len(outputs[plan.InnerLog]) > 0:
		out.Log, out.LogSource = outputs[plan.InnerLog], LogFromInner
	default:
		out.Log, out.LogSource = diagnostic(result, plan, out.ExitCode, command), LogFromDiagnostic
	}
	return out
}

func resolveExit(result *sandbox.BuildResult, plan Plan) (int, ExitSource) {
	if raw, ok := result.Outputs[plan.StatusFile]; ok {
		if code, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil {
			return code, ExitFromStatusFile
		}
	}
	if result.ReturnCode != nil {
		return *result.ReturnCode, ExitFromProcess
	}
	return 0, ExitDefaulted
}

// diagnostic explains an empty log so the persisted log is never blank
func diagnostic(result *sandbox.BuildResult, plan Plan, exitCode int, command []string) []byte {
	keys := result.OutputKeys()
	sort.Strings(keys)

	lines := []string{
		fmt.Sprintf("No logs were captured from the sandbox (%s and %s are empty or missing).", plan.BuildLog, plan.InnerLog),
		fmt.Sprintf("Exit code recorded: %d.", exitCode),
		fmt.Sprintf("Available output keys: [%s]", strings.Join(keys, ", ")),
		fmt.Sprintf("Command: %s.", strings.Join(command, " ")),
		"Hints: the container working directory might be non-writable, pdflatex may be missing, or outputs were not found.",
	}

	stdout, stderr := result.Stdout, result.Stderr
	if stdout == "" {
		stdout = result.BuildStdout
	}
	if stderr == "" {
		stderr = result.BuildStderr
	}
	if stdout != "" {
		lines = append(lines, "\n--- sandbox stdout ---\n"+stdout)
	}
	if stderr != "" {
		lines = append(lines, "\n--- sandbox stderr ---\n"+stderr)
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Succeeded reports exit status zero and a non-empty primary artifact
func (o *Outcome) Succeeded() bool {
	return o.ExitCode == 0 && len(o.Artifact) > 0
}

// Err returns a CompileFailureError unless the build succeeded
func (o *Outcome) Err() error {
	if o.Succeeded() {
		return nil
	}
	return &CompileFailureError{
		ExitCode: o.ExitCode,
		Artifact: o.plan.Artifact,
		Command:  o.command,
		LogTail:  Tail(o.Log, o.plan.TailLines),
	}
}

// Tail returns the last n lines of log
func Tail(log []byte, n int) string {
	text := strings.TrimRight(string(log), "\n")
	if text == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
