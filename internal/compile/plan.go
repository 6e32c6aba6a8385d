package compile

import "strings"

// Plan names the files a build script leaves behind and how to run it
type Plan struct {
	Command []string
	// Artifact is the primary output; success requires it to be non-empty
	Artifact string
	// StatusFile holds the exit status the script recorded
	StatusFile string
	// BuildLog is the aggregated log written by the script
	BuildLog string
	// InnerLog is the compiler's own log
	InnerLog string
	// TailLines bounds the log excerpt embedded in failures
	TailLines int
}

// Outputs lists the workspace files the sandbox should collect
func (p Plan) Outputs() []string {
	return []string{p.Artifact, p.BuildLog, p.InnerLog, p.StatusFile}
}

// pdflatexScript runs two pdflatex passes, appending everything to build.log and
// recording the last failing status in exit.code instead of aborting
var pdflatexScript = strings.Join([]string{
	`set -u; status=0; : > build.log;`,
	`{ echo "== env =="; pwd; ls -la; which pdflatex || true; pdflatex --version || true; } >> build.log 2>&1;`,
	`echo "== first run ==" >> build.log;`,
	`pdflatex -interaction=nonstopmode -halt-on-error main.tex >> build.log 2>&1 || status=$?;`,
	`echo "== second run ==" >> build.log;`,
	`pdflatex -interaction=nonstopmode -halt-on-error main.tex >> build.log 2>&1 || status=$?;`,
	`echo ${status} > exit.code`,
}, " ")

// DefaultPlan builds main.tex with pdflatex
func DefaultPlan() Plan {
	return Plan{
		Command:    []string{"sh", "-lc", pdflatexScript},
		Artifact:   "main.pdf",
		StatusFile: "exit.code",
		BuildLog:   "build.log",
		InnerLog:   "main.log",
		TailLines:  60,
	}
}
