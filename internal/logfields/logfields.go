// Package logfields holds the canonical slog attribute names used across packages.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyLang       = "lang"
	KeyPath       = "path"
	KeyImage      = "image"
	KeyWorkspace  = "workspace"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyProjects   = "projects"
	KeyEmployers  = "employers"
	KeyExcluded   = "excluded"
	KeyOutputs    = "outputs"
	KeyLogSource  = "log_source"
	KeyError      = "error"
)

func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func Lang(code string) slog.Attr        { return slog.String(KeyLang, code) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Image(tag string) slog.Attr        { return slog.String(KeyImage, tag) }
func Workspace(dir string) slog.Attr    { return slog.String(KeyWorkspace, dir) }
func ExitCode(code int) slog.Attr       { return slog.Int(KeyExitCode, code) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Projects(n int) slog.Attr          { return slog.Int(KeyProjects, n) }
func Employers(n int) slog.Attr         { return slog.Int(KeyEmployers, n) }
func Excluded(ids []string) slog.Attr   { return slog.Any(KeyExcluded, ids) }
func Outputs(keys []string) slog.Attr   { return slog.Any(KeyOutputs, keys) }
func LogSource(source string) slog.Attr { return slog.String(KeyLogSource, source) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
