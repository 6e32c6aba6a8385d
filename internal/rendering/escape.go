package rendering

import (
	"fmt"
	"strings"
)

// latexReplacer escapes \ { } $ & % # ^ _ ~. The backslash is replaced in the
// same pass so the braces it introduces are never escaped again.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes special LaTeX characters in text
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexReplacer.Replace(text)
}

// TexEscape escapes any template value; nil renders as ""
func TexEscape(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return EscapeLaTeX(v)
	case *int:
		if v == nil {
			return ""
		}
		return fmt.Sprint(*v)
	default:
		return EscapeLaTeX(fmt.Sprint(v))
	}
}
