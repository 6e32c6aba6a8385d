package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "This is normal text", "This is normal text"},
		{"backslash", `test\backslash`, `test\textbackslash{}backslash`},
		{"braces", "text{with}braces", `text\{with\}braces`},
		{"dollar", "cost $100", `cost \$100`},
		{"ampersand", "A & B", `A \& B`},
		{"percent", "100% complete", `100\% complete`},
		{"hash", "issue #123", `issue \#123`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"underscore", "snake_case", `snake\_case`},
		{"tilde", "~home", `\textasciitilde{}home`},
		{"unicode untouched", "Джейн & Co", `Джейн \& Co`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.in))
		})
	}
}

func TestTexEscape(t *testing.T) {
	months := 7
	var none *int

	assert.Equal(t, "", TexEscape(nil))
	assert.Equal(t, `R\&D`, TexEscape("R&D"))
	assert.Equal(t, "1.5", TexEscape(1.5))
	assert.Equal(t, "7", TexEscape(&months))
	assert.Equal(t, "", TexEscape(none))
}
