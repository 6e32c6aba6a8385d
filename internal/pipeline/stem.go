package pipeline

import (
	"strings"

	"github.com/jonathan/resume-forge/internal/dates"
	"github.com/jonathan/resume-forge/internal/localize"
)

// hashTokenLen is how much of the config hash goes into file names
const hashTokenLen = 8

// Stem names the output files of one render: <slug>[-<hash8>]-<lang>-<YYYY>-<MM>-<DD>.
// The slug comes from basename, then personName, then "cv". today must be concrete.
func Stem(basename, personName, hash, lang string, today dates.Date) string {
	source := basename
	if source == "" {
		source = personName
	}
	parts := []string{Slugify(source)}
	if hash != "" {
		parts = append(parts, truncateHash(hash))
	}
	parts = append(parts, langToken(lang))
	parts = append(parts, today.String())
	return strings.Join(parts, "-")
}

// Slugify lowercases ASCII alphanumerics, turns every other rune into "-",
// collapses runs of "-" and trims them from both ends. Empty results become "cv".
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(toLower(r))
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "cv"
	}
	return slug
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func truncateHash(hash string) string {
	if len(hash) > hashTokenLen {
		return hash[:hashTokenLen]
	}
	return hash
}

// langToken keeps the primary subtag of lang, lowercased
func langToken(lang string) string {
	token := strings.ToLower(strings.TrimSpace(lang))
	token = strings.ReplaceAll(token, "_", "-")
	if i := strings.Index(token, "-"); i >= 0 {
		token = token[:i]
	}
	if token == "" {
		return localize.DefaultLanguage
	}
	return token
}
