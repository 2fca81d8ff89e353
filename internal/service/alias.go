package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/workstreamhq/workstream/internal/entity"
)

// defaultAlias is used when nothing derivable remains of a project name.
const defaultAlias = "KEY"

// taskAliasFallback is the prefix for tasks of a project without an alias.
const taskAliasFallback = "TASK"

// diacritics are stripped before deriving alias letters, so "Déjà Vu"
// yields "DV" rather than dropping the accented word.
var aliasFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DeriveAlias builds a short uppercase alias from a project name: the
// initials of up to three words, or the first three letters of a single
// word. Falls back to a fixed default for unusable names.
func DeriveAlias(name string) string {
	folded, _, err := transform.String(aliasFold, name)
	if err != nil {
		folded = name
	}

	words := strings.Fields(folded)
	var letters []rune
	if len(words) == 1 {
		for _, r := range words[0] {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				letters = append(letters, unicode.ToUpper(r))
			}
			if len(letters) == 3 {
				break
			}
		}
	} else {
		for _, w := range words {
			for _, r := range w {
				if unicode.IsLetter(r) || unicode.IsDigit(r) {
					letters = append(letters, unicode.ToUpper(r))
				}
				break
			}
			if len(letters) == 3 {
				break
			}
		}
	}

	if len(letters) == 0 {
		return defaultAlias
	}
	return string(letters)
}

// taskAlias formats a task's human-readable id from its project.
func taskAlias(project *entity.Project) string {
	prefix := project.Alias
	if prefix == "" {
		prefix = taskAliasFallback
	}
	return prefix
}
