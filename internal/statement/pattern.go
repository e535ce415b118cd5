// Package statement recognizes command statements in free-form text.
//
// There is no parser. Each statement kind is described by a declarative Pattern:
// substring markers used as a cheap pre-filter, and one or more regular expressions
// that each capture a single argument slot. Text that does not match a pattern is
// simply invisible to it.
package statement

import (
	"regexp"
	"strings"
)

// Kind identifies a statement kind.
type Kind string

const (
	CreateFile   Kind = "create-file"
	CreateFolder Kind = "create-folder"
	DeleteFile   Kind = "delete-file"
	DeleteFolder Kind = "delete-folder"
	DeleteForce  Kind = "delete-folder-force"
	Write        Kind = "write"
	Append       Kind = "append"
	Rename       Kind = "rename"
)

// Capture slot names.
const (
	SlotPath    = "path"
	SlotNewPath = "newPath"
	SlotBody    = "body"
)

// Keywords shared by markers and exclusions.
const (
	keywordForce       = "FORCE"
	keywordFile        = "FILE"
	keywordFolder      = "FOLDER"
	keywordTo          = "TO"
	keywordThisContent = "THIS CONTENT:"
)

// Matcher captures one argument slot. Re must have exactly one capture group.
type Matcher struct {
	Slot string
	Re   *regexp.Regexp
}

// Markers is the substring pre-filter checked before any regex runs.
type Markers struct {
	Required  []string
	Forbidden []string
}

// Present reports whether every required marker and no forbidden marker occurs in text.
func (m Markers) Present(text string) bool {
	for _, s := range m.Required {
		if !strings.Contains(text, s) {
			return false
		}
	}
	for _, s := range m.Forbidden {
		if strings.Contains(text, s) {
			return false
		}
	}
	return true
}

// Pattern describes one statement kind.
type Pattern struct {
	Kind     Kind
	Markers  Markers
	Matchers []Matcher

	// Exclude drops an occurrence when any of its captures contains one of these
	// words. It keeps the DELETE variants from claiming each other's statements.
	Exclude []string
}

// Slots returns the capture slot names in matcher order.
func (p Pattern) Slots() []string {
	slots := make([]string, len(p.Matchers))
	for i, m := range p.Matchers {
		slots[i] = m.Slot
	}
	return slots
}

// A path never spans a statement terminator or a line break. A body may span lines.
const (
	pathGroup = `([^;\s][^;\n]*)`
	lazyPath  = `([^;\s][^;\n]*?)`
	anyPath   = `[^;\s][^;\n]*?`
	bodyGroup = `"([^;]*)"`
	anyBody   = `"[^;]*"`
)

func contentPattern(kind Kind, verb string) Pattern {
	head := verb + `\s+`
	tail := `\s+THIS CONTENT:\s{0,3}`
	return Pattern{
		Kind:    kind,
		Markers: Markers{Required: []string{verb, keywordThisContent}},
		Matchers: []Matcher{
			{Slot: SlotPath, Re: regexp.MustCompile(head + lazyPath + tail + anyBody + `;`)},
			{Slot: SlotBody, Re: regexp.MustCompile(head + anyPath + tail + bodyGroup + `;`)},
		},
	}
}

var patterns = []Pattern{
	{
		Kind:     CreateFile,
		Markers:  Markers{Required: []string{"CREATE FILE"}},
		Matchers: []Matcher{{Slot: SlotPath, Re: regexp.MustCompile(`CREATE FILE[ \t]+` + pathGroup + `;`)}},
	},
	{
		Kind:     CreateFolder,
		Markers:  Markers{Required: []string{"CREATE FOLDER"}},
		Matchers: []Matcher{{Slot: SlotPath, Re: regexp.MustCompile(`CREATE FOLDER[ \t]+` + pathGroup + `;`)}},
	},
	{
		Kind:     DeleteFile,
		Markers:  Markers{Required: []string{"DELETE FILE"}},
		Matchers: []Matcher{{Slot: SlotPath, Re: regexp.MustCompile(`DELETE FILE[ \t]+` + pathGroup + `;`)}},
	},
	{
		Kind:     DeleteFolder,
		Markers:  Markers{Required: []string{"DELETE FOLDER"}, Forbidden: []string{keywordForce}},
		Matchers: []Matcher{{Slot: SlotPath, Re: regexp.MustCompile(`DELETE FOLDER[ \t]+` + pathGroup + `;`)}},
		Exclude:  []string{keywordForce},
	},
	{
		Kind:     DeleteForce,
		Markers:  Markers{Required: []string{"DELETE", keywordForce}},
		Matchers: []Matcher{{Slot: SlotPath, Re: regexp.MustCompile(`DELETE[ \t]+` + lazyPath + `[ \t]+FORCE;`)}},
		Exclude:  []string{keywordFolder, keywordFile},
	},
	contentPattern(Write, "WRITE TO"),
	contentPattern(Append, "APPEND TO"),
	{
		Kind:    Rename,
		Markers: Markers{Required: []string{"RENAME", keywordTo}},
		Matchers: []Matcher{
			{Slot: SlotPath, Re: regexp.MustCompile(`RENAME[ \t]+` + lazyPath + `[ \t]+TO[ \t]+` + anyPath + `;`)},
			{Slot: SlotNewPath, Re: regexp.MustCompile(`RENAME[ \t]+` + anyPath + `[ \t]+TO[ \t]+` + pathGroup + `;`)},
		},
	},
}

// Patterns returns the pattern table in dispatch order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// Kinds returns every statement kind in dispatch order.
func Kinds() []Kind {
	kinds := make([]Kind, len(patterns))
	for i, p := range patterns {
		kinds[i] = p.Kind
	}
	return kinds
}

// Lookup returns the pattern for kind.
func Lookup(kind Kind) (Pattern, bool) {
	for _, p := range patterns {
		if p.Kind == kind {
			return p, true
		}
	}
	return Pattern{}, false
}

// Keywords returns the statement keywords, used for completion.
func Keywords() []string {
	return []string{
		"CREATE FILE", "CREATE FOLDER",
		"DELETE FILE", "DELETE FOLDER", "DELETE",
		"WRITE TO", "APPEND TO", "RENAME",
		"TO", "THIS CONTENT:", "FORCE",
	}
}
