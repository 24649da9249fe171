// Package selector implements the selector DSL used to address windows and
// controls by stable criteria instead of raw handles.
//
// A selector is a path of levels separated by '>', each level being the
// literal "Window" or "Control" followed by ';'-separated criteria:
//
//	Window>title~Notepad;class~Edit>Control>class~Button;text~OK;index~1
//
// Criteria compare an attribute (title, class, text, index) against a value
// with one of the operators ~ (contains), ~= (exact), ~* (starts with) or
// ~$ (ends with); all string matching is case-insensitive. A title value of
// the form "regex:PATTERN" matches by regular expression. The characters
// '>', ';' and '\' inside values are escaped with a backslash.
package selector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MatchType is how a criterion compares attribute values.
type MatchType int

const (
	Contains MatchType = iota
	Exact
	StartsWith
	EndsWith
	Regex
)

// Criterion is a single attribute comparison.
type Criterion struct {
	Attribute string
	Value     string
	Match     MatchType

	re *regexp.Regexp
}

// Level is one step in a selector path: a Window or Control with its
// criteria.
type Level struct {
	Kind     string // "Window" or "Control"
	Criteria []Criterion
}

// Selector is a parsed selector path.
type Selector struct {
	Path     []Level
	original string
}

// DSL returns the selector's original textual form.
func (s *Selector) DSL() string { return s.original }

// Parse parses a DSL string into a Selector.
func Parse(dsl string) (*Selector, error) {
	trimmed := strings.TrimSpace(dsl)
	if trimmed == "" {
		return nil, fmt.Errorf("selector cannot be empty")
	}

	var (
		path     []Level
		kind     string
		criteria []Criterion
	)
	for _, part := range splitUnescaped(trimmed, '>') {
		part = strings.TrimSpace(part)
		switch {
		case part == "Window" || part == "Control":
			if kind != "" {
				if len(criteria) == 0 {
					return nil, fmt.Errorf("selector level %q has no criteria", kind)
				}
				path = append(path, Level{Kind: kind, Criteria: criteria})
				criteria = nil
			}
			kind = part
		case part != "":
			for _, cs := range splitUnescaped(part, ';') {
				c, err := parseCriterion(cs)
				if err != nil {
					return nil, err
				}
				criteria = append(criteria, c)
			}
		}
	}
	if kind == "" {
		return nil, fmt.Errorf("selector has no Window or Control level")
	}
	if len(criteria) == 0 {
		return nil, fmt.Errorf("selector level %q has no criteria", kind)
	}
	path = append(path, Level{Kind: kind, Criteria: criteria})

	return &Selector{Path: path, original: trimmed}, nil
}

// splitUnescaped splits s on every delim not preceded by a backslash.
func splitUnescaped(s string, delim byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i += 2
		case s[i] == delim:
			parts = append(parts, s[start:i])
			start = i + 1
			i++
		default:
			i++
		}
	}
	return append(parts, s[start:])
}

func parseCriterion(raw string) (Criterion, error) {
	trimmed := strings.TrimSpace(raw)

	attr, op, value := "", "", ""
	for _, candidate := range []string{"~=", "~*", "~$", "~"} {
		if pos := strings.Index(trimmed, candidate); pos >= 0 {
			attr = strings.TrimSpace(trimmed[:pos])
			op = candidate
			value = strings.TrimSpace(trimmed[pos+len(candidate):])
			break
		}
	}
	if op == "" {
		return Criterion{}, fmt.Errorf("invalid criterion (missing ~): %q", trimmed)
	}
	if attr == "" || value == "" {
		return Criterion{}, fmt.Errorf("criterion has empty attribute or value: %q", trimmed)
	}

	attr = strings.ToLower(attr)
	switch attr {
	case "title", "class", "text", "index":
	default:
		return Criterion{}, fmt.Errorf("unknown attribute %q (valid: title, class, text, index)", attr)
	}

	if pattern, ok := strings.CutPrefix(value, "regex:"); ok {
		if attr != "title" {
			return Criterion{}, fmt.Errorf("regex patterns are only supported for the title attribute")
		}
		if pattern == "" {
			return Criterion{}, fmt.Errorf("regex pattern cannot be empty")
		}
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return Criterion{}, fmt.Errorf("invalid regex pattern: %w", err)
		}
		return Criterion{Attribute: attr, Value: pattern, Match: Regex, re: re}, nil
	}

	match := Contains
	switch op {
	case "~=":
		match = Exact
	case "~*":
		match = StartsWith
	case "~$":
		match = EndsWith
	}
	return Criterion{Attribute: attr, Value: Unescape(value), Match: match}, nil
}

// Escape escapes the DSL special characters '\', '>' and ';' in a value.
func Escape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, ">", `\>`)
	return strings.ReplaceAll(value, ";", `\;`)
}

// Unescape reverses Escape. A backslash before any other character is kept
// literally.
func Unescape(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		if value[i] == '\\' && i+1 < len(value) {
			switch value[i+1] {
			case '>', ';', '\\':
				b.WriteByte(value[i+1])
				i++
				continue
			}
		}
		b.WriteByte(value[i])
	}
	return b.String()
}

// matches reports whether haystack satisfies the criterion's comparison.
func (c Criterion) matches(haystack string) bool {
	if c.Match == Regex {
		return c.re != nil && c.re.MatchString(haystack)
	}
	h := strings.ToLower(haystack)
	n := strings.ToLower(c.Value)
	switch c.Match {
	case Exact:
		return h == n
	case StartsWith:
		return strings.HasPrefix(h, n)
	case EndsWith:
		return strings.HasSuffix(h, n)
	default:
		return strings.Contains(h, n)
	}
}

// WindowMatches reports whether a window's title and class satisfy every
// criterion in the list. Non-window attributes never match.
func WindowMatches(title, class string, criteria []Criterion) bool {
	for _, c := range criteria {
		switch c.Attribute {
		case "title":
			if !c.matches(title) {
				return false
			}
		case "class":
			if !c.matches(class) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ControlMatches reports whether a control's text and class satisfy every
// non-index criterion. Index criteria are positional and resolved by the
// caller via IndexOf.
func ControlMatches(text, class string, criteria []Criterion) bool {
	for _, c := range criteria {
		switch c.Attribute {
		case "text":
			if !c.matches(text) {
				return false
			}
		case "class":
			if !c.matches(class) {
				return false
			}
		case "index":
			continue
		default:
			return false
		}
	}
	return true
}

// ClassMatches reports whether a control's class satisfies the class
// criteria in the list, ignoring every other attribute. An index criterion
// counts positions among the children passing this test, both when a
// selector is generated and when it is resolved.
func ClassMatches(class string, criteria []Criterion) bool {
	for _, c := range criteria {
		if c.Attribute == "class" && !c.matches(class) {
			return false
		}
	}
	return true
}

// IndexOf returns the index criterion's value, if the list carries one.
func IndexOf(criteria []Criterion) (int, bool) {
	for _, c := range criteria {
		if c.Attribute == "index" {
			n, err := strconv.Atoi(c.Value)
			if err != nil || n < 0 {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}
