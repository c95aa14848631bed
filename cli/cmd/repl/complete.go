package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "set", "reload", "clear", "quit"}

// isWordBoundary reports whether r ends a word for completion. Hyphens are
// not boundaries because variable names may contain them.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'\'', '"':
		return true
	}

	return false
}

// wordBounds returns the word under cursor and its byte offsets in input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// builtins lists the expr-lang builtin function names.
var builtins = func() []string {
	names := make([]string, 0, len(builtin.Index))
	for name := range builtin.Index {
		if !strings.HasPrefix(name, "$") {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}()

// isFunction reports whether name is an expr-lang builtin.
func isFunction(name string) bool {
	_, ok := builtin.Index[name]

	return ok
}

// computeMatches ranks completion candidates for the word under the cursor.
// An empty word produces no matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, ws, we := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, ws, we
	}

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = append(m.session.Names(), builtins...)
	}

	return fuzzy.Find(word, candidates), ws, we
}

// renderCandidateBar builds the one-line completion bar, truncated with an
// ellipsis to fit width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && (used+w > width || (!last && used+w+reserve > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched runes highlighted.
// Functions are shown with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
