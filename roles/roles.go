// CLAUDE:SUMMARY Ordered matcher cascade that extracts a short role summary from expert content.
// Package roles extracts a short role summary from expert content.
//
// Expert files carry their role in whatever format their author picked:
// a <role> or <system_prompt> tag, a system_prompt key in YAML/JSON, a
// "# Role" markdown section, or a plain "ROLE:" line. The cascade tries
// each source in a fixed priority order — richer sources first — and the
// first match wins. Extraction is a pure function of the content: same
// bytes, same summary, on every host.
//
// Usage:
//
//	summary, ok := roles.Extract(content)
//	if !ok {
//		summary = roles.Fallback(content, 80)
//	}
//	fmt.Println(roles.Display(summary, 250))
package roles

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// joinThreshold is the rune count under which a flattened first line is
// considered too thin on its own and gets joined with the next line.
const joinThreshold = 50

// Matcher is one rule of the cascade. Match returns the raw extracted
// span and whether the rule applied.
type Matcher struct {
	Name  string
	Match func(content string) (string, bool)
}

var (
	roleTagRe      = regexp.MustCompile(`(?is)<role>\s*(.+?)\s*</role>`)
	sysPromptTagRe = regexp.MustCompile(`(?is)<system_prompt>\s*(.+?)\s*</system_prompt>`)
	roleLineRe     = regexp.MustCompile(`(?im)^\s*(?:#|//)?\s*role\s*:\s*(.+)$`)
	descLineRe     = regexp.MustCompile(`(?im)^\s*(?:#|//)?\s*description\s*:\s*(.+)$`)
)

// Matchers returns the cascade in priority order, highest first.
func Matchers() []Matcher {
	return []Matcher{
		{Name: "role_tag", Match: matchRegexp(roleTagRe)},
		{Name: "system_prompt_tag", Match: matchRegexp(sysPromptTagRe)},
		{Name: "structured_system_prompt", Match: matchStructuredKey("system_prompt")},
		{Name: "structured_description", Match: matchStructuredKey("description")},
		{Name: "markdown_role", Match: matchHeading("Role")},
		{Name: "markdown_description", Match: matchHeading("Description")},
		{Name: "role_line", Match: matchRegexp(roleLineRe)},
		{Name: "description_line", Match: matchRegexp(descLineRe)},
	}
}

// Extract runs the cascade over content and returns the flattened summary
// of the first matching rule. ok is false when no rule matches.
func Extract(content string) (summary string, ok bool) {
	for _, m := range Matchers() {
		if span, matched := m.Match(content); matched {
			if flat := flatten(span); flat != "" {
				return flat, true
			}
		}
	}
	return "", false
}

func matchRegexp(re *regexp.Regexp) func(string) (string, bool) {
	return func(content string) (string, bool) {
		m := re.FindStringSubmatch(content)
		if m == nil {
			return "", false
		}
		return strings.TrimSpace(m[1]), true
	}
}

// matchStructuredKey matches content that parses as a YAML/JSON mapping
// with a non-empty string value under key. yaml.v3 parses JSON too, so a
// single matcher covers both formats.
func matchStructuredKey(key string) func(string) (string, bool) {
	return func(content string) (string, bool) {
		var doc map[string]any
		if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
			return "", false
		}
		v, found := doc[key]
		if !found {
			return "", false
		}
		s, isStr := v.(string)
		s = strings.TrimSpace(s)
		if !isStr || s == "" {
			return "", false
		}
		return s, true
	}
}

// matchHeading matches the first paragraph following a level-1 or level-2
// markdown heading whose text equals heading (case-insensitive). The
// paragraph ends at the first blank line after content or the next heading.
func matchHeading(heading string) func(string) (string, bool) {
	return func(content string) (string, bool) {
		lines := strings.Split(content, "\n")
		for i, line := range lines {
			level, text := splitHeading(strings.TrimSpace(line))
			if level == 0 || level > 2 || !strings.EqualFold(text, heading) {
				continue
			}

			var para []string
			for _, next := range lines[i+1:] {
				trimmed := strings.TrimSpace(next)
				if trimmed == "" {
					if len(para) > 0 {
						break
					}
					continue
				}
				if strings.HasPrefix(trimmed, "#") {
					break
				}
				para = append(para, trimmed)
			}
			if len(para) > 0 {
				return strings.Join(para, "\n"), true
			}
		}
		return "", false
	}
}

// splitHeading parses an ATX heading line into its level and text.
// Non-heading lines return level 0.
func splitHeading(line string) (int, string) {
	level := 0
	for _, ch := range line {
		if ch != '#' {
			break
		}
		level++
	}
	if level == 0 {
		return 0, ""
	}
	return level, strings.TrimSpace(line[level:])
}

// flatten reduces a multi-line span to a single listing-friendly line:
// the first non-empty line, joined with the second when the first is too
// short to stand alone.
func flatten(span string) string {
	if !strings.Contains(span, "\n") {
		return strings.TrimSpace(span)
	}
	var lines []string
	for _, l := range strings.Split(span, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	first := lines[0]
	if utf8.RuneCountInString(first) < joinThreshold && len(lines) > 1 {
		return first + " " + lines[1]
	}
	return first
}

// Display truncates a summary to max runes for listing purposes, marking
// the cut with an ellipsis. Consultation output is never truncated.
func Display(summary string, max int) string {
	if max <= 3 || utf8.RuneCountInString(summary) <= max {
		return summary
	}
	runes := []rune(summary)
	return string(runes[:max-3]) + "..."
}

// Fallback builds a placeholder summary from raw content when no rule
// matched: the leading runes with whitespace collapsed.
func Fallback(content string, n int) string {
	collapsed := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(collapsed) <= n {
		return collapsed
	}
	runes := []rune(collapsed)
	return string(runes[:n]) + "..."
}
