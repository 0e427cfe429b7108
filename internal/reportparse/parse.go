// Package reportparse extracts structured data from generated scouting
// report markdown, most importantly the canonical player name the model
// put in the report title.
package reportparse

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	boldFieldRE  = regexp.MustCompile(`^\s*\*\*(.+?):\*\*\s*(.*?)\s*$`)
	titleNameRE  = regexp.MustCompile(`(?i)scouting report\s*[—:-]\s*([^(\n\r]+)`)
	nameTeamRE   = regexp.MustCompile(`^([^(\n\r]+?)\s*\(([^)]+)\)\s*$`)
	parenTrimRE  = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	teamLeagueRE = regexp.MustCompile(`^(.+?)\s*\((.+?)\)\s*$`)
)

// Parser extracts fields from report markdown using goldmark AST parsing.
type Parser struct {
	md goldmark.Markdown
}

// New creates a new Parser.
func New() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// CanonicalPlayer extracts the player's canonical full name from a report.
// It prefers the bold Player info field, then the report title heading,
// then a leading "Name (Team)" line. Returns "" when nothing plausible is
// found.
func (p *Parser) CanonicalPlayer(reportMD string) string {
	if reportMD == "" {
		return ""
	}

	fields := p.InfoFields(reportMD)
	if name := firstNonEmpty(fields["Player"], fields["Name"]); name != "" {
		return name
	}

	for _, heading := range p.headings(reportMD, 2) {
		if m := titleNameRE.FindStringSubmatch(heading); m != nil {
			if name := strings.TrimSpace(parenTrimRE.ReplaceAllString(m[1], "")); name != "" {
				return name
			}
		}
		if m := nameTeamRE.FindStringSubmatch(heading); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}

	// Fall back to a leading short name-like line.
	lines := strings.Split(strings.ReplaceAll(reportMD, "\r\n", "\n"), "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		s = strings.TrimLeft(s, "# ")
		if m := titleNameRE.FindStringSubmatch(s); m != nil {
			if name := strings.TrimSpace(parenTrimRE.ReplaceAllString(m[1], "")); name != "" {
				return name
			}
		}
		if len(s) < 60 && strings.Contains(s, " ") &&
			!strings.Contains(s, ":") && !strings.Contains(s, "|") {
			return strings.TrimSpace(parenTrimRE.ReplaceAllString(s, ""))
		}
		break
	}
	return ""
}

// InfoFields extracts the bold header fields between the title and the
// first "###" section, e.g. "**Team:** Milwaukee Bucks". Team and League
// are derived from a combined "Team / League" value when absent.
func (p *Parser) InfoFields(reportMD string) map[string]string {
	fields := make(map[string]string)
	if reportMD == "" {
		return fields
	}

	lines := strings.Split(strings.ReplaceAll(reportMD, "\r\n", "\n"), "\n")
	if len(lines) > 120 {
		lines = lines[:120]
	}

	for _, line := range lines {
		s := strings.TrimSpace(line)

		// Stop once the first real section starts.
		if strings.HasPrefix(s, "### ") {
			break
		}

		m := boldFieldRE.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		val := cleanValue(m[2])
		fields[key] = val

		if len(fields) >= 24 {
			break
		}
	}

	// Derive Team and League from a combined field when missing.
	if _, ok := fields["Team / League"]; !ok {
		if v, ok := fields["Team/League"]; ok {
			fields["Team / League"] = v
		}
	}
	combined := fields["Team / League"]
	if combined != "" && combined != "Unknown" &&
		(unknownOrEmpty(fields["Team"]) || unknownOrEmpty(fields["League"])) {
		team, league := splitTeamLeague(combined)
		if unknownOrEmpty(fields["Team"]) {
			fields["Team"] = team
		}
		if unknownOrEmpty(fields["League"]) {
			fields["League"] = league
		}
	}

	// "Milwaukee Bucks (NBA)" under Team alone also carries the league.
	if unknownOrEmpty(fields["League"]) && !unknownOrEmpty(fields["Team"]) {
		team, league := splitTeamLeague(fields["Team"])
		if league != "Unknown" {
			fields["Team"] = team
			fields["League"] = league
		}
	}

	return fields
}

// headings returns the text of all headings up to maxLevel, in order.
func (p *Parser) headings(reportMD string, maxLevel int) []string {
	content := []byte(reportMD)
	doc := p.md.Parser().Parse(text.NewReader(content))

	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok && heading.Level <= maxLevel {
			if txt := nodeText(heading, content); txt != "" {
				out = append(out, txt)
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

// nodeText extracts the plain text of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// splitTeamLeague splits "Milwaukee Bucks (NBA)" or "Milwaukee Bucks / NBA"
// into team and league, returning "Unknown" for missing halves.
func splitTeamLeague(s string) (string, string) {
	s = cleanValue(s)
	if s == "Unknown" {
		return "Unknown", "Unknown"
	}

	if m := teamLeagueRE.FindStringSubmatch(s); m != nil {
		return cleanValue(m[1]), cleanValue(m[2])
	}

	for _, sep := range []string{" / ", " — ", " – ", " - ", " | ", "•", "·"} {
		if idx := strings.Index(s, sep); idx >= 0 {
			return cleanValue(s[:idx]), cleanValue(s[idx+len(sep):])
		}
	}
	return s, "Unknown"
}

// cleanValue trims a field value, mapping empty and placeholder values to
// "Unknown".
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "-", "–", "—", "n/a", "na", "unknown", "none":
		return "Unknown"
	}
	return s
}

func unknownOrEmpty(s string) bool {
	return s == "" || s == "Unknown"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" && v != "Unknown" {
			return v
		}
	}
	return ""
}
