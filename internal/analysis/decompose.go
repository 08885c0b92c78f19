package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// Decompose splits a composite clause into its numbered sub-sections so each
// can be risk-analyzed independently. The split keys off the clause's own
// number: a clause numbered "2" decomposes at line-start markers "2.1 ",
// "2.2 ", and so on. A single marker is treated as a cross-reference rather
// than real sub-structure, so decomposition requires at least two.
//
// Text preceding the first marker frames every sub-section (carve-out
// preambles qualify all following items) and is prepended to each
// sub-clause's text. The function is pure: identical input always yields
// identical output, and the singleton [clause] is returned whenever
// decomposition does not apply.
func Decompose(clause Clause) []Clause {
	if clause.Number == "" || strings.TrimSpace(clause.Text) == "" {
		return []Clause{clause}
	}

	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(clause.Number) + `\.(\d+)\s`)
	matches := pattern.FindAllStringSubmatchIndex(clause.Text, -1)
	if len(matches) < 2 {
		return []Clause{clause}
	}

	intro := strings.TrimSpace(clause.Text[:matches[0][0]])

	subs := make([]Clause, 0, len(matches))
	for i, m := range matches {
		end := len(clause.Text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		span := clause.Text[m[1]:end]
		span = strings.TrimPrefix(span, "\n")
		span = strings.TrimSpace(span)
		if span == "" {
			continue
		}

		suffix := clause.Text[m[2]:m[3]]
		marker := clause.Number + "." + suffix

		text := span
		if intro != "" {
			text = intro + "\n\n" + span
		}

		subs = append(subs, Clause{
			ID:       fmt.Sprintf("%s_sub_%s", clause.ID, suffix),
			Number:   marker,
			Title:    fmt.Sprintf("%s (§%s)", clause.Title, marker),
			Text:     text,
			ParentID: clause.ID,
		})
	}

	if len(subs) == 0 {
		return []Clause{clause}
	}

	return subs
}
