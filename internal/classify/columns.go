package classify

import (
	"fmt"
	"strings"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// Name patterns per retention basis, matched against lowercased column names
var (
	creationPatterns  = []string{"created", "creation", "inserted"}
	activePatterns    = []string{"active", "enabled"}
	timestampPatterns = []string{"created", "creation", "date", "time"}
)

// SelectRetentionColumns picks the concrete columns of desc to consult when
// deciding purge eligibility under the given RCC. Hints that match no
// actual column are reported as unresolved suggestions instead of being
// silently omitted.
func SelectRetentionColumns(desc *models.TableDescriptor, code string, registry RuleCatalog) models.RetentionColumns {
	rule, ok := registry.Lookup(code)
	if !ok {
		return models.RetentionColumns{
			Reasoning: fmt.Sprintf("unknown RCC %s, no lookup policy available", code),
		}
	}

	result := models.RetentionColumns{}
	chosen := make(map[string]bool)

	add := func(column string) {
		if column != "" && !chosen[column] {
			chosen[column] = true
			result.Columns = append(result.Columns, column)
		}
	}

	for _, hint := range rule.LookupHints {
		// An exact column match always satisfies the hint
		if col := findColumn(desc, func(name string) bool { return name == hint }); col != "" {
			add(col)
			continue
		}

		// Otherwise match the tokens the hint is made of, e.g. an
		// "end_date" hint also accepts "employment_end"
		tokens := hintTokens(hint)
		col := findColumn(desc, matchesAny(tokens))

		// A hint that expresses its basis concern may broaden to the
		// basis patterns: "creation_date" accepts "inserted_at", an
		// active flag hint accepts any flag-like column. A hint naming
		// something else (e.g. "settlement_date") must not.
		if col == "" {
			switch rule.Basis {
			case models.CreationBased:
				if overlaps(tokens, creationPatterns) {
					col = findColumn(desc, matchesAny(creationPatterns))
				}
			case models.ActivePlus:
				if isFlagHint(hint) {
					col = findFlagColumn(desc)
				} else if overlaps(tokens, timestampPatterns) {
					col = findColumn(desc, matchesAny(timestampPatterns))
				}
			}
		}

		if col == "" {
			result.UnresolvedHints = append(result.UnresolvedHints, hint)
			continue
		}
		add(col)
	}

	result.Reasoning = describeSelection(code, rule, result)
	return result
}

// findColumn returns the first column whose lowercased name satisfies match
func findColumn(desc *models.TableDescriptor, match func(string) bool) string {
	for _, col := range desc.Columns {
		if match(strings.ToLower(col.Name)) {
			return col.Name
		}
	}
	return ""
}

// overlaps reports whether any token appears in patterns
func overlaps(tokens, patterns []string) bool {
	for _, tok := range tokens {
		for _, p := range patterns {
			if tok == p {
				return true
			}
		}
	}
	return false
}

func matchesAny(patterns []string) func(string) bool {
	return func(name string) bool {
		for _, p := range patterns {
			if strings.Contains(name, p) {
				return true
			}
		}
		return false
	}
}

// findFlagColumn prefers boolean or flag-like columns that indicate whether
// a record is still active
func findFlagColumn(desc *models.TableDescriptor) string {
	for _, col := range desc.Columns {
		name := strings.ToLower(col.Name)
		if strings.HasPrefix(name, "is_") || strings.Contains(name, "flag") {
			return col.Name
		}
		for _, p := range activePatterns {
			if strings.Contains(name, p) {
				return col.Name
			}
		}
	}
	return ""
}

func isFlagHint(hint string) bool {
	h := strings.ToLower(hint)
	return strings.Contains(h, "active") || strings.Contains(h, "flag") || strings.Contains(h, "enabled")
}

// hintTokens splits a hint like "termination_date" into matchable tokens,
// dropping generic ones
func hintTokens(hint string) []string {
	var tokens []string
	for _, tok := range strings.Split(strings.ToLower(hint), "_") {
		if tok == "date" || tok == "at" || tok == "on" || tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		tokens = []string{strings.ToLower(hint)}
	}
	return tokens
}

func describeSelection(code string, rule models.RetentionRule, result models.RetentionColumns) string {
	var sb strings.Builder
	if len(result.Columns) > 0 {
		sb.WriteString(fmt.Sprintf("Selected %s for RCC %s (%s, %d years)", strings.Join(result.Columns, ", "), code, rule.Basis, rule.Years))
	} else {
		sb.WriteString(fmt.Sprintf("No columns matched the lookup hints for RCC %s (%s)", code, rule.Basis))
	}
	if len(result.UnresolvedHints) > 0 {
		sb.WriteString(fmt.Sprintf("; unresolved hints: %s", strings.Join(result.UnresolvedHints, ", ")))
	}
	return sb.String()
}
