package policy

import (
	"sort"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// Registry is the static catalog of Retention Class Codes (RCC). It is
// built once at process start and read-only thereafter.
type Registry struct {
	rules map[string]models.RetentionRule
	codes []string
}

// NewRegistry creates the registry with the fixed RCC catalog
func NewRegistry() *Registry {
	rules := map[string]models.RetentionRule{
		// Financial & Tax Records
		"CFA360": {
			Years:       10,
			Basis:       models.CreationBased,
			Description: "Financial statements and reports - 10 years from created date",
			LookupHints: []string{"creation_date", "document_date"},
		},
		"BNK460": {
			Years:       10,
			Basis:       models.CreationBased,
			Description: "Financial transactions - 10 years from created date",
			LookupHints: []string{"created_date", "created_at", "settlement_date"},
		},

		// Legal & Compliance
		"LEG460": {
			Years:       10,
			Basis:       models.ActivePlus,
			Description: "Legal contracts - retain active + 10 years",
			LookupHints: []string{"active_flag", "created_at"},
		},
		"LEG120": {
			Years:       10,
			Basis:       models.CreationBased,
			Description: "Compliance documents - 10 years from created date",
			LookupHints: []string{"created_date", "created_at"},
		},
		"ADM150": {
			Years:       1,
			Basis:       models.CreationBased,
			Description: "Audit logs - 1 year from creation",
			LookupHints: []string{"created_at"},
		},

		// Customer & Business
		"CFA340": {
			Years:       10,
			Basis:       models.CreationBased,
			Description: "Customer Personal Information - 10 years from created date",
			LookupHints: []string{"created_date", "created_at"},
		},

		// HR & Personnel
		"HRT470": {
			Years:       7,
			Basis:       models.EventBased,
			Description: "Employee records - 7 years after employment termination",
			LookupHints: []string{"termination_date", "end_date", "employment_end"},
		},
	}

	codes := make([]string, 0, len(rules))
	for code := range rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return &Registry{
		rules: rules,
		codes: codes,
	}
}

// Lookup returns the retention rule for a code, or false if the code is
// not part of the catalog
func (r *Registry) Lookup(code string) (models.RetentionRule, bool) {
	rule, ok := r.rules[code]
	return rule, ok
}

// AllCodes returns every RCC in the catalog in a stable order
func (r *Registry) AllCodes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// HintsFor returns the ordered lookup column hints for a code, or an empty
// slice when the code is unknown
func (r *Registry) HintsFor(code string) []string {
	rule, ok := r.rules[code]
	if !ok {
		return nil
	}
	hints := make([]string, len(rule.LookupHints))
	copy(hints, rule.LookupHints)
	return hints
}
