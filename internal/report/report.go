package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// Report is the single structured output of one analysis run
type Report struct {
	AnalysisTimestamp string                                   `json:"analysis_timestamp"`
	TotalTables       int                                      `json:"total_tables"`
	TotalGroups       int                                      `json:"total_groups"`
	Error             string                                   `json:"error,omitempty"`
	TableAnalysis     map[string]*models.TableAnalysisResult   `json:"table_analysis,omitempty"`
	GroupedByPriority map[string][]*models.TableAnalysisResult `json:"grouped_by_priority,omitempty"`
	GroupDefinitions  map[string]models.GroupDefinition        `json:"group_definitions,omitempty"`
	Diagnostics       *SchemaDiagnostics                       `json:"schema_diagnostics,omitempty"`
}

// SchemaDiagnostics carries data-quality findings from graph construction
type SchemaDiagnostics struct {
	DanglingReferences []string   `json:"dangling_references,omitempty"`
	CircularChains     [][]string `json:"circular_foreign_keys,omitempty"`
}

// New assembles a report from per-table results. Tables within each group
// are sorted by priority ascending; ties keep input order, which is not a
// guarantee of the format.
func New(results []*models.TableAnalysisResult, definitions map[string]models.GroupDefinition, g *models.RelationshipGraph) *Report {
	r := &Report{
		AnalysisTimestamp: time.Now().Format(time.RFC3339),
		TotalTables:       len(results),
		TableAnalysis:     make(map[string]*models.TableAnalysisResult, len(results)),
		GroupedByPriority: make(map[string][]*models.TableAnalysisResult),
		GroupDefinitions:  definitions,
	}

	for _, result := range results {
		r.TableAnalysis[result.Table] = result
		r.GroupedByPriority[result.Group] = append(r.GroupedByPriority[result.Group], result)
	}

	for group := range r.GroupedByPriority {
		tables := r.GroupedByPriority[group]
		sort.SliceStable(tables, func(i, j int) bool {
			return tables[i].Priority < tables[j].Priority
		})
	}
	r.TotalGroups = len(r.GroupedByPriority)

	if g != nil && (len(g.DanglingEdges) > 0 || len(g.CircularChains) > 0) {
		diag := &SchemaDiagnostics{CircularChains: g.CircularChains}
		for _, edge := range g.DanglingEdges {
			diag.DanglingReferences = append(diag.DanglingReferences,
				fmt.Sprintf("%s.%s -> %s.%s", edge.ChildTable, edge.ChildColumn, edge.ParentTable, edge.ParentColumn))
		}
		r.Diagnostics = diag
	}

	return r
}

// Failure builds the report for a run that failed outright. No partial or
// fabricated analysis is attached.
func Failure(err error) *Report {
	return &Report{
		AnalysisTimestamp: time.Now().Format(time.RFC3339),
		Error:             err.Error(),
	}
}

// WriteJSON writes the report to path as indented JSON
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}

// Print renders the report for the console
func (r *Report) Print() {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("DATABASE RETENTION ANALYSIS REPORT")
	fmt.Println(strings.Repeat("=", 70))

	if r.Error != "" {
		fmt.Printf("ERROR: %s\n", r.Error)
		fmt.Println(strings.Repeat("=", 70))
		return
	}

	fmt.Printf("Timestamp: %s\n", r.AnalysisTimestamp)
	fmt.Printf("Total tables: %d\n", r.TotalTables)
	fmt.Printf("Total groups: %d\n", r.TotalGroups)

	groups := make([]string, 0, len(r.GroupedByPriority))
	for group := range r.GroupedByPriority {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for _, group := range groups {
		fmt.Printf("\nGROUP: %s\n", group)
		if def, ok := r.GroupDefinitions[group]; ok && def.Description != "" {
			fmt.Printf("  %s\n", def.Description)
		}
		for _, table := range r.GroupedByPriority[group] {
			priorityDesc := map[int]string{1: "HIGH - purge first", 2: "MEDIUM", 3: "LOW - purge last"}[table.Priority]
			fmt.Printf("  Priority %d (%s): %s\n", table.Priority, priorityDesc, table.Table)

			rcc := "unassigned"
			if table.RCC != nil && table.RCC.AssignedRCC != "" {
				rcc = table.RCC.AssignedRCC
			}
			fmt.Printf("    RCC: %s\n", rcc)
			if table.RCC != nil && table.RCC.Gap != "" {
				fmt.Printf("    Classification gap: %s\n", table.RCC.Gap)
			}
			if table.RetentionColumns != nil && len(table.RetentionColumns.Columns) > 0 {
				fmt.Printf("    Retention lookup columns: %s\n", strings.Join(table.RetentionColumns.Columns, ", "))
			}
			if table.RetentionColumns != nil && len(table.RetentionColumns.UnresolvedHints) > 0 {
				fmt.Printf("    Unresolved hints: %s\n", strings.Join(table.RetentionColumns.UnresolvedHints, ", "))
			}
		}
	}

	if r.Diagnostics != nil {
		fmt.Println("\nSCHEMA DIAGNOSTICS")
		for _, ref := range r.Diagnostics.DanglingReferences {
			fmt.Printf("  Dangling reference: %s\n", ref)
		}
		for _, chain := range r.Diagnostics.CircularChains {
			fmt.Printf("  Circular foreign keys: %s\n", strings.Join(chain, " <-> "))
		}
	}

	fmt.Println(strings.Repeat("=", 70))
}
