package analyzer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dheerajks/mysql-retention-planner/internal/classify"
	"github.com/dheerajks/mysql-retention-planner/internal/relgraph"
	"github.com/dheerajks/mysql-retention-planner/internal/report"
	"github.com/dheerajks/mysql-retention-planner/internal/resolver"
	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// UnclassifiedGroup collects tables the categorization step could not place.
// They still get RCC classification and a purge priority so nothing drops
// out of the report.
const UnclassifiedGroup = "UNCLASSIFIED"

// SchemaSource yields the table descriptors for one analysis run
type SchemaSource interface {
	DescribeAll() ([]*models.TableDescriptor, error)
}

// RetentionAnalyzer runs the full pipeline: introspection, relationship
// graph construction, grouping, RCC classification, retention column
// selection, and purge priority resolution.
type RetentionAnalyzer struct {
	Source     SchemaSource
	Classifier classify.Classifier
	Registry   classify.RuleCatalog
	Logger     *logrus.Logger
	// OrderMiddleTier orders priority-2 tables children before parents
	// within each group. Off by default; intra-tier order is otherwise
	// unspecified.
	OrderMiddleTier bool

	builder  *relgraph.Builder
	resolver *resolver.Resolver
}

// NewRetentionAnalyzer creates an analyzer over the given schema source
func NewRetentionAnalyzer(source SchemaSource, classifier classify.Classifier, registry classify.RuleCatalog, logger *logrus.Logger) *RetentionAnalyzer {
	return &RetentionAnalyzer{
		Source:     source,
		Classifier: classifier,
		Registry:   registry,
		Logger:     logger,
		builder:    relgraph.NewBuilder(logger),
		resolver:   resolver.NewResolver(logger),
	}
}

// Run executes one analysis pass. A classification failure aborts the run
// but still yields a failure report with the error recorded; a graph
// invariant violation returns an error with no report.
func (ra *RetentionAnalyzer) Run(ctx context.Context) (*report.Report, error) {
	descriptors, err := ra.Source.DescribeAll()
	if err != nil {
		wrapped := fmt.Errorf("schema introspection failed: %w", err)
		return report.Failure(wrapped), wrapped
	}

	g := ra.builder.Build(descriptors)
	if len(g.TableOrder) == 0 {
		ra.Logger.Warn("No base tables found; producing an empty report")
		return report.New(nil, nil, g), nil
	}
	ra.Logger.Infof("Analyzing %d tables", len(g.TableOrder))

	grouping, err := ra.Classifier.CategorizeTables(ctx, g)
	if err != nil {
		return report.Failure(err), err
	}

	results := make([]*models.TableAnalysisResult, 0, len(g.TableOrder))
	byGroup := make(map[string][]string)
	for _, table := range g.TableOrder {
		desc := g.Tables[table]
		result := &models.TableAnalysisResult{Table: table}

		if assignment, ok := grouping.Assignments[table]; ok {
			result.Group = assignment.Group
			result.GroupReasoning = assignment.Reasoning
		} else {
			result.Group = UnclassifiedGroup
			result.GroupReasoning = grouping.Failures[table]
			ra.Logger.Warnf("Table %s left unclassified: %s", table, grouping.Failures[table])
		}
		byGroup[result.Group] = append(byGroup[result.Group], table)

		rcc, err := ra.Classifier.ClassifyTableRCC(ctx, desc)
		if err != nil {
			wrapped := fmt.Errorf("classifying table %s: %w", table, err)
			return report.Failure(wrapped), wrapped
		}
		result.RCC = &rcc
		if rcc.AssignedRCC != "" {
			columns := classify.SelectRetentionColumns(desc, rcc.AssignedRCC, ra.Registry)
			result.RetentionColumns = &columns
		}

		result.References = parentTables(desc)
		result.ReferencedBy = childTables(desc)
		results = append(results, result)
	}

	resultIndex := make(map[string]*models.TableAnalysisResult, len(results))
	for _, result := range results {
		resultIndex[result.Table] = result
	}

	for group, tables := range byGroup {
		assignments, err := ra.resolver.Resolve(tables, g)
		if err != nil {
			return nil, fmt.Errorf("resolving purge priorities for group %s: %w", group, err)
		}
		for table, assignment := range assignments {
			resultIndex[table].Priority = assignment.Priority
			resultIndex[table].PriorityReason = assignment.Reasoning
		}
		if ra.OrderMiddleTier {
			ordered := ra.resolver.SubOrderMiddleTier(tables, assignments, g)
			reorderMiddleTier(results, resultIndex, ordered)
		}
	}

	return report.New(results, grouping.Definitions, g), nil
}

// reorderMiddleTier rewrites the result slice so the named tables occupy
// their existing slots in the given order. Only those slots move; the
// surrounding sequence is untouched.
func reorderMiddleTier(results []*models.TableAnalysisResult, index map[string]*models.TableAnalysisResult, ordered []string) {
	slots := make([]int, 0, len(ordered))
	member := make(map[string]bool, len(ordered))
	for _, table := range ordered {
		member[table] = true
	}
	for i, result := range results {
		if member[result.Table] {
			slots = append(slots, i)
		}
	}
	for i, table := range ordered {
		results[slots[i]] = index[table]
	}
}

func parentTables(desc *models.TableDescriptor) []string {
	return uniqueTables(desc.ForeignKeys, func(e models.ForeignKeyEdge) string { return e.ParentTable })
}

func childTables(desc *models.TableDescriptor) []string {
	return uniqueTables(desc.ReferencedBy, func(e models.ForeignKeyEdge) string { return e.ChildTable })
}

func uniqueTables(edges []models.ForeignKeyEdge, pick func(models.ForeignKeyEdge) string) []string {
	seen := make(map[string]bool, len(edges))
	var names []string
	for _, edge := range edges {
		name := pick(edge)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
