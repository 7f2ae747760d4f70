package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yourbasic/graph"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// MockClassifier is a deterministic classifier that needs no external
// service: it groups tables by foreign key connectivity and assigns RCCs
// from table-name patterns. Used for offline runs and tests.
type MockClassifier struct {
	Registry RuleCatalog
	Logger   *logrus.Logger
}

// NewMockClassifier creates a deterministic offline classifier
func NewMockClassifier(registry RuleCatalog, logger *logrus.Logger) *MockClassifier {
	return &MockClassifier{
		Registry: registry,
		Logger:   logger,
	}
}

// CategorizeTables groups tables by the connected components of the
// foreign key graph: tables joined by an edge in either direction land in
// the same group, unrelated tables form singleton groups.
func (m *MockClassifier) CategorizeTables(_ context.Context, g *models.RelationshipGraph) (*Grouping, error) {
	tableIndex := make(map[string]int, len(g.TableOrder))
	for i, table := range g.TableOrder {
		tableIndex[table] = i
	}

	// Undirected view of the FK graph; direction is irrelevant for
	// deciding what purges together
	und := graph.New(len(g.TableOrder))
	for _, table := range g.TableOrder {
		for _, fk := range g.Tables[table].ForeignKeys {
			parentIdx, ok := tableIndex[fk.ParentTable]
			if !ok || parentIdx == tableIndex[table] {
				continue
			}
			und.AddBoth(tableIndex[table], parentIdx)
		}
	}

	component := make([]int, len(g.TableOrder))
	for i := range component {
		component[i] = -1
	}
	var componentCount int
	for i := range g.TableOrder {
		if component[i] != -1 {
			continue
		}
		m.markComponent(und, i, componentCount, component)
		componentCount++
	}

	members := make([][]string, componentCount)
	for i, table := range g.TableOrder {
		members[component[i]] = append(members[component[i]], table)
	}

	grouping := &Grouping{
		Definitions: make(map[string]models.GroupDefinition),
		Assignments: make(map[string]models.GroupAssignment),
		Failures:    make(map[string]string),
	}

	for _, tables := range members {
		primary := m.primaryEntity(tables, g)
		groupName := strings.ToUpper(primary) + "_GROUP"
		grouping.Definitions[groupName] = models.GroupDefinition{
			Description:   fmt.Sprintf("Tables connected to %s by foreign keys", primary),
			PrimaryEntity: primary,
		}
		for _, table := range tables {
			grouping.Assignments[table] = models.GroupAssignment{
				Group:     groupName,
				Reasoning: fmt.Sprintf("%s shares a foreign key chain with %s", table, primary),
			}
		}
	}

	m.Logger.Infof("Mock categorization produced %d groups for %d tables", componentCount, len(g.TableOrder))
	return grouping, nil
}

// markComponent walks one connected component depth-first
func (m *MockClassifier) markComponent(und *graph.Mutable, start, id int, component []int) {
	stack := []int{start}
	component[start] = id
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		und.Visit(v, func(w int, _ int64) bool {
			if component[w] == -1 {
				component[w] = id
				stack = append(stack, w)
			}
			return false
		})
	}
}

// primaryEntity picks the most-referenced table of a component as its
// naming anchor; ties fall back to the first table in input order
func (m *MockClassifier) primaryEntity(tables []string, g *models.RelationshipGraph) string {
	primary := tables[0]
	best := -1
	for _, table := range tables {
		refs := len(g.Tables[table].ReferencedBy)
		if refs > best {
			best = refs
			primary = table
		}
	}
	return primary
}

// Name patterns mapped to RCC codes, checked in order
var rccNamePatterns = []struct {
	patterns []string
	code     string
}{
	{[]string{"audit", "log"}, "ADM150"},
	{[]string{"invoice", "payment", "transaction"}, "BNK460"},
	{[]string{"contract", "agreement"}, "LEG460"},
	{[]string{"compliance"}, "LEG120"},
	{[]string{"employee", "hr_", "staff"}, "HRT470"},
	{[]string{"statement", "report"}, "CFA360"},
}

// ClassifyTableRCC assigns an RCC from table-name patterns, defaulting to
// the customer data code when nothing matches
func (m *MockClassifier) ClassifyTableRCC(_ context.Context, desc *models.TableDescriptor) (models.RCCClassification, error) {
	name := strings.ToLower(desc.Name)

	for _, entry := range rccNamePatterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(name, pattern) {
				return models.RCCClassification{
					AssignedRCC: entry.code,
					Reasoning:   fmt.Sprintf("table name %s matches pattern %q", desc.Name, pattern),
				}, nil
			}
		}
	}

	return models.RCCClassification{
		AssignedRCC: "CFA340",
		Reasoning:   fmt.Sprintf("no name pattern matched %s, defaulting to customer data retention", desc.Name),
	}, nil
}
