package relgraph

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourbasic/graph"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// Builder turns introspected table descriptors into a relationship graph
type Builder struct {
	Logger *logrus.Logger
}

// NewBuilder creates a new relationship graph builder
func NewBuilder(logger *logrus.Logger) *Builder {
	return &Builder{Logger: logger}
}

// Build populates outgoing edges from each descriptor's declared foreign
// keys and computes incoming edges by scanning every other descriptor's
// outgoing edges. The scan is quadratic over tables, which is fine for
// catalog-sized inputs and a once-per-run transform.
func (b *Builder) Build(descriptors []*models.TableDescriptor) *models.RelationshipGraph {
	g := &models.RelationshipGraph{
		Tables: make(map[string]*models.TableDescriptor, len(descriptors)),
	}

	for _, desc := range descriptors {
		g.Tables[desc.Name] = desc
		g.TableOrder = append(g.TableOrder, desc.Name)
		// Rebuild incoming edges from scratch so the graph stays correct
		// when descriptors are reused across builds
		desc.ReferencedBy = nil
	}

	for _, desc := range descriptors {
		for _, fk := range desc.ForeignKeys {
			parent, ok := g.Tables[fk.ParentTable]
			if !ok {
				// Introspection covers all tables, so a missing parent means
				// the source database carries a dangling reference. Surface
				// it instead of dropping the edge.
				b.Logger.Warningf("Foreign key %s.%s references unknown table %s", fk.ChildTable, fk.ChildColumn, fk.ParentTable)
				g.DanglingEdges = append(g.DanglingEdges, fk)
				continue
			}
			parent.ReferencedBy = append(parent.ReferencedBy, fk)
		}
	}

	g.CircularChains = b.findCircularChains(g)

	return g
}

// findCircularChains detects circular foreign key dependencies, which make
// any purge ordering within the cycle impossible without breaking a
// constraint. Reported as diagnostics so a reviewer can plan around them.
func (b *Builder) findCircularChains(g *models.RelationshipGraph) [][]string {
	if len(g.TableOrder) == 0 {
		return nil
	}

	tableIndex := make(map[string]int, len(g.TableOrder))
	for i, table := range g.TableOrder {
		tableIndex[table] = i
	}

	dep := graph.New(len(g.TableOrder))
	for _, table := range g.TableOrder {
		desc := g.Tables[table]
		for _, fk := range desc.ForeignKeys {
			// Self-references are allowed; they do not block purge ordering
			if fk.ParentTable == fk.ChildTable {
				continue
			}
			if parentIdx, ok := tableIndex[fk.ParentTable]; ok {
				dep.Add(tableIndex[table], parentIdx)
			}
		}
	}

	var chains [][]string
	for _, component := range graph.StrongComponents(dep) {
		if len(component) < 2 {
			continue
		}
		chain := make([]string, 0, len(component))
		for _, idx := range component {
			chain = append(chain, g.TableOrder[idx])
		}
		sort.Strings(chain)
		chains = append(chains, chain)
		b.Logger.Warningf("Circular foreign key dependency: %v", chain)
	}

	return chains
}
