package resolver

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// ErrTableNotInGraph indicates a group member that is missing from the
// relationship graph. The graph is built over all tables, so this is a bug
// upstream, not a recoverable condition.
var ErrTableNotInGraph = errors.New("table not present in relationship graph")

// Resolver computes intra-group purge priorities from foreign key
// relationships
type Resolver struct {
	Logger *logrus.Logger
}

// NewResolver creates a new purge priority resolver
func NewResolver(logger *logrus.Logger) *Resolver {
	return &Resolver{Logger: logger}
}

// Resolve assigns each table in the group a purge priority:
//
//	1 - has foreign keys, not referenced: nothing depends on it, purge first
//	3 - no foreign keys, referenced: master data others point to, purge last
//	2 - everything else: bridge tables and fully independent tables
//
// Edges are counted database-wide, not group-local, because referential
// dependency does not stop at group boundaries. This is a single-pass
// tiering, not a full topological sort; order within a tier is undefined.
func (r *Resolver) Resolve(groupTables []string, g *models.RelationshipGraph) (map[string]models.PriorityAssignment, error) {
	assignments := make(map[string]models.PriorityAssignment, len(groupTables))

	for _, table := range groupTables {
		desc, ok := g.Tables[table]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTableNotInGraph, table)
		}

		hasFKs := desc.HasForeignKeys()
		isReferenced := desc.IsReferenced()

		var priority int
		var reasoning string

		switch {
		case hasFKs && !isReferenced:
			priority = 1
			reasoning = fmt.Sprintf("%s depends on other tables but nothing depends on it; purging it first cannot break referential integrity", table)
		case !hasFKs && isReferenced:
			priority = 3
			reasoning = fmt.Sprintf("%s is reference data that other tables still point to; it must survive until its dependents are gone", table)
		case hasFKs && isReferenced:
			priority = 2
			reasoning = fmt.Sprintf("%s is a bridge table: its dependents must be purged before it, and it must be purged before the tables it references", table)
		default:
			priority = 2
			reasoning = fmt.Sprintf("%s has no foreign key relationships; it carries no ordering constraint and defaults to the middle tier", table)
		}

		r.Logger.Debugf("Priority %d for %s (has_foreign_keys=%t, is_referenced=%t)", priority, table, hasFKs, isReferenced)

		assignments[table] = models.PriorityAssignment{
			Priority:     priority,
			ForeignKeys:  desc.ForeignKeys,
			ReferencedBy: desc.ReferencedBy,
			Reasoning:    reasoning,
		}
	}

	return assignments, nil
}

// SubOrderMiddleTier is the finer-grained extension over the three coarse
// tiers: it orders a group's priority-2 tables by a topological pass
// restricted to intra-group edges, parents after children. Tables caught in
// an intra-group cycle keep their input position at the end.
func (r *Resolver) SubOrderMiddleTier(groupTables []string, assignments map[string]models.PriorityAssignment, g *models.RelationshipGraph) []string {
	inTier := make(map[string]bool)
	var tier []string
	for _, table := range groupTables {
		if a, ok := assignments[table]; ok && a.Priority == 2 {
			inTier[table] = true
			tier = append(tier, table)
		}
	}

	ordered := make([]string, 0, len(tier))
	placed := make(map[string]bool, len(tier))

	// Children before parents: repeatedly take a table none of whose
	// in-tier dependents is still pending
	remaining := append([]string(nil), tier...)
	for len(remaining) > 0 {
		found := false
		for i, table := range remaining {
			blocked := false
			for _, ref := range g.Tables[table].ReferencedBy {
				if inTier[ref.ChildTable] && !placed[ref.ChildTable] && ref.ChildTable != table {
					blocked = true
					break
				}
			}
			if !blocked {
				ordered = append(ordered, table)
				placed[table] = true
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			// Intra-group cycle; keep input order for what is left
			ordered = append(ordered, remaining...)
			break
		}
	}

	return ordered
}
