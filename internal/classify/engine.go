package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// ErrClassificationFailure indicates the external reasoning service could
// not produce a usable result. It aborts the analysis run; no heuristic
// fallback is substituted.
var ErrClassificationFailure = errors.New("classification failed")

// Reasoner is the external reasoning collaborator: it turns a structured
// prompt into raw text that the engine validates, never trusts blindly.
type Reasoner interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RuleCatalog is the read-only view of the retention policy registry the
// engine needs
type RuleCatalog interface {
	Lookup(code string) (models.RetentionRule, bool)
	AllCodes() []string
	HintsFor(code string) []string
}

// Grouping is the validated outcome of table categorization
type Grouping struct {
	Definitions map[string]models.GroupDefinition
	Assignments map[string]models.GroupAssignment
	// Failures maps tables the external result omitted or duplicated to a
	// description of the gap. They are never silently dropped.
	Failures map[string]string
}

// Classifier produces group and RCC decisions per table
type Classifier interface {
	CategorizeTables(ctx context.Context, g *models.RelationshipGraph) (*Grouping, error)
	ClassifyTableRCC(ctx context.Context, desc *models.TableDescriptor) (models.RCCClassification, error)
}

// Engine is the reasoning-service-backed classifier. The engine owns the
// candidate RCC set and all validation of returned results.
type Engine struct {
	Reasoner Reasoner
	Registry RuleCatalog
	Logger   *logrus.Logger
}

// NewEngine creates a new classification engine
func NewEngine(reasoner Reasoner, registry RuleCatalog, logger *logrus.Logger) *Engine {
	return &Engine{
		Reasoner: reasoner,
		Registry: registry,
		Logger:   logger,
	}
}

type categorizationResponse struct {
	Groups   map[string]models.GroupDefinition `json:"groups"`
	Analysis map[string]struct {
		Group     string `json:"group"`
		Reasoning string `json:"reasoning"`
	} `json:"analysis"`
}

// CategorizeTables asks the reasoning service for a business-purpose
// grouping of every table in the graph. Hard validation: every table must
// appear exactly once across groups; omissions and duplicates become
// per-table failures.
func (e *Engine) CategorizeTables(ctx context.Context, g *models.RelationshipGraph) (*Grouping, error) {
	e.Logger.Infof("Requesting table categorization for %d tables", len(g.TableOrder))

	raw, err := e.Reasoner.Complete(ctx, CategorizationPrompt(g))
	if err != nil {
		return nil, fmt.Errorf("%w: categorization request: %v", ErrClassificationFailure, err)
	}

	var resp categorizationResponse
	if err := ParseModelJSON(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: categorization response: %v", ErrClassificationFailure, err)
	}
	if len(resp.Analysis) == 0 {
		return nil, fmt.Errorf("%w: categorization response contains no table analysis", ErrClassificationFailure)
	}

	grouping := &Grouping{
		Definitions: resp.Groups,
		Assignments: make(map[string]models.GroupAssignment),
		Failures:    make(map[string]string),
	}

	seen := make(map[string]int)
	for table, info := range resp.Analysis {
		seen[table]++
		if _, known := g.Tables[table]; !known {
			e.Logger.Warningf("Categorization mentions unknown table %s, ignoring", table)
			continue
		}
		grouping.Assignments[table] = models.GroupAssignment{
			Group:     info.Group,
			Reasoning: info.Reasoning,
		}
	}

	for _, table := range g.TableOrder {
		if seen[table] == 0 {
			grouping.Failures[table] = "omitted from the categorization result"
			delete(grouping.Assignments, table)
			e.Logger.Warningf("Table %s omitted from categorization result", table)
		}
	}

	return grouping, nil
}

type rccResponse struct {
	AssignedRCC string `json:"assigned_rcc"`
	Reasoning   string `json:"reasoning"`
}

// ClassifyTableRCC asks the reasoning service for the table's Retention
// Class Code. A code outside the registry records the table as unassigned;
// it is never coerced to a default.
func (e *Engine) ClassifyTableRCC(ctx context.Context, desc *models.TableDescriptor) (models.RCCClassification, error) {
	e.Logger.Debugf("Classifying RCC for table %s", desc.Name)

	raw, err := e.Reasoner.Complete(ctx, RCCPrompt(desc, e.Registry))
	if err != nil {
		return models.RCCClassification{}, fmt.Errorf("%w: RCC request for %s: %v", ErrClassificationFailure, desc.Name, err)
	}

	var resp rccResponse
	if err := ParseModelJSON(raw, &resp); err != nil {
		return models.RCCClassification{}, fmt.Errorf("%w: RCC response for %s: %v", ErrClassificationFailure, desc.Name, err)
	}

	if resp.AssignedRCC == "" {
		return models.RCCClassification{
			Reasoning: resp.Reasoning,
			Gap:       "no RCC proposed for this table",
		}, nil
	}

	if _, ok := e.Registry.Lookup(resp.AssignedRCC); !ok {
		e.Logger.Warningf("Proposed RCC %s for table %s is not in the registry", resp.AssignedRCC, desc.Name)
		return models.RCCClassification{
			Reasoning: resp.Reasoning,
			Gap:       fmt.Sprintf("proposed code %s is not in the policy registry", resp.AssignedRCC),
		}, nil
	}

	return models.RCCClassification{
		AssignedRCC: resp.AssignedRCC,
		Reasoning:   resp.Reasoning,
	}, nil
}
