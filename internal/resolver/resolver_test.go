package resolver

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/dheerajks/mysql-retention-planner/internal/relgraph"
	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return logger
}

func fkEdge(child, childCol, parent, parentCol string) models.ForeignKeyEdge {
	return models.ForeignKeyEdge{
		ChildTable:   child,
		ChildColumn:  childCol,
		ParentTable:  parent,
		ParentColumn: parentCol,
	}
}

func buildGraph(t *testing.T, descriptors []*models.TableDescriptor) *models.RelationshipGraph {
	t.Helper()
	return relgraph.NewBuilder(testLogger()).Build(descriptors)
}

func TestResolveOrdersCustomersSchema(t *testing.T) {
	// orders(id PK), customers(id PK), order_items(id PK, order_id FK -> orders.id)
	g := buildGraph(t, []*models.TableDescriptor{
		{Name: "orders"},
		{Name: "customers"},
		{Name: "order_items", ForeignKeys: []models.ForeignKeyEdge{fkEdge("order_items", "order_id", "orders", "id")}},
	})

	assignments, err := NewResolver(testLogger()).Resolve([]string{"orders", "customers", "order_items"}, g)
	if err != nil {
		t.Fatalf("Expected Resolve to succeed, got error: %v", err)
	}

	if got := assignments["order_items"].Priority; got != 1 {
		t.Errorf("Expected order_items (FK only) to get priority 1, got %d", got)
	}
	if got := assignments["orders"].Priority; got != 3 {
		t.Errorf("Expected orders (referenced only) to get priority 3, got %d", got)
	}
	if got := assignments["customers"].Priority; got != 2 {
		t.Errorf("Expected customers (independent) to get priority 2, got %d", got)
	}
}

func TestResolveBridgeTable(t *testing.T) {
	g := buildGraph(t, []*models.TableDescriptor{
		{Name: "customers"},
		{Name: "orders", ForeignKeys: []models.ForeignKeyEdge{fkEdge("orders", "customer_id", "customers", "id")}},
		{Name: "order_items", ForeignKeys: []models.ForeignKeyEdge{fkEdge("order_items", "order_id", "orders", "id")}},
	})

	assignments, err := NewResolver(testLogger()).Resolve([]string{"customers", "orders", "order_items"}, g)
	if err != nil {
		t.Fatalf("Expected Resolve to succeed, got error: %v", err)
	}

	if got := assignments["orders"].Priority; got != 2 {
		t.Errorf("Expected orders (bridge) to get priority 2, got %d", got)
	}
	if got := assignments["order_items"].Priority; got != 1 {
		t.Errorf("Expected order_items to get priority 1, got %d", got)
	}
	if got := assignments["customers"].Priority; got != 3 {
		t.Errorf("Expected customers to get priority 3, got %d", got)
	}
}

func TestResolveCountsEdgesOutsideGroup(t *testing.T) {
	// payments references orders, but only orders is in the examined group.
	// The out-of-group dependent still pins orders to priority 3.
	g := buildGraph(t, []*models.TableDescriptor{
		{Name: "orders"},
		{Name: "payments", ForeignKeys: []models.ForeignKeyEdge{fkEdge("payments", "order_id", "orders", "id")}},
	})

	assignments, err := NewResolver(testLogger()).Resolve([]string{"orders"}, g)
	if err != nil {
		t.Fatalf("Expected Resolve to succeed, got error: %v", err)
	}

	if got := assignments["orders"].Priority; got != 3 {
		t.Errorf("Expected orders to get priority 3 from a database-wide edge, got %d", got)
	}
}

func TestResolveEveryTableExactlyOnce(t *testing.T) {
	g := buildGraph(t, []*models.TableDescriptor{
		{Name: "customers"},
		{Name: "orders", ForeignKeys: []models.ForeignKeyEdge{fkEdge("orders", "customer_id", "customers", "id")}},
		{Name: "order_items", ForeignKeys: []models.ForeignKeyEdge{fkEdge("order_items", "order_id", "orders", "id")}},
		{Name: "audit_logs"},
	})

	group := []string{"customers", "orders", "order_items", "audit_logs"}
	assignments, err := NewResolver(testLogger()).Resolve(group, g)
	if err != nil {
		t.Fatalf("Expected Resolve to succeed, got error: %v", err)
	}

	if len(assignments) != len(group) {
		t.Fatalf("Expected %d assignments, got %d", len(group), len(assignments))
	}
	for _, table := range group {
		a, ok := assignments[table]
		if !ok {
			t.Errorf("Expected an assignment for %s", table)
			continue
		}
		if a.Priority < 1 || a.Priority > 3 {
			t.Errorf("Expected priority of %s to be in 1..3, got %d", table, a.Priority)
		}
	}
}

func TestResolveMissingTableFailsLoudly(t *testing.T) {
	g := buildGraph(t, []*models.TableDescriptor{{Name: "orders"}})

	_, err := NewResolver(testLogger()).Resolve([]string{"orders", "ghost_table"}, g)
	if err == nil {
		t.Fatal("Expected Resolve to fail for a table missing from the graph")
	}
	if !errors.Is(err, ErrTableNotInGraph) {
		t.Errorf("Expected ErrTableNotInGraph, got %v", err)
	}
}

func TestResolveJustificationEdges(t *testing.T) {
	g := buildGraph(t, []*models.TableDescriptor{
		{Name: "orders"},
		{Name: "order_items", ForeignKeys: []models.ForeignKeyEdge{fkEdge("order_items", "order_id", "orders", "id")}},
	})

	assignments, err := NewResolver(testLogger()).Resolve([]string{"orders", "order_items"}, g)
	if err != nil {
		t.Fatalf("Expected Resolve to succeed, got error: %v", err)
	}

	items := assignments["order_items"]
	if len(items.ForeignKeys) != 1 || items.ForeignKeys[0].ParentTable != "orders" {
		t.Errorf("Expected order_items justification to carry its FK edge, got %+v", items.ForeignKeys)
	}

	orders := assignments["orders"]
	if len(orders.ReferencedBy) != 1 || orders.ReferencedBy[0].ChildTable != "order_items" {
		t.Errorf("Expected orders justification to carry its incoming edge, got %+v", orders.ReferencedBy)
	}
}

func TestSubOrderMiddleTier(t *testing.T) {
	// Chain entirely inside priority 2: shipments -> orders -> customers,
	// with external tables pinning every chain member to the middle tier.
	g := buildGraph(t, []*models.TableDescriptor{
		{Name: "customers", ForeignKeys: []models.ForeignKeyEdge{fkEdge("customers", "region_id", "regions", "id")}},
		{Name: "orders", ForeignKeys: []models.ForeignKeyEdge{fkEdge("orders", "customer_id", "customers", "id")}},
		{Name: "shipments", ForeignKeys: []models.ForeignKeyEdge{fkEdge("shipments", "order_id", "orders", "id")}},
		{Name: "shipment_events", ForeignKeys: []models.ForeignKeyEdge{fkEdge("shipment_events", "shipment_id", "shipments", "id")}},
		{Name: "regions"},
	})

	r := NewResolver(testLogger())
	group := []string{"customers", "orders", "shipments"}
	assignments, err := r.Resolve(group, g)
	if err != nil {
		t.Fatalf("Expected Resolve to succeed, got error: %v", err)
	}

	for _, table := range group {
		if assignments[table].Priority != 2 {
			t.Fatalf("Expected %s to be priority 2, got %d", table, assignments[table].Priority)
		}
	}

	ordered := r.SubOrderMiddleTier(group, assignments, g)
	if len(ordered) != 3 {
		t.Fatalf("Expected 3 tables in the sub-order, got %v", ordered)
	}
	if ordered[0] != "shipments" || ordered[1] != "orders" || ordered[2] != "customers" {
		t.Errorf("Expected children before parents, got %v", ordered)
	}
}
