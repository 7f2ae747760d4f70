package models

// RetentionBasis is the temporal anchor used to compute retention expiry
type RetentionBasis string

const (
	CreationBased RetentionBasis = "creation_based" // e.g., "10 years from creation"
	ActivePlus    RetentionBasis = "active_plus"    // e.g., "active + 10 years"
	EventBased    RetentionBasis = "event_based"    // e.g., "7 years after termination"
)

// RetentionRule defines how long data under a Retention Class Code must be kept
type RetentionRule struct {
	Years       int
	Basis       RetentionBasis
	Description string
	// LookupHints are ordered column-name tokens used to locate the
	// retention-relevant columns in a table schema,
	// e.g., ["created_at", "active_flag"] or ["termination_date"]
	LookupHints []string
}

// Column represents a database column with its properties
type Column struct {
	Name         string
	DataType     string
	IsNullable   bool
	IsPrimaryKey bool
}

// ForeignKeyEdge represents a directed foreign key relationship:
// the child table depends on the parent table
type ForeignKeyEdge struct {
	ChildTable     string
	ChildColumn    string
	ParentTable    string
	ParentColumn   string
	ConstraintName string
}

// TableDescriptor is an immutable snapshot of one table taken during a
// single introspection pass
type TableDescriptor struct {
	Name         string
	Columns      []Column
	PrimaryKeys  []string
	ForeignKeys  []ForeignKeyEdge // this table as child
	ReferencedBy []ForeignKeyEdge // this table as parent
}

// HasForeignKeys reports whether the table declares any outgoing foreign keys
func (td *TableDescriptor) HasForeignKeys() bool {
	return len(td.ForeignKeys) > 0
}

// IsReferenced reports whether any other table references this one
func (td *TableDescriptor) IsReferenced() bool {
	return len(td.ReferencedBy) > 0
}

// RelationshipGraph maps every base table in the target database to its
// descriptor, with incoming edges resolved across the whole schema
type RelationshipGraph struct {
	Tables map[string]*TableDescriptor
	// TableOrder preserves the introspection order of table names
	TableOrder []string
	// DanglingEdges are foreign keys whose parent table is missing from the
	// graph - a data-quality condition to surface, not silently drop
	DanglingEdges []ForeignKeyEdge
	// CircularChains lists tables involved in circular foreign key
	// dependencies, one chain per strongly connected component
	CircularChains [][]string
}

// GroupDefinition describes one business-purpose group of tables
type GroupDefinition struct {
	Description   string `json:"description"`
	PrimaryEntity string `json:"primary_entity"`
}

// GroupAssignment places a single table into exactly one group
type GroupAssignment struct {
	Group     string `json:"group"`
	Reasoning string `json:"reasoning"`
}

// RCCClassification is the outcome of assigning a Retention Class Code to a
// table. An empty AssignedRCC means classification failed for this table.
type RCCClassification struct {
	AssignedRCC string `json:"assigned_rcc"`
	Reasoning   string `json:"reasoning"`
	// Gap records why no valid RCC could be assigned (e.g., the external
	// service proposed a code outside the registry)
	Gap string `json:"gap,omitempty"`
}

// RetentionColumns is the set of concrete columns to consult when deciding
// whether a row is eligible for purge
type RetentionColumns struct {
	Columns []string `json:"retention_lookup_columns"`
	// UnresolvedHints are hint tokens that matched no actual column,
	// reported so a reviewer can see the gap
	UnresolvedHints []string `json:"unresolved_hints,omitempty"`
	Reasoning       string   `json:"reasoning"`
}

// PriorityAssignment is one table's purge ordinal within its group:
// 1 = purge first, 3 = purge last
type PriorityAssignment struct {
	Priority     int
	ForeignKeys  []ForeignKeyEdge
	ReferencedBy []ForeignKeyEdge
	Reasoning    string
}

// TableAnalysisResult combines everything the run decided about one table
type TableAnalysisResult struct {
	Table            string             `json:"table"`
	Group            string             `json:"group"`
	GroupReasoning   string             `json:"group_reasoning,omitempty"`
	RCC              *RCCClassification `json:"rcc_classification,omitempty"`
	RetentionColumns *RetentionColumns  `json:"retention_analysis,omitempty"`
	Priority         int                `json:"intra_group_priority"`
	PriorityReason   string             `json:"priority_reasoning,omitempty"`
	References       []string           `json:"references,omitempty"`
	ReferencedBy     []string           `json:"referenced_by,omitempty"`
}
