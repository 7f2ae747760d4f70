package introspect

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

// QueryExecutor is the catalog query boundary. *connector.DatabaseConnector
// satisfies it; tests substitute their own implementation.
type QueryExecutor interface {
	ExecuteQuery(query string, params ...interface{}) ([]map[string]interface{}, error)
}

// Introspector reads the MySQL catalog and produces table descriptors
type Introspector struct {
	DB     QueryExecutor
	Schema string
	Logger *logrus.Logger
}

// NewIntrospector creates a new introspector for one database schema
func NewIntrospector(db QueryExecutor, schema string, logger *logrus.Logger) *Introspector {
	return &Introspector{
		DB:     db,
		Schema: schema,
		Logger: logger,
	}
}

// ListTables returns the names of all base tables in the target schema,
// ordered by name. Views and system catalogs are excluded by the
// information_schema scoping.
func (in *Introspector) ListTables() ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	result, err := in.DB.ExecuteQuery(query, in.Schema)
	if err != nil {
		return nil, fmt.Errorf("listing tables for schema %s: %w", in.Schema, err)
	}

	var tables []string
	for _, row := range result {
		name, ok := row["table_name"].(string)
		if !ok {
			continue
		}
		tables = append(tables, name)
	}

	return tables, nil
}

// Describe reads one table's columns, primary key membership, and declared
// foreign keys from the catalog
func (in *Introspector) Describe(table string) (*models.TableDescriptor, error) {
	columnsQuery := `
		SELECT
			column_name,
			data_type,
			is_nullable,
			column_key
		FROM information_schema.columns
		WHERE table_schema = ?
		AND table_name = ?
		ORDER BY ordinal_position
	`
	columnsResult, err := in.DB.ExecuteQuery(columnsQuery, in.Schema, table)
	if err != nil {
		return nil, fmt.Errorf("reading columns for table %s: %w", table, err)
	}
	if len(columnsResult) == 0 {
		return nil, fmt.Errorf("table %s has no column metadata", table)
	}

	desc := &models.TableDescriptor{Name: table}

	for _, row := range columnsResult {
		name, _ := row["column_name"].(string)
		dataType, _ := row["data_type"].(string)
		isNullable, _ := row["is_nullable"].(string)
		columnKey, _ := row["column_key"].(string)

		// A column is primary iff it participates in the table's primary
		// key constraint, which MySQL exposes as column_key = 'PRI'
		isPrimary := columnKey == "PRI"

		desc.Columns = append(desc.Columns, models.Column{
			Name:         name,
			DataType:     dataType,
			IsNullable:   isNullable == "YES",
			IsPrimaryKey: isPrimary,
		})
		if isPrimary {
			desc.PrimaryKeys = append(desc.PrimaryKeys, name)
		}
	}

	// Foreign keys come from constraint metadata, never from column naming
	fkQuery := `
		SELECT
			column_name,
			referenced_table_name,
			referenced_column_name,
			constraint_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
		AND table_name = ?
		AND referenced_table_name IS NOT NULL
		ORDER BY column_name
	`
	fkResult, err := in.DB.ExecuteQuery(fkQuery, in.Schema, table)
	if err != nil {
		return nil, fmt.Errorf("reading foreign keys for table %s: %w", table, err)
	}

	for _, row := range fkResult {
		childColumn, _ := row["column_name"].(string)
		parentTable, _ := row["referenced_table_name"].(string)
		parentColumn, _ := row["referenced_column_name"].(string)
		constraintName, _ := row["constraint_name"].(string)

		desc.ForeignKeys = append(desc.ForeignKeys, models.ForeignKeyEdge{
			ChildTable:     table,
			ChildColumn:    childColumn,
			ParentTable:    parentTable,
			ParentColumn:   parentColumn,
			ConstraintName: constraintName,
		})
	}

	return desc, nil
}

// DescribeAll describes every base table in the schema. A table whose
// metadata cannot be read is skipped with a warning so one broken table
// does not abort the whole analysis.
func (in *Introspector) DescribeAll() ([]*models.TableDescriptor, error) {
	tables, err := in.ListTables()
	if err != nil {
		return nil, err
	}

	var descriptors []*models.TableDescriptor
	for _, table := range tables {
		desc, err := in.Describe(table)
		if err != nil {
			in.Logger.Warningf("Skipping table %s: %v", table, err)
			continue
		}
		descriptors = append(descriptors, desc)
	}

	return descriptors, nil
}
