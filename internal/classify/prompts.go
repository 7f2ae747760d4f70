package classify

import (
	"fmt"
	"strings"

	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

const categorizationTemplate = `You are a database analyst. Create groups of related tables that should be purged together.

GROUPING RULES:
1. Tables with direct foreign key relationships MUST be in the same group
2. Tables sharing common business objects (e.g., customer_id in multiple tables) should be in the same group
3. Look for naming patterns indicating relationships (e.g., order_* tables)
4. Keep number of groups minimal by combining related business concepts
5. Each table MUST belong to exactly one group
6. Name groups based on the primary business entity or process they represent

Table Definitions:
%s

Relationship Data:
%s

IMPORTANT: Return ONLY valid JSON in this exact format with no additional text:

{
  "groups": {
    "GROUP_NAME": {
      "description": "Brief description of what this group represents",
      "primary_entity": "The main business entity or process this group revolves around"
    }
  },
  "analysis": {
    "table_name": {
      "group": "GROUP_NAME",
      "reasoning": "explanation focusing on relationships and why tables must be processed together"
    }
  }
}`

const rccClassificationTemplate = `You are a data retention expert. Classify this database table into the most appropriate Retention Class Code (RCC) based on its schema.

Table Schema:
%s

Available RCCs:
%s

CLASSIFICATION RULES:
1. Analyze the table name, column names, and data types to determine the business purpose
2. Match the table's purpose to the most appropriate RCC category
3. Look for key indicators like: financial data, audit logs, customer data, HR records, etc.
4. You MUST choose one of the available RCC codes listed above

Return ONLY valid JSON in this exact format:

{
    "assigned_rcc": "RCC_CODE",
    "reasoning": "Detailed explanation of why this RCC was chosen based on table characteristics"
}`

// CategorizationPrompt renders the grouping prompt for the full schema
func CategorizationPrompt(g *models.RelationshipGraph) string {
	var schemas strings.Builder
	var relationships strings.Builder

	for _, table := range g.TableOrder {
		desc := g.Tables[table]
		schemas.WriteString(FormatTableSchema(desc))
		schemas.WriteString("\n")

		relationships.WriteString(fmt.Sprintf("Table: %s\n", table))
		if desc.HasForeignKeys() {
			var refs []string
			for _, fk := range desc.ForeignKeys {
				refs = append(refs, fmt.Sprintf("%s (via %s)", fk.ParentTable, fk.ChildColumn))
			}
			relationships.WriteString(fmt.Sprintf("  References: %s\n", strings.Join(refs, ", ")))
		}
		if desc.IsReferenced() {
			var refs []string
			for _, fk := range desc.ReferencedBy {
				refs = append(refs, fmt.Sprintf("%s (via %s)", fk.ChildTable, fk.ChildColumn))
			}
			relationships.WriteString(fmt.Sprintf("  Referenced by: %s\n", strings.Join(refs, ", ")))
		}
	}

	return fmt.Sprintf(categorizationTemplate, schemas.String(), relationships.String())
}

// RCCPrompt renders the retention classification prompt for one table
func RCCPrompt(desc *models.TableDescriptor, registry RuleCatalog) string {
	var rccs strings.Builder
	for _, code := range registry.AllCodes() {
		rule, _ := registry.Lookup(code)
		rccs.WriteString(fmt.Sprintf("%s: %s (%s, %d years)\n", code, rule.Description, rule.Basis, rule.Years))
	}

	return fmt.Sprintf(rccClassificationTemplate, FormatTableSchema(desc), rccs.String())
}

// FormatTableSchema renders a compact text definition of a table
func FormatTableSchema(desc *models.TableDescriptor) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Table: %s\n", desc.Name))
	for _, col := range desc.Columns {
		sb.WriteString(fmt.Sprintf("  %s %s", col.Name, col.DataType))
		if col.IsPrimaryKey {
			sb.WriteString(" PRIMARY KEY")
		}
		if !col.IsNullable {
			sb.WriteString(" NOT NULL")
		}
		sb.WriteString("\n")
	}
	for _, fk := range desc.ForeignKeys {
		sb.WriteString(fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s(%s)\n", fk.ChildColumn, fk.ParentTable, fk.ParentColumn))
	}
	return sb.String()
}
