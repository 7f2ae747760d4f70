package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dheerajks/mysql-retention-planner/internal/analyzer"
	"github.com/dheerajks/mysql-retention-planner/internal/classify"
	"github.com/dheerajks/mysql-retention-planner/internal/connector"
	"github.com/dheerajks/mysql-retention-planner/internal/introspect"
	"github.com/dheerajks/mysql-retention-planner/internal/policy"
	"github.com/dheerajks/mysql-retention-planner/internal/relgraph"
	"github.com/dheerajks/mysql-retention-planner/internal/seeder"
	"github.com/dheerajks/mysql-retention-planner/internal/utils"
	"github.com/dheerajks/mysql-retention-planner/pkg/models"
)

func main() {
	var (
		host            string
		user            string
		password        string
		database        string
		port            string
		envFile         string
		logLevel        string
		output          string
		mock            bool
		analyzeOnly     bool
		orderMiddleTier bool
		records         int
		minRecords      int
		verify          bool
	)

	rootCmd := &cobra.Command{
		Use:   "mysql-retention-planner",
		Short: "Classifies MySQL tables by retention policy and plans safe purge ordering",
		Long: `MySQL Retention Planner

A Go tool that introspects a MySQL schema, groups tables by business
purpose, assigns Retention Class Codes, and resolves a foreign-key-safe
purge priority for every table.`,
		Run: func(cmd *cobra.Command, args []string) {
			logger := utils.SetupLogging(logLevel)
			utils.LoadEnvironmentVariables(envFile, logger)
			resolveConnectionDefaults(&host, &user, &password, &database, &port)

			if !utils.ValidateConnectionParams(host, user, password, database, port, logger) {
				os.Exit(1)
			}

			db := connector.NewDatabaseConnector(host, user, password, database, port, logger)
			if err := db.Connect(); err != nil {
				logger.Errorf("Failed to connect to database: %v", err)
				os.Exit(1)
			}
			defer db.Disconnect()

			introspector := introspect.NewIntrospector(db, database, logger)

			if analyzeOnly {
				descriptors, err := introspector.DescribeAll()
				if err != nil {
					logger.Errorf("Failed to introspect schema: %v", err)
					os.Exit(1)
				}
				g := relgraph.NewBuilder(logger).Build(descriptors)
				printSchemaOverview(g)
				return
			}

			registry := policy.NewRegistry()
			var classifier classify.Classifier
			if mock {
				logger.Info("Using the deterministic mock classifier")
				classifier = classify.NewMockClassifier(registry, logger)
			} else {
				reasoner, err := classify.NewOpenAIReasoner(logger)
				if err != nil {
					logger.Errorf("Failed to configure the classification service: %v", err)
					os.Exit(1)
				}
				classifier = classify.NewEngine(reasoner, registry, logger)
			}

			ra := analyzer.NewRetentionAnalyzer(introspector, classifier, registry, logger)
			ra.OrderMiddleTier = orderMiddleTier

			r, runErr := ra.Run(context.Background())
			if r == nil {
				logger.Errorf("Analysis failed: %v", runErr)
				os.Exit(1)
			}

			r.Print()
			if output != "" {
				if err := r.WriteJSON(output); err != nil {
					logger.Errorf("Failed to write report: %v", err)
					os.Exit(1)
				}
				logger.Infof("Report written to %s", output)
			}
			if runErr != nil {
				os.Exit(1)
			}
		},
	}

	rootCmd.Flags().StringVarP(&host, "host", "H", "", "MySQL host (default: localhost)")
	rootCmd.Flags().StringVarP(&user, "user", "u", "", "MySQL user (default: root)")
	rootCmd.Flags().StringVarP(&password, "password", "p", "", "MySQL password")
	rootCmd.Flags().StringVarP(&database, "database", "d", "", "MySQL database name")
	rootCmd.Flags().StringVarP(&port, "port", "P", "", "MySQL port (default: 3306)")
	rootCmd.Flags().StringVarP(&envFile, "env-file", "e", ".env", "Path to .env file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Write the analysis report to this JSON file")
	rootCmd.Flags().BoolVarP(&mock, "mock", "m", false, "Use the deterministic mock classifier instead of the external service")
	rootCmd.Flags().BoolVarP(&analyzeOnly, "analyze-only", "a", false, "Only introspect the schema and print the relationship overview")
	rootCmd.Flags().BoolVar(&orderMiddleTier, "order-middle-tier", false, "Order middle-tier tables children before parents within each group")

	seedCmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Create and fill a demo archival schema for trying the planner",
		Run: func(cmd *cobra.Command, args []string) {
			logger := utils.SetupLogging(logLevel)
			utils.LoadEnvironmentVariables(envFile, logger)
			resolveConnectionDefaults(&host, &user, &password, &database, &port)

			if !utils.ValidateConnectionParams(host, user, password, database, port, logger) {
				os.Exit(1)
			}

			db := connector.NewDatabaseConnector(host, user, password, database, port, logger)
			if err := db.Connect(); err != nil {
				logger.Errorf("Failed to connect to database: %v", err)
				os.Exit(1)
			}
			defer db.Disconnect()

			s := seeder.NewSeeder(db, records, logger)
			if err := s.CreateSchema(); err != nil {
				logger.Errorf("Failed to create demo schema: %v", err)
				os.Exit(1)
			}
			if err := s.Seed(); err != nil {
				logger.Errorf("Failed to seed demo data: %v", err)
				os.Exit(1)
			}

			if verify {
				ok, underfilled := utils.VerifySeededTables(db, seeder.Tables(), minRecords, logger)
				if !ok {
					logger.Errorf("Tables missing records: %s", strings.Join(underfilled, ", "))
					os.Exit(1)
				}
			}
		},
	}

	seedCmd.Flags().IntVarP(&records, "records", "r", 10, "Number of records to generate per table")
	seedCmd.Flags().IntVarP(&minRecords, "min-records", "n", 1, "Minimum number of records each table should have for verification")
	seedCmd.Flags().BoolVarP(&verify, "verify", "v", false, "Verify that all tables have been seeded with the expected number of records")

	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func resolveConnectionDefaults(host, user, password, database, port *string) {
	if *host == "" {
		*host = os.Getenv("MYSQL_HOST")
	}
	if *user == "" {
		*user = os.Getenv("MYSQL_USER")
	}
	if *password == "" {
		*password = os.Getenv("MYSQL_PASSWORD")
	}
	if *database == "" {
		*database = os.Getenv("MYSQL_DATABASE")
	}
	if *port == "" {
		*port = os.Getenv("MYSQL_PORT")
		if *port == "" {
			*port = "3306"
		}
	}
}

func printSchemaOverview(g *models.RelationshipGraph) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("SCHEMA RELATIONSHIP OVERVIEW")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Total tables: %d\n", len(g.TableOrder))

	for _, table := range g.TableOrder {
		desc := g.Tables[table]
		fmt.Printf("\n%s\n", table)
		for _, fk := range desc.ForeignKeys {
			fmt.Printf("  references %s via %s\n", fk.ParentTable, fk.ChildColumn)
		}
		for _, fk := range desc.ReferencedBy {
			fmt.Printf("  referenced by %s via %s\n", fk.ChildTable, fk.ChildColumn)
		}
	}

	if len(g.DanglingEdges) > 0 {
		fmt.Println("\nDangling references:")
		for _, edge := range g.DanglingEdges {
			fmt.Printf("  %s.%s -> %s.%s\n", edge.ChildTable, edge.ChildColumn, edge.ParentTable, edge.ParentColumn)
		}
	}
	if len(g.CircularChains) > 0 {
		fmt.Println("\nCircular foreign keys:")
		for _, chain := range g.CircularChains {
			fmt.Printf("  %s\n", strings.Join(chain, " <-> "))
		}
	}

	fmt.Println(strings.Repeat("=", 70))
}
