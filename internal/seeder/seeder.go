package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/sirupsen/logrus"

	"github.com/dheerajks/mysql-retention-planner/internal/connector"
)

// Seeder creates and fills a demo archival schema so the analyzer has
// something realistic to run against
type Seeder struct {
	DB      *connector.DatabaseConnector
	Faker   faker.Faker
	Logger  *logrus.Logger
	Records int
}

// NewSeeder creates a seeder inserting records rows per table
func NewSeeder(db *connector.DatabaseConnector, records int, logger *logrus.Logger) *Seeder {
	return &Seeder{
		DB:      db,
		Faker:   faker.New(),
		Logger:  logger,
		Records: records,
	}
}

type tableSeed struct {
	name   string
	ddl    string
	insert string
	rows   func(s *Seeder) [][]interface{}
}

// demoTables is ordered parents before children so foreign keys resolve
// at insert time
var demoTables = []tableSeed{
	{
		name: "regions",
		ddl: `CREATE TABLE IF NOT EXISTS regions (
			id INT PRIMARY KEY,
			name VARCHAR(100) NOT NULL
		)`,
		insert: "INSERT INTO regions (id, name) VALUES (?, ?)",
		rows: func(s *Seeder) [][]interface{} {
			rows := make([][]interface{}, 0, s.Records)
			for i := 1; i <= s.Records; i++ {
				rows = append(rows, []interface{}{i, s.Faker.Address().State()})
			}
			return rows
		},
	},
	{
		name: "customers",
		ddl: `CREATE TABLE IF NOT EXISTS customers (
			id INT PRIMARY KEY,
			region_id INT NOT NULL,
			full_name VARCHAR(200) NOT NULL,
			email VARCHAR(200) NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (region_id) REFERENCES regions(id)
		)`,
		insert: "INSERT INTO customers (id, region_id, full_name, email, created_at) VALUES (?, ?, ?, ?, ?)",
		rows: func(s *Seeder) [][]interface{} {
			rows := make([][]interface{}, 0, s.Records)
			for i := 1; i <= s.Records; i++ {
				rows = append(rows, []interface{}{
					i,
					s.parentID(),
					s.Faker.Person().Name(),
					s.Faker.Internet().Email(),
					s.pastTimestamp(),
				})
			}
			return rows
		},
	},
	{
		name: "employees",
		ddl: `CREATE TABLE IF NOT EXISTS employees (
			id INT PRIMARY KEY,
			full_name VARCHAR(200) NOT NULL,
			email VARCHAR(200) NOT NULL,
			hired_date DATE NOT NULL,
			termination_date DATE NULL,
			created_at DATETIME NOT NULL
		)`,
		insert: "INSERT INTO employees (id, full_name, email, hired_date, termination_date, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		rows: func(s *Seeder) [][]interface{} {
			rows := make([][]interface{}, 0, s.Records)
			for i := 1; i <= s.Records; i++ {
				var terminated interface{}
				if rand.Float32() < 0.3 {
					terminated = s.pastTimestamp()
				}
				rows = append(rows, []interface{}{
					i,
					s.Faker.Person().Name(),
					s.Faker.Internet().Email(),
					s.pastTimestamp(),
					terminated,
					s.pastTimestamp(),
				})
			}
			return rows
		},
	},
	{
		name: "contracts",
		ddl: `CREATE TABLE IF NOT EXISTS contracts (
			id INT PRIMARY KEY,
			customer_id INT NOT NULL,
			title VARCHAR(200) NOT NULL,
			is_active TINYINT(1) NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		)`,
		insert: "INSERT INTO contracts (id, customer_id, title, is_active, created_at) VALUES (?, ?, ?, ?, ?)",
		rows: func(s *Seeder) [][]interface{} {
			rows := make([][]interface{}, 0, s.Records)
			for i := 1; i <= s.Records; i++ {
				rows = append(rows, []interface{}{
					i,
					s.parentID(),
					s.Faker.Lorem().Sentence(4),
					rand.Intn(2),
					s.pastTimestamp(),
				})
			}
			return rows
		},
	},
	{
		name: "orders",
		ddl: `CREATE TABLE IF NOT EXISTS orders (
			id INT PRIMARY KEY,
			customer_id INT NOT NULL,
			employee_id INT NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customers(id),
			FOREIGN KEY (employee_id) REFERENCES employees(id)
		)`,
		insert: "INSERT INTO orders (id, customer_id, employee_id, status, created_at) VALUES (?, ?, ?, ?, ?)",
		rows: func(s *Seeder) [][]interface{} {
			statuses := []string{"pending", "shipped", "delivered", "cancelled"}
			rows := make([][]interface{}, 0, s.Records)
			for i := 1; i <= s.Records; i++ {
				rows = append(rows, []interface{}{
					i,
					s.parentID(),
					s.parentID(),
					statuses[rand.Intn(len(statuses))],
					s.pastTimestamp(),
				})
			}
			return rows
		},
	},
	{
		name: "order_items",
		ddl: `CREATE TABLE IF NOT EXISTS order_items (
			id INT PRIMARY KEY,
			order_id INT NOT NULL,
			product_name VARCHAR(200) NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id)
		)`,
		insert: "INSERT INTO order_items (id, order_id, product_name, quantity, unit_price) VALUES (?, ?, ?, ?, ?)",
		rows: func(s *Seeder) [][]interface{} {
			rows := make([][]interface{}, 0, s.Records)
			for i := 1; i <= s.Records; i++ {
				rows = append(rows, []interface{}{
					i,
					s.parentID(),
					s.Faker.Lorem().Word(),
					rand.Intn(10) + 1,
					rand.Float64() * 500,
				})
			}
			return rows
		},
	},
	{
		name: "payments",
		ddl: `CREATE TABLE IF NOT EXISTS payments (
			id INT PRIMARY KEY,
			order_id INT NOT NULL,
			amount DECIMAL(10,2) NOT NULL,
			settlement_date DATE NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id)
		)`,
		insert: "INSERT INTO payments (id, order_id, amount, settlement_date, created_at) VALUES (?, ?, ?, ?, ?)",
		rows: func(s *Seeder) [][]interface{} {
			rows := make([][]interface{}, 0, s.Records)
			for i := 1; i <= s.Records; i++ {
				var settled interface{}
				if rand.Float32() < 0.8 {
					settled = s.pastTimestamp()
				}
				rows = append(rows, []interface{}{
					i,
					s.parentID(),
					rand.Float64() * 1000,
					settled,
					s.pastTimestamp(),
				})
			}
			return rows
		},
	},
	{
		name: "audit_logs",
		ddl: `CREATE TABLE IF NOT EXISTS audit_logs (
			id INT PRIMARY KEY,
			actor VARCHAR(200) NOT NULL,
			action VARCHAR(100) NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		insert: "INSERT INTO audit_logs (id, actor, action, created_at) VALUES (?, ?, ?, ?)",
		rows: func(s *Seeder) [][]interface{} {
			actions := []string{"login", "update", "delete", "export"}
			rows := make([][]interface{}, 0, s.Records)
			for i := 1; i <= s.Records; i++ {
				rows = append(rows, []interface{}{
					i,
					s.Faker.Internet().User(),
					actions[rand.Intn(len(actions))],
					s.pastTimestamp(),
				})
			}
			return rows
		},
	},
}

// Tables lists the demo tables in insertion order
func Tables() []string {
	names := make([]string, 0, len(demoTables))
	for _, table := range demoTables {
		names = append(names, table.name)
	}
	return names
}

// CreateSchema creates the demo tables if they do not exist
func (s *Seeder) CreateSchema() error {
	for _, table := range demoTables {
		s.Logger.Debugf("Creating table %s", table.name)
		if _, err := s.DB.ExecuteStatement(table.ddl); err != nil {
			return fmt.Errorf("creating table %s: %w", table.name, err)
		}
	}
	s.Logger.Infof("Created %d demo tables", len(demoTables))
	return nil
}

// Seed inserts generated rows into every demo table, parents first
func (s *Seeder) Seed() error {
	for _, table := range demoTables {
		rows := table.rows(s)
		inserted, err := s.DB.ExecuteMany(table.insert, rows)
		if err != nil {
			return fmt.Errorf("seeding table %s: %w", table.name, err)
		}
		s.Logger.Infof("Seeded table %s with %d records", table.name, inserted)
	}
	return nil
}

// parentID picks a foreign key value within the seeded id range
func (s *Seeder) parentID() int {
	return rand.Intn(s.Records) + 1
}

// pastTimestamp returns a datetime within the last five years
func (s *Seeder) pastTimestamp() time.Time {
	days := rand.Intn(365 * 5)
	return time.Now().AddDate(0, 0, -days)
}
