package driver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/zoobzio/predql"
	"github.com/zoobzio/predql/mariadb"
	"github.com/zoobzio/predql/mssql"
	"github.com/zoobzio/predql/postgres"
	"github.com/zoobzio/predql/sqlite"
)

// Backend pairs a database/sql driver with the dialect that renders for it.
type Backend struct {
	Dialect predql.Dialect
	// validate checks a DSN before it is handed to sql.Open.
	validate func(dsn string) error
	// Name is the backend name accepted by Lookup.
	Name string
	// Driver is the database/sql driver name.
	Driver string
}

var backends = map[string]Backend{
	"postgres": {Name: "postgres", Driver: "pgx", Dialect: postgres.New()},
	"pq":       {Name: "pq", Driver: "postgres", Dialect: postgres.New()},
	"mariadb":  {Name: "mariadb", Driver: "mysql", Dialect: mariadb.New(), validate: validateMySQL},
	"mysql":    {Name: "mysql", Driver: "mysql", Dialect: mariadb.New(), validate: validateMySQL},
	"mssql":    {Name: "mssql", Driver: "sqlserver", Dialect: mssql.New()},
	"sqlite":   {Name: "sqlite", Driver: "sqlite", Dialect: sqlite.New()},
}

// aliases maps alternate spellings onto backend names.
var aliases = map[string]string{
	"postgresql": "postgres",
	"pgx":        "postgres",
	"sqlserver":  "mssql",
	"sqlite3":    "sqlite",
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	b, ok := backends[key]
	if !ok {
		return Backend{}, fmt.Errorf("driver: unknown backend %q (known: %s)", name, strings.Join(Backends(), ", "))
	}
	return b, nil
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateMySQL(dsn string) error {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return err
	}
	if cfg.DBName == "" {
		return fmt.Errorf("no database name in DSN")
	}
	return nil
}
