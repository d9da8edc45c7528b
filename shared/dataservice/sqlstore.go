package dataservice

import (
	"context"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormmysql "gorm.io/driver/mysql"
	gormpg "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	gormsqlserver "gorm.io/driver/sqlserver"
)

// SQLStore implements Service over a direct database connection.
type SQLStore struct {
	db     *gorm.DB
	driver string
}

// OpenGORM opens a GORM DB for the given driver and DSN.
// Supported drivers: postgres, mysql, sqlite, sqlserver.
func OpenGORM(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch normalizeDriver(driver) {
	case "postgres":
		return gorm.Open(gormpg.Open(dsn), cfg)
	case "mysql":
		return gorm.Open(gormmysql.Open(dsn), cfg)
	case "sqlite":
		return gorm.Open(gormsqlite.Open(dsn), cfg)
	case "sqlserver":
		return gorm.Open(gormsqlserver.Open(dsn), cfg)
	default:
		return nil, errors.Errorf("unsupported SQL driver: %s", driver)
	}
}

// OpenSQL opens and pings a database and wraps it as a Service.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("dsn is required")
	}
	db, err := OpenGORM(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "db handle")
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping")
	}
	return NewSQLStore(db, driver), nil
}

// NewSQLStore wraps an already opened connection.
func NewSQLStore(db *gorm.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: normalizeDriver(driver)}
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database still answers.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// FetchAll selects every row of table, keeping the column order of the result set.
func (s *SQLStore) FetchAll(ctx context.Context, table string) ([]*ordereddict.Dict, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	rows, err := s.db.WithContext(ctx).Raw("SELECT * FROM " + quoteIdent(s.driver, table)).Rows()
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "columns")
	}

	results := []*ordereddict.Dict{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		for i := range values {
			var v interface{}
			values[i] = &v
		}
		if err := rows.Scan(values...); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}

		row := ordereddict.NewDict()
		for i, col := range cols {
			val := *(values[i].(*interface{}))
			// []byte is not useful to the UI
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row.Set(col, val)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}
	return results, nil
}

// InsertOne inserts record into table inside a transaction.
func (s *SQLStore) InsertOne(ctx context.Context, table string, record *ordereddict.Dict) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if err := checkRecord(record); err != nil {
		return err
	}

	keys := record.Keys()
	qcols := make([]string, len(keys))
	ph := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		qcols[i] = quoteIdent(s.driver, k)
		ph[i] = "?"
		args[i], _ = record.Get(k)
	}

	sqlStr := "INSERT INTO " + quoteIdent(s.driver, table) +
		" (" + strings.Join(qcols, ", ") + ") VALUES (" + strings.Join(ph, ", ") + ")"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(sqlStr, args...).Error
	})
	if err != nil {
		return &Error{Message: err.Error()}
	}
	return nil
}

// DeleteByKey removes the row whose id equals id. Deleting a missing id is
// not an error; matching more than one row is.
func (s *SQLStore) DeleteByKey(ctx context.Context, table string, id string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("id is required")
	}

	qtable := quoteIdent(s.driver, table)
	qcol := quoteIdent(s.driver, KeyColumn)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Raw("SELECT COUNT(*) FROM "+qtable+" WHERE "+qcol+" = ?", id).Scan(&cnt).Error; err != nil {
			return err
		}
		if cnt > 1 {
			return errors.Errorf("refusing to delete: key matches %d rows", cnt)
		}
		return tx.Exec("DELETE FROM "+qtable+" WHERE "+qcol+" = ?", id).Error
	})
	if err != nil {
		return &Error{Message: err.Error()}
	}
	return nil
}

// normalizeDriver normalizes common driver aliases to canonical names.
func normalizeDriver(d string) string {
	switch strings.ToLower(d) {
	case "pg", "postgresql", "pgx":
		return "postgres"
	case "mariadb":
		return "mysql"
	case "sqlite3":
		return "sqlite"
	case "mssql":
		return "sqlserver"
	default:
		return strings.ToLower(d)
	}
}

// quoteIdent quotes an identifier for the given SQL dialect. It assumes the
// identifier already passed ValidIdent.
func quoteIdent(driver, ident string) string {
	switch normalizeDriver(driver) {
	case "mysql":
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	case "postgres", "sqlite":
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	case "sqlserver":
		return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
	default:
		return ident
	}
}
