package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/matzehuels/violin/pkg/cache"
	"github.com/matzehuels/violin/pkg/dataset"
	"github.com/matzehuels/violin/pkg/errors"
)

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// OpenSQL connects to a database and verifies the connection.
func OpenSQL(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if err := errors.ValidateDriver(driver); err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dsn cannot be empty")
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", driver)
	}
	return db, nil
}

// SQL reads datasets from query results.
type SQL struct {
	DB *sqlx.DB
	// Database identifies the database in cache keys, so equal queries
	// against different databases never share an entry.
	Database string
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	// Refresh skips cached results.
	Refresh bool
}

// NewSQL returns a reader over db, which was opened with dsn. A nil cache
// disables caching.
func NewSQL(db *sqlx.DB, dsn string, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *SQL {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SQL{DB: db, Database: cache.Hash([]byte(dsn)), Cache: c, Keyer: keyer, Logger: logger}
}

// key names the cached result of query. The DSN hash comes first so no
// query text can forge another database's key.
func (s *SQL) key(query string, opts Options) (string, error) {
	location := strings.Join([]string{s.Database, query, opts.ValueColumn, opts.CategoryColumn}, "\x00")
	return s.Keyer.SourceKey("sql:"+s.DB.DriverName(), location)
}

// Query runs a read-only query and maps its columns onto a dataset.
func (s *SQL) Query(ctx context.Context, query string, opts Options) (dataset.Dataset, error) {
	if err := errors.ValidateQuery(query); err != nil {
		return dataset.Dataset{}, err
	}

	key, err := s.key(query, opts)
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInternal, err, "cache key")
	}
	if !s.Refresh {
		if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
			var ds dataset.Dataset
			if err := json.Unmarshal(data, &ds); err == nil {
				s.Logger.Debug("query result from cache", "key", key)
				return ds, nil
			}
		} else if err != nil {
			s.Logger.Warn("cache read failed", "err", err)
		}
	}

	start := time.Now()
	rows, err := s.DB.QueryxContext(ctx, query)
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "run query")
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInternal, err, "read columns")
	}
	var table [][]string
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return dataset.Dataset{}, errors.Wrap(errors.ErrCodeInternal, err, "scan row %d", len(table))
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = sqlCell(v)
		}
		table = append(table, row)
	}
	if err := rows.Err(); err != nil {
		return dataset.Dataset{}, errors.Wrap(errors.ErrCodeNetwork, err, "read rows")
	}
	s.Logger.Info("query complete", "rows", len(table), "duration", time.Since(start))

	ds, err := FromTable(header, table, opts)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if data, err := json.Marshal(ds.Canonical()); err == nil {
		if err := s.Cache.Set(ctx, key, data, cache.TTLSource); err != nil {
			s.Logger.Warn("cache write failed", "err", err)
		}
	}
	return ds, nil
}

// Close closes the database.
func (s *SQL) Close() error {
	return s.DB.Close()
}

// sqlCell renders a scanned column value as a table cell.
func sqlCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
