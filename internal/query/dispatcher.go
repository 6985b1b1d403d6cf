package query

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"cryptodb-gateway/internal/db"
	"cryptodb-gateway/internal/logger"
	"cryptodb-gateway/internal/storage"

	"go.uber.org/zap"
)

type Options struct {
	StorageDir string
	// Timeout bounds a single statement; zero leaves it to the caller's context.
	Timeout time.Duration
	DB      db.Options
	Logger  logger.LoggerService
	Metrics *Metrics
}

type Dispatcher struct {
	storageDir string
	timeout    time.Duration
	dbOpts     db.Options
	log        logger.LoggerService
	metrics    *Metrics
}

func NewDispatcher(opt Options) *Dispatcher {
	log := opt.Logger
	if log == nil {
		log = logger.NewZap(nil)
	}
	dbOpts := opt.DB
	if dbOpts == (db.Options{}) {
		dbOpts = db.DefaultOptions()
	}
	return &Dispatcher{
		storageDir: opt.StorageDir,
		timeout:    opt.Timeout,
		dbOpts:     dbOpts,
		log:        log,
		metrics:    opt.Metrics,
	}
}

// Execute runs one statement against database, a file name under the
// storage directory, on a connection opened for this call only.
func (d *Dispatcher) Execute(ctx context.Context, database, q string) Result {
	if err := CheckQuery(q); err != nil {
		d.log.Warn("query rejected", zap.String("database", database), zap.Error(err))
		d.metrics.observe(outcomeRejected)
		return ErrorResult(http.StatusForbidden, MsgUnsafeQuery)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := d.execute(ctx, database, q)
	if err != nil {
		d.log.Error("query failed", err, zap.String("database", database))
		d.metrics.observe(outcomeFailed)
		return ErrorResult(http.StatusInternalServerError, err.Error())
	}

	fields := []zap.Field{
		zap.String("database", database),
		zap.Stringer("kind", res.Kind),
		zap.Duration("duration", time.Since(start)),
	}
	if res.Kind == KindRows {
		fields = append(fields, zap.Int("rows", len(res.Rows)))
		d.metrics.observe(outcomeRows)
	} else {
		d.metrics.observe(outcomeStatus)
	}
	d.log.Debug("query executed", fields...)

	return res
}

func (d *Dispatcher) execute(ctx context.Context, database, q string) (Result, error) {
	if err := CheckSingleStatement(q); err != nil {
		return Result{}, err
	}

	path, err := storage.ResolveDatabasePath(d.storageDir, database)
	if err != nil {
		return Result{}, err
	}

	conn, err := db.Open(ctx, path, d.dbOpts)
	if err != nil {
		return Result{}, err
	}
	defer conn.Close()

	if IsReadStatement(q) {
		rows, err := conn.QueryContext(ctx, q)
		if err != nil {
			return Result{}, err
		}
		defer rows.Close()

		out, err := collectRows(rows)
		if err != nil {
			return Result{}, err
		}
		return RowsResult(out), nil
	}

	if _, err := conn.ExecContext(ctx, q); err != nil {
		return Result{}, err
	}
	return StatusResult(), nil
}

func collectRows(rows *sql.Rows) ([][]any, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	out := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		scanArgs := make([]any, len(cols))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}

		for i, v := range values {
			switch v := v.(type) {
			case []byte:
				values[i] = string(v)
			case time.Time:
				values[i] = storedTimeText(v, cols[i].DatabaseTypeName())
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

const (
	sqliteDateLayout     = "2006-01-02"
	sqliteDateTimeLayout = "2006-01-02 15:04:05.999999999"
)

// storedTimeText undoes the driver's parsing of text held in DATE, DATETIME
// and TIMESTAMP columns, giving back SQLite's own text form. Fractional
// seconds appear only when set, and a zone only when it is not UTC.
func storedTimeText(t time.Time, declType string) string {
	layout := sqliteDateTimeLayout
	if strings.EqualFold(declType, "DATE") && isMidnight(t) {
		layout = sqliteDateLayout
	}
	if t.Location() != time.UTC {
		layout += "Z07:00"
	}
	return t.Format(layout)
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
