// Package integrity inspects the stored data, counting the rows of every table and the records that
// point to a clinic that no longer exists.
package integrity

import (
	"context"
	"time"

	"clinic-booking/internal/database"
	"clinic-booking/internal/scheduler"

	"github.com/rs/zerolog"
)

const (
	// JobName names the periodic integrity check.
	JobName = "integrity_check"

	jobTimeout = 2 * time.Minute
)

var tables = []string{"tb_user", "tb_clinic", "tb_user_clinic", "tb_doctor", "tb_patient", "tb_appointment"}

var orphanQueries = []struct {
	name  string
	query string
}{
	{name: "patients without clinic", query: "SELECT COUNT(*) FROM tb_patient p LEFT JOIN tb_clinic c ON p.clinic_id = c.id WHERE c.id IS NULL"},
	{name: "doctors without clinic", query: "SELECT COUNT(*) FROM tb_doctor d LEFT JOIN tb_clinic c ON d.clinic_id = c.id WHERE c.id IS NULL"},
	{name: "appointments without clinic", query: "SELECT COUNT(*) FROM tb_appointment a LEFT JOIN tb_clinic c ON a.clinic_id = c.id WHERE c.id IS NULL"},
}

// countTableQuery builds the count query of a table. Only names from tables are used.
func countTableQuery(table string) string {
	return "SELECT COUNT(*) FROM " + table
}

// Count is the result of a single check. A failed check carries its error instead of a count.
type Count struct {
	Name  string `json:"name"`
	Rows  int64  `json:"rows"`
	Error string `json:"error,omitempty"`
}

type Report struct {
	Tables    []Count   `json:"tables"`
	Orphans   []Count   `json:"orphans"`
	CheckedAt time.Time `json:"checked_at"`
}

// Healthy reports whether every check ran and no orphaned record was found.
func (r Report) Healthy() bool {
	for _, c := range r.Tables {
		if c.Error != "" {
			return false
		}
	}
	for _, c := range r.Orphans {
		if c.Error != "" || c.Rows > 0 {
			return false
		}
	}
	return true
}

// Log writes one line per check.
func (r Report) Log(logger zerolog.Logger) {
	for _, c := range r.Tables {
		if c.Error != "" {
			logger.Error().Str("table", c.Name).Str("error", c.Error).Msg("could not count table rows")
			continue
		}
		logger.Info().Str("table", c.Name).Int64("rows", c.Rows).Msg("table rows")
	}
	for _, c := range r.Orphans {
		switch {
		case c.Error != "":
			logger.Error().Str("check", c.Name).Str("error", c.Error).Msg("could not check orphaned records")
		case c.Rows > 0:
			logger.Warn().Str("check", c.Name).Int64("rows", c.Rows).Msg("orphaned records found")
		default:
			logger.Info().Str("check", c.Name).Msg("no orphaned records")
		}
	}
}

// Checker runs the integrity checks against the database.
type Checker struct {
	dbConn database.Connection
}

func NewChecker(dbConn database.Connection) *Checker {
	return &Checker{dbConn: dbConn}
}

func (c *Checker) count(ctx context.Context, name, query string) Count {
	ctx, cancel := c.dbConn.CreateContext(ctx)
	defer cancel()
	result := Count{Name: name}
	if err := c.dbConn.DB().QueryRowContext(ctx, query).Scan(&result.Rows); err != nil {
		result.Error = err.Error()
	}
	return result
}

// Run runs every check. A failing check does not stop the others.
func (c *Checker) Run(ctx context.Context) Report {
	report := Report{CheckedAt: time.Now().UTC()}
	for _, table := range tables {
		report.Tables = append(report.Tables, c.count(ctx, table, countTableQuery(table)))
	}
	for _, orphan := range orphanQueries {
		report.Orphans = append(report.Orphans, c.count(ctx, orphan.name, orphan.query))
	}
	return report
}

// Schedule registers the checker as a periodic job logging its report.
func Schedule(service *scheduler.Service, checker *Checker, cronExpr string, logger zerolog.Logger) error {
	jobLogger := logger.With().Str("component", "integrity_check_job").Logger()
	_, err := service.AddJob(JobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		report := checker.Run(ctx)
		report.Log(jobLogger)
		if !report.Healthy() {
			jobLogger.Warn().Msg("integrity check found problems")
		}
	})
	return err
}
