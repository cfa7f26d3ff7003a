package integrity

import (
	"bytes"
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"

	"clinic-booking/internal/logging"
	"clinic-booking/internal/mock"
	"clinic-booking/internal/scheduler"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCountResult(query string, rows int64) mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectQuery("^" + regexp.QuoteMeta(query) + "$").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(rows))
	}
}

func withCountError(query string) mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectQuery("^" + regexp.QuoteMeta(query) + "$").WillReturnError(sql.ErrConnDone)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name          string
		dbMockOptions []mock.DBResultOption
		wantHealthy   bool
		wantOrphans   int64
	}{
		{
			name: "should report a healthy database",
			dbMockOptions: []mock.DBResultOption{
				withCountResult(countTableQuery("tb_user"), 4),
				withCountResult(countTableQuery("tb_clinic"), 2),
				withCountResult(countTableQuery("tb_user_clinic"), 4),
				withCountResult(countTableQuery("tb_doctor"), 12),
				withCountResult(countTableQuery("tb_patient"), 45),
				withCountResult(countTableQuery("tb_appointment"), 203),
				withCountResult(orphanQueries[0].query, 0),
				withCountResult(orphanQueries[1].query, 0),
				withCountResult(orphanQueries[2].query, 0),
			},
			wantHealthy: true,
		},
		{
			name: "should report orphaned patients",
			dbMockOptions: []mock.DBResultOption{
				withCountResult(countTableQuery("tb_user"), 4),
				withCountResult(countTableQuery("tb_clinic"), 2),
				withCountResult(countTableQuery("tb_user_clinic"), 4),
				withCountResult(countTableQuery("tb_doctor"), 12),
				withCountResult(countTableQuery("tb_patient"), 45),
				withCountResult(countTableQuery("tb_appointment"), 203),
				withCountResult(orphanQueries[0].query, 3),
				withCountResult(orphanQueries[1].query, 0),
				withCountResult(orphanQueries[2].query, 0),
			},
			wantOrphans: 3,
		},
		{
			name: "should keep checking after a failed table",
			dbMockOptions: []mock.DBResultOption{
				withCountResult(countTableQuery("tb_user"), 4),
				withCountError(countTableQuery("tb_clinic")),
				withCountResult(countTableQuery("tb_user_clinic"), 4),
				withCountResult(countTableQuery("tb_doctor"), 12),
				withCountResult(countTableQuery("tb_patient"), 45),
				withCountResult(countTableQuery("tb_appointment"), 203),
				withCountResult(orphanQueries[0].query, 0),
				withCountResult(orphanQueries[1].query, 0),
				withCountResult(orphanQueries[2].query, 0),
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dbConn := mock.MustCreateConnectionMock()
			defer dbConn.Close()
			mock.MockDBResults(dbConn, tt.dbMockOptions...)

			report := NewChecker(dbConn).Run(context.Background())
			assert.Equal(t, tt.wantHealthy, report.Healthy())
			require.Len(t, report.Tables, len(tables))
			require.Len(t, report.Orphans, len(orphanQueries))
			assert.Equal(t, tt.wantOrphans, report.Orphans[0].Rows)
			assert.NoError(t, dbConn.SQLMock.ExpectationsWereMet())
		})
	}
}

func TestReportLog(t *testing.T) {
	buffer := new(bytes.Buffer)
	report := Report{
		Tables:  []Count{{Name: "tb_patient", Rows: 45}, {Name: "tb_clinic", Error: "connection refused"}},
		Orphans: []Count{{Name: "patients without clinic", Rows: 3}},
	}
	report.Log(logging.New(buffer, "info", false))

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"rows":45`)
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[2], "orphaned records found")
}

func TestSchedule(t *testing.T) {
	service, err := scheduler.New(logging.Nop())
	require.NoError(t, err)
	defer func() { _ = service.Stop() }()
	dbConn := mock.MustCreateConnectionMock()
	defer dbConn.Close()

	require.NoError(t, Schedule(service, NewChecker(dbConn), "0 3 * * *", logging.Nop()))
	require.Len(t, service.Jobs(), 1)
	assert.Equal(t, JobName, service.Jobs()[0].Name())
	assert.Error(t, Schedule(service, NewChecker(dbConn), "", logging.Nop()))
}
