package updateapplicationstatus

import (
	"context"
	"testing"
	"time"

	"careerguide-workers/internal/common/aws"
	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"
	"careerguide-workers/internal/directory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, eventType, subject string, data interface{}) (string, error) {
	args := m.Called(ctx, eventType, subject, data)
	return args.String(0), args.Error(1)
}

var applicationCols = []string{"id", "student_id", "institution_id", "course_id", "status", "created_at", "updated_at"}

func newSQLHandler(t *testing.T, events EventPublisher) (*Handler, sqlmock.Sqlmock) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := &testLogger{t: t}
	cfg := &Config{Timeout: 5 * time.Second, PublishEvents: true}
	return NewHandler(cfg, directory.NewStore(db, nil, 0, log), events, log), dbMock
}

func expectApplication(dbMock sqlmock.Sqlmock, status string) {
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`FROM applications WHERE id = \$1 FOR UPDATE`).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(applicationCols).
			AddRow("app-1", "student-001", "nul", "course-bsc-cs", status, created, created))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InstitutionApproves(t *testing.T) {
	events := new(MockPublisher)
	events.On("PublishEvent", mock.Anything, aws.EventApplicationStatusChanged, "app-1", mock.Anything).
		Return("msg-1", nil)
	handler, dbMock := newSQLHandler(t, events)

	expectApplication(dbMock, "pending")
	dbMock.ExpectExec(`UPDATE applications SET status = \$1`).
		WithArgs("approved", sqlmock.AnyArg(), "app-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("application_status_changed", "app-1", "nul", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectCommit()

	before := testutil.ToFloat64(metrics.StatusTransitions.WithLabelValues("pending", "approved"))

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ActorID:       "nul",
		ActorRole:     "Institution",
		Status:        "approved",
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", output.PreviousStatus)
	assert.Equal(t, "approved", output.Status)
	assert.Equal(t, "student-001", output.StudentID)
	assert.NotEmpty(t, output.UpdatedAt)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StatusTransitions.WithLabelValues("pending", "approved")))
	assert.NoError(t, dbMock.ExpectationsWereMet())
	events.AssertExpectations(t)
}

func TestHandler_Execute_StudentWithdrawsOwnApplication(t *testing.T) {
	handler, dbMock := newSQLHandler(t, nil)

	expectApplication(dbMock, "approved")
	dbMock.ExpectExec(`UPDATE applications`).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectCommit()

	output, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		ActorID:       "student-001",
		ActorRole:     "student",
		Status:        "withdrawn",
	})

	require.NoError(t, err)
	assert.Equal(t, "withdrawn", output.Status)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// ==========================
// Refusal Tests
// ==========================

func TestHandler_Execute_Refusals(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		actorID  string
		role     string
		target   string
		wantCode errors.ErrorCode
	}{
		{"student cannot approve", "pending", "student-001", "student", "approved", errors.ErrCodeRoleNotAllowed},
		{"student cannot withdraw others", "pending", "student-999", "student", "withdrawn", errors.ErrCodeRoleNotAllowed},
		{"reviewer cannot withdraw", "pending", "nul", "institution", "withdrawn", errors.ErrCodeRoleNotAllowed},
		{"other institution cannot decide", "pending", "limkokwing", "institution", "approved", errors.ErrCodeRoleNotAllowed},
		{"company cannot decide course applications", "pending", "company-1", "company", "approved", errors.ErrCodeRoleNotAllowed},
		{"admitted is terminal", "admitted", "admin-1", "admin", "rejected", errors.ErrCodeTransitionNotAllowed},
		{"pending cannot skip to admitted", "pending", "nul", "institution", "admitted", errors.ErrCodeTransitionNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, dbMock := newSQLHandler(t, nil)
			expectApplication(dbMock, tt.current)
			dbMock.ExpectRollback()

			_, err := handler.Execute(context.Background(), &Input{
				ApplicationID: "app-1",
				ActorID:       tt.actorID,
				ActorRole:     tt.role,
				Status:        tt.target,
			})

			se, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.False(t, se.Retryable)
			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_ApplicationNotFound(t *testing.T) {
	handler, dbMock := newSQLHandler(t, nil)
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`FROM applications WHERE id = \$1`).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(applicationCols))
	dbMock.ExpectRollback()

	_, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-1", ActorID: "inst-admin", ActorRole: "admin", Status: "approved",
	})

	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeApplicationNotFound, se.Code)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{"unknown role", Input{ApplicationID: "app-1", ActorID: "x", ActorRole: "recruiter", Status: "approved"}},
		{"unknown status", Input{ApplicationID: "app-1", ActorID: "x", ActorRole: "admin", Status: "archived"}},
		{"missing application", Input{ActorID: "x", ActorRole: "admin", Status: "approved"}},
		{"missing actor", Input{ApplicationID: "app-1", ActorRole: "admin", Status: "approved"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, dbMock := newSQLHandler(t, nil)

			_, err := handler.Execute(context.Background(), &tt.input)

			se, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeInvalidInput, se.Code)
			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Events.Enabled = true

	c := LoadConfig(cfg)
	assert.True(t, c.PublishEvents)
	assert.Equal(t, 30*time.Second, c.Timeout)
}
