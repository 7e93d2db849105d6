package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockedStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return New(gdb), mock
}

func idRow(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id.String())
}

// The ForUpdate reads must emit a FOR UPDATE clause; the expectations below
// fail the query if the generated SQL lacks it. Without the row lock two
// concurrent accepts on one job could both read the pending/open state and
// both commit.
func TestGetJobForUpdateEmitsRowLock(t *testing.T) {
	st, mock := newMockedStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM "jobs" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(idRow(id))

	job, err := st.GetJobForUpdate(st.DB, id)
	require.NoError(t, err)
	require.Equal(t, id, job.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProposalForUpdateEmitsRowLock(t *testing.T) {
	st, mock := newMockedStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM "proposals" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(idRow(id))

	proposal, err := st.GetProposalForUpdate(st.DB, id)
	require.NoError(t, err)
	require.Equal(t, id, proposal.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListJobProposalsForUpdateEmitsRowLock(t *testing.T) {
	st, mock := newMockedStore(t)
	jobID := uuid.New()

	mock.ExpectQuery(`FROM "proposals" WHERE job_id = .+ FOR UPDATE`).
		WillReturnRows(idRow(uuid.New()))

	proposals, err := st.ListJobProposalsForUpdate(st.DB, jobID)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMessageForUpdateEmitsRowLock(t *testing.T) {
	st, mock := newMockedStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM "messages" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(idRow(id))

	msg, err := st.GetMessageForUpdate(st.DB, id)
	require.NoError(t, err)
	require.Equal(t, id, msg.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
