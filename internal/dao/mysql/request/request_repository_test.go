package request_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"carematch_server/internal/dao/mysql/mysqltest"
	"carematch_server/internal/dao/mysql/request"
	"carematch_server/internal/model"
	"carematch_server/pkg/enum/request_enum"
	"carematch_server/pkg/errorx"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(owner uint, region, status string) *model.HelpRequest {
	return &model.HelpRequest{
		UserID:          owner,
		HelpType:        request_enum.HelpTypeVolunteer,
		Category:        "ngo",
		TargetGroup:     "elderly",
		Topic:           "social",
		Region:          region,
		Title:           "Weekly visits",
		FullDescription: "Looking for volunteers to visit residents.",
		Status:          status,
	}
}

func TestConditionalUpdateSQL(t *testing.T) {
	db, mock := mysqltest.NewMock(t)
	repo := request.NewRequestRepository(db)

	mock.ExpectExec("UPDATE `requests` SET .+ WHERE .*id = \\? AND status = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	n, err := repo.ConditionalUpdate(7, request_enum.StatusOpen, model.PendingFields(model.PendingContact{
		Name: "Dana", Email: "dana@example.com", Message: "happy to help", ClaimedAt: time.Now(),
	}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	mock.ExpectExec("UPDATE `requests` SET .+ WHERE .*id = \\? AND status = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	n, err = repo.ConditionalUpdate(7, request_enum.StatusOpen, model.ClearPendingFields(request_enum.StatusOpen))
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdateWrapsDBError(t *testing.T) {
	db, mock := mysqltest.NewMock(t)
	repo := request.NewRequestRepository(db)

	mock.ExpectExec("UPDATE `requests`").WillReturnError(errors.New("deadlock found"))
	_, err := repo.ConditionalUpdate(1, request_enum.StatusInProgress, map[string]any{"status": request_enum.StatusClosed})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeDBError, errorx.GetCode(err))
}

func TestFindByIDNotFound(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := request.NewRequestRepository(db)

	_, err := repo.FindByID(404)
	assert.True(t, errorx.IsNotFound(err))
}

func TestConditionalUpdateOnlyMatchesExpectedStatus(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := request.NewRequestRepository(db)

	req := newRequest(1, "north", request_enum.StatusOpen)
	require.NoError(t, repo.Create(req))

	n, err := repo.ConditionalUpdate(req.ID, request_enum.StatusInProgress, map[string]any{"status": request_enum.StatusClosed})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	claimedAt := time.Now().UTC().Truncate(time.Second)
	n, err = repo.ConditionalUpdate(req.ID, request_enum.StatusOpen, model.PendingFields(model.PendingContact{
		Name: "Dana", Email: "dana@example.com", Message: "happy to help", ClaimedAt: claimedAt,
	}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.FindByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, request_enum.StatusInProgress, got.Status)
	require.NotNil(t, got.Pending())
	assert.Equal(t, "dana@example.com", got.Pending().Email)

	n, err = repo.ConditionalUpdate(req.ID, request_enum.StatusInProgress, model.ClearPendingFields(request_enum.StatusOpen))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = repo.FindByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, request_enum.StatusOpen, got.Status)
	assert.Nil(t, got.Pending())
}

func TestConcurrentConditionalUpdateHasOneWinner(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := request.NewRequestRepository(db)

	req := newRequest(1, "south", request_enum.StatusOpen)
	require.NoError(t, repo.Create(req))

	const workers = 12
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.ConditionalUpdate(req.ID, request_enum.StatusOpen, map[string]any{"status": request_enum.StatusInProgress})
			assert.NoError(t, err)
			mu.Lock()
			wins += n
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins)
}

func TestListFilters(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := request.NewRequestRepository(db)

	require.NoError(t, repo.Create(newRequest(1, "north", request_enum.StatusOpen)))
	require.NoError(t, repo.Create(newRequest(1, "south", request_enum.StatusClosed)))
	require.NoError(t, repo.Create(newRequest(2, "north", request_enum.StatusOpen)))

	open, err := repo.List(model.RequestFilter{Status: request_enum.StatusOpen})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	mine, err := repo.List(model.RequestFilter{OwnerID: 1})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	north, err := repo.List(model.RequestFilter{Region: "north", Limit: 1})
	require.NoError(t, err)
	require.Len(t, north, 1)
	assert.EqualValues(t, 2, north[0].UserID)

	byRegion, err := repo.CountByRegion()
	require.NoError(t, err)
	require.Len(t, byRegion, 2)
	assert.Equal(t, "north", byRegion[0].Region)
	assert.EqualValues(t, 2, byRegion[0].Count)

	total, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	require.NoError(t, repo.DeleteByUser(1))
	total, err = repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
