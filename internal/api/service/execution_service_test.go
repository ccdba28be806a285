package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolwatch/internal/api/dto"
	"toolwatch/internal/api/repository"
	"toolwatch/internal/entity"
	"toolwatch/pkg/logger"
	"toolwatch/pkg/utils"
)

type fakeRecordRepo struct {
	records        []entity.ExecutionRecord
	created        []*entity.ExecutionRecord
	aggregate      repository.RecordAggregate
	aggregateCalls int
	lastLimit      int
	deleted        int64
	deleteErr      error
	deleteCutoff   time.Time
}

func (f *fakeRecordRepo) Create(ctx context.Context, record *entity.ExecutionRecord) error {
	f.created = append(f.created, record)
	return nil
}

func (f *fakeRecordRepo) FindRecent(ctx context.Context, limit int) ([]entity.ExecutionRecord, error) {
	f.lastLimit = limit
	if limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeRecordRepo) Aggregate(ctx context.Context) (*repository.RecordAggregate, error) {
	f.aggregateCalls++
	agg := f.aggregate
	return &agg, nil
}

func (f *fakeRecordRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.deleteCutoff = cutoff
	return f.deleted, f.deleteErr
}

func newExecutionServiceForTest(t *testing.T, repo *fakeRecordRepo, opts ExecutionServiceOptions) ExecutionService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return NewExecutionService(repo, log, opts)
}

func TestGetRecentExecutionsLimitDefaultsAndClamps(t *testing.T) {
	repo := &fakeRecordRepo{}
	svc := newExecutionServiceForTest(t, repo, ExecutionServiceOptions{DefaultPageSize: 25, MaxPageSize: 200})

	_, err := svc.GetRecentExecutions(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 25, repo.lastLimit)

	_, err = svc.GetRecentExecutions(context.Background(), 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, repo.lastLimit)

	_, err = svc.GetRecentExecutions(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, repo.lastLimit)
}

func TestGetRecentExecutionsEnvelopeNeverNil(t *testing.T) {
	svc := newExecutionServiceForTest(t, &fakeRecordRepo{}, ExecutionServiceOptions{})

	resp, err := svc.GetRecentExecutions(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, resp.Executions)
	assert.Empty(t, resp.Executions)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"executions":[]}`, string(raw))
}

func TestGetRecentExecutionsMapsOptionalFields(t *testing.T) {
	executedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeRecordRepo{records: []entity.ExecutionRecord{
		{
			ID:            1,
			ToolName:      "lint",
			Command:       "golangci-lint run",
			Success:       true,
			ReturnCode:    utils.ToPointer(0),
			ExecutionTime: utils.ToPointer(1.2),
			ExecutedAt:    &executedAt,
			Stdout:        utils.ToPointer("0 issues"),
		},
		{ID: 2, ToolName: "deploy", Command: "kubectl apply", Success: false},
	}}
	svc := newExecutionServiceForTest(t, repo, ExecutionServiceOptions{})

	resp, err := svc.GetRecentExecutions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, resp.Executions, 2)

	first := resp.Executions[0]
	assert.Equal(t, "lint", first.ToolName)
	require.NotNil(t, first.Timestamp)
	assert.True(t, executedAt.Equal(*first.Timestamp))
	require.NotNil(t, first.Stdout)
	assert.Equal(t, "0 issues", *first.Stdout)

	second := resp.Executions[1]
	assert.Nil(t, second.ReturnCode)
	assert.Nil(t, second.ExecutionTime)
	assert.Nil(t, second.Timestamp)
	assert.Nil(t, second.Stdout)
	assert.Nil(t, second.Stderr)
}

func TestIngestExecutionMapsRequest(t *testing.T) {
	repo := &fakeRecordRepo{}
	svc := newExecutionServiceForTest(t, repo, ExecutionServiceOptions{})

	timestamp := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	req := &dto.IngestExecutionRequest{
		ToolName:      "ci-build",
		Command:       "make build",
		Arguments:     json.RawMessage(`["-j","4"]`),
		Success:       false,
		ReturnCode:    utils.ToPointer(2),
		ExecutionTime: utils.ToPointer(14.5),
		Timestamp:     &timestamp,
		Stderr:        utils.ToPointer("link error"),
	}

	resp, err := svc.IngestExecution(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.Equal(t, "ci-build", stored.ToolName)
	assert.Equal(t, "make build", stored.Command)
	assert.JSONEq(t, `["-j","4"]`, string(stored.Arguments))
	require.NotNil(t, stored.ReturnCode)
	assert.Equal(t, 2, *stored.ReturnCode)
	require.NotNil(t, stored.ExecutedAt)
	assert.True(t, timestamp.Equal(*stored.ExecutedAt))

	assert.Equal(t, "ci-build", resp.ToolName)
	require.NotNil(t, resp.Stderr)
	assert.Equal(t, "link error", *resp.Stderr)
}

func TestGetStatisticsRounding(t *testing.T) {
	repo := &fakeRecordRepo{aggregate: repository.RecordAggregate{
		Total:        3,
		SuccessCount: 2,
		TimedCount:   2,
		TotalTime:    4.6,
	}}
	svc := newExecutionServiceForTest(t, repo, ExecutionServiceOptions{})

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.SuccessCount)
	assert.Equal(t, int64(1), stats.FailureCount)
	assert.Equal(t, 67, stats.SuccessRatePercent)
	assert.Equal(t, 33, stats.FailureRatePercent)
	assert.InDelta(t, 2.30, stats.AvgExecutionTime, 1e-9)
}

func TestGetStatisticsEmptyLog(t *testing.T) {
	svc := newExecutionServiceForTest(t, &fakeRecordRepo{}, ExecutionServiceOptions{})

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, 0, stats.SuccessRatePercent)
	assert.Equal(t, 0, stats.FailureRatePercent)
	assert.Zero(t, stats.AvgExecutionTime)
}

func TestGetStatisticsCachesUntilIngest(t *testing.T) {
	repo := &fakeRecordRepo{aggregate: repository.RecordAggregate{Total: 1, SuccessCount: 1}}
	svc := newExecutionServiceForTest(t, repo, ExecutionServiceOptions{StatsCacheTTL: time.Minute})

	_, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	_, err = svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.aggregateCalls)

	_, err = svc.IngestExecution(context.Background(), &dto.IngestExecutionRequest{ToolName: "t", Command: "c"})
	require.NoError(t, err)

	_, err = svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.aggregateCalls)
}
