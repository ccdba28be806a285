package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/datatypes"

	"toolwatch/internal/api/dto"
	"toolwatch/internal/api/repository"
	"toolwatch/internal/entity"
	"toolwatch/pkg/logger"
)

const statsCacheKey = "executions:stats"

// ExecutionService defines the interface for serving and ingesting
// execution records.
type ExecutionService interface {
	GetRecentExecutions(ctx context.Context, limit int) (*dto.ExecutionsResponse, error)
	IngestExecution(ctx context.Context, req *dto.IngestExecutionRequest) (*dto.ExecutionRecordResponse, error)
	GetStatistics(ctx context.Context) (*dto.StatsResponse, error)
}

// ExecutionServiceOptions bounds page sizes and stats caching.
type ExecutionServiceOptions struct {
	DefaultPageSize int
	MaxPageSize     int
	StatsCacheTTL   time.Duration
}

// NewExecutionService creates a new execution service.
func NewExecutionService(recordRepo repository.ExecutionRecordRepository, logger *logger.Logger, opts ExecutionServiceOptions) ExecutionService {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 100
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 1000
	}
	if opts.StatsCacheTTL <= 0 {
		opts.StatsCacheTTL = 30 * time.Second
	}

	return &executionService{
		recordRepo: recordRepo,
		logger:     logger,
		opts:       opts,
		statsCache: cache.New(opts.StatsCacheTTL, 2*opts.StatsCacheTTL),
	}
}

type executionService struct {
	recordRepo repository.ExecutionRecordRepository
	logger     *logger.Logger
	opts       ExecutionServiceOptions
	statsCache *cache.Cache
}

// GetRecentExecutions returns the newest records wrapped in the list
// envelope. A non-positive limit falls back to the default page size and
// oversized limits are clamped.
func (s *executionService) GetRecentExecutions(ctx context.Context, limit int) (*dto.ExecutionsResponse, error) {
	if limit <= 0 {
		limit = s.opts.DefaultPageSize
	}
	if limit > s.opts.MaxPageSize {
		limit = s.opts.MaxPageSize
	}

	records, err := s.recordRepo.FindRecent(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to find recent executions", logger.ErrorField(err))
		return nil, err
	}

	resp := &dto.ExecutionsResponse{
		Executions: make([]dto.ExecutionRecordResponse, 0, len(records)),
	}
	for i := range records {
		resp.Executions = append(resp.Executions, *mapToExecutionRecordResponse(&records[i]))
	}
	return resp, nil
}

// IngestExecution stores an externally reported execution record.
func (s *executionService) IngestExecution(ctx context.Context, req *dto.IngestExecutionRequest) (*dto.ExecutionRecordResponse, error) {
	record := &entity.ExecutionRecord{
		ToolName:            req.ToolName,
		Command:             req.Command,
		Success:             req.Success,
		ReturnCode:          req.ReturnCode,
		ExecutionTime:       req.ExecutionTime,
		ExecutedAt:          req.Timestamp,
		Stdout:              req.Stdout,
		Stderr:              req.Stderr,
		SecurityCheckPassed: req.SecurityCheckPassed,
	}
	if len(req.Arguments) > 0 {
		record.Arguments = datatypes.JSON(req.Arguments)
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to store ingested execution", logger.ErrorField(err), logger.StringField("tool_name", req.ToolName))
		return nil, err
	}

	s.statsCache.Delete(statsCacheKey)

	return mapToExecutionRecordResponse(record), nil
}

// GetStatistics derives the aggregate view over the full log. Results are
// cached briefly so dashboard polling does not hammer the table.
func (s *executionService) GetStatistics(ctx context.Context) (*dto.StatsResponse, error) {
	if cached, found := s.statsCache.Get(statsCacheKey); found {
		if stats, ok := cached.(*dto.StatsResponse); ok {
			return stats, nil
		}
	}

	agg, err := s.recordRepo.Aggregate(ctx)
	if err != nil {
		s.logger.Error("Failed to aggregate executions", logger.ErrorField(err))
		return nil, err
	}

	stats := mapToStatsResponse(agg)
	s.statsCache.Set(statsCacheKey, stats, cache.DefaultExpiration)
	return stats, nil
}

// mapToExecutionRecordResponse maps an entity.ExecutionRecord to its wire
// form.
func mapToExecutionRecordResponse(record *entity.ExecutionRecord) *dto.ExecutionRecordResponse {
	resp := &dto.ExecutionRecordResponse{
		ID:                  record.ID,
		TaskID:              record.TaskID,
		ToolName:            record.ToolName,
		Command:             record.Command,
		Success:             record.Success,
		ReturnCode:          record.ReturnCode,
		ExecutionTime:       record.ExecutionTime,
		Timestamp:           record.ExecutedAt,
		Stdout:              record.Stdout,
		Stderr:              record.Stderr,
		SecurityCheckPassed: record.SecurityCheckPassed,
	}
	if len(record.Arguments) > 0 {
		resp.Arguments = json.RawMessage(record.Arguments)
	}
	return resp
}

// mapToStatsResponse applies the rounding rules to a raw aggregate: whole
// percents, two-decimal average over records that carry a duration.
func mapToStatsResponse(agg *repository.RecordAggregate) *dto.StatsResponse {
	stats := &dto.StatsResponse{
		Total:        agg.Total,
		SuccessCount: agg.SuccessCount,
		FailureCount: agg.Total - agg.SuccessCount,
	}
	if agg.Total > 0 {
		stats.SuccessRatePercent = int(math.Round(float64(agg.SuccessCount) / float64(agg.Total) * 100))
		stats.FailureRatePercent = int(math.Round(float64(stats.FailureCount) / float64(agg.Total) * 100))
	}
	if agg.TimedCount > 0 {
		stats.AvgExecutionTime = math.Round(agg.TotalTime/float64(agg.TimedCount)*100) / 100
	}
	return stats
}
