package consumer

import (
	"context"
	"sync"
	"time"

	"toolwatch/internal/runner/config"
	"toolwatch/internal/runner/service"
	"toolwatch/pkg/common"
	"toolwatch/pkg/logger"
	"toolwatch/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// defaultHandlerTimeout caps one dequeue-and-execute cycle when the
// configuration leaves the timeout unset.
const defaultHandlerTimeout = 5 * time.Minute

// RedisConsumer manages the consumption of invocation tasks from a Redis stream.
type RedisConsumer struct {
	cfg           *config.Config
	redisClient   *redis.Client
	runnerService service.RunnerService
	logger        *logger.Logger
	stopChan      chan struct{}
	wg            sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	runnerService service.RunnerService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:           cfg,
		redisClient:   redisClient,
		runnerService: runnerService,
		logger:        log,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the consumer's task processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.runnerService.ProcessTask, common.RedisStreamToolInvocation, c.cfg.Runner.StreamReadTimeout)
}

// RegisterStreamHandler runs fn in a recovered loop until the context or
// the consumer stops. Each cycle gets its own timeout so a stuck task
// cannot wedge the loop forever.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
