package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/provider"
	"github.com/wikicore-next/internal/queue"
	"github.com/wikicore-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPostReindex, c.handlePostReindex)
}

// handlePostReindex 消费重建索引任务
// 文章已不存在则按成功吞掉；其余失败返回错误交由队列重试
func (c *Consumer) handlePostReindex(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_post_reindex_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PostReindexPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_post_reindex_unmarshal_failed", "error", err)
		return err
	}
	if payload.PostID == 0 {
		logger.Debugw("worker_post_reindex_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	if c.IndexService == nil {
		logger.Warnw("worker_post_reindex_skip_index_service_nil", "post_id", payload.PostID)
		return nil
	}
	if err := c.IndexService.Reindex(payload.PostID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_post_reindex_skip_post_not_found", "post_id", payload.PostID)
			return nil
		}
		logger.Warnw("worker_post_reindex_failed", "post_id", payload.PostID, "error", err)
		return err
	}
	return nil
}
