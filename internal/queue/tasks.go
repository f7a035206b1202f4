package queue

import (
	"encoding/json"

	"github.com/wikicore-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPostReindex 文章重建索引任务
	TaskPostReindex = constants.TaskPostReindex
)

// PostReindexPayload 重建索引任务载荷
type PostReindexPayload struct {
	PostID uint `json:"post_id"`
}

// NewPostReindexTask 创建重建索引任务
func NewPostReindexTask(payload PostReindexPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostReindex, body), nil
}
