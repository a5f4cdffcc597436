package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeDailyReport = "report:daily"

// DailyReportPayload names the chat the report goes to.
type DailyReportPayload struct {
	ChatID string `json:"chatId"`
}

// NewDailyReportTask builds the scheduled report task. It is never retried.
func NewDailyReportTask(chatID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(DailyReportPayload{ChatID: chatID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDailyReport, b)
	opts := []asynq.Option{asynq.MaxRetry(0)}

	return task, opts, nil
}
