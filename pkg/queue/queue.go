// Package queue moves recognition work off the update-handling goroutines so
// the bot keeps serving other chats while ffmpeg and the recognition service
// run.
package queue

import "context"

// Task describes one recognition request.
type Task struct {
	UserID       int64  `json:"user_id"`
	ChatID       int64  `json:"chat_id"`
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	ContentType  string `json:"content_type"`
	// ReportedDuration is the transport's own duration in seconds, 0 when
	// unknown. It is only a pre-check; the converted artifact is re-probed.
	ReportedDuration int `json:"reported_duration"`
}

// Handler executes one task.
type Handler func(ctx context.Context, task Task)

// Dispatcher hands tasks to the worker side without blocking the caller.
// Dispatch after Close returns an error rather than queuing.
type Dispatcher interface {
	Dispatch(ctx context.Context, task Task) error
	Close() error
}
