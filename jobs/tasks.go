package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeQuotationSend mails a lead's quotation to its requester.
	TaskTypeQuotationSend = "quotation:send"
)

// ErrInvalidPayload is returned when a task cannot be built from its input.
var ErrInvalidPayload = errors.New("jobs: invalid payload")

// QuotationSendPayload identifies the quotation to deliver.
type QuotationSendPayload struct {
	LeadID string `json:"lead_id"`
	Email  string `json:"email"`
}

// NewQuotationSendTask constructs an Asynq task.
func NewQuotationSendTask(payload QuotationSendPayload) (*asynq.Task, error) {
	payload.LeadID = strings.TrimSpace(payload.LeadID)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.LeadID == "" || payload.Email == "" {
		return nil, ErrInvalidPayload
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeQuotationSend, data, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client submits jobs to the queue.
type Client struct {
	client enqueuer
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	return &Client{client: asynq.NewClient(redisOpts)}, nil
}

// EnqueueQuotationSend queues delivery of the lead's quotation to email.
func (c *Client) EnqueueQuotationSend(ctx context.Context, leadID, email string) error {
	task, err := NewQuotationSendTask(QuotationSendPayload{LeadID: leadID, Email: email})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
