package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks. Services call it fire-and-forget:
// a failed enqueue is logged by the caller and never rolls back the
// primary write.
type Client interface {
	EnqueueBorrowConfirmation(ctx context.Context, p BorrowConfirmationPayload) error
	EnqueueCardApproved(ctx context.Context, p CardApprovedPayload) error
	Close() error
}

type asynqClient struct {
	client *asynq.Client
}

func NewClient(redisAddr, redisPassword string, redisDB int) Client {
	return &asynqClient{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

func (c *asynqClient) EnqueueBorrowConfirmation(ctx context.Context, p BorrowConfirmationPayload) error {
	task, err := NewBorrowConfirmationTask(p)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Queue("email")); err != nil {
		return fmt.Errorf("enqueue borrow confirmation: %w", err)
	}
	return nil
}

func (c *asynqClient) EnqueueCardApproved(ctx context.Context, p CardApprovedPayload) error {
	task, err := NewCardApprovedTask(p)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Queue("email")); err != nil {
		return fmt.Errorf("enqueue card approved: %w", err)
	}
	return nil
}

func (c *asynqClient) Close() error {
	return c.client.Close()
}
