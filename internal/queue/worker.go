package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleSyncPagesTask(ctx context.Context, task *asynq.Task) error {
	var payload SyncPagesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return q.SyncAccountPages(ctx, payload.AccountID)
}

// SyncAccountPages reconciles one account's page directory in the
// background. A missing account is not retried.
func (q *Queue) SyncAccountPages(ctx context.Context, accountID int64) error {
	account, isExist, err := q.a.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !isExist {
		log.Printf("Account %d no longer exists, skipping sync", accountID)
		return nil
	}

	_, summary, _, err := q.ss.SyncPages(ctx, account)
	if err != nil {
		log.Printf("Error syncing pages for account %d: %v", accountID, err)
		return err
	}

	if summary != nil {
		log.Printf("Synced %d pages for account %d", summary.Total, accountID)
	}
	return nil
}
