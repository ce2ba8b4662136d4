package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pageflowhq/pageflow/internal/queue"
	"github.com/pageflowhq/pageflow/internal/repository"
)

// PageSyncJob periodically enqueues a background page sync for every account
// that holds usable credentials. The work itself runs on the task queue so a
// slow account cannot hold up the schedule.
type PageSyncJob struct {
	a      repository.AccountRepository
	client *asynq.Client
}

func NewPageSyncJob(a repository.AccountRepository, client *asynq.Client) *PageSyncJob {
	return &PageSyncJob{
		a:      a,
		client: client,
	}
}

func (j *PageSyncJob) SyncAll() {
	ctx := context.Background()

	accounts, err := j.a.ListWithCredentials(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	now := time.Now()
	for i, account := range accounts {
		if account.HasExpiredToken(now) && account.BusinessManagerToken == "" {
			continue
		}

		payload := queue.SyncPagesPayload{AccountID: account.ID}
		// Stagger the tasks a little so one tick does not burst the
		// platform rate limit.
		if err := queue.EnqueueSync(j.client, payload, time.Duration(i)*5*time.Second); err != nil {
			slog.Info(err.Error())
		}
	}
}
