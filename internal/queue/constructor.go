package queue

import (
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/internal/service"
)

type Queue struct {
	a  repository.AccountRepository
	ss service.SyncService
}

func NewQueue(a repository.AccountRepository, ss service.SyncService) *Queue {
	return &Queue{
		a:  a,
		ss: ss,
	}
}

const TaskTypeSyncPages = "sync:pages"

type SyncPagesPayload struct {
	AccountID int64 `json:"account_id"`
}
