package services

import (
	"context"

	"github.com/teamboard/backend/internal/infrastructure/journal"
	"github.com/teamboard/backend/usecase"
)

// JournalRecorder bridges the coordinator to the BoltDB journal store.
type JournalRecorder struct {
	store *journal.Store
}

func NewJournalRecorder(store *journal.Store) *JournalRecorder {
	return &JournalRecorder{store: store}
}

func (r *JournalRecorder) Record(_ context.Context, actorID, action, entityKind, entityID string) error {
	if r == nil || r.store == nil {
		return nil
	}
	return r.store.Append(journal.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
	})
}

var _ usecase.MutationRecorder = (*JournalRecorder)(nil)
