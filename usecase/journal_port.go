package usecase

import "context"

// MutationRecorder abstracts the mutation journal so the coordinator stays
// storage-agnostic. Recording is best-effort and must never fail a mutation.
type MutationRecorder interface {
	Record(ctx context.Context, actorID, action, entityKind, entityID string) error
}
