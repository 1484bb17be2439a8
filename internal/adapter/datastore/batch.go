package datastore

import (
	"context"
	"fmt"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

// Batch implements [domain.Store]. Operations run in order with persistence
// deferred, through an explicit mode parameter rather than by toggling the
// store's autosave setting; a single flush happens at the end on success. A
// mid-batch failure stops execution: earlier steps stay applied in memory,
// unflushed, with no rollback.
func (s *Store) Batch(ctx context.Context, ops []domain.BatchOp) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()

	for n, op := range ops {
		if err := s.apply(ctx, op); err != nil {
			return fmt.Errorf("batch operation %d: %w", n, err)
		}
	}

	if s.pending == 0 {
		return nil
	}
	return s.persist(ctx)
}

func (s *Store) apply(ctx context.Context, op domain.BatchOp) error {
	switch op.Kind {
	case domain.OpSet:
		return s.set(ctx, op.Path, op.Value, persistDeferred)
	case domain.OpUnset:
		return s.unset(ctx, op.Path, persistDeferred)
	case domain.OpPush:
		return s.push(ctx, op.Path, op.Values, persistDeferred)
	case domain.OpDelete:
		opts := domain.DeleteOptions{Keys: op.Keys, Field: op.Field}
		_, err := s.delete(ctx, op.Path, opts, persistDeferred)
		return err
	case domain.OpUpdate:
		opts := domain.UpdateOptions{Where: op.Where}
		return s.update(ctx, op.Path, op.Patch, opts, persistDeferred)
	case domain.OpCreateIndex:
		return s.createIndex(ctx, op.Path, op.Field, op.IndexKind)
	case domain.OpDropIndex:
		return s.dropIndex(op.Path, op.Field)
	default:
		return fmt.Errorf("%w: unknown batch operation kind %d", domain.ErrConfiguration, op.Kind)
	}
}
