// Package services orchestrates entry operations across the local SQLite
// store and the AMQP sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"hourtracker/internal/amqp"
	"hourtracker/internal/core"
	"hourtracker/internal/storage"
)

// SyncPublisher publishes entry sync messages for the worker.
type SyncPublisher interface {
	PublishEntrySync(ctx context.Context, msg *amqp.EntrySyncMessage) error
	Close() error
}

// EntryService writes entries to SQLite first and hands sync off to the
// worker through AMQP. Publish failures never fail the request; the worker's
// pending sweep picks the entry up later.
type EntryService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

func NewEntryService(storage *storage.SQLiteRepository, publisher SyncPublisher) *EntryService {
	return &EntryService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateEntry saves an entry locally and publishes a sync message.
func (s *EntryService) CreateEntry(ctx context.Context, draft core.EntryDraft) (core.TimeEntry, error) {
	entry, err := s.storage.CreateEntry(ctx, draft)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("save entry: %w", err)
	}

	localID, err := strconv.ParseInt(entry.ID.String(), 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse entry ID", "id", entry.ID, "error", err)
		return entry, nil // SQLite save succeeded
	}

	if err := s.publish(ctx, amqp.NewEntryUpsertMessage(localID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", localID, "error", err)
	}

	return entry, nil
}

// DeleteEntry soft deletes an entry locally and publishes a delete message.
// The remote id is captured before the delete so the worker can still remove
// the entry upstream.
func (s *EntryService) DeleteEntry(ctx context.Context, id core.ID) error {
	localID, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id %q: %w", id, err)
	}

	record, err := s.storage.GetEntry(ctx, localID)
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}

	if err := s.storage.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("soft delete entry: %w", err)
	}

	if err := s.publish(ctx, amqp.NewEntryDeleteMessage(localID, record.RemoteID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", localID, "error", err)
	}

	return nil
}

func (s *EntryService) publish(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishEntrySync(ctx, msg)
}

// Close closes both storage and AMQP connections
func (s *EntryService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}

	return nil
}
