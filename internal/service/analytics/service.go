// Package analytics collects words that resolved to no translation so lexicon
// gaps can be reviewed later. Recording is asynchronous: batches go through a
// bounded queue and a single background worker, so the request path never
// waits on storage.
package analytics

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/internal/metrics"
)

// writeTimeout bounds a single batch write so a stuck store cannot wedge the
// worker forever.
const writeTimeout = 5 * time.Second

// missingWordsRepo persists aggregated missing-word records.
type missingWordsRepo interface {
	RecordBatch(ctx context.Context, direction domain.Direction, words []string) error
	Top(ctx context.Context, limit int) ([]domain.MissingWord, error)
}

type batch struct {
	direction domain.Direction
	words     []string
}

// Service is the asynchronous missing-word collector.
type Service struct {
	log   *slog.Logger
	repo  missingWordsRepo
	queue chan batch
	done  chan struct{}
}

// NewService creates the collector and starts its background worker. Call
// Close on shutdown to flush the queue.
func NewService(logger *slog.Logger, repo missingWordsRepo, queueSize int) *Service {
	if queueSize <= 0 {
		queueSize = 64
	}
	s := &Service{
		log:   logger.With("service", "analytics"),
		repo:  repo,
		queue: make(chan batch, queueSize),
		done:  make(chan struct{}),
	}
	go s.worker()
	return s
}

// ---------------------------------------------------------------------------
// 1. RecordMissing
// ---------------------------------------------------------------------------

// RecordMissing enqueues a batch of unresolved words. It never blocks: when
// the queue is full the batch is dropped with a warning.
func (s *Service) RecordMissing(ctx context.Context, direction domain.Direction, words []string) {
	if len(words) == 0 {
		return
	}

	// The caller may reuse its slice after we return.
	b := batch{direction: direction, words: slices.Clone(words)}

	select {
	case s.queue <- b:
	default:
		metrics.RecordMissingQueueDrop()
		s.log.WarnContext(ctx, "missing-word queue full, batch dropped",
			slog.Int("words", len(words)))
	}
}

// ---------------------------------------------------------------------------
// 2. TopMissing
// ---------------------------------------------------------------------------

// TopMissing returns the most frequent unresolved words, ordered by count
// descending.
func (s *Service) TopMissing(ctx context.Context, limit int) ([]domain.MissingWord, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.Top(ctx, limit)
}

// ---------------------------------------------------------------------------
// Worker lifecycle
// ---------------------------------------------------------------------------

// Close flushes queued batches and stops the worker. It must be called after
// request traffic has stopped; RecordMissing must not be called afterwards.
func (s *Service) Close() {
	close(s.queue)
	<-s.done
}

func (s *Service) worker() {
	defer close(s.done)
	for b := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := s.repo.RecordBatch(ctx, b.direction, b.words); err != nil {
			s.log.Error("record missing words",
				slog.String("direction", b.direction.String()),
				slog.Int("words", len(b.words)),
				slog.String("error", err.Error()))
		}
		cancel()
	}
}
