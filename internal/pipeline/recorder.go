// Package pipeline mirrors the replay stream into the optional stores. The
// recorder sits off the hot path: sessions hand it emitted readings through
// buffered channels and it drops rather than block when a writer falls
// behind. A nil *Recorder is valid and records nothing.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autosync/serving/internal/domain"
	"autosync/serving/internal/metrics"
	"autosync/serving/internal/store"
)

type Recorder struct {
	stateCh      chan stateUpdate
	archiveCh    chan domain.ArchivedReading
	escalationCh chan domain.EscalationEvent

	redis *store.RedisStore    // may be nil
	db    *store.PostgresStore // may be nil
	log   *zap.Logger

	batchSize int
	flushMS   int
}

type stateUpdate struct {
	sessionID string
	reading   domain.Reading
}

func NewRecorder(
	redis *store.RedisStore,
	db *store.PostgresStore,
	stateSize, archiveSize, escalationSize int,
	batchSize, flushMS int,
	log *zap.Logger,
) *Recorder {
	return &Recorder{
		stateCh:      make(chan stateUpdate, stateSize),
		archiveCh:    make(chan domain.ArchivedReading, archiveSize),
		escalationCh: make(chan domain.EscalationEvent, escalationSize),
		redis:        redis,
		db:           db,
		log:          log,
		batchSize:    batchSize,
		flushMS:      flushMS,
	}
}

// RecordReading queues an emitted reading for the state mirror and archive.
func (r *Recorder) RecordReading(sessionID string, reading domain.Reading) {
	if r == nil {
		return
	}
	if r.redis != nil {
		select {
		case r.stateCh <- stateUpdate{sessionID: sessionID, reading: reading}:
		default:
			metrics.RecorderDrops.Add(1)
		}
	}
	if r.db != nil {
		select {
		case r.archiveCh <- domain.ArchivedReading{SessionID: sessionID, Reading: reading, EmittedAt: time.Now()}:
		default:
			metrics.RecorderDrops.Add(1)
		}
	}
}

// RecordEscalation queues a fired escalation for the append log and the
// event channel.
func (r *Recorder) RecordEscalation(ev domain.EscalationEvent) {
	if r == nil {
		return
	}
	select {
	case r.escalationCh <- ev:
	default:
		metrics.RecorderDrops.Add(1)
	}
}

// Run starts the writer loops and blocks until ctx is cancelled.
func (r *Recorder) Run(ctx context.Context) {
	if r == nil {
		return
	}
	done := make(chan struct{}, 3)

	go func() { r.runStateWriter(ctx); done <- struct{}{} }()
	go func() { r.runArchiveWriter(ctx); done <- struct{}{} }()
	go func() { r.runEscalationWriter(ctx); done <- struct{}{} }()

	for i := 0; i < 3; i++ {
		<-done
	}
}

func (r *Recorder) runStateWriter(ctx context.Context) {
	for {
		select {
		case upd := <-r.stateCh:
			if r.redis == nil {
				continue
			}
			if err := r.redis.MirrorState(ctx, upd.sessionID, upd.reading); err != nil {
				r.log.Warn("state mirror failed",
					zap.String("session_id", upd.sessionID),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Recorder) runArchiveWriter(ctx context.Context) {
	batch := make([]domain.ArchivedReading, 0, r.batchSize)
	ticker := time.NewTicker(time.Duration(r.flushMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case a := <-r.archiveCh:
			batch = append(batch, a)
			if len(batch) >= r.batchSize {
				r.flushArchive(ctx, batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				r.flushArchive(ctx, batch)
				batch = batch[:0]
			}

		case <-ctx.Done():
			if len(batch) > 0 {
				// ctx is gone; give the final flush its own deadline.
				flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				r.flushArchive(flushCtx, batch)
				cancel()
			}
			return
		}
	}
}

func (r *Recorder) flushArchive(ctx context.Context, batch []domain.ArchivedReading) {
	if r.db == nil {
		return
	}
	if err := r.db.ArchiveReadings(ctx, batch); err != nil {
		metrics.ArchiveBatchFail.Add(1)
		r.log.Warn("archive batch failed",
			zap.Int("batch", len(batch)),
			zap.Error(err),
		)
	}
}

func (r *Recorder) runEscalationWriter(ctx context.Context) {
	for {
		select {
		case ev := <-r.escalationCh:
			if r.db != nil {
				if err := r.db.AppendEscalation(ctx, ev); err != nil {
					r.log.Warn("escalation append failed",
						zap.String("session_id", ev.SessionID),
						zap.Error(err),
					)
				}
			}
			if r.redis != nil {
				if err := r.redis.PublishEscalation(ctx, ev); err != nil {
					r.log.Warn("escalation publish failed",
						zap.String("session_id", ev.SessionID),
						zap.Error(err),
					)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
