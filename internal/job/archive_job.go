package job

import (
	"context"
	"log"
	"time"

	"coinquery/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultCheckInterval = 15 * time.Minute

type Archiver interface {
	Archive(ctx context.Context, limit int) ([]domain.ArchiveEntry, error)
	ArchivedToday(ctx context.Context) (int, error)
}

// ArchiveJob stores the top coins' prices once per UTC day, on the first
// check at or after hourUTC. A day counts as done after a successful run, or
// when the store already holds limit rows for it, so restarts do not repeat
// work and a partially written day is retried on the next check.
type ArchiveJob struct {
	tracer        trace.Tracer
	archiver      Archiver
	limit         int
	hourUTC       int
	checkInterval time.Duration
	now           func() time.Time

	// lastDay is the UTC day of the last successful run. Only Start's
	// goroutine touches it.
	lastDay time.Time
}

func NewArchiveJob(tracer trace.Tracer, archiver Archiver, limit, hourUTC int) *ArchiveJob {
	return &ArchiveJob{
		tracer:        tracer,
		archiver:      archiver,
		limit:         limit,
		hourUTC:       hourUTC,
		checkInterval: defaultCheckInterval,
		now:           time.Now,
	}
}

// Start checks immediately and then every check interval. Blocks until ctx
// is cancelled.
func (j *ArchiveJob) Start(ctx context.Context) {
	if j.archiver == nil {
		log.Println("Archive job disabled: no archiver")
		<-ctx.Done()
		return
	}
	log.Printf("Archive job starting (limit=%d, hour=%02d:00 UTC)", j.limit, j.hourUTC)

	j.runOnce(ctx)
	ticker := time.NewTicker(j.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Archive job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

// runOnce reports whether an archive run happened.
func (j *ArchiveJob) runOnce(ctx context.Context) bool {
	ctx, span := j.tracer.Start(ctx, "archive-job.run-once")
	defer span.End()

	now := j.now().UTC()
	if now.Hour() < j.hourUTC {
		return false
	}
	today := domain.CalendarDay(now)
	if j.lastDay.Equal(today) {
		return false
	}

	stored, err := j.archiver.ArchivedToday(ctx)
	if err != nil {
		log.Printf("archive job check error: %v", err)
		return false
	}
	if j.limit > 0 && stored >= j.limit {
		j.lastDay = today
		return false
	}

	entries, err := j.archiver.Archive(ctx, j.limit)
	if err != nil {
		log.Printf("archive job error after %d entries, retrying next check: %v", len(entries), err)
		return false
	}
	j.lastDay = today
	span.SetAttributes(attribute.Int("archived", len(entries)), attribute.Int("previously_stored", stored))
	return true
}
