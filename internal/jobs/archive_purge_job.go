package jobs

import (
	"context"
	"log"
	"time"

	"github.com/user/ticklist/internal/repository"
)

// ArchivePurgeJob permanently deletes old archive records
type ArchivePurgeJob struct {
	archiveRepo *repository.ArchiveRepository
}

// NewArchivePurgeJob creates a new archive purge job handler
func NewArchivePurgeJob(archiveRepo *repository.ArchiveRepository) *ArchivePurgeJob {
	return &ArchivePurgeJob{
		archiveRepo: archiveRepo,
	}
}

// PurgeCompletedBefore deletes archived items completed more than the given
// number of days ago. This should run on a daily ticker.
func (j *ArchivePurgeJob) PurgeCompletedBefore(ctx context.Context, days int) (int64, error) {
	log.Printf("[ArchivePurgeJob] Starting purge of items archived more than %d days ago", days)

	threshold := time.Now().AddDate(0, 0, -days)
	count, err := j.archiveRepo.DeleteCompletedBefore(threshold)
	if err != nil {
		log.Printf("[ArchivePurgeJob] Error purging archive: %v", err)
		return 0, err
	}

	log.Printf("[ArchivePurgeJob] Purged %d archived items", count)
	return count, nil
}
