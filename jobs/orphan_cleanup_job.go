// File: /jobs/orphan_cleanup_job.go
package jobs

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"testbook-api/models"
)

// OrphanCleanupJob periodically removes comments and reactions whose
// parent post no longer exists. Post deletion is transactional, so
// orphans only appear after a crash mid-delete or manual DB surgery.
type OrphanCleanupJob struct {
	db     *gorm.DB
	ticker *time.Ticker
	done   chan bool
}

func NewOrphanCleanupJob(db *gorm.DB, interval time.Duration) *OrphanCleanupJob {
	return &OrphanCleanupJob{
		db:     db,
		ticker: time.NewTicker(interval),
		done:   make(chan bool),
	}
}

// Start begins the cleanup job
func (j *OrphanCleanupJob) Start() {
	fmt.Println("Orphan cleanup job started")

	go func() {
		// Run immediately on start
		j.cleanup()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				fmt.Println("Orphan cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *OrphanCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *OrphanCleanupJob) cleanup() {
	postIDs := j.db.Model(&models.Post{}).Select("id")

	result := j.db.Where("post_id NOT IN (?)", postIDs).Delete(&models.Comment{})
	if result.Error != nil {
		fmt.Printf("Orphan cleanup failed for comments: %v\n", result.Error)
	} else if result.RowsAffected > 0 {
		fmt.Printf("Orphan cleanup removed %d comments\n", result.RowsAffected)
	}

	result = j.db.Where("post_id NOT IN (?)", postIDs).Delete(&models.Reaction{})
	if result.Error != nil {
		fmt.Printf("Orphan cleanup failed for reactions: %v\n", result.Error)
	} else if result.RowsAffected > 0 {
		fmt.Printf("Orphan cleanup removed %d reactions\n", result.RowsAffected)
	}
}
