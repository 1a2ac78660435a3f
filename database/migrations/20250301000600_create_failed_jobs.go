package migrations

import (
	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/pkg/migration"
	"github.com/nikhilverma/shopline/pkg/queue"
)

type createFailedJobs struct{}

func init() {
	migration.Register("20250301000600_create_failed_jobs", createFailedJobs{})
}

func (createFailedJobs) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (createFailedJobs) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&queue.FailedJobRecord{})
}
