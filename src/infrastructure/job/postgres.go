package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// queueEntry is one row of the FIFO list of pending job ids. Snowflake ids
// are time-ordered, so ordering by id preserves submission order.
type queueEntry struct {
	ID        int64     `gorm:"primaryKey"`
	JobID     string    `gorm:"not null;column:job_id"`
	CreatedAt time.Time
}

func (queueEntry) TableName() string {
	return "job_queue"
}

// PostgresStore implements Store on PostgreSQL. Dequeue relies on
// SELECT ... FOR UPDATE SKIP LOCKED, so concurrent workers never pop the
// same entry.
type PostgresStore struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	if err := db.AutoMigrate(&Job{}, &queueEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate job tables: %v", err)
	}

	return &PostgresStore{
		db:        db,
		snowflake: node,
	}, nil
}

func (s *PostgresStore) Submit(ctx context.Context, j *Job) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(j).Error; err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		entry := queueEntry{
			ID:    s.snowflake.Generate().Int64(),
			JobID: j.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to enqueue job: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Dequeue(ctx context.Context) (string, bool, error) {
	var id string
	var found bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry queueEntry
		result := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Order("id").
			First(&entry)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return result.Error
		}

		if err := tx.Delete(&queueEntry{}, entry.ID).Error; err != nil {
			return err
		}

		id = entry.JobID
		found = true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to dequeue: %w", err)
	}

	return id, found, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Job, error) {
	var j Job
	result := s.db.WithContext(ctx).First(&j, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", result.Error)
	}
	return &j, nil
}

func (s *PostgresStore) Save(ctx context.Context, j *Job) error {
	result := s.db.WithContext(ctx).Save(j)
	if result.Error != nil {
		return fmt.Errorf("failed to save job: %w", result.Error)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]Job, error) {
	var jobs []Job
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", result.Error)
	}
	return jobs, nil
}
