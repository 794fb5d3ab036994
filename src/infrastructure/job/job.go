package job

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Status defines the status of a job
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether a job in this status can never change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DocumentRef points at one submitted document stored in the object store.
type DocumentRef struct {
	Key      string `json:"key"`
	MimeType string `json:"mimeType"`
	Filename string `json:"filename,omitempty"`
}

// Input references the three documents a claim is built from.
type Input struct {
	Contract  DocumentRef `json:"contract"`
	Statement DocumentRef `json:"statement"`
	Template  DocumentRef `json:"template"`
}

// Job represents one asynchronous claim-analysis request. Status moves only
// forward, pending -> processing -> completed|failed; once terminal the
// record is immutable apart from the fields set at that transition.
type Job struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	Status      Status          `gorm:"not null" json:"status"`
	Payload     json.RawMessage `gorm:"not null" json:"-"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	FailedAt    *time.Time      `json:"failedAt,omitempty"`
}

// Input decodes the document references carried in the payload.
func (j *Job) Input() (Input, error) {
	var in Input
	if err := json.Unmarshal(j.Payload, &in); err != nil {
		return Input{}, err
	}
	return in, nil
}

// SetInput encodes the document references into the payload.
func (j *Job) SetInput(in Input) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	j.Payload = payload
	return nil
}

// ErrNotFound is returned by Get for an unknown job id.
var ErrNotFound = errors.New("job not found")

// Store persists jobs and holds the FIFO of pending job ids. It performs no
// validation of job content: a keyed record store plus one queue.
type Store interface {
	// Submit persists the job and pushes its id onto the queue.
	Submit(ctx context.Context, j *Job) error

	// Dequeue atomically pops the oldest pending job id. A single pop
	// removes the id exactly once even under concurrent callers; ok is
	// false when the queue is empty.
	Dequeue(ctx context.Context) (id string, ok bool, err error)

	// Get returns the job record, or ErrNotFound.
	Get(ctx context.Context, id string) (*Job, error)

	// Save overwrites the record keyed by its id. Idempotent.
	Save(ctx context.Context, j *Job) error

	// List returns jobs ordered newest first.
	List(ctx context.Context, limit, offset int) ([]Job, error)
}
