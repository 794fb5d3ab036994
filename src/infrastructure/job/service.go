package job

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"rimborso/src/fsutil"
	"rimborso/src/log"
)

// SubmittedTopic carries a message per accepted submission so embedded
// workers wake up without waiting out their poll interval. The queue in the
// Store stays the source of truth; the topic is only a nudge.
const SubmittedTopic = "claims.submitted"

// ErrMissingDocument rejects a submission lacking one of the three
// required documents. It never reaches the queue.
var ErrMissingDocument = errors.New("missing required document")

// SubmittedFile is one uploaded document part.
type SubmittedFile struct {
	Filename string
	MimeType string
	Data     []byte
}

// Service validates submissions, persists the documents and the job record,
// and answers status lookups. Stateless and safe for concurrent use.
type Service struct {
	store     Store
	objects   fsutil.ObjectStore
	bucket    string
	publisher message.Publisher
}

// NewService wires a Service. publisher may be nil when no embedded worker
// needs wake notifications.
func NewService(store Store, objects fsutil.ObjectStore, bucket string, publisher message.Publisher) (*Service, error) {
	if err := objects.EnsureBucketExists(context.Background(), bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	return &Service{
		store:     store,
		objects:   objects,
		bucket:    bucket,
		publisher: publisher,
	}, nil
}

// Submit validates the three documents, stores them, creates a pending job
// and enqueues it. Returns the created job with a fresh id.
func (s *Service) Submit(ctx context.Context, contract, statement, template *SubmittedFile) (*Job, error) {
	if err := validate("contract", contract); err != nil {
		return nil, err
	}
	if err := validate("statement", statement); err != nil {
		return nil, err
	}
	if err := validate("template", template); err != nil {
		return nil, err
	}

	jobID := uuid.New().String()

	var input Input
	for _, doc := range []struct {
		name string
		file *SubmittedFile
		ref  *DocumentRef
	}{
		{"contract", contract, &input.Contract},
		{"statement", statement, &input.Statement},
		{"template", template, &input.Template},
	} {
		key := fmt.Sprintf("%s/%s%s", jobID, doc.name, path.Ext(doc.file.Filename))
		if err := s.objects.PutObject(ctx, s.bucket, key, doc.file.Data); err != nil {
			return nil, fmt.Errorf("failed to store %s document: %w", doc.name, err)
		}
		*doc.ref = DocumentRef{
			Key:      key,
			MimeType: doc.file.MimeType,
			Filename: doc.file.Filename,
		}
	}

	j := &Job{
		ID:        jobID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := j.SetInput(input); err != nil {
		return nil, fmt.Errorf("failed to encode job payload: %w", err)
	}

	if err := s.store.Submit(ctx, j); err != nil {
		return nil, fmt.Errorf("failed to submit job: %w", err)
	}

	if s.publisher != nil {
		msg := message.NewMessage(watermill.NewUUID(), []byte(j.ID))
		if err := s.publisher.Publish(SubmittedTopic, msg); err != nil {
			// The job is already queued; workers will pick it up on the
			// next poll even without the wake message.
			log.Error(err, "failed to publish submission notice", "job_id", j.ID)
		}
	}

	return j, nil
}

// Get returns the job record for status polling.
func (s *Service) Get(ctx context.Context, id string) (*Job, error) {
	return s.store.Get(ctx, id)
}

// List returns jobs ordered newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Job, error) {
	return s.store.List(ctx, limit, offset)
}

// Bucket exposes the documents bucket name for pipeline reads.
func (s *Service) Bucket() string {
	return s.bucket
}

func validate(name string, f *SubmittedFile) error {
	if f == nil || len(f.Data) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingDocument, name)
	}
	return nil
}
