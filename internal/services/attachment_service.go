package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/pool"
	"agrobooks-api/internal/storage"
)

// AttachmentField describes one file belonging to an entity. Optional fields
// (Required=false) tolerate upload failure: the entity is still created and
// the failure is logged.
type AttachmentField struct {
	Name     string
	Source   payload.Source
	Filename string
	MimeType string
	Folder   string
	OwnerID  string
	Required bool
}

// AttachmentResult pairs a field with its upload outcome or error.
type AttachmentResult struct {
	Field   AttachmentField
	Outcome *UploadOutcome
	Err     error
}

// AttachmentService normalizes and uploads the files attached to an entity
// request, running the uploads concurrently on the shared worker pool.
type AttachmentService struct {
	store      *StoreService
	normalizer *payload.Normalizer
	workers    *pool.WorkerPool
}

// NewAttachmentService creates a new attachment service.
func NewAttachmentService(store *StoreService, normalizer *payload.Normalizer, workers *pool.WorkerPool) *AttachmentService {
	return &AttachmentService{
		store:      store,
		normalizer: normalizer,
		workers:    workers,
	}
}

// UploadAll normalizes and uploads every field concurrently, then reconciles
// all results before returning. A failed required field fails the whole
// batch; a failed optional field only sets Err on its result.
func (a *AttachmentService) UploadAll(ctx context.Context, bucket string, fields []AttachmentField) ([]AttachmentResult, error) {
	results := make([]AttachmentResult, len(fields))

	var wg sync.WaitGroup
	for i := range fields {
		i := i
		results[i].Field = fields[i]

		if fields[i].Source == nil {
			continue
		}

		wg.Add(1)
		done, err := a.workers.Submit(ctx, func(taskCtx context.Context) error {
			defer wg.Done()
			outcome, uploadErr := a.uploadOne(taskCtx, bucket, fields[i])
			results[i].Outcome = outcome
			results[i].Err = uploadErr
			return uploadErr
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
			continue
		}
		go func() { <-done }()
	}
	wg.Wait()

	// All uploads have settled; now decide the batch outcome.
	for i := range results {
		if results[i].Err == nil {
			continue
		}
		if results[i].Field.Required {
			return results, fmt.Errorf("required file %q failed: %w", results[i].Field.Name, results[i].Err)
		}
		log.Printf("Warning: optional file %q failed to upload: %v", results[i].Field.Name, results[i].Err)
	}

	return results, nil
}

func (a *AttachmentService) uploadOne(ctx context.Context, bucket string, field AttachmentField) (*UploadOutcome, error) {
	file, err := a.normalizer.Normalize(field.Source, field.Filename, field.MimeType)
	if err != nil {
		return nil, err
	}

	key := storage.BuildKey(field.Folder, field.OwnerID, file.Filename)
	return a.store.Upload(ctx, bucket, key, file.Bytes, file.MimeType)
}

// URLFor returns the best URL for a settled result, or empty when the field
// was absent or failed.
func (a *AttachmentService) URLFor(result AttachmentResult) string {
	if result.Outcome == nil {
		return ""
	}
	return a.store.BestURL(result.Outcome)
}

// ReconcileCovers merges a freshly uploaded cover URL with the covers already
// on the entity. The fresh cover goes first, exact duplicates are dropped,
// and the first entry is mirrored into the singular cover field.
func ReconcileCovers(fresh string, existing []string) (covers []string, primary string) {
	seen := make(map[string]bool)

	if fresh != "" {
		covers = append(covers, fresh)
		seen[fresh] = true
	}
	for _, url := range existing {
		if url == "" || seen[url] {
			continue
		}
		covers = append(covers, url)
		seen[url] = true
	}

	if len(covers) > 0 {
		primary = covers[0]
	}
	return covers, primary
}
