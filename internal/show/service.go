package show

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// MaxUploadSize is the largest accepted flyer file, in bytes.
const MaxUploadSize = 5 * 1024 * 1024

// allowedImageTypes are the accepted flyer MIME types.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Store is the subset of the show repository used by the workflow.
type Store interface {
	List(ctx context.Context) ([]Show, error)
	Get(ctx context.Context, id string) (*Show, error)
	Create(ctx context.Context, f Fields) (*Show, error)
	Update(ctx context.Context, id string, f Fields) error
	Delete(ctx context.Context, id string) error
}

// ObjectStore is the subset of the storage gateway used by the workflow.
type ObjectStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (url, key string, err error)
	Remove(ctx context.Context, key string) (bool, error)
	ExtractKey(publicURL string) string
}

// DeleteMarker flags deferred storage deletions as already handled.
type DeleteMarker interface {
	MarkProcessed(ctx context.Context, objectKey string) error
}

// ValidationError reports a missing or malformed form field. It is raised
// before any backend is contacted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// ErrConfirmationRequired aborts a delete that the operator has not
// explicitly confirmed. No side effects have happened when it is returned.
var ErrConfirmationRequired = errors.New("confirmation required")

// Upload is a flyer file selected by the operator.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// SaveInput carries the admin form fields for a create or update. ID is
// empty when creating. File is nil when no replacement image was selected;
// Flyer carries the URL currently bound in the form.
type SaveInput struct {
	ID         string
	Artista    string
	DataInicio string
	DataFim    string
	Local      string
	Cidade     string
	Flyer      string
	File       *Upload
}

// Service orchestrates the show lifecycle: validation, flyer storage
// consistency, row persistence, and deletion-queue bookkeeping.
type Service struct {
	store   Store
	objects ObjectStore
	marker  DeleteMarker
}

// NewService creates a new show Service.
func NewService(store Store, objects ObjectStore, marker DeleteMarker) *Service {
	return &Service{store: store, objects: objects, marker: marker}
}

// List returns every show row, past and future, ordered by start date.
func (s *Service) List(ctx context.Context) ([]Show, error) {
	return s.store.List(ctx)
}

// ValidateUpload checks a selected file against the accepted MIME types and
// the size limit. It performs no I/O.
func ValidateUpload(u *Upload) error {
	if !allowedImageTypes[u.ContentType] {
		return &ValidationError{Field: "flyer", Message: "flyer must be a JPG, PNG, WEBP or GIF image"}
	}
	if u.Size > MaxUploadSize {
		return &ValidationError{Field: "flyer", Message: "flyer must be at most 5MB"}
	}
	return nil
}

// Save creates or updates a show.
//
// When a replacement image is present and the edited show already has a
// flyer, the old object is removed before the new one is uploaded. The
// removal is best effort; a failed upload is fatal and leaves the persisted
// row untouched. The brief window with no valid flyer after a delete-then-
// failed-upload is an accepted tradeoff of this ordering.
func (s *Service) Save(ctx context.Context, in SaveInput) (*Show, error) {
	if err := validateFields(in); err != nil {
		return nil, err
	}
	if in.File != nil {
		if err := ValidateUpload(in.File); err != nil {
			return nil, err
		}
	}

	editing := strings.TrimSpace(in.ID) != ""
	flyerURL := in.Flyer

	if in.File != nil {
		if editing {
			existing, err := s.store.Get(ctx, in.ID)
			if err != nil {
				return nil, fmt.Errorf("load show for update: %w", err)
			}
			if existing.Flyer != nil {
				if key := s.objects.ExtractKey(*existing.Flyer); key != "" {
					if _, err := s.objects.Remove(ctx, key); err != nil {
						log.Printf("show: removing previous flyer %q: %v", key, err)
					}
				}
			}
		}

		url, _, err := s.objects.Upload(ctx, in.File.Filename, in.File.Reader, in.File.Size, in.File.ContentType)
		if err != nil {
			return nil, err
		}
		flyerURL = url
	}

	fields := Fields{
		Artista:    strings.TrimSpace(in.Artista),
		DataInicio: strings.TrimSpace(in.DataInicio),
		DataFim:    normalizeOptional(in.DataFim),
		Local:      strings.TrimSpace(in.Local),
		Cidade:     strings.TrimSpace(in.Cidade),
		Flyer:      normalizeOptional(flyerURL),
	}

	if editing {
		if err := s.store.Update(ctx, in.ID, fields); err != nil {
			return nil, err
		}
		return &Show{
			ID:         in.ID,
			Artista:    fields.Artista,
			DataInicio: fields.DataInicio,
			DataFim:    fields.DataFim,
			Local:      fields.Local,
			Cidade:     fields.Cidade,
			Flyer:      fields.Flyer,
		}, nil
	}
	return s.store.Create(ctx, fields)
}

// Delete removes a show after explicit operator confirmation.
//
// The sequence is: resolve the flyer's object key, delete the storage
// object, delete the row, then mark the deletion-queue row processed so the
// external sweeper skips the key. Every step is best effort — once the
// operator has confirmed, cleanup failures are logged but never surfaced,
// and no step blocks the ones after it.
func (s *Service) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	target, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	key := ""
	if target.Flyer != nil {
		key = s.objects.ExtractKey(*target.Flyer)
	}

	if key != "" {
		if _, err := s.objects.Remove(ctx, key); err != nil {
			log.Printf("show: removing flyer %q for deleted show %s: %v", key, id, err)
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		log.Printf("show: deleting row %s: %v", id, err)
	}

	if key != "" {
		if err := s.marker.MarkProcessed(ctx, key); err != nil {
			log.Printf("show: marking queue row %q processed: %v", key, err)
		}
	}

	return nil
}

func validateFields(in SaveInput) error {
	required := []struct{ field, value string }{
		{"artista", in.Artista},
		{"data_inicio", in.DataInicio},
		{"local", in.Local},
		{"cidade", in.Cidade},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field}
		}
	}

	if _, err := time.Parse(isoDate, strings.TrimSpace(in.DataInicio)); err != nil {
		return &ValidationError{Field: "data_inicio", Message: "data_inicio must be a date in YYYY-MM-DD format"}
	}
	if fim := strings.TrimSpace(in.DataFim); fim != "" {
		if _, err := time.Parse(isoDate, fim); err != nil {
			return &ValidationError{Field: "data_fim", Message: "data_fim must be a date in YYYY-MM-DD format"}
		}
	}
	return nil
}

// normalizeOptional trims v and returns nil when nothing remains, so that
// optional columns are stored as NULL rather than empty strings.
func normalizeOptional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
