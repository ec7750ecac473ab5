package item

import (
	"context"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/secondchance-api/internal/domain"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldCategory    = "category"
	fieldCondition   = "condition"
	fieldAgeDays     = "age_days"
	fieldAgeYears    = "age_years"
	fieldDescription = "description"
	fieldUpdatedAt   = "updated_at"
)

// ImageUpload carries the optional multipart file attached to a new listing.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type Service interface {
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, itemID string) (*domain.Item, error)
	Create(ctx context.Context, req domain.CreateItemRequest, image *ImageUpload) (*domain.Item, error)
	// Update merges the mutable fields into an existing item. The bool is
	// the store's confirmation: false means the update was a no-op, which
	// the handler reports as {"uploaded":"failed"} rather than an error.
	Update(ctx context.Context, itemID string, req domain.UpdateItemRequest) (bool, error)
	Delete(ctx context.Context, itemID string) error
	Search(ctx context.Context, c domain.SearchCriteria) ([]domain.Item, error)
}

type itemStore interface {
	Scan(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, itemID string) (*domain.Item, error)
	Put(ctx context.Context, it *domain.Item) error
	Update(ctx context.Context, itemID string, updates map[string]interface{}) (bool, error)
	Delete(ctx context.Context, itemID string) (int, error)
	MaxItemID(ctx context.Context) (int, error)
}

type giftStore interface {
	Search(ctx context.Context, c domain.SearchCriteria) ([]domain.Item, error)
}

type imageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	items  itemStore
	gifts  giftStore
	images imageStore
}

func NewService(items itemStore, gifts giftStore, images imageStore) Service {
	return &service{items: items, gifts: gifts, images: images}
}

func (s *service) List(ctx context.Context) ([]domain.Item, error) {
	return s.items.Scan(ctx)
}

func (s *service) Get(ctx context.Context, itemID string) (*domain.Item, error) {
	return s.items.Get(ctx, itemID)
}

func (s *service) Create(ctx context.Context, req domain.CreateItemRequest, image *ImageUpload) (*domain.Item, error) {
	maxID, err := s.items.MaxItemID(ctx)
	if err != nil {
		return nil, err
	}
	// An empty table yields max 0, so the first listing gets id "1".
	newID := strconv.Itoa(maxID + 1)

	it := &domain.Item{
		ItemID:      newID,
		Name:        req.Name,
		NameLC:      strings.ToLower(req.Name),
		Category:    req.Category,
		Condition:   req.Condition,
		Description: req.Description,
		AgeDays:     req.AgeDays,
		AgeYears:    ageYears(req.AgeDays),
		DateAdded:   time.Now().Unix(),
	}

	// The image lands before the insert; a failed insert leaves the object
	// orphaned (no cleanup path).
	if image != nil {
		key := fmt.Sprintf("images/%s-%s", newID, sanitizeFilename(image.Filename))
		url, err := s.images.Upload(ctx, key, image.Reader, image.ContentType)
		if err != nil {
			return nil, err
		}
		it.Image = url
	}

	if err := s.items.Put(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, itemID string, req domain.UpdateItemRequest) (bool, error) {
	if _, err := s.items.Get(ctx, itemID); err != nil {
		return false, err
	}
	return s.items.Update(ctx, itemID, map[string]interface{}{
		fieldCategory:    req.Category,
		fieldCondition:   req.Condition,
		fieldAgeDays:     req.AgeDays,
		fieldDescription: req.Description,
		fieldAgeYears:    ageYears(req.AgeDays),
		fieldUpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *service) Delete(ctx context.Context, itemID string) error {
	n, err := s.items.Delete(ctx, itemID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("item not found: %w", domain.ErrNotFound)
	}
	return nil
}

func (s *service) Search(ctx context.Context, c domain.SearchCriteria) ([]domain.Item, error) {
	return s.gifts.Search(ctx, c)
}

// ageYears derives age_years from age_days, rounded to one decimal place.
func ageYears(ageDays int) float64 {
	return math.Round(float64(ageDays)/365*10) / 10
}

// sanitizeFilename strips directory components and keeps only safe
// characters (alphanumeric, dot, dash, underscore) so a client-supplied
// filename cannot traverse paths or collide via exotic characters.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
