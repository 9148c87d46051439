package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/domain/money"
	"alx_travel_app/internal/usecase/interfaces"

	"github.com/google/uuid"
)

const ListingPageSize = 10

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrListingForbidden   = errors.New("listing belongs to another user")
	ErrInvalidListing     = errors.New("invalid listing")
	ErrInvalidListingID   = errors.New("invalid listing_id")
	ErrInvalidImage       = errors.New("invalid listing image")
	ErrImageStorageNotSet = errors.New("image storage not configured")
)

// ListingInput carries the editable listing fields. Price is a decimal
// string in the service currency. IsAvailable is only honoured on update.
type ListingInput struct {
	Title       string
	Description string
	Price       string
	Location    string
	Type        entities.ListingType
	Bedrooms    int
	Bathrooms   int
	MaxGuests   int
	Amenities   []string
	IsAvailable *bool
}

type ListingPage struct {
	Items    []entities.Listing
	Page     int
	PageSize int
	Total    int
	HasNext  bool
}

type IListingUseCase interface {
	Create(ctx context.Context, in ListingInput, requester entities.Requester) (entities.Listing, error)
	Update(ctx context.Context, id string, in ListingInput, requester entities.Requester) (entities.Listing, error)
	Delete(ctx context.Context, id string, requester entities.Requester) error
	GetByID(ctx context.Context, id string) (entities.Listing, error)
	Search(ctx context.Context, query string, page int) (ListingPage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Listing, error)
	UploadImage(ctx context.Context, id string, requester entities.Requester, filename, contentType string, body io.Reader) (entities.Listing, error)
}

type ListingUseCase struct {
	repo     interfaces.IListingRepository
	images   interfaces.IImageStorage
	currency string
	now      func() time.Time
}

var _ IListingUseCase = (*ListingUseCase)(nil)

// NewListingUseCase builds the listing use case. images may be nil, in which
// case UploadImage reports ErrImageStorageNotSet.
func NewListingUseCase(repo interfaces.IListingRepository, images interfaces.IImageStorage, currency string) *ListingUseCase {
	return &ListingUseCase{
		repo:     repo,
		images:   images,
		currency: strings.ToUpper(strings.TrimSpace(currency)),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *ListingUseCase) Create(ctx context.Context, in ListingInput, requester entities.Requester) (entities.Listing, error) {
	if requester.IsZero() {
		return entities.Listing{}, ErrRequesterRequired
	}
	l := entities.Listing{
		ID:          uuid.NewString(),
		OwnerID:     requester.ID,
		IsAvailable: true,
	}
	if err := u.apply(&l, in); err != nil {
		return entities.Listing{}, err
	}
	now := u.now()
	l.CreatedAt = now
	l.UpdatedAt = now

	created, err := u.repo.Create(ctx, l)
	if err != nil {
		slog.ErrorContext(ctx, "[listing][usecase] repository create failed", "owner_id", requester.ID, "err", err)
		return entities.Listing{}, err
	}
	slog.InfoContext(ctx, "[listing][usecase] created", "listing_id", created.ID, "owner_id", created.OwnerID)
	return created, nil
}

func (u *ListingUseCase) Update(ctx context.Context, id string, in ListingInput, requester entities.Requester) (entities.Listing, error) {
	l, err := u.owned(ctx, id, requester)
	if err != nil {
		return entities.Listing{}, err
	}
	if err := u.apply(&l, in); err != nil {
		return entities.Listing{}, err
	}
	if in.IsAvailable != nil {
		l.IsAvailable = *in.IsAvailable
	}
	l.UpdatedAt = u.now()
	return u.repo.Update(ctx, l)
}

func (u *ListingUseCase) Delete(ctx context.Context, id string, requester entities.Requester) error {
	l, err := u.owned(ctx, id, requester)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, l.ID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "[listing][usecase] deleted", "listing_id", l.ID)
	return nil
}

func (u *ListingUseCase) GetByID(ctx context.Context, id string) (entities.Listing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Listing{}, ErrInvalidListingID
	}
	l, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Listing{}, err
	}
	if l.ID == "" {
		return entities.Listing{}, ErrListingNotFound
	}
	return l, nil
}

// Search returns available listings matching query, newest first.
// Pages start at 1; a page past the end is empty.
func (u *ListingUseCase) Search(ctx context.Context, query string, page int) (ListingPage, error) {
	if page < 1 {
		page = 1
	}
	all, err := u.repo.ListAvailable(ctx)
	if err != nil {
		return ListingPage{}, err
	}

	matched := make([]entities.Listing, 0, len(all))
	for _, l := range all {
		if l.IsAvailable && l.Matches(query) {
			matched = append(matched, l)
		}
	}
	sortNewestFirst(matched)

	res := ListingPage{Page: page, PageSize: ListingPageSize, Total: len(matched), Items: []entities.Listing{}}
	start := (page - 1) * ListingPageSize
	if start >= len(matched) {
		return res, nil
	}
	end := min(start+ListingPageSize, len(matched))
	res.Items = matched[start:end]
	res.HasNext = end < len(matched)
	return res, nil
}

func (u *ListingUseCase) ListByOwner(ctx context.Context, ownerID string) ([]entities.Listing, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrRequesterRequired
	}
	items, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

func (u *ListingUseCase) UploadImage(ctx context.Context, id string, requester entities.Requester, filename, contentType string, body io.Reader) (entities.Listing, error) {
	if u.images == nil {
		return entities.Listing{}, ErrImageStorageNotSet
	}
	if body == nil || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return entities.Listing{}, fmt.Errorf("%w: content type %q", ErrInvalidImage, contentType)
	}
	l, err := u.owned(ctx, id, requester)
	if err != nil {
		return entities.Listing{}, err
	}

	key := fmt.Sprintf("listings/%s/%s%s", l.ID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := u.images.Upload(ctx, key, body, contentType)
	if err != nil {
		slog.ErrorContext(ctx, "[listing][usecase] image upload failed", "listing_id", l.ID, "err", err)
		return entities.Listing{}, err
	}
	l.ImageURL = url
	l.UpdatedAt = u.now()
	return u.repo.Update(ctx, l)
}

func (u *ListingUseCase) owned(ctx context.Context, id string, requester entities.Requester) (entities.Listing, error) {
	if requester.IsZero() {
		return entities.Listing{}, ErrRequesterRequired
	}
	l, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Listing{}, err
	}
	if l.OwnerID != requester.ID {
		return entities.Listing{}, ErrListingForbidden
	}
	return l, nil
}

func (u *ListingUseCase) apply(l *entities.Listing, in ListingInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidListing)
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidListing)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown listing_type %q", ErrInvalidListing, in.Type)
	}
	if in.Bedrooms < 0 || in.Bathrooms < 0 {
		return fmt.Errorf("%w: bedrooms and bathrooms must not be negative", ErrInvalidListing)
	}
	if in.MaxGuests < 1 {
		return fmt.Errorf("%w: max_guests must be at least 1", ErrInvalidListing)
	}
	price, err := money.Parse(in.Price, u.currency)
	if err != nil {
		return fmt.Errorf("%w: price: %v", ErrInvalidListing, err)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidListing)
	}

	l.Title = title
	l.Description = strings.TrimSpace(in.Description)
	l.Price = price
	l.Location = location
	l.Type = in.Type
	l.Bedrooms = in.Bedrooms
	l.Bathrooms = in.Bathrooms
	l.MaxGuests = in.MaxGuests
	l.Amenities = normalizeAmenities(in.Amenities)
	return nil
}

func normalizeAmenities(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

func sortNewestFirst(items []entities.Listing) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
