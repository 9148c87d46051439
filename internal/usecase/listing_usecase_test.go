package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"alx_travel_app/internal/domain/entities"
	mock_interfaces "alx_travel_app/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

var owner = entities.Requester{ID: "owner-1", Email: "owner@example.com"}

func validListingInput() ListingInput {
	return ListingInput{
		Title:     " Lake House ",
		Price:     "100.00",
		Location:  "Bishoftu",
		Type:      entities.ListingTypeVilla,
		Bedrooms:  2,
		Bathrooms: 1,
		MaxGuests: 4,
		Amenities: []string{"wifi", " WiFi", "", "pool"},
	}
}

func TestListingUseCase_Create(t *testing.T) {
	t.Run("validation errors", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*ListingInput)
		}{
			{name: "empty title", mutate: func(in *ListingInput) { in.Title = "" }},
			{name: "empty location", mutate: func(in *ListingInput) { in.Location = " " }},
			{name: "unknown type", mutate: func(in *ListingInput) { in.Type = "castle" }},
			{name: "bad price", mutate: func(in *ListingInput) { in.Price = "1.234" }},
			{name: "negative price", mutate: func(in *ListingInput) { in.Price = "-5" }},
			{name: "no guests", mutate: func(in *ListingInput) { in.MaxGuests = 0 }},
			{name: "negative bedrooms", mutate: func(in *ListingInput) { in.Bedrooms = -1 }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				uc := NewListingUseCase(nil, nil, "ETB")
				in := validListingInput()
				tc.mutate(&in)
				_, err := uc.Create(context.Background(), in, owner)
				if !errors.Is(err, ErrInvalidListing) {
					t.Fatalf("expected ErrInvalidListing, got %v", err)
				}
			})
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		uc := NewListingUseCase(repo, nil, "etb")

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l entities.Listing) (entities.Listing, error) {
			return l, nil
		})

		l, err := uc.Create(context.Background(), validListingInput(), owner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if l.ID == "" || l.OwnerID != "owner-1" || !l.IsAvailable {
			t.Fatalf("unexpected listing %+v", l)
		}
		if l.Title != "Lake House" || l.Price.String() != "100.00 ETB" {
			t.Fatalf("unexpected normalized fields %q %s", l.Title, l.Price)
		}
		if len(l.Amenities) != 2 || l.Amenities[0] != "wifi" || l.Amenities[1] != "pool" {
			t.Fatalf("unexpected amenities %v", l.Amenities)
		}
	})
}

func TestListingUseCase_UpdateDelete_OwnerOnly(t *testing.T) {
	existing := availableListing()

	t.Run("update by stranger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		uc := NewListingUseCase(repo, nil, "ETB")
		repo.EXPECT().GetByID(gomock.Any(), "l-1").Return(existing, nil)

		_, err := uc.Update(context.Background(), "l-1", validListingInput(), guest)
		if !errors.Is(err, ErrListingForbidden) {
			t.Fatalf("expected ErrListingForbidden, got %v", err)
		}
	})

	t.Run("update by owner toggles availability", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		uc := NewListingUseCase(repo, nil, "ETB")
		repo.EXPECT().GetByID(gomock.Any(), "l-1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l entities.Listing) (entities.Listing, error) {
			return l, nil
		})

		off := false
		in := validListingInput()
		in.IsAvailable = &off
		l, err := uc.Update(context.Background(), "l-1", in, owner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if l.IsAvailable || l.ID != "l-1" || l.Type != entities.ListingTypeVilla {
			t.Fatalf("unexpected listing %+v", l)
		}
	})

	t.Run("delete missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		uc := NewListingUseCase(repo, nil, "ETB")
		repo.EXPECT().GetByID(gomock.Any(), "l-404").Return(entities.Listing{}, nil)

		if err := uc.Delete(context.Background(), "l-404", owner); !errors.Is(err, ErrListingNotFound) {
			t.Fatalf("expected ErrListingNotFound, got %v", err)
		}
	})

	t.Run("delete by owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		uc := NewListingUseCase(repo, nil, "ETB")
		repo.EXPECT().GetByID(gomock.Any(), "l-1").Return(existing, nil)
		repo.EXPECT().Delete(gomock.Any(), "l-1").Return(nil)

		if err := uc.Delete(context.Background(), "l-1", owner); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestListingUseCase_Search(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var all []entities.Listing
	for i := 0; i < 12; i++ {
		all = append(all, entities.Listing{
			ID:          fmt.Sprintf("l-%02d", i),
			Title:       fmt.Sprintf("Cabin %d", i),
			Location:    "Addis Ababa",
			Type:        entities.ListingTypeCabin,
			IsAvailable: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	all = append(all, entities.Listing{ID: "hotel", Title: "Grand", Location: "Gondar", Type: entities.ListingTypeHotel, IsAvailable: true, CreatedAt: base})

	t.Run("first page newest first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		uc := NewListingUseCase(repo, nil, "ETB")
		repo.EXPECT().ListAvailable(gomock.Any()).Return(append([]entities.Listing(nil), all...), nil)

		page, err := uc.Search(context.Background(), "", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Page != 1 || page.Total != 13 || len(page.Items) != ListingPageSize || !page.HasNext {
			t.Fatalf("unexpected page %+v", page)
		}
		if page.Items[0].ID != "l-11" {
			t.Fatalf("expected newest first, got %s", page.Items[0].ID)
		}
	})

	t.Run("query matches type case-insensitively", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		uc := NewListingUseCase(repo, nil, "ETB")
		repo.EXPECT().ListAvailable(gomock.Any()).Return(append([]entities.Listing(nil), all...), nil)

		page, err := uc.Search(context.Background(), "HOTEL", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Total != 1 || page.Items[0].ID != "hotel" || page.HasNext {
			t.Fatalf("unexpected page %+v", page)
		}
	})

	t.Run("page past the end", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		uc := NewListingUseCase(repo, nil, "ETB")
		repo.EXPECT().ListAvailable(gomock.Any()).Return(append([]entities.Listing(nil), all...), nil)

		page, err := uc.Search(context.Background(), "cabin", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Items) != 0 || page.Total != 12 {
			t.Fatalf("unexpected page %+v", page)
		}
	})
}

func TestListingUseCase_UploadImage(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		uc := NewListingUseCase(nil, nil, "ETB")
		_, err := uc.UploadImage(context.Background(), "l-1", owner, "a.png", "image/png", strings.NewReader("x"))
		if !errors.Is(err, ErrImageStorageNotSet) {
			t.Fatalf("expected ErrImageStorageNotSet, got %v", err)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := NewListingUseCase(mock_interfaces.NewMockIListingRepository(ctrl), mock_interfaces.NewMockIImageStorage(ctrl), "ETB")
		_, err := uc.UploadImage(context.Background(), "l-1", owner, "a.txt", "text/plain", strings.NewReader("x"))
		if !errors.Is(err, ErrInvalidImage) {
			t.Fatalf("expected ErrInvalidImage, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIListingRepository(ctrl)
		images := mock_interfaces.NewMockIImageStorage(ctrl)
		uc := NewListingUseCase(repo, images, "ETB")

		repo.EXPECT().GetByID(gomock.Any(), "l-1").Return(availableListing(), nil)
		images.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), "image/png").DoAndReturn(func(_ context.Context, key string, r io.Reader, _ string) (string, error) {
			if !strings.HasPrefix(key, "listings/l-1/") || !strings.HasSuffix(key, ".png") {
				t.Fatalf("unexpected key %q", key)
			}
			return "https://cdn.example.com/" + key, nil
		})
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l entities.Listing) (entities.Listing, error) {
			return l, nil
		})

		l, err := uc.UploadImage(context.Background(), "l-1", owner, "Photo.PNG", "image/png", strings.NewReader("png"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(l.ImageURL, "https://cdn.example.com/listings/l-1/") {
			t.Fatalf("unexpected image url %q", l.ImageURL)
		}
	})
}
