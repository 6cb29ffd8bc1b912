package usecase

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/internal/infrastructure/cache"
	"roomlink/internal/infrastructure/ratelimit"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

const (
	listingCacheNamespace = "listings"
	maxListingImages      = 10
)

type ListingUseCase struct {
	listingRepo      repository.ListingRepository
	userRepo         repository.UserRepository
	uploader         service.FileUploadService
	cache            cache.Store
	cacheTTL         time.Duration
	limiter          ActionLimiter
	freeListingLimit int
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	uploader service.FileUploadService,
	store cache.Store,
	cacheTTL time.Duration,
	limiter ActionLimiter,
	freeListingLimit int,
) *ListingUseCase {
	if store == nil {
		store = cache.Noop{}
	}
	if limiter == nil {
		limiter = allowAll{}
	}
	return &ListingUseCase{
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		uploader:         uploader,
		cache:            store,
		cacheTTL:         cacheTTL,
		limiter:          limiter,
		freeListingLimit: freeListingLimit,
	}
}

type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Currency    string
	Location    string
	Images      []string
	Amenities   []string
	HouseRules  []string
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, posterID string, input ListingInput) (*entity.Listing, error) {
	if ok, wait := uc.limiter.Allow(posterID, ratelimit.ActionCreateListing); !ok {
		return nil, errors.TooManyRequests("You are posting too fast", wait)
	}

	poster, err := uc.userRepo.GetByID(ctx, posterID)
	if err != nil {
		return nil, err
	}

	if !poster.AdsPaid {
		active, err := uc.listingRepo.CountActiveByPoster(ctx, posterID)
		if err != nil {
			return nil, err
		}
		if active >= uc.freeListingLimit {
			return nil, errors.PaymentRequired("Free listing limit reached, unlock ads to post more")
		}
	}

	if len(input.Images) > maxListingImages {
		return nil, errors.BadRequest("Too many images", nil)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "NGN"
	}

	listing := &entity.Listing{
		PosterID:    posterID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Currency:    currency,
		Location:    strings.TrimSpace(input.Location),
		Images:      nonNil(input.Images),
		Amenities:   nonNil(input.Amenities),
		HouseRules:  nonNil(input.HouseRules),
		Status:      entity.ListingStatusActive,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)

	logger.Info("Listing %s created by %s", listing.ID, posterID)
	return listing, nil
}

// GetListing returns hidden listings to their poster and admins only.
func (uc *ListingUseCase) GetListing(ctx context.Context, viewer *entity.User, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Hidden && !canManage(viewer, listing) {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

type cachedPage struct {
	Items []*entity.Listing `json:"items"`
	Total int64             `json:"total"`
}

func (uc *ListingUseCase) ListListings(ctx context.Context, viewerID string, filter entity.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	if filter.IncludeHidden && (filter.PosterID == "" || filter.PosterID != viewerID) {
		filter.IncludeHidden = false
	}
	if filter.MinPrice > 0 && filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		return nil, 0, errors.BadRequest("minPrice cannot exceed maxPrice", nil)
	}
	// Location matches exactly in the store, so the key must not fold case.
	filter.Location = strings.TrimSpace(filter.Location)

	key, cacheable := uc.cacheKey(ctx, filter, limit, offset)
	if cacheable {
		if raw, err := uc.cache.Get(ctx, key); err == nil {
			var page cachedPage
			if err := json.Unmarshal(raw, &page); err == nil {
				return page.Items, page.Total, nil
			}
		} else if err != cache.ErrMiss {
			logger.Warn("Listing cache read failed: %v", err)
		}
	}

	items, total, err := uc.listingRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if raw, err := json.Marshal(cachedPage{Items: items, Total: total}); err == nil {
			if err := uc.cache.Set(ctx, key, raw, uc.cacheTTL); err != nil {
				logger.Warn("Listing cache write failed: %v", err)
			}
		}
	}
	return items, total, nil
}

// cacheKey skips the cache for a poster's view of their own hidden listings.
func (uc *ListingUseCase) cacheKey(ctx context.Context, filter entity.ListingFilter, limit, offset int) (string, bool) {
	if filter.IncludeHidden {
		return "", false
	}
	version, err := uc.cache.Version(ctx, listingCacheNamespace)
	if err != nil {
		logger.Warn("Listing cache version read failed: %v", err)
		return "", false
	}

	return cache.Key(listingCacheNamespace, version, map[string]string{
		"location": filter.Location,
		"poster":   filter.PosterID,
		"min":      strconv.FormatFloat(filter.MinPrice, 'f', -1, 64),
		"max":      strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64),
		"limit":    strconv.Itoa(limit),
		"offset":   strconv.Itoa(offset),
	}), true
}

func (uc *ListingUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Bump(ctx, listingCacheNamespace); err != nil {
		logger.Warn("Listing cache invalidation failed: %v", err)
	}
}

// Invalidate drops every cached listing page.
func (uc *ListingUseCase) Invalidate(ctx context.Context) {
	uc.invalidate(ctx)
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, actor *entity.User, id string, input ListingInput) (*entity.Listing, error) {
	listing, err := uc.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.Title); v != "" {
		listing.Title = v
	}
	if v := strings.TrimSpace(input.Description); v != "" {
		listing.Description = v
	}
	if input.Price > 0 {
		listing.Price = input.Price
	}
	if v := strings.ToUpper(strings.TrimSpace(input.Currency)); v != "" {
		listing.Currency = v
	}
	if v := strings.TrimSpace(input.Location); v != "" {
		listing.Location = v
	}
	if input.Images != nil {
		if len(input.Images) > maxListingImages {
			return nil, errors.BadRequest("Too many images", nil)
		}
		listing.Images = input.Images
	}
	if input.Amenities != nil {
		listing.Amenities = input.Amenities
	}
	if input.HouseRules != nil {
		listing.HouseRules = input.HouseRules
	}

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return listing, nil
}

func (uc *ListingUseCase) SetHidden(ctx context.Context, actor *entity.User, id string, hidden bool) error {
	if _, err := uc.manageable(ctx, actor, id); err != nil {
		return err
	}
	if err := uc.listingRepo.SetHidden(ctx, id, hidden); err != nil {
		return err
	}
	uc.invalidate(ctx)

	logger.Info("Listing %s hidden=%t by %s", id, hidden, actor.ID)
	return nil
}

func (uc *ListingUseCase) UploadImage(ctx context.Context, actor *entity.User, id string, file io.Reader, contentType string) (*entity.Listing, error) {
	if uc.uploader == nil {
		return nil, errors.Internal("File storage is not configured", nil)
	}

	listing, err := uc.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if len(listing.Images) >= maxListingImages {
		return nil, errors.BadRequest("Too many images", nil)
	}

	url, err := uc.uploader.UploadFile(ctx, file, contentType, "listings/"+id, true)
	if err != nil {
		return nil, uploadError(err)
	}

	listing.Images = append(listing.Images, url)
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return listing, nil
}

func (uc *ListingUseCase) manageable(ctx context.Context, actor *entity.User, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, listing) {
		return nil, errors.Forbidden("Only the poster can change this listing", nil)
	}
	return listing, nil
}

func canManage(actor *entity.User, listing *entity.Listing) bool {
	if actor == nil {
		return false
	}
	return actor.ID == listing.PosterID || actor.IsAdmin()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
