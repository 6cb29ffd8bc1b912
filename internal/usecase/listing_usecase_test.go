package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomlink/internal/domain/entity"
	"roomlink/internal/infrastructure/cache"
	"roomlink/internal/infrastructure/ratelimit"
	"roomlink/pkg/errors"
)

type memCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	versions map[string]int64
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, versions: map[string]int64{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Version(ctx context.Context, ns string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[ns], nil
}

func (c *memCache) Bump(ctx context.Context, ns string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[ns]++
	return nil
}

func (c *memCache) Close() error { return nil }

type countingListingRepo struct {
	*fakeListingRepo
	lists int
}

func (r *countingListingRepo) List(ctx context.Context, f entity.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	r.lists++
	return r.fakeListingRepo.List(ctx, f, limit, offset)
}

type listingFixture struct {
	*fixture
	repo    *countingListingRepo
	cache   *memCache
	limiter *fakeLimiter
	uc      *ListingUseCase
}

func newListingFixture() *listingFixture {
	f := newFixture()
	f.addUser("poster")
	f.addUser("viewer")
	f.addUser("admin", func(u *entity.User) { u.Role = entity.RoleAdmin })

	lf := &listingFixture{
		fixture: f,
		repo:    &countingListingRepo{fakeListingRepo: f.listings},
		cache:   newMemCache(),
		limiter: &fakeLimiter{deny: map[string]bool{}},
	}
	lf.uc = NewListingUseCase(lf.repo, f.users, &fakeUploader{}, lf.cache, time.Minute, lf.limiter, 2)
	return lf
}

func TestCreateListing_FreeLimitThenAdUnlock(t *testing.T) {
	lf := newListingFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		l, err := lf.uc.CreateListing(ctx, "poster", ListingInput{Title: " Studio ", Price: 100000, Location: "Yaba", Currency: "ngn"})
		require.NoError(t, err)
		assert.Equal(t, "Studio", l.Title)
		assert.Equal(t, "NGN", l.Currency)
		assert.NotNil(t, l.Images)
		assert.Equal(t, entity.ListingStatusActive, l.Status)
	}

	_, err := lf.uc.CreateListing(ctx, "poster", ListingInput{Title: "Third"})
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.CodePaymentRequired, appErr.Code)
	assert.Equal(t, 402, appErr.Status)

	lf.db.users["poster"].AdsPaid = true
	_, err = lf.uc.CreateListing(ctx, "poster", ListingInput{Title: "Third"})
	assert.NoError(t, err)
}

func TestCreateListing_HiddenListingsDontCountTowardsLimit(t *testing.T) {
	lf := newListingFixture()
	lf.addListing("a", "poster")
	lf.addListing("b", "poster", func(l *entity.Listing) { l.Hidden = true })

	_, err := lf.uc.CreateListing(context.Background(), "poster", ListingInput{Title: "ok"})
	assert.NoError(t, err)
}

func TestCreateListing_Rejections(t *testing.T) {
	lf := newListingFixture()
	ctx := context.Background()

	_, err := lf.uc.CreateListing(ctx, "poster", ListingInput{Title: "x", Images: make([]string, maxListingImages+1)})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	lf.limiter.deny[ratelimit.ActionCreateListing] = true
	_, err = lf.uc.CreateListing(ctx, "poster", ListingInput{Title: "x"})
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
}

func TestListListings_CachesUntilWrite(t *testing.T) {
	lf := newListingFixture()
	lf.addListing("a", "poster")
	ctx := context.Background()

	items, total, err := lf.uc.ListListings(ctx, "", entity.ListingFilter{Location: "Lagos"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)

	items, _, err = lf.uc.ListListings(ctx, "", entity.ListingFilter{Location: "Lagos"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 1, lf.repo.lists, "second read served from cache")

	// a different page is a different key
	_, _, err = lf.uc.ListListings(ctx, "", entity.ListingFilter{Location: "Lagos"}, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, lf.repo.lists)

	_, err = lf.uc.CreateListing(ctx, "poster", ListingInput{Title: "new", Location: "Lagos"})
	require.NoError(t, err)

	_, total, err = lf.uc.ListListings(ctx, "", entity.ListingFilter{Location: "Lagos"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, 3, lf.repo.lists)
}

func TestListListings_CacheKeyKeepsLocationCase(t *testing.T) {
	lf := newListingFixture()
	lf.addListing("a", "poster")
	ctx := context.Background()

	items, total, err := lf.uc.ListListings(ctx, "", entity.ListingFilter{Location: "lagos"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, items)

	items, total, err = lf.uc.ListListings(ctx, "", entity.ListingFilter{Location: " Lagos "}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 2, lf.repo.lists)

	// surrounding whitespace shares the trimmed key
	_, _, err = lf.uc.ListListings(ctx, "", entity.ListingFilter{Location: "Lagos"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, lf.repo.lists)
}

func TestListListings_HiddenOnlyForOwnQueries(t *testing.T) {
	lf := newListingFixture()
	lf.addListing("a", "poster")
	lf.addListing("b", "poster", func(l *entity.Listing) { l.Hidden = true })
	ctx := context.Background()

	_, total, err := lf.uc.ListListings(ctx, "viewer", entity.ListingFilter{PosterID: "poster", IncludeHidden: true}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = lf.uc.ListListings(ctx, "poster", entity.ListingFilter{PosterID: "poster", IncludeHidden: true}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, _, err = lf.uc.ListListings(ctx, "", entity.ListingFilter{MinPrice: 10, MaxPrice: 5}, 10, 0)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestGetListing_HiddenVisibility(t *testing.T) {
	lf := newListingFixture()
	lf.addListing("h", "poster", func(l *entity.Listing) { l.Hidden = true })
	ctx := context.Background()

	_, err := lf.uc.GetListing(ctx, nil, "h")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = lf.uc.GetListing(ctx, lf.user("viewer"), "h")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	for _, id := range []string{"poster", "admin"} {
		l, err := lf.uc.GetListing(ctx, lf.user(id), "h")
		require.NoError(t, err, id)
		assert.True(t, l.Hidden)
	}
}

func TestUpdateAndHideListing_Ownership(t *testing.T) {
	lf := newListingFixture()
	lf.addListing("a", "poster")
	ctx := context.Background()

	_, err := lf.uc.UpdateListing(ctx, lf.user("viewer"), "a", ListingInput{Title: "mine now"})
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	l, err := lf.uc.UpdateListing(ctx, lf.user("poster"), "a", ListingInput{Price: 75000, Amenities: []string{"wifi"}})
	require.NoError(t, err)
	assert.Equal(t, "Room a", l.Title)
	assert.Equal(t, 75000.0, l.Price)
	assert.Equal(t, []string{"wifi"}, l.Amenities)

	assert.True(t, errors.Is(lf.uc.SetHidden(ctx, lf.user("viewer"), "a", true), errors.CodeForbidden))
	require.NoError(t, lf.uc.SetHidden(ctx, lf.user("admin"), "a", true))
	stored, _ := lf.listings.GetByID(ctx, "a")
	assert.True(t, stored.Hidden)
	assert.Equal(t, entity.ListingStatusHidden, stored.Status)
}

func TestUploadListingImage(t *testing.T) {
	lf := newListingFixture()
	lf.addListing("a", "poster")
	ctx := context.Background()

	l, err := lf.uc.UploadImage(ctx, lf.user("poster"), "a", strings.NewReader("img"), "image/png")
	require.NoError(t, err)
	require.Len(t, l.Images, 1)
	assert.Contains(t, l.Images[0], "listings/a")

	_, err = lf.uc.UploadImage(ctx, lf.user("viewer"), "a", strings.NewReader("img"), "image/png")
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}
