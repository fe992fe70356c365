package marketplace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"recycle-connect-api-server/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory stores ---

type fakeListingStore struct {
	listings []models.Listing
	failWith error
}

func (s *fakeListingStore) GetListing(_ context.Context, listingID string) (*models.Listing, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for i := range s.listings {
		if s.listings[i].ListingID == listingID {
			l := s.listings[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (s *fakeListingStore) ListListings(_ context.Context, pred ListingPredicate) ([]models.Listing, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []models.Listing
	for _, l := range s.listings {
		if pred.Category != "" && l.Category != pred.Category {
			continue
		}
		if pred.Search != "" {
			needle := strings.ToLower(pred.Search)
			if !strings.Contains(strings.ToLower(l.Title), needle) &&
				!strings.Contains(strings.ToLower(l.Description), needle) {
				continue
			}
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakePurchaseStore struct {
	purchases map[string]models.PurchaseRequest
	failWith  error
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{purchases: map[string]models.PurchaseRequest{}}
}

func (s *fakePurchaseStore) InsertPurchase(_ context.Context, p models.PurchaseRequest) (*models.PurchaseRequest, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.purchases[p.PurchaseID] = p
	return &p, nil
}

func (s *fakePurchaseStore) GetPurchase(_ context.Context, purchaseID string) (*models.PurchaseRequest, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	p, ok := s.purchases[purchaseID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *fakePurchaseStore) UpdateStatusFromPending(_ context.Context, purchaseID, status string) (*models.PurchaseRequest, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	p, ok := s.purchases[purchaseID]
	if !ok || p.Status != models.PurchasePending {
		return nil, nil
	}
	p.Status = status
	s.purchases[purchaseID] = p
	return &p, nil
}

func (s *fakePurchaseStore) ListPurchasesByBuyer(_ context.Context, buyerID string) ([]models.PurchaseRequest, error) {
	return s.listBy(func(p models.PurchaseRequest) bool { return p.BuyerID == buyerID })
}

func (s *fakePurchaseStore) ListPurchasesBySeller(_ context.Context, sellerID string) ([]models.PurchaseRequest, error) {
	return s.listBy(func(p models.PurchaseRequest) bool { return p.SellerID == sellerID })
}

func (s *fakePurchaseStore) listBy(match func(models.PurchaseRequest) bool) ([]models.PurchaseRequest, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []models.PurchaseRequest
	for _, p := range s.purchases {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- Fixtures ---

func testListing(id, sellerID, category, title, description, quantity, unit, price string, createdAt time.Time) models.Listing {
	return models.Listing{
		ListingID:   id,
		SellerID:    sellerID,
		Title:       title,
		Description: description,
		Category:    category,
		Quantity:    models.MustDecimal(quantity),
		Unit:        unit,
		Price:       models.MustDecimal(price),
		Status:      models.ListingAvailable,
		CreatedAt:   createdAt,
	}
}

func browseFixture() *fakeListingStore {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeListingStore{listings: []models.Listing{
		testListing("LST-glass", "USR-seller", "Glass", "50kg Mixed Glass Bottles", "Assorted glass bottles, rinsed and sorted by color.", "50", "kg", "15.00", base),
		testListing("LST-crates", "USR-seller", "Plastic", "100 Plastic Crates", "High density polyethylene crates. Good condition.", "100", "units", "200.00", base.Add(1*time.Hour)),
		testListing("LST-copper", "USR-seller", "Metal", "Copper Wire Offcuts", "Clean copper offcuts from electrical work.", "12.5", "kg", "95.50", base.Add(2*time.Hour)),
		testListing("LST-paper", "USR-seller", "Paper", "Office Paper Bales", "Sorted white office paper, baled.", "2", "tons", "80.00", base.Add(3*time.Hour)),
	}}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// --- ListingQueryEngine ---

func TestSearchNoFiltersReturnsAllNewestFirst(t *testing.T) {
	engine := NewListingQueryEngine(browseFixture())

	results, err := engine.Search(context.Background(), ListingFilters{})
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i := 1; i < len(results); i++ {
		assert.False(t, results[i].CreatedAt.After(results[i-1].CreatedAt), "results must be sorted newest first")
	}
	assert.Equal(t, "LST-paper", results[0].ListingID)
	assert.Equal(t, "LST-glass", results[3].ListingID)
}

func TestSearchCategoryExactMatch(t *testing.T) {
	engine := NewListingQueryEngine(browseFixture())

	results, err := engine.Search(context.Background(), ListingFilters{Category: "Plastic"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "LST-crates", results[0].ListingID)

	// Category so sánh chính xác, không substring, không bỏ qua hoa thường.
	results, err = engine.Search(context.Background(), ListingFilters{Category: "plastic"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = engine.Search(context.Background(), ListingFilters{Category: "Plas"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchUnknownCategoryYieldsEmptyNotError(t *testing.T) {
	engine := NewListingQueryEngine(browseFixture())

	results, err := engine.Search(context.Background(), ListingFilters{Category: "Uranium"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTextIsCaseInsensitiveOverTitleAndDescription(t *testing.T) {
	engine := NewListingQueryEngine(browseFixture())

	results, err := engine.Search(context.Background(), ListingFilters{Search: "GLASS"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "LST-glass", results[0].ListingID)

	// Khớp trên description.
	results, err = engine.Search(context.Background(), ListingFilters{Search: "polyethylene"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "LST-crates", results[0].ListingID)
}

func TestSearchPriceRangeInclusiveBounds(t *testing.T) {
	engine := NewListingQueryEngine(browseFixture())

	// Biên bao gồm: 15.00 và 95.50 đều khớp [15.00, 95.50].
	results, err := engine.Search(context.Background(), ListingFilters{MinPrice: dec("15.00"), MaxPrice: dec("95.50")})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, l := range results {
		assert.True(t, l.Price.Cmp(decimal.RequireFromString("15.00")) >= 0)
		assert.True(t, l.Price.Cmp(decimal.RequireFromString("95.50")) <= 0)
	}
}

func TestSearchMinGreaterThanMaxYieldsEmptyNotError(t *testing.T) {
	engine := NewListingQueryEngine(browseFixture())

	results, err := engine.Search(context.Background(), ListingFilters{MinPrice: dec("100"), MaxPrice: dec("50")})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = engine.Search(context.Background(), ListingFilters{MinQuantity: dec("100"), MaxQuantity: dec("1")})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchZeroIsARealBoundNotUnset(t *testing.T) {
	engine := NewListingQueryEngine(browseFixture())

	// maxPrice=0 là một cận thật: không listing nào miễn phí → rỗng.
	results, err := engine.Search(context.Background(), ListingFilters{MaxPrice: dec("0")})
	require.NoError(t, err)
	assert.Empty(t, results)

	// minPrice=0 cũng là cận thật nhưng mọi listing đều thỏa.
	results, err = engine.Search(context.Background(), ListingFilters{MinPrice: dec("0")})
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestSearchQuantityRangeCombinedWithCategory(t *testing.T) {
	engine := NewListingQueryEngine(browseFixture())

	results, err := engine.Search(context.Background(), ListingFilters{
		Category:    "Metal",
		MinQuantity: dec("10"),
		MaxQuantity: dec("12.5"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "LST-copper", results[0].ListingID)
}

func TestSearchResultsAreSubsetOfStore(t *testing.T) {
	store := browseFixture()
	engine := NewListingQueryEngine(store)

	filterSets := []ListingFilters{
		{},
		{Category: "Glass"},
		{Search: "paper"},
		{MinPrice: dec("50")},
		{MaxQuantity: dec("60"), Search: "o"},
	}
	known := map[string]bool{}
	for _, l := range store.listings {
		known[l.ListingID] = true
	}
	for _, filters := range filterSets {
		results, err := engine.Search(context.Background(), filters)
		require.NoError(t, err)
		for _, l := range results {
			assert.True(t, known[l.ListingID], "result %s must come from the store", l.ListingID)
		}
	}
}

func TestSearchStoreFailureIsStorageError(t *testing.T) {
	engine := NewListingQueryEngine(&fakeListingStore{failWith: errors.New("connection refused")})

	_, err := engine.Search(context.Background(), ListingFilters{})
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
}

// --- PurchaseLifecycleManager ---

func newManager(listings *fakeListingStore) (*PurchaseLifecycleManager, *fakePurchaseStore) {
	purchases := newFakePurchaseStore()
	return NewPurchaseLifecycleManager(listings, purchases), purchases
}

func TestCreatePurchaseRequestHappyPath(t *testing.T) {
	manager, _ := newManager(browseFixture())

	p, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("10"))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, models.PurchasePending, p.Status)
	assert.Equal(t, "USR-buyer", p.BuyerID)
	assert.Equal(t, "USR-seller", p.SellerID, "sellerID must be copied from the listing")
	assert.Equal(t, "LST-glass", p.ListingID)
	// 10 * (15.00 / 50) = 3.00
	assert.True(t, p.TotalPrice.Equal(decimal.RequireFromString("3.00")), "got %s", p.TotalPrice)
}

func TestCreatePurchaseRequestListingNotFound(t *testing.T) {
	manager, _ := newManager(browseFixture())

	_, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-missing", decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestCreatePurchaseRequestQuantityMustBePositive(t *testing.T) {
	manager, _ := newManager(browseFixture())

	_, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.Zero)
	assert.ErrorIs(t, err, ErrQuantityNotPositive)

	_, err = manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("-3"))
	assert.ErrorIs(t, err, ErrQuantityNotPositive)
}

func TestCreatePurchaseRequestFullQuantityAllowed(t *testing.T) {
	manager, _ := newManager(browseFixture())

	// Mua đúng toàn bộ 50kg: biên bằng nhau được phép.
	p, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("50"))
	require.NoError(t, err)
	assert.True(t, p.TotalPrice.Equal(decimal.RequireFromString("15.00")), "got %s", p.TotalPrice)
}

func TestCreatePurchaseRequestJustOverQuantityFails(t *testing.T) {
	manager, _ := newManager(browseFixture())

	_, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("50.01"))
	assert.ErrorIs(t, err, ErrQuantityExceedsStock)
}

func TestTotalPriceHasNoFloatDrift(t *testing.T) {
	// Listing 200.00 cho 100 units → đơn giá đúng 2.00.
	manager, _ := newManager(browseFixture())
	perUnit := decimal.RequireFromString("2.00")

	for i := 1; i <= 100; i++ {
		q := decimal.New(int64(i), -1) // 0.1, 0.2, ... 10.0
		p, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-crates", q)
		require.NoError(t, err)
		assert.True(t, p.TotalPrice.Equal(q.Mul(perUnit)),
			"quantity %s: expected %s, got %s", q, q.Mul(perUnit), p.TotalPrice)
	}
}

func TestUpdateStatusAccept(t *testing.T) {
	manager, _ := newManager(browseFixture())

	p, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("10"))
	require.NoError(t, err)

	updated, err := manager.UpdateStatus(context.Background(), "USR-seller", p.PurchaseID, models.PurchaseAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseAccepted, updated.Status)
	// TotalPrice không được tính lại khi chuyển trạng thái.
	assert.True(t, updated.TotalPrice.Equal(decimal.RequireFromString("3.00")))
}

func TestUpdateStatusNotFound(t *testing.T) {
	manager, _ := newManager(browseFixture())

	_, err := manager.UpdateStatus(context.Background(), "USR-seller", "PUR-missing", models.PurchaseAccepted)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestUpdateStatusOnlyBySellerOfThePurchase(t *testing.T) {
	manager, store := newManager(browseFixture())

	p, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("5"))
	require.NoError(t, err)

	// Buyer tự accept đơn của mình: bị cấm.
	_, err = manager.UpdateStatus(context.Background(), "USR-buyer", p.PurchaseID, models.PurchaseAccepted)
	assert.ErrorIs(t, err, ErrNotSeller)

	// Một seller khác cũng bị cấm.
	_, err = manager.UpdateStatus(context.Background(), "USR-other-seller", p.PurchaseID, models.PurchaseRejected)
	assert.ErrorIs(t, err, ErrNotSeller)

	// Và trạng thái phải còn nguyên PENDING sau các lần thử.
	current, err := store.GetPurchase(context.Background(), p.PurchaseID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchasePending, current.Status)
}

func TestUpdateStatusRejectsMalformedStatus(t *testing.T) {
	manager, _ := newManager(browseFixture())

	p, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("5"))
	require.NoError(t, err)

	for _, bad := range []string{"PENDING", "accepted", "CANCELLED", ""} {
		_, err = manager.UpdateStatus(context.Background(), "USR-seller", p.PurchaseID, bad)
		assert.ErrorIs(t, err, ErrInvalidStatus, "status %q must be rejected", bad)
	}
}

func TestUpdateStatusTerminalStatesAreFinal(t *testing.T) {
	manager, store := newManager(browseFixture())

	p, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("5"))
	require.NoError(t, err)

	_, err = manager.UpdateStatus(context.Background(), "USR-seller", p.PurchaseID, models.PurchaseAccepted)
	require.NoError(t, err)

	// Đã ACCEPTED thì không lật sang REJECTED được nữa.
	_, err = manager.UpdateStatus(context.Background(), "USR-seller", p.PurchaseID, models.PurchaseRejected)
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	current, err := store.GetPurchase(context.Background(), p.PurchaseID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseAccepted, current.Status)
}

func TestListPurchasesNewestFirstPerSide(t *testing.T) {
	manager, store := newManager(browseFixture())

	// Chèn trực tiếp để kiểm soát createdAt.
	base := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.InsertPurchase(context.Background(), models.PurchaseRequest{
			PurchaseID: fmt.Sprintf("PUR-%d", i),
			ListingID:  "LST-glass",
			BuyerID:    "USR-buyer",
			SellerID:   "USR-seller",
			Quantity:   models.MustDecimal("1"),
			TotalPrice: models.MustDecimal("0.30"),
			Status:     models.PurchasePending,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	bought, err := manager.ListPurchasesForBuyer(context.Background(), "USR-buyer")
	require.NoError(t, err)
	require.Len(t, bought, 3)
	assert.Equal(t, "PUR-2", bought[0].PurchaseID)

	sold, err := manager.ListPurchasesForSeller(context.Background(), "USR-seller")
	require.NoError(t, err)
	require.Len(t, sold, 3)
	assert.Equal(t, "PUR-0", sold[2].PurchaseID)

	none, err := manager.ListPurchasesForBuyer(context.Background(), "USR-nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPurchaseStoreFailureIsStorageError(t *testing.T) {
	listings := browseFixture()
	purchases := newFakePurchaseStore()
	purchases.failWith = errors.New("no reachable servers")
	manager := NewPurchaseLifecycleManager(listings, purchases)

	_, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("1"))
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
}

func TestEndToEndGlassBottlesScenario(t *testing.T) {
	// Listing 15.00 cho 50kg → buyer mua 10kg → 3.00 PENDING → seller accept.
	manager, _ := newManager(browseFixture())

	p, err := manager.CreatePurchaseRequest(context.Background(), "USR-buyer", "LST-glass", decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.True(t, p.Quantity.Equal(decimal.RequireFromString("10")))
	assert.True(t, p.TotalPrice.Equal(decimal.RequireFromString("3.00")))
	assert.Equal(t, models.PurchasePending, p.Status)

	accepted, err := manager.UpdateStatus(context.Background(), "USR-seller", p.PurchaseID, models.PurchaseAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseAccepted, accepted.Status)
	assert.True(t, accepted.TotalPrice.Equal(decimal.RequireFromString("3.00")), "total price must not change on acceptance")
}
