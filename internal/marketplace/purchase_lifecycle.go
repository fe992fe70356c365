// server/internal/marketplace/purchase_lifecycle.go
package marketplace

import (
	"context"
	"fmt"
	"time"

	"recycle-connect-api-server/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseLifecycleManager quản lý vòng đời của purchase request:
//
//	(none) --CreatePurchaseRequest--> PENDING --UpdateStatus--> ACCEPTED | REJECTED
//
// ACCEPTED/REJECTED là trạng thái kết thúc. Purchase không bao giờ bị xóa.
// Listing KHÔNG bị trừ số lượng khi tạo request — request chưa ràng buộc
// cho tới khi seller chấp nhận, nên hai buyer có thể cùng đặt vượt tổng
// số lượng còn lại. Đây là hành vi chủ đích.
type PurchaseLifecycleManager struct {
	listings  ListingStore
	purchases PurchaseStore
}

func NewPurchaseLifecycleManager(listings ListingStore, purchases PurchaseStore) *PurchaseLifecycleManager {
	return &PurchaseLifecycleManager{listings: listings, purchases: purchases}
}

// CreatePurchaseRequest validate số lượng theo listing hiện tại, chốt tổng
// giá từ đơn giá suy ra (price/quantity của listing) rồi lưu ở trạng thái
// PENDING. TotalPrice sau đó là bất biến.
func (m *PurchaseLifecycleManager) CreatePurchaseRequest(ctx context.Context, buyerID, listingID string, quantity decimal.Decimal) (*models.PurchaseRequest, error) {
	if quantity.Sign() <= 0 {
		return nil, ErrQuantityNotPositive
	}

	listing, err := m.listings.GetListing(ctx, listingID)
	if err != nil {
		return nil, storageErr(err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	// Biên bằng nhau hợp lệ: mua đúng toàn bộ số lượng đăng bán được phép.
	if quantity.Cmp(listing.Quantity.Decimal) > 0 {
		return nil, ErrQuantityExceedsStock
	}

	pricePerUnit := listing.Price.Div(listing.Quantity.Decimal)
	totalPrice := quantity.Mul(pricePerUnit)

	purchase := models.PurchaseRequest{
		PurchaseID: fmt.Sprintf("PUR-%s", uuid.New().String()[:8]),
		ListingID:  listing.ListingID,
		BuyerID:    buyerID,
		SellerID:   listing.SellerID, // copy tại thời điểm tạo
		Quantity:   models.NewDecimal(quantity),
		TotalPrice: models.NewDecimal(totalPrice),
		Status:     models.PurchasePending,
		CreatedAt:  time.Now(),
	}

	created, err := m.purchases.InsertPurchase(ctx, purchase)
	if err != nil {
		return nil, storageErr(err)
	}
	return created, nil
}

// UpdateStatus là chuyển tiếp duy nhất được phép trên một purchase:
// seller của purchase chấp nhận hoặc từ chối một request đang PENDING.
// TotalPrice không được tính lại.
func (m *PurchaseLifecycleManager) UpdateStatus(ctx context.Context, requesterID, purchaseID, status string) (*models.PurchaseRequest, error) {
	if status != models.PurchaseAccepted && status != models.PurchaseRejected {
		return nil, ErrInvalidStatus
	}

	purchase, err := m.purchases.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, storageErr(err)
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	if purchase.SellerID != requesterID {
		return nil, ErrNotSeller
	}

	// Conditional update: chỉ ghi khi document còn PENDING. Nếu một request
	// khác vừa chốt trạng thái trước, store trả nil và ta báo đã resolved
	// thay vì ghi đè trạng thái kết thúc.
	updated, err := m.purchases.UpdateStatusFromPending(ctx, purchaseID, status)
	if err != nil {
		return nil, storageErr(err)
	}
	if updated == nil {
		return nil, ErrAlreadyResolved
	}
	return updated, nil
}

// ListPurchasesForBuyer trả về lịch sử mua của buyer, mới nhất trước.
func (m *PurchaseLifecycleManager) ListPurchasesForBuyer(ctx context.Context, buyerID string) ([]models.PurchaseRequest, error) {
	purchases, err := m.purchases.ListPurchasesByBuyer(ctx, buyerID)
	if err != nil {
		return nil, storageErr(err)
	}
	return purchases, nil
}

// ListPurchasesForSeller trả về các đơn bán của seller, mới nhất trước.
func (m *PurchaseLifecycleManager) ListPurchasesForSeller(ctx context.Context, sellerID string) ([]models.PurchaseRequest, error) {
	purchases, err := m.purchases.ListPurchasesBySeller(ctx, sellerID)
	if err != nil {
		return nil, storageErr(err)
	}
	return purchases, nil
}
