// server/internal/marketplace/stores.go
package marketplace

import (
	"context"

	"recycle-connect-api-server/internal/models"
)

// ListingPredicate là phần filter được đẩy xuống store: so sánh bằng trên
// category và substring không phân biệt hoa thường trên title/description.
// Trường rỗng nghĩa là bỏ qua. Các filter khoảng giá/số lượng KHÔNG nằm ở
// đây — chúng được áp trong bộ nhớ ở ListingQueryEngine.
type ListingPredicate struct {
	Category string
	Search   string
}

// ListingStore là cổng đọc listing của core.
type ListingStore interface {
	// GetListing trả về nil (không lỗi) khi listingID không tồn tại.
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)
	// ListListings trả về các listing khớp predicate, createdAt giảm dần.
	ListListings(ctx context.Context, pred ListingPredicate) ([]models.Listing, error)
}

// PurchaseStore là cổng đọc/ghi purchase request của core.
type PurchaseStore interface {
	InsertPurchase(ctx context.Context, p models.PurchaseRequest) (*models.PurchaseRequest, error)
	// GetPurchase trả về nil (không lỗi) khi purchaseID không tồn tại.
	GetPurchase(ctx context.Context, purchaseID string) (*models.PurchaseRequest, error)
	// UpdateStatusFromPending chỉ chuyển trạng thái khi document hiện tại
	// còn PENDING (conditional update nguyên tử — ai ghi trước thắng).
	// Trả về nil khi không có document PENDING nào khớp.
	UpdateStatusFromPending(ctx context.Context, purchaseID, status string) (*models.PurchaseRequest, error)
	ListPurchasesByBuyer(ctx context.Context, buyerID string) ([]models.PurchaseRequest, error)
	ListPurchasesBySeller(ctx context.Context, sellerID string) ([]models.PurchaseRequest, error)
}
