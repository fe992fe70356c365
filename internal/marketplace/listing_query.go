// server/internal/marketplace/listing_query.go
package marketplace

import (
	"context"

	"recycle-connect-api-server/internal/models"

	"github.com/shopspring/decimal"
)

// ListingFilters là tập filter của trang Browse. Tất cả đều optional và
// kết hợp theo AND. Con trỏ nil nghĩa là "không filter" — giá trị 0 là một
// cận thật sự, không phải sentinel.
type ListingFilters struct {
	Category    string
	Search      string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinQuantity *decimal.Decimal
	MaxQuantity *decimal.Decimal
}

// ListingQueryEngine ghép filter cho trang Browse. Category và text search
// được đẩy xuống store (predicate index được); khoảng giá và số lượng được
// lọc trong bộ nhớ vì chúng so sánh trên Decimal — store không đảm bảo
// index đồng nhất cho kiểu này. Xem lại nếu result set lớn.
type ListingQueryEngine struct {
	listings ListingStore
}

func NewListingQueryEngine(listings ListingStore) *ListingQueryEngine {
	return &ListingQueryEngine{listings: listings}
}

// Search trả về các listing khớp toàn bộ filter, mới nhất trước.
// min > max cho kết quả rỗng, không phải lỗi. Category lạ cũng vậy.
func (e *ListingQueryEngine) Search(ctx context.Context, filters ListingFilters) ([]models.Listing, error) {
	listings, err := e.listings.ListListings(ctx, ListingPredicate{
		Category: filters.Category,
		Search:   filters.Search,
	})
	if err != nil {
		return nil, storageErr(err)
	}

	// Lọc khoảng giá/số lượng trong bộ nhớ, giữ nguyên thứ tự của store.
	results := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if filters.MinPrice != nil && l.Price.Cmp(*filters.MinPrice) < 0 {
			continue
		}
		if filters.MaxPrice != nil && l.Price.Cmp(*filters.MaxPrice) > 0 {
			continue
		}
		if filters.MinQuantity != nil && l.Quantity.Cmp(*filters.MinQuantity) < 0 {
			continue
		}
		if filters.MaxQuantity != nil && l.Quantity.Cmp(*filters.MaxQuantity) > 0 {
			continue
		}
		results = append(results, l)
	}

	return results, nil
}
