// server/internal/models/listing.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing status values.
const (
	ListingAvailable = "available"
	ListingSold      = "sold"
)

// Categories của vật liệu tái chế. Filter theo category là so sánh
// chính xác (case-sensitive) — giá trị lạ cho kết quả rỗng, không lỗi.
var ListingCategories = []string{"Plastic", "Glass", "Metal", "Paper", "Electronics", "Textile"}

// Listing là một tin đăng bán vật liệu của seller.
// Price là TỔNG giá cho toàn bộ Quantity, không phải đơn giá.
// Đơn giá luôn được suy ra: price / quantity.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ListingID   string             `bson:"listingID" json:"id"` // Ví dụ: "LST-a1b2c3d4"
	SellerID    string             `bson:"sellerID" json:"sellerId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Quantity    Decimal            `bson:"quantity" json:"quantity"`
	Unit        string             `bson:"unit" json:"unit"` // kg, tons, units
	Price       Decimal            `bson:"price" json:"price"`
	Location    Location           `bson:"location" json:"location"`
	Images      []string           `bson:"images" json:"images"`
	Status      string             `bson:"status" json:"status"` // available, sold
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// PricePerUnit suy ra đơn giá từ tổng giá và số lượng đăng bán.
func (l Listing) PricePerUnit() Decimal {
	return NewDecimal(l.Price.Div(l.Quantity.Decimal))
}
