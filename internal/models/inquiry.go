// server/internal/models/inquiry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inquiry là tin nhắn hỏi hàng của buyer gửi cho seller về một listing.
// Không có trạng thái — chỉ là lịch sử liên hệ.
type Inquiry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	InquiryID string             `bson:"inquiryID" json:"id"` // Ví dụ: "INQ-a1b2c3d4"
	ListingID string             `bson:"listingID" json:"listingId"`
	BuyerID   string             `bson:"buyerID" json:"buyerId"`
	SellerID  string             `bson:"sellerID" json:"sellerId"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
