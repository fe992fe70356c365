// server/internal/models/purchase.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Purchase status values. PENDING là trạng thái khởi tạo duy nhất;
// ACCEPTED và REJECTED là trạng thái kết thúc — không có chuyển tiếp nào khác.
const (
	PurchasePending  = "PENDING"
	PurchaseAccepted = "ACCEPTED"
	PurchaseRejected = "REJECTED"
)

// PurchaseRequest là đề nghị mua một phần số lượng của listing.
// SellerID được copy từ listing tại thời điểm tạo để lịch sử mua bán
// không bị ảnh hưởng khi listing bị sửa hay xóa sau này.
// TotalPrice được chốt một lần khi tạo và không bao giờ tính lại.
type PurchaseRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PurchaseID string             `bson:"purchaseID" json:"id"` // Ví dụ: "PUR-a1b2c3d4"
	ListingID  string             `bson:"listingID" json:"listingId"`
	BuyerID    string             `bson:"buyerID" json:"buyerId"`
	SellerID   string             `bson:"sellerID" json:"sellerId"`
	Quantity   Decimal            `bson:"quantity" json:"quantity"`
	TotalPrice Decimal            `bson:"totalPrice" json:"totalPrice"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// PurchaseDetail là DTO phía đọc cho trang lịch sử mua/bán: purchase kèm
// listing và thông tin đối tác. Được lắp ở handler, không phải ở core —
// core không bao giờ thay đổi hình dạng của PurchaseRequest.
type PurchaseDetail struct {
	PurchaseRequest
	Listing     *Listing     `json:"listing,omitempty"`
	Counterpart *UserSummary `json:"counterpart,omitempty"`
}
