// server/internal/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Một tài khoản chỉ có một vai trò trong suốt vòng đời.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID           string             `bson:"userID" json:"id"` // Ví dụ: "USR-a1b2c3d4"
	Username         string             `bson:"username" json:"username"`
	Password         string             `bson:"password" json:"-"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone" json:"phone"`
	Role             string             `bson:"role" json:"role"` // buyer hoặc seller
	ResetToken       string             `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiry time.Time          `bson:"resetTokenExpiry,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserSummary là phần thông tin user được nhúng vào các DTO đọc
// (ví dụ PurchaseDetail). Không bao giờ chứa password hay reset token.
type UserSummary struct {
	UserID   string `bson:"userID" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
}

// Summary cắt User xuống còn phần hiển thị được.
func (u User) Summary() UserSummary {
	return UserSummary{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}
