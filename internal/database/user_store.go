// server/internal/database/user_store.go
package database

import (
	"context"
	"time"

	"recycle-connect-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore quản lý collection "users": tài khoản, reset token.
type UserStore struct {
	db *mongo.Database
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) collection() *mongo.Collection {
	return s.db.Collection("users")
}

func (s *UserStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"userID": userID})
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"resetToken": token})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.collection().FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	result, err := s.collection().InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return &user, nil
}

// SetResetToken lưu token đặt lại mật khẩu kèm hạn dùng.
func (s *UserStore) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	_, err := s.collection().UpdateOne(ctx, bson.M{"userID": userID}, bson.M{"$set": bson.M{
		"resetToken":       token,
		"resetTokenExpiry": expiry,
	}})
	return err
}

// UpdatePassword đổi mật khẩu và xóa reset token trong cùng một write.
func (s *UserStore) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	_, err := s.collection().UpdateOne(ctx, bson.M{"userID": userID}, bson.M{
		"$set":   bson.M{"password": hashedPassword},
		"$unset": bson.M{"resetToken": "", "resetTokenExpiry": ""},
	})
	return err
}
