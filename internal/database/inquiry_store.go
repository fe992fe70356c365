// server/internal/database/inquiry_store.go
package database

import (
	"context"

	"recycle-connect-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InquiryStore quản lý collection "inquiries".
type InquiryStore struct {
	db *mongo.Database
}

func NewInquiryStore(db *mongo.Database) *InquiryStore {
	return &InquiryStore{db: db}
}

func (s *InquiryStore) collection() *mongo.Collection {
	return s.db.Collection("inquiries")
}

func (s *InquiryStore) InsertInquiry(ctx context.Context, inquiry models.Inquiry) (*models.Inquiry, error) {
	result, err := s.collection().InsertOne(ctx, inquiry)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		inquiry.ID = oid
	}
	return &inquiry, nil
}

func (s *InquiryStore) ListInquiriesByBuyer(ctx context.Context, buyerID string) ([]models.Inquiry, error) {
	return s.list(ctx, bson.M{"buyerID": buyerID})
}

func (s *InquiryStore) ListInquiriesBySeller(ctx context.Context, sellerID string) ([]models.Inquiry, error) {
	return s.list(ctx, bson.M{"sellerID": sellerID})
}

func (s *InquiryStore) list(ctx context.Context, filter bson.M) ([]models.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var inquiries []models.Inquiry
	if err = cursor.All(ctx, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}
