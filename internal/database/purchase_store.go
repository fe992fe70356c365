// server/internal/database/purchase_store.go
package database

import (
	"context"

	"recycle-connect-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PurchaseStore hiện thực marketplace.PurchaseStore trên collection "purchases".
type PurchaseStore struct {
	db *mongo.Database
}

func NewPurchaseStore(db *mongo.Database) *PurchaseStore {
	return &PurchaseStore{db: db}
}

func (s *PurchaseStore) collection() *mongo.Collection {
	return s.db.Collection("purchases")
}

func (s *PurchaseStore) InsertPurchase(ctx context.Context, p models.PurchaseRequest) (*models.PurchaseRequest, error) {
	result, err := s.collection().InsertOne(ctx, p)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return &p, nil
}

func (s *PurchaseStore) GetPurchase(ctx context.Context, purchaseID string) (*models.PurchaseRequest, error) {
	var purchase models.PurchaseRequest
	err := s.collection().FindOne(ctx, bson.M{"purchaseID": purchaseID}).Decode(&purchase)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// UpdateStatusFromPending là conditional update nguyên tử: chỉ ghi khi
// document còn PENDING, nên hai lần accept/reject đua nhau thì đúng một
// lần thắng. Trả về nil khi không còn document PENDING nào khớp.
func (s *PurchaseStore) UpdateStatusFromPending(ctx context.Context, purchaseID, status string) (*models.PurchaseRequest, error) {
	filter := bson.M{"purchaseID": purchaseID, "status": models.PurchasePending}
	update := bson.M{"$set": bson.M{"status": status}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.PurchaseRequest
	err := s.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (s *PurchaseStore) ListPurchasesByBuyer(ctx context.Context, buyerID string) ([]models.PurchaseRequest, error) {
	return s.list(ctx, bson.M{"buyerID": buyerID})
}

func (s *PurchaseStore) ListPurchasesBySeller(ctx context.Context, sellerID string) ([]models.PurchaseRequest, error) {
	return s.list(ctx, bson.M{"sellerID": sellerID})
}

func (s *PurchaseStore) list(ctx context.Context, filter bson.M) ([]models.PurchaseRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var purchases []models.PurchaseRequest
	if err = cursor.All(ctx, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}
