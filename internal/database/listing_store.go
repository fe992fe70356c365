// server/internal/database/listing_store.go
package database

import (
	"context"
	"regexp"

	"recycle-connect-api-server/internal/marketplace"
	"recycle-connect-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListingStore hiện thực marketplace.ListingStore trên collection "listings",
// kèm các thao tác CRUD cho listing handler.
type ListingStore struct {
	db *mongo.Database
}

func NewListingStore(db *mongo.Database) *ListingStore {
	return &ListingStore{db: db}
}

func (s *ListingStore) collection() *mongo.Collection {
	return s.db.Collection("listings")
}

// GetListing trả về nil khi không tìm thấy, đúng contract của core.
func (s *ListingStore) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	var listing models.Listing
	err := s.collection().FindOne(ctx, bson.M{"listingID": listingID}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// ListListings đẩy phần predicate index được xuống Mongo: so sánh bằng trên
// category, $regex không phân biệt hoa thường trên title/description.
// Sắp xếp createdAt giảm dần ngay ở store để engine giữ nguyên thứ tự.
func (s *ListingStore) ListListings(ctx context.Context, pred marketplace.ListingPredicate) ([]models.Listing, error) {
	filter := bson.M{}
	if pred.Category != "" {
		filter["category"] = pred.Category
	}
	if pred.Search != "" {
		// QuoteMeta: input của user là substring thô, không phải regex.
		pattern := regexp.QuoteMeta(pred.Search)
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *ListingStore) InsertListing(ctx context.Context, listing models.Listing) (*models.Listing, error) {
	result, err := s.collection().InsertOne(ctx, listing)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		listing.ID = oid
	}
	return &listing, nil
}

// ListingUpdate là các trường listing owner được phép sửa. Con trỏ nil
// nghĩa là giữ nguyên.
type ListingUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Quantity    *models.Decimal
	Unit        *string
	Price       *models.Decimal
	Location    *models.Location
	Images      *[]string
	Status      *string
}

// UpdateListing áp một bản vá từng phần và trả về document sau khi sửa.
func (s *ListingStore) UpdateListing(ctx context.Context, listingID string, update ListingUpdate) (*models.Listing, error) {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.Unit != nil {
		set["unit"] = *update.Unit
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if len(set) == 0 {
		return s.GetListing(ctx, listingID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Listing
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"listingID": listingID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (s *ListingStore) DeleteListing(ctx context.Context, listingID string) error {
	_, err := s.collection().DeleteOne(ctx, bson.M{"listingID": listingID})
	return err
}
