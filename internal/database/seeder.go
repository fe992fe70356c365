// server/internal/database/seeder.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"recycle-connect-api-server/internal/auth"
	"recycle-connect-api-server/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedDemoData tạo hai tài khoản demo (buyer1/seller1) và hai listing mẫu
// để môi trường dev có dữ liệu ngay. Bỏ qua nếu đã seed rồi.
func SeedDemoData(db *mongo.Database) error {
	ctx := context.Background()
	users := NewUserStore(db)
	listings := NewListingStore(db)

	// Kiểm tra xem đã seed chưa
	existing, err := users.GetUserByUsername(ctx, "buyer1")
	if err != nil {
		return err
	}
	if existing != nil {
		log.Println("Demo data already exists. Seeding skipped.")
		return nil
	}

	log.Println("Demo data not found. Seeding...")

	password, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	_, err = users.InsertUser(ctx, models.User{
		UserID:    fmt.Sprintf("USR-%s", uuid.New().String()[:8]),
		Username:  "buyer1",
		Password:  password,
		Email:     "buyer@example.com",
		Phone:     "555-0101",
		Role:      models.RoleBuyer,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	seller, err := users.InsertUser(ctx, models.User{
		UserID:    fmt.Sprintf("USR-%s", uuid.New().String()[:8]),
		Username:  "seller1",
		Password:  password,
		Email:     "seller@example.com",
		Phone:     "555-0102",
		Role:      models.RoleSeller,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	demoListings := []models.Listing{
		{
			ListingID:   fmt.Sprintf("LST-%s", uuid.New().String()[:8]),
			SellerID:    seller.UserID,
			Title:       "50kg Mixed Glass Bottles",
			Description: "Assorted glass bottles, rinsed and sorted by color. Ready for pickup.",
			Category:    "Glass",
			Quantity:    models.MustDecimal("50"),
			Unit:        "kg",
			Price:       models.MustDecimal("15.00"),
			Location:    models.Location{Lat: 40.7128, Lng: -74.0060, Address: "New York, NY"},
			Images:      []string{"https://images.unsplash.com/photo-1605600659908-0ef719419d41"},
			Status:      models.ListingAvailable,
			CreatedAt:   time.Now(),
		},
		{
			ListingID:   fmt.Sprintf("LST-%s", uuid.New().String()[:8]),
			SellerID:    seller.UserID,
			Title:       "100 Plastic Crates",
			Description: "High density polyethylene crates. Good condition.",
			Category:    "Plastic",
			Quantity:    models.MustDecimal("100"),
			Unit:        "units",
			Price:       models.MustDecimal("200.00"),
			Location:    models.Location{Lat: 40.7200, Lng: -74.0100, Address: "Tribeca, NY"},
			Images:      []string{"https://images.unsplash.com/photo-1611284446314-60a58ac0deb9"},
			Status:      models.ListingAvailable,
			CreatedAt:   time.Now(),
		},
	}
	for _, l := range demoListings {
		if _, err := listings.InsertListing(ctx, l); err != nil {
			return err
		}
	}

	log.Println("Demo data seeded successfully.")
	return nil
}
