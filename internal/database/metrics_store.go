// server/internal/database/metrics_store.go
package database

import (
	"context"

	"recycle-connect-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SystemMetrics là số liệu cho trang Performance.
type SystemMetrics struct {
	TotalListings       int64          `json:"totalListings"`
	TotalUsers          int64          `json:"totalUsers"`
	TotalBuyers         int64          `json:"totalBuyers"`
	TotalSellers        int64          `json:"totalSellers"`
	SuccessfulPurchases int64          `json:"successfulPurchases"`
	PendingPurchases    int64          `json:"pendingPurchases"`
	TotalRevenue        models.Decimal `json:"totalRevenue"`
}

// MetricsStore đếm số liệu tổng hợp qua các collection.
type MetricsStore struct {
	db *mongo.Database
}

func NewMetricsStore(db *mongo.Database) *MetricsStore {
	return &MetricsStore{db: db}
}

func (s *MetricsStore) GetSystemMetrics(ctx context.Context) (*SystemMetrics, error) {
	metrics := &SystemMetrics{TotalRevenue: models.MustDecimal("0")}

	counts := []struct {
		collection string
		filter     bson.M
		dest       *int64
	}{
		{"listings", bson.M{}, &metrics.TotalListings},
		{"users", bson.M{}, &metrics.TotalUsers},
		{"users", bson.M{"role": models.RoleBuyer}, &metrics.TotalBuyers},
		{"users", bson.M{"role": models.RoleSeller}, &metrics.TotalSellers},
		{"purchases", bson.M{"status": models.PurchaseAccepted}, &metrics.SuccessfulPurchases},
		{"purchases", bson.M{"status": models.PurchasePending}, &metrics.PendingPurchases},
	}
	for _, c := range counts {
		n, err := s.db.Collection(c.collection).CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	// Doanh thu = tổng totalPrice của các purchase đã ACCEPTED.
	// $sum chạy trên Decimal128 nên không mất độ chính xác.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: models.PurchaseAccepted}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}}},
	}
	cursor, err := s.db.Collection("purchases").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total models.Decimal `bson:"total"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		metrics.TotalRevenue = rows[0].Total
	}

	return metrics, nil
}
