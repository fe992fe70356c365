package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecimalJSONKeepsStringForm(t *testing.T) {
	price := MustDecimal("15.00")

	data, err := json.Marshal(struct {
		Price Decimal `json:"price"`
	}{Price: price})
	require.NoError(t, err)

	// Client nhận giá dưới dạng chuỗi, không phải số float.
	assert.JSONEq(t, `{"price":"15.00"}`, string(data))
}

func TestDecimalBSONRoundtrip(t *testing.T) {
	type doc struct {
		Price    Decimal `bson:"price"`
		Quantity Decimal `bson:"quantity"`
	}

	original := doc{
		Price:    MustDecimal("95.50"),
		Quantity: MustDecimal("12.5"),
	}

	raw, err := bson.Marshal(original)
	require.NoError(t, err)

	var decoded doc
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	assert.True(t, decoded.Price.Equal(original.Price.Decimal))
	assert.True(t, decoded.Quantity.Equal(original.Quantity.Decimal))
}

func TestDecimalBSONAcceptsLegacyTypes(t *testing.T) {
	// Dữ liệu cũ import bằng tay có thể lưu giá dưới dạng string hoặc double.
	raw, err := bson.Marshal(bson.M{"price": "15.00"})
	require.NoError(t, err)

	var fromString struct {
		Price Decimal `bson:"price"`
	}
	require.NoError(t, bson.Unmarshal(raw, &fromString))
	assert.True(t, fromString.Price.Equal(decimal.RequireFromString("15.00")))

	raw, err = bson.Marshal(bson.M{"price": 2.5})
	require.NoError(t, err)

	var fromDouble struct {
		Price Decimal `bson:"price"`
	}
	require.NoError(t, bson.Unmarshal(raw, &fromDouble))
	assert.True(t, fromDouble.Price.Equal(decimal.RequireFromString("2.5")))
}

func TestListingPricePerUnit(t *testing.T) {
	listing := Listing{
		Quantity: MustDecimal("50"),
		Price:    MustDecimal("15.00"),
	}

	assert.True(t, listing.PricePerUnit().Equal(decimal.RequireFromString("0.3")))

	listing = Listing{
		Quantity: MustDecimal("100"),
		Price:    MustDecimal("200.00"),
	}
	assert.True(t, listing.PricePerUnit().Equal(decimal.RequireFromString("2")))
}

func TestUserSummaryHidesCredentials(t *testing.T) {
	user := User{
		UserID:   "USR-abc12345",
		Username: "seller1",
		Email:    "seller1@example.com",
		Password: "$2a$14$hash",
		Role:     RoleSeller,
	}

	data, err := json.Marshal(user.Summary())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "hash")
	assert.Contains(t, string(data), "seller1")
}
