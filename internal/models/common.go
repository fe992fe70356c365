// server/internal/models/common.go
package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Decimal bọc decimal.Decimal để lưu xuống MongoDB dưới dạng Decimal128.
// Tiền và số lượng KHÔNG BAO GIỜ được tính bằng float64.
// JSON giữ nguyên dạng chuỗi của shopspring ("15.00") cho khớp với client.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal tạo Decimal từ decimal.Decimal.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

// DecimalFromString parse chuỗi thập phân, ví dụ "15.00".
func DecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Decimal: d}, nil
}

// MustDecimal dùng cho seed data và test.
func MustDecimal(s string) Decimal {
	d, err := DecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalBSONValue lưu giá trị dưới dạng primitive.Decimal128.
func (d Decimal) MarshalBSONValue() (bsontype.Type, []byte, error) {
	dec128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return bsontype.Null, nil, fmt.Errorf("invalid decimal value %q: %w", d.String(), err)
	}
	return bson.MarshalValue(dec128)
}

// UnmarshalBSONValue đọc Decimal128; chấp nhận cả string và double
// cho dữ liệu cũ được import bằng tay.
func (d *Decimal) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Decimal128:
		dec128, _, ok := bsoncore.ReadDecimal128(data)
		if !ok {
			return fmt.Errorf("corrupt decimal128 value")
		}
		parsed, err := decimal.NewFromString(dec128.String())
		if err != nil {
			return err
		}
		d.Decimal = parsed
	case bsontype.String:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("corrupt string value")
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		d.Decimal = parsed
	case bsontype.Double:
		f, _, ok := bsoncore.ReadDouble(data)
		if !ok {
			return fmt.Errorf("corrupt double value")
		}
		d.Decimal = decimal.NewFromFloat(f)
	case bsontype.Null:
		d.Decimal = decimal.Decimal{}
	default:
		return fmt.Errorf("cannot decode %v into Decimal", t)
	}
	return nil
}

// Location là vị trí của một tin đăng, do client gửi lên khi tạo listing.
// Server không gọi dịch vụ geocoding nào — lưu và trả nguyên trạng.
type Location struct {
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
	Address string  `bson:"address" json:"address"`
}
