// server/internal/marketplace/errors.go
package marketplace

import (
	"errors"
	"fmt"
)

// Các lỗi domain của core. Message được viết để trả thẳng cho client,
// handler chỉ map sang HTTP status — không retry, không che giấu.
var (
	ErrListingNotFound      = errors.New("Listing not found")
	ErrPurchaseNotFound     = errors.New("Purchase not found")
	ErrNotSeller            = errors.New("Only the seller can update this purchase")
	ErrQuantityNotPositive  = errors.New("Quantity must be greater than zero")
	ErrQuantityExceedsStock = errors.New("Requested quantity exceeds available quantity")
	ErrInvalidStatus        = errors.New("Status must be ACCEPTED or REJECTED")
	ErrAlreadyResolved      = errors.New("Purchase request has already been accepted or rejected")
)

// StorageError đánh dấu lỗi hạ tầng (store không truy cập được). Khác với
// các lỗi domain ở trên: tầng transport map sang 5xx và client có thể retry.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError kiểm tra một lỗi có phải lỗi hạ tầng không.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func storageErr(err error) error {
	return &StorageError{Err: err}
}
