// server/internal/api/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"recycle-connect-api-server/internal/marketplace"

	"github.com/gin-gonic/gin"
)

// respondMarketplaceError map lỗi domain của core sang HTTP status.
// Message của lỗi domain được trả thẳng cho client; lỗi hạ tầng thì không
// lộ chi tiết.
func respondMarketplaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, marketplace.ErrListingNotFound),
		errors.Is(err, marketplace.ErrPurchaseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, marketplace.ErrNotSeller):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, marketplace.ErrQuantityNotPositive),
		errors.Is(err, marketplace.ErrQuantityExceedsStock),
		errors.Is(err, marketplace.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, marketplace.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case marketplace.IsStorageError(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
