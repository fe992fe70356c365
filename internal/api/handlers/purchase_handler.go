// server/internal/api/handlers/purchase_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"recycle-connect-api-server/internal/database"
	"recycle-connect-api-server/internal/marketplace"
	"recycle-connect-api-server/internal/models"
	"recycle-connect-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PurchaseHandler struct {
	Lifecycle *marketplace.PurchaseLifecycleManager
	Listings  *database.ListingStore
	Users     *database.UserStore
	Hub       *socket.Hub
}

type CreatePurchaseRequest struct {
	ListingID string      `json:"listingId" binding:"required"`
	Quantity  json.Number `json:"quantity" binding:"required"`
}

// CreatePurchase tạo purchase request mới ở trạng thái PENDING.
// Toàn bộ validate và tính giá nằm trong lifecycle manager.
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	quantity, err := decimal.NewFromString(req.Quantity.String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be a decimal number"})
		return
	}

	buyerID := c.GetString("user_id")
	purchase, err := h.Lifecycle.CreatePurchaseRequest(context.Background(), buyerID, req.ListingID, quantity)
	if err != nil {
		respondMarketplaceError(c, err)
		return
	}

	// Báo cho seller đang online có đơn mới.
	notification, _ := json.Marshal(map[string]interface{}{
		"event":    "purchase_request_created",
		"purchase": purchase,
	})
	h.Hub.Send(purchase.SellerID, notification)

	c.JSON(http.StatusCreated, purchase)
}

// GetMyPurchases trả về lịch sử mua của buyer, kèm listing và seller
// để hiển thị. Phần enrichment nằm ở đây, ngoài core.
func (h *PurchaseHandler) GetMyPurchases(c *gin.Context) {
	buyerID := c.GetString("user_id")

	purchases, err := h.Lifecycle.ListPurchasesForBuyer(context.Background(), buyerID)
	if err != nil {
		respondMarketplaceError(c, err)
		return
	}

	details, err := h.enrich(context.Background(), purchases, func(p models.PurchaseRequest) string {
		return p.SellerID
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load purchase details"})
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetMySales trả về các đơn bán của seller, đối tác là buyer.
func (h *PurchaseHandler) GetMySales(c *gin.Context) {
	sellerID := c.GetString("user_id")

	purchases, err := h.Lifecycle.ListPurchasesForSeller(context.Background(), sellerID)
	if err != nil {
		respondMarketplaceError(c, err)
		return
	}

	details, err := h.enrich(context.Background(), purchases, func(p models.PurchaseRequest) string {
		return p.BuyerID
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load purchase details"})
		return
	}

	c.JSON(http.StatusOK, details)
}

type UpdatePurchaseStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePurchaseStatus là hành động accept/reject của seller.
func (h *PurchaseHandler) UpdatePurchaseStatus(c *gin.Context) {
	purchaseID := c.Param("id")

	var req UpdatePurchaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	requesterID := c.GetString("user_id")
	updated, err := h.Lifecycle.UpdateStatus(context.Background(), requesterID, purchaseID, req.Status)
	if err != nil {
		respondMarketplaceError(c, err)
		return
	}

	// Báo cho buyer biết đơn của mình đã được chốt.
	notification, _ := json.Marshal(map[string]interface{}{
		"event":    "purchase_status_updated",
		"purchase": updated,
	})
	h.Hub.Send(updated.BuyerID, notification)

	c.JSON(http.StatusOK, updated)
}

// enrich lắp PurchaseDetail từ purchase + listing + đối tác. Listing hoặc
// user đã biến mất thì để nil — purchase tự nó vẫn đủ dữ liệu hiển thị
// (sellerID, totalPrice đã snapshot từ lúc tạo).
func (h *PurchaseHandler) enrich(ctx context.Context, purchases []models.PurchaseRequest, counterpartOf func(models.PurchaseRequest) string) ([]models.PurchaseDetail, error) {
	details := make([]models.PurchaseDetail, 0, len(purchases))
	for _, p := range purchases {
		detail := models.PurchaseDetail{PurchaseRequest: p}

		listing, err := h.Listings.GetListing(ctx, p.ListingID)
		if err != nil {
			return nil, err
		}
		detail.Listing = listing

		counterpart, err := h.Users.GetUser(ctx, counterpartOf(p))
		if err != nil {
			return nil, err
		}
		if counterpart != nil {
			summary := counterpart.Summary()
			detail.Counterpart = &summary
		}

		details = append(details, detail)
	}
	return details, nil
}
