// server/internal/api/handlers/inquiry_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recycle-connect-api-server/internal/database"
	"recycle-connect-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InquiryHandler struct {
	Inquiries *database.InquiryStore
	Listings  *database.ListingStore
}

type CreateInquiryRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// CreateInquiry gửi tin nhắn hỏi hàng của buyer cho seller của listing.
// SellerID được copy từ listing như với purchase.
func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	listing, err := h.Listings.GetListing(context.Background(), req.ListingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve listing"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Listing not found"})
		return
	}

	inquiry, err := h.Inquiries.InsertInquiry(context.Background(), models.Inquiry{
		InquiryID: fmt.Sprintf("INQ-%s", uuid.New().String()[:8]),
		ListingID: listing.ListingID,
		BuyerID:   c.GetString("user_id"),
		SellerID:  listing.SellerID,
		Message:   req.Message,
		CreatedAt: time.Now(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create inquiry"})
		return
	}

	c.JSON(http.StatusCreated, inquiry)
}

// GetMyInquiries là các tin buyer đã gửi đi, mới nhất trước.
func (h *InquiryHandler) GetMyInquiries(c *gin.Context) {
	inquiries, err := h.Inquiries.ListInquiriesByBuyer(context.Background(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to query inquiries"})
		return
	}

	if inquiries == nil {
		inquiries = []models.Inquiry{}
	}
	c.JSON(http.StatusOK, inquiries)
}

// GetReceivedInquiries là các tin seller nhận được, mới nhất trước.
func (h *InquiryHandler) GetReceivedInquiries(c *gin.Context) {
	inquiries, err := h.Inquiries.ListInquiriesBySeller(context.Background(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to query inquiries"})
		return
	}

	if inquiries == nil {
		inquiries = []models.Inquiry{}
	}
	c.JSON(http.StatusOK, inquiries)
}
