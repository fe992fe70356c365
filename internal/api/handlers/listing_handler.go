// server/internal/api/handlers/listing_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"recycle-connect-api-server/internal/database"
	"recycle-connect-api-server/internal/marketplace"
	"recycle-connect-api-server/internal/models"
	"recycle-connect-api-server/internal/s3"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ListingHandler struct {
	Engine   *marketplace.ListingQueryEngine
	Listings *database.ListingStore
	Uploader *s3.Uploader
}

type LocationRequest struct {
	Lat     float64 `json:"lat" binding:"min=-90,max=90"`
	Lng     float64 `json:"lng" binding:"min=-180,max=180"`
	Address string  `json:"address" binding:"required"`
}

type CreateListingRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Quantity    string          `json:"quantity" binding:"required"`
	Unit        string          `json:"unit" binding:"required"`
	Price       string          `json:"price" binding:"required"`
	Location    LocationRequest `json:"location" binding:"required"`
	Images      []string        `json:"images"`
}

// SearchListings là endpoint của trang Browse: mọi filter đều optional và
// tham số vắng mặt khác với tham số bằng 0 — chỉ parse khi query có mặt.
func (h *ListingHandler) SearchListings(c *gin.Context) {
	filters := marketplace.ListingFilters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	for _, bound := range []struct {
		name string
		dest **decimal.Decimal
	}{
		{"minPrice", &filters.MinPrice},
		{"maxPrice", &filters.MaxPrice},
		{"minQuantity", &filters.MinQuantity},
		{"maxQuantity", &filters.MaxQuantity},
	} {
		raw := c.Query(bound.name)
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Invalid value for %s", bound.name)})
			return
		}
		*bound.dest = &value
	}

	listings, err := h.Engine.Search(context.Background(), filters)
	if err != nil {
		respondMarketplaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// GetListing lấy chi tiết một listing theo listingID.
func (h *ListingHandler) GetListing(c *gin.Context) {
	listing, err := h.Listings.GetListing(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve listing"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// CreateListing tạo tin đăng mới cho seller đang đăng nhập.
// Price là tổng giá cho toàn bộ quantity, không phải đơn giá.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	quantity, err := models.DecimalFromString(req.Quantity)
	if err != nil || quantity.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be a positive decimal"})
		return
	}
	price, err := models.DecimalFromString(req.Price)
	if err != nil || price.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Price must be a positive decimal"})
		return
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	newListing := models.Listing{
		ListingID:   fmt.Sprintf("LST-%s", uuid.New().String()[:8]),
		SellerID:    c.GetString("user_id"),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    quantity,
		Unit:        req.Unit,
		Price:       price,
		Location:    models.Location{Lat: req.Location.Lat, Lng: req.Location.Lng, Address: req.Location.Address},
		Images:      images,
		Status:      models.ListingAvailable,
		CreatedAt:   time.Now(),
	}

	created, err := h.Listings.InsertListing(context.Background(), newListing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

type UpdateListingRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Quantity    *string          `json:"quantity"`
	Unit        *string          `json:"unit"`
	Price       *string          `json:"price"`
	Location    *LocationRequest `json:"location"`
	Images      *[]string        `json:"images"`
	Status      *string          `json:"status"`
}

// UpdateListing cập nhật từng phần một listing. Chỉ owner được sửa —
// bao gồm cả quantity.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	listingID := c.Param("id")

	existing, err := h.Listings.GetListing(context.Background(), listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve listing"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Listing not found"})
		return
	}
	if existing.SellerID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the seller can edit this listing"})
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	update := database.ListingUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		Images:      req.Images,
	}
	if req.Quantity != nil {
		quantity, err := models.DecimalFromString(*req.Quantity)
		if err != nil || quantity.Sign() <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be a positive decimal"})
			return
		}
		update.Quantity = &quantity
	}
	if req.Price != nil {
		price, err := models.DecimalFromString(*req.Price)
		if err != nil || price.Sign() <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Price must be a positive decimal"})
			return
		}
		update.Price = &price
	}
	if req.Location != nil {
		update.Location = &models.Location{Lat: req.Location.Lat, Lng: req.Location.Lng, Address: req.Location.Address}
	}
	if req.Status != nil {
		if *req.Status != models.ListingAvailable && *req.Status != models.ListingSold {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Status must be available or sold"})
			return
		}
		update.Status = req.Status
	}

	updated, err := h.Listings.UpdateListing(context.Background(), listingID, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteListing xóa listing của chính seller. Purchase đã tạo vẫn giữ
// nguyên — lịch sử mua bán không phụ thuộc listing còn sống.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	listingID := c.Param("id")

	existing, err := h.Listings.GetListing(context.Background(), listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve listing"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Listing not found"})
		return
	}
	if existing.SellerID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the seller can delete this listing"})
		return
	}

	if err := h.Listings.DeleteListing(context.Background(), listingID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete listing"})
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage nhận ảnh multipart, đẩy lên S3 và trả URL để client gắn vào
// mảng images khi tạo/sửa listing.
func (h *ListingHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	objectKey := fmt.Sprintf("listings/%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))

	url, err := h.Uploader.UploadFile(context.Background(), file, objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
