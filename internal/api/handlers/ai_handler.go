// server/internal/api/handlers/ai_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"

	"recycle-connect-api-server/internal/ai"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	AI *ai.Client
}

type IdentifyWasteRequest struct {
	Image string `json:"image"`
}

// IdentifyWaste nhận ảnh base64 và nhờ model phân loại vật liệu.
// Kết quả chỉ mang tính gợi ý cho form tạo listing — server không lưu gì.
func (h *AIHandler) IdentifyWaste(c *gin.Context) {
	var req IdentifyWasteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image required"})
		return
	}

	result, err := h.AI.IdentifyWaste(context.Background(), req.Image)
	if err != nil {
		log.Printf("AI identification failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to identify waste"})
		return
	}

	c.JSON(http.StatusOK, result)
}
