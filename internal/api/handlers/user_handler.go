// server/internal/api/handlers/user_handler.go
package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"recycle-connect-api-server/config"
	"recycle-connect-api-server/internal/auth"
	"recycle-connect-api-server/internal/database"
	"recycle-connect-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	Users *database.UserStore
	Cfg   config.Config
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=buyer seller"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register tạo tài khoản mới. Vai trò (buyer/seller) chọn một lần khi
// đăng ký và không đổi trong suốt vòng đời tài khoản.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	// Kiểm tra username và email đã dùng chưa
	existing, err := h.Users.GetUserByUsername(context.Background(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error checking username"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Username already taken"})
		return
	}

	existing, err = h.Users.GetUserByEmail(context.Background(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error checking email"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}

	user, err := h.Users.InsertUser(context.Background(), models.User{
		UserID:    fmt.Sprintf("USR-%s", uuid.New().String()[:8]),
		Username:  req.Username,
		Password:  hashedPassword,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		CreatedAt: time.Now(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	token, err := h.issueToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login xác thực username/password và phát JWT.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	user, err := h.Users.GetUserByUsername(context.Background(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.Password) {
		// Cùng một message cho cả hai trường hợp — không tiết lộ username nào tồn tại.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	token, err := h.issueToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me trả về profile của user đang đăng nhập.
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.Users.GetUser(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword phát reset token có hạn 1 giờ. Luôn trả 200 với cùng một
// message để không lộ email nào có tài khoản.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	user, err := h.Users.GetUserByEmail(context.Background(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	if user != nil {
		token, err := auth.NewResetToken()
		if err == nil {
			err = h.Users.SetResetToken(context.Background(), user.UserID, token, time.Now().Add(1*time.Hour))
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create reset token"})
			return
		}
		// Việc gửi email nằm ngoài server này; log để dev lấy token khi thử tay.
		log.Printf("Password reset token issued for %s", user.UserID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset link has been sent"})
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword đổi mật khẩu bằng reset token còn hạn.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	user, err := h.Users.GetUserByResetToken(context.Background(), req.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	if user == nil || time.Now().After(user.ResetTokenExpiry) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}
	if err := h.Users.UpdatePassword(context.Background(), user.UserID, hashedPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *UserHandler) issueToken(user models.User) (string, error) {
	expiration, err := time.ParseDuration(h.Cfg.JWT.Expiration)
	if err != nil {
		expiration = 24 * time.Hour
	}
	return auth.GenerateJWT([]byte(h.Cfg.JWT.Secret), user.UserID, user.Username, user.Role, expiration)
}
