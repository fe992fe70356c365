// server/internal/api/routes/routes.go
package routes

import (
	"recycle-connect-api-server/config"
	"recycle-connect-api-server/internal/ai"
	"recycle-connect-api-server/internal/api/handlers"
	"recycle-connect-api-server/internal/api/middleware"
	"recycle-connect-api-server/internal/database"
	"recycle-connect-api-server/internal/marketplace"
	"recycle-connect-api-server/internal/models"
	"recycle-connect-api-server/internal/s3"
	"recycle-connect-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route.
// Stores, query engine và lifecycle manager đều được dựng ở đây và truyền
// vào handler — không có singleton toàn cục.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	aiClient *ai.Client,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	// Client web chạy ở origin khác — bật CORS theo config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Stores và core components
	listingStore := database.NewListingStore(db)
	purchaseStore := database.NewPurchaseStore(db)
	userStore := database.NewUserStore(db)
	inquiryStore := database.NewInquiryStore(db)
	metricsStore := database.NewMetricsStore(db)

	queryEngine := marketplace.NewListingQueryEngine(listingStore)
	lifecycle := marketplace.NewPurchaseLifecycleManager(listingStore, purchaseStore)

	jwtSecret := []byte(cfg.JWT.Secret)

	// Khởi tạo các handlers
	userHandler := &handlers.UserHandler{Users: userStore, Cfg: cfg}
	listingHandler := &handlers.ListingHandler{Engine: queryEngine, Listings: listingStore, Uploader: s3Uploader}
	purchaseHandler := &handlers.PurchaseHandler{Lifecycle: lifecycle, Listings: listingStore, Users: userStore, Hub: wsHub}
	inquiryHandler := &handlers.InquiryHandler{Inquiries: inquiryStore, Listings: listingStore}
	aiHandler := &handlers.AIHandler{AI: aiClient}
	metricsHandler := &handlers.MetricsHandler{Metrics: metricsStore}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, JWTSecret: jwtSecret}

	api := router.Group("/api")
	{
		// Route cho WebSocket (token qua query)
		api.GET("/ws", webSocketHandler.ServeWs)

		// === CÁC ROUTE KHÔNG YÊU CẦU XÁC THỰC ===

		// Nhóm API authentication
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", userHandler.Register)
			authRoutes.POST("/login", userHandler.Login)
			authRoutes.POST("/forgot-password", userHandler.ForgotPassword)
			authRoutes.POST("/reset-password", userHandler.ResetPassword)
		}

		// Browse là công khai: ai cũng xem được listings và số liệu chung
		api.GET("/listings", listingHandler.SearchListings)
		api.GET("/listings/:id", listingHandler.GetListing)
		api.GET("/metrics", metricsHandler.GetSystemMetrics)

		// === CÁC ROUTE YÊU CẦU XÁC THỰC (PROTECTED) ===

		authenticated := api.Group("")
		authenticated.Use(middleware.Authenticate(jwtSecret))
		{
			authenticated.GET("/auth/me", userHandler.Me)

			// AI identify cho cả buyer lẫn seller
			authenticated.POST("/ai/identify", aiHandler.IdentifyWaste)

			// Listing management — chỉ seller
			sellerListings := authenticated.Group("/listings")
			sellerListings.Use(middleware.Authorize(models.RoleSeller))
			{
				sellerListings.POST("", listingHandler.CreateListing)
				sellerListings.PUT("/:id", listingHandler.UpdateListing)
				sellerListings.DELETE("/:id", listingHandler.DeleteListing)
			}

			// Upload ảnh listing (đặt ngoài /listings để không đụng route :id)
			authenticated.POST("/uploads", middleware.Authorize(models.RoleSeller), listingHandler.UploadImage)

			// Purchases: buyer tạo và xem đơn mua của mình
			purchases := authenticated.Group("/purchases")
			{
				buyerPurchases := purchases.Group("")
				buyerPurchases.Use(middleware.Authorize(models.RoleBuyer))
				{
					buyerPurchases.POST("", purchaseHandler.CreatePurchase)
					buyerPurchases.GET("", purchaseHandler.GetMyPurchases)
				}

				// Seller chốt đơn: accept hoặc reject
				sellerPurchases := purchases.Group("")
				sellerPurchases.Use(middleware.Authorize(models.RoleSeller))
				{
					sellerPurchases.PUT("/:id/status", purchaseHandler.UpdatePurchaseStatus)
				}
			}

			// Đơn bán của seller
			authenticated.GET("/sales", middleware.Authorize(models.RoleSeller), purchaseHandler.GetMySales)

			// Inquiries
			inquiries := authenticated.Group("/inquiries")
			{
				buyerInquiries := inquiries.Group("")
				buyerInquiries.Use(middleware.Authorize(models.RoleBuyer))
				{
					buyerInquiries.POST("", inquiryHandler.CreateInquiry)
					buyerInquiries.GET("/my", inquiryHandler.GetMyInquiries)
				}

				sellerInquiries := inquiries.Group("")
				sellerInquiries.Use(middleware.Authorize(models.RoleSeller))
				{
					sellerInquiries.GET("/received", inquiryHandler.GetReceivedInquiries)
				}
			}
		}
	}

	return router
}
