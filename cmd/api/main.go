// server/cmd/api/main.go
package main

import (
	"context"
	"log"

	"recycle-connect-api-server/config"
	"recycle-connect-api-server/internal/ai"
	"recycle-connect-api-server/internal/api/routes"
	"recycle-connect-api-server/internal/database"
	"recycle-connect-api-server/internal/s3"
	"recycle-connect-api-server/internal/socket"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load biến môi trường từ .env (nếu có) rồi load configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Kết nối MongoDB
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.Client().Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	// 3. Seed dữ liệu demo (bỏ qua nếu đã có)
	if err := database.SeedDemoData(db); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	// 4. Khởi tạo S3 uploader cho ảnh listing
	s3Uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to create S3 uploader: %v", err)
	}

	// 5. Khởi tạo WebSocket Hub cho thông báo realtime
	wsHub := socket.NewHub()

	// 6. Khởi tạo AI client nhận diện phế liệu
	aiClient := ai.NewClient(cfg.AI)

	// 7. Truyền tất cả các thành phần cần thiết vào router
	router := routes.SetupRouter(cfg, db, s3Uploader, wsHub, aiClient)

	// 8. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
