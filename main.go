package main

import (
	"fmt"
	"log"

	"automl_backend/config"
	"automl_backend/dao"
	"automl_backend/router"

	"github.com/gin-gonic/gin"
)

func main() {
	// 默认使用 release，避免线上以 debug 模式启动
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Init config failed: %v", err)
	}

	// 2. Initialize logger
	config.InitLogger()

	// 3. Select storage backend (mongo | memory)
	if err := dao.Init(config.AppConfig); err != nil {
		log.Fatalf("Init storage failed: %v", err)
	}

	// 4. Initialize redis (optional, trainer registry)
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Init redis failed: %v", err)
	}

	// 5. Setup router
	r := router.SetupRouter()

	// 6. Start server
	port := config.AppConfig.Server.Port
	if port == 0 {
		port = 8080
	}

	fmt.Printf("Server is running on port %d...\n", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatalf("Server run failed: %v", err)
	}
}
