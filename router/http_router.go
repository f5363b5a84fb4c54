package router

import (
	"net/http"

	v1 "automl_backend/handler/v1"
	"automl_backend/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	authController := v1.NewAuthController()
	datasetController := v1.NewDatasetController()
	experimentController := v1.NewExperimentController()
	trainController := v1.NewTrainController()
	algorithmController := v1.NewAlgorithmController()
	mlProxyController := v1.NewMLProxyController()
	trainerController := v1.NewTrainerController()

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.RequestID())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1Group := r.Group("/v1")
	{
		// Auth routes (public)
		auth := v1Group.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
		}

		protected := v1Group.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Dataset routes
			datasets := protected.Group("/datasets")
			{
				datasets.POST("", datasetController.CreateDataset)
				datasets.POST("/upload", datasetController.UploadDatasetCSV)
				datasets.GET("", datasetController.GetAllDatasets)
				datasets.GET("/:id", datasetController.GetDataset)
				datasets.DELETE("/:id", datasetController.DeleteDataset)
			}

			// Experiment routes
			experiments := protected.Group("/experiments")
			{
				experiments.POST("/train", trainController.TrainAndCompare)
				experiments.GET("", experimentController.GetAllExperiments)
				experiments.GET("/:id", experimentController.GetExperiment)
				experiments.DELETE("/:id", experimentController.DeleteExperiment)
			}

			// Algorithm metadata routes
			algorithms := protected.Group("/algorithms")
			{
				algorithms.GET("/recommendations", algorithmController.GetRecommendations)
				algorithms.GET("/:id/defaults", algorithmController.GetDefaults)
			}

			// ML service proxy routes
			ml := protected.Group("/ml")
			{
				ml.POST("/preprocess", mlProxyController.Preprocess)
				ml.POST("/tune", mlProxyController.Tune)
				ml.POST("/evaluate", mlProxyController.Evaluate)
			}

			// Trainer registry routes
			protected.GET("/trainers", trainerController.ListTrainers)
		}
	}

	return r
}
