package v1

import (
	"net/http"
	"path/filepath"
	"strings"

	"automl_backend/entity"
	"automl_backend/service"

	"github.com/gin-gonic/gin"
)

type DatasetController struct {
	datasetService *service.DatasetService
}

func NewDatasetController() *DatasetController {
	return &DatasetController{
		datasetService: service.NewDatasetService(),
	}
}

// CreateDataset handles POST /v1/datasets
func (c *DatasetController) CreateDataset(ctx *gin.Context) {
	var dataset entity.Dataset
	if err := ctx.ShouldBindJSON(&dataset); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.datasetService.CreateDataset(ctx.Request.Context(), currentUserID(ctx), &dataset); err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dataset)
}

// UploadDatasetCSV handles POST /v1/datasets/upload
func (c *DatasetController) UploadDatasetCSV(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	name := strings.TrimSpace(ctx.PostForm("name"))
	if name == "" {
		base := filepath.Base(file.Filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	description := ctx.PostForm("description")
	targetColumn := ctx.PostForm("target_column")

	src, err := file.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	dataset, err := c.datasetService.IngestCSV(
		ctx.Request.Context(),
		currentUserID(ctx),
		name,
		description,
		targetColumn,
		filepath.Base(file.Filename),
		src,
	)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":     "upload success",
		"id":          dataset.ID,
		"name":        dataset.Name,
		"columns":     dataset.Columns,
		"target":      dataset.TargetColumn,
		"rows_stored": dataset.RowCount,
		"rows_total":  dataset.TotalRows,
		"truncated":   dataset.Truncated,
		"size_bytes":  dataset.SizeBytes,
	})
}

// GetAllDatasets handles GET /v1/datasets
func (c *DatasetController) GetAllDatasets(ctx *gin.Context) {
	var params entity.QueryParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.datasetService.GetAllDatasets(ctx.Request.Context(), currentUserID(ctx), params)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetDataset handles GET /v1/datasets/:id
func (c *DatasetController) GetDataset(ctx *gin.Context) {
	dataset, err := c.datasetService.GetDataset(ctx.Request.Context(), currentUserID(ctx), ctx.Param("id"))
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dataset)
}

// DeleteDataset handles DELETE /v1/datasets/:id
func (c *DatasetController) DeleteDataset(ctx *gin.Context) {
	if err := c.datasetService.DeleteDataset(ctx.Request.Context(), currentUserID(ctx), ctx.Param("id")); err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "delete success"})
}
