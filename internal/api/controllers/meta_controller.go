package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"healthrisk/internal/config"
	"healthrisk/internal/models/request_models"
	"healthrisk/internal/models/response_models"
	"healthrisk/internal/models/survey_models"
	"healthrisk/internal/services"
	"healthrisk/pkg/utils"
)

// MetaController serves schema validation and static introspection.
type MetaController struct {
	cfg           *config.AppConfig
	schemaService services.SchemaServiceInterface
	ocrService    services.OCRServiceInterface
}

func NewMetaController(
	cfg *config.AppConfig,
	schemaService services.SchemaServiceInterface,
	ocrService services.OCRServiceInterface,
) *MetaController {
	return &MetaController{
		cfg:           cfg,
		schemaService: schemaService,
		ocrService:    ocrService,
	}
}

func (mc *MetaController) ValidateHandler(c *gin.Context) {
	var req request_models.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "schema is required")
		return
	}

	result, err := mc.schemaService.Validate(req.Schema, req.Data)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response_models.ValidationResponse{IsValid: result.IsValid, Errors: result.Errors})
}

func (mc *MetaController) SchemasHandler(c *gin.Context) {
	utils.RespondSuccess(c, mc.schemaService.ListSchemas(), "Fetched schemas successfully")
}

func (mc *MetaController) FieldsHandler(c *gin.Context) {
	utils.RespondSuccess(c, response_models.FieldsResponse{
		ExpectedFields: survey_models.ExpectedFields,
		CoreFields:     survey_models.CoreFields,
		Thresholds:     mc.cfg.Thresholds,
	}, "Fetched fields successfully")
}

func (mc *MetaController) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, response_models.HealthResponse{
		Status:      "ok",
		Timestamp:   timeNow().UTC(),
		OCRProvider: mc.ocrService.Provider(),
	})
}
