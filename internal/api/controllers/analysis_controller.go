package controllers

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"healthrisk/internal/models/request_models"
	"healthrisk/internal/models/response_models"
	"healthrisk/internal/models/survey_models"
	"healthrisk/internal/services"
	"healthrisk/pkg/utils"
)

var timeNow = time.Now

type AnalysisController struct {
	pipelineService services.PipelineServiceInterface
	ocrService      services.OCRServiceInterface
}

func NewAnalysisController(
	pipelineService services.PipelineServiceInterface,
	ocrService services.OCRServiceInterface,
) *AnalysisController {
	return &AnalysisController{
		pipelineService: pipelineService,
		ocrService:      ocrService,
	}
}

// AnalyzeHandler runs the traced pipeline.
func (ac *AnalysisController) AnalyzeHandler(c *gin.Context) {
	var req request_models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	respondPipeline(c, ac.pipelineService.Run(req.Input, req.IsOcr, req.Options))
}

// LegacyAnalyzeHandler runs the pipeline without returning the step trace.
func (ac *AnalysisController) LegacyAnalyzeHandler(c *gin.Context) {
	var req request_models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	respondPipeline(c, ac.pipelineService.RunLegacy(req.Input, req.IsOcr, req.Options))
}

// AnalyzeImageHandler accepts a multipart "image" file or a JSON body with
// base64 image data, extracts its text and analyzes it as OCR input.
func (ac *AnalysisController) AnalyzeImageHandler(c *gin.Context) {
	if !ac.ocrService.Enabled() {
		utils.HandleServiceError(c, utils.ErrOCRDisabled)
		return
	}

	var (
		image    []byte
		mimeType string
		opts     request_models.AnalyzeOptions
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Missing image file")
			return
		}
		if fh.Size > services.MaxImageBytes {
			utils.HandleServiceError(c, utils.ErrImageTooLarge)
			return
		}
		f, err := fh.Open()
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Could not read image file")
			return
		}
		defer f.Close()
		image, err = io.ReadAll(io.LimitReader(f, services.MaxImageBytes+1))
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Could not read image file")
			return
		}
		mimeType = fh.Header.Get("Content-Type")
		opts.ValidateSchemas, _ = strconv.ParseBool(c.PostForm("validateSchemas"))
		opts.StopOnWarning, _ = strconv.ParseBool(c.PostForm("stopOnWarning"))
	} else {
		var req request_models.ImageAnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Body must contain image_base64")
			return
		}
		data, mt := splitDataURL(req.ImageBase64)
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "image_base64 is not valid base64")
			return
		}
		image = decoded
		mimeType = req.MimeType
		if mimeType == "" {
			mimeType = mt
		}
		opts = req.Options
	}

	analysis, err := ac.ocrService.AnalyzeImage(c.Request.Context(), image, mimeType, opts)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondPipeline(c, analysis.Result)
}

// splitDataURL strips a "data:<mime>;base64," prefix when present.
func splitDataURL(s string) (string, string) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return s, ""
	}
	header, data, ok := strings.Cut(s, ",")
	if !ok {
		return s, ""
	}
	mt := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	return data, mt
}

func respondPipeline(c *gin.Context, result services.PipelineResult) {
	if result.Success != nil {
		c.JSON(http.StatusOK, result.Success)
		return
	}
	status := http.StatusOK
	if result.InputRejected() {
		status = http.StatusBadRequest
	}
	c.JSON(status, result.Failure)
}

func respondBadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, response_models.ErrorResponse{
		Status:     survey_models.StatusInvalidInput,
		Reason:     "Request body must be a JSON object",
		AnalysisID: uuid.NewString(),
		Timestamp:  timeNow().UTC(),
	})
}
