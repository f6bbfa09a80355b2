package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"healthrisk/internal/models/request_models"
	"healthrisk/internal/models/survey_models"
	"healthrisk/internal/services"
	"healthrisk/pkg/utils"
)

// StageController exposes each pipeline stage on its own for debugging.
type StageController struct {
	normalizerService     services.NormalizerServiceInterface
	factorService         services.FactorServiceInterface
	riskService           services.RiskServiceInterface
	recommendationService services.RecommendationServiceInterface
}

func NewStageController(
	normalizerService services.NormalizerServiceInterface,
	factorService services.FactorServiceInterface,
	riskService services.RiskServiceInterface,
	recommendationService services.RecommendationServiceInterface,
) *StageController {
	return &StageController{
		normalizerService:     normalizerService,
		factorService:         factorService,
		riskService:           riskService,
		recommendationService: recommendationService,
	}
}

func (sc *StageController) ParseHandler(c *gin.Context) {
	var req request_models.ParseStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch req.Input.(type) {
	case string, map[string]any:
	default:
		utils.RespondError(c, http.StatusBadRequest, "input must be a string or an object")
		return
	}

	utils.RespondSuccess(c, sc.normalizerService.Parse(req.Input, req.IsOcr), "Parsed input")
}

func (sc *StageController) FactorsHandler(c *gin.Context) {
	var req request_models.FactorsStageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Answers == nil {
		utils.RespondError(c, http.StatusBadRequest, "answers must be an object")
		return
	}

	utils.RespondSuccess(c, sc.factorService.Extract(survey_models.AnswersFromMap(req.Answers)), "Extracted factors")
}

func (sc *StageController) RiskHandler(c *gin.Context) {
	var req request_models.RiskStageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Factors == nil {
		utils.RespondError(c, http.StatusBadRequest, "factors must be an array of strings")
		return
	}

	result := sc.riskService.Classify(toFactors(req.Factors), survey_models.AnswersFromMap(req.Answers))
	utils.RespondSuccess(c, result, "Classified risk")
}

func (sc *StageController) RecommendationsHandler(c *gin.Context) {
	var req request_models.RecommendationsStageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Factors == nil {
		utils.RespondError(c, http.StatusBadRequest, "factors must be an array of strings")
		return
	}
	level := survey_models.RiskLevel(req.RiskLevel)
	switch level {
	case survey_models.RiskLow, survey_models.RiskModerate, survey_models.RiskHigh, survey_models.RiskVeryHigh:
	default:
		utils.RespondError(c, http.StatusBadRequest, "risk_level must be one of low, moderate, high, very high")
		return
	}

	utils.RespondSuccess(c, sc.recommendationService.Recommend(toFactors(req.Factors), level), "Generated recommendations")
}

func toFactors(labels []string) []survey_models.Factor {
	out := make([]survey_models.Factor, len(labels))
	for i, l := range labels {
		out[i] = survey_models.Factor(l)
	}
	return out
}
