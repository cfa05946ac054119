package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa/internal/app"
	"docqa/internal/model"
	"docqa/internal/transport/http/response"
)

type QueryHandler struct {
	queryService *app.QueryService
}

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

type QueryResponse struct {
	Status   string              `json:"status"`
	Response string              `json:"response"`
	Context  []model.ContextItem `json:"context"`
}

func NewQueryHandler(queryService *app.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// Query answers a free-text question from the stored document chunks.
func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	answer, err := h.queryService.Answer(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, app.ErrEmptyQuery) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("processing query failed: %v", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, QueryResponse{
		Status:   "success",
		Response: answer.Response,
		Context:  answer.Context,
	})
}
