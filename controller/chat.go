package controller

import (
	"log/slog"
	"net/http"
	"strings"

	"rag-console-backend/request"
	"rag-console-backend/response"

	"github.com/gin-gonic/gin"
)

func Chat(c *gin.Context) {
	var req request.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	question := strings.TrimSpace(req.Query())
	if question == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrEmptyQuestion.Error(),
		})
		return
	}

	if ragService == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Response{
			Msg: ErrChatUnavailable.Error(),
		})
		return
	}

	answer, err := ragService.Ask(c.Request.Context(), question, req.TopK)
	if err != nil {
		slog.Error(ErrAnswerQuestion.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrAnswerQuestion.Error(),
		})
		return
	}

	references := make([]response.ChatReference, 0, len(answer.References))
	for _, ref := range answer.References {
		references = append(references, response.ChatReference{
			Source: ref.Source,
			Score:  ref.Score,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.ChatResponse{
			Answer:     answer.Text,
			References: references,
			Meta: response.ChatMeta{
				TopK:       answer.TopK,
				Hits:       answer.Hits,
				Collection: ragService.Collection(),
			},
		},
	})
}
