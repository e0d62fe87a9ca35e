package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"rag-console-backend/response"

	"github.com/gin-gonic/gin"
)

func GetChunks(c *gin.Context) {
	if chunkService == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Response{
			Msg: ErrChatUnavailable.Error(),
		})
		return
	}

	query := c.Query("q")
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := chunkService.List(c.Request.Context(), query, limit)
	if err != nil {
		slog.Error(ErrGetChunks.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetChunks.Error(),
		})
		return
	}

	chunks := make([]response.ChunkResponse, 0, len(items))
	for _, item := range items {
		chunks = append(chunks, response.ChunkResponse{
			ID:        item.ID,
			Text:      item.Text,
			Source:    item.Source,
			CreatedAt: item.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.ChunkListResponse{Chunks: chunks},
	})
}

// DeleteChunks 按来源删除chunk，用于清理已失效的知识
func DeleteChunks(c *gin.Context) {
	if chunkService == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Response{
			Msg: ErrChatUnavailable.Error(),
		})
		return
	}

	source := c.Query("source")
	if source == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := chunkService.DeleteBySource(c.Request.Context(), source); err != nil {
		slog.Error(ErrDeleteChunks.Error(), "source", source, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteChunks.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
