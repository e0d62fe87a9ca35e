package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"rag-console-backend/dao"
	"rag-console-backend/response"

	"github.com/gin-gonic/gin"
)

func GetFiles(c *gin.Context) {
	items, err := ingestService.ListFiles(c.Request.Context())
	if err != nil {
		slog.Error(ErrGetFiles.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetFiles.Error(),
		})
		return
	}

	files := make([]response.FileResponse, 0, len(items))
	for i := range items {
		files = append(files, response.NewFileResponse(&items[i]))
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.FileListResponse{Files: files},
	})
}

// UploadFile multipart表单上传，字段名为 file
func UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error(ErrUploadFile.Error(), "filename", fileHeader.Filename, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUploadFile.Error(),
		})
		return
	}
	defer file.Close()

	item, err := ingestService.CreateFile(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		slog.Error(ErrUploadFile.Error(), "filename", fileHeader.Filename, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUploadFile.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: response.NewFileResponse(item),
	})
}

// IngestFile 同步执行摄取，完成后返回chunk数
func IngestFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	chunks, err := ingestService.IngestFile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: dao.ErrNotFound.Error(),
			})
			return
		}
		slog.Error(ErrIngestFile.Error(), "id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrIngestFile.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.IngestFileResponse{IngestedChunks: chunks},
	})
}

func DeleteFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ingestService.DeleteFile(c.Request.Context(), id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: dao.ErrNotFound.Error(),
			})
			return
		}
		slog.Error(ErrDeleteFile.Error(), "id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteFile.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return 0, false
	}
	return id, true
}
