package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"rag-console-backend/dao"
	"rag-console-backend/request"
	"rag-console-backend/response"

	"github.com/gin-gonic/gin"
)

func GetSites(c *gin.Context) {
	sites, err := ingestService.ListSites(c.Request.Context())
	if err != nil {
		slog.Error(ErrGetSites.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetSites.Error(),
		})
		return
	}

	items := make([]response.SiteResponse, 0, len(sites))
	for i := range sites {
		items = append(items, response.NewSiteResponse(&sites[i]))
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.SiteListResponse{Sites: items},
	})
}

func CreateSite(c *gin.Context) {
	var req request.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	site, err := ingestService.CreateSite(c.Request.Context(), req.URL, req.Scope, req.Type, req.AutoIngest)
	if err != nil {
		if errors.Is(err, dao.ErrDuplicateURL) {
			c.AbortWithStatusJSON(http.StatusConflict, response.Response{
				Msg: dao.ErrDuplicateURL.Error(),
			})
			return
		}
		slog.Error(ErrCreateSite.Error(), "url", req.URL, "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: response.NewSiteResponse(site),
	})
}

// BulkCreateSites 批量提交，部分失败不影响整体，始终返回200与汇总结果
func BulkCreateSites(c *gin.Context) {
	var req request.BulkSitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	result := ingestService.BulkSubmit(c.Request.Context(), req.Text, req.Scope, req.Type, req.AutoIngest)

	c.JSON(http.StatusOK, response.Response{
		Data: result,
	})
}

// ReingestSite 异步触发爬取，返回202后通过轮询观察进度
func ReingestSite(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ingestService.StartCrawl(c.Request.Context(), id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: dao.ErrNotFound.Error(),
			})
			return
		}
		slog.Error(ErrReingestSite.Error(), "id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrReingestSite.Error(),
		})
		return
	}

	c.Status(http.StatusAccepted)
}

func DeleteSite(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ingestService.DeleteSite(c.Request.Context(), id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: dao.ErrNotFound.Error(),
			})
			return
		}
		slog.Error(ErrDeleteSite.Error(), "id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteSite.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
