package handler

import (
	"archive-hub/backend/common"
	"archive-hub/backend/service"

	"github.com/gin-gonic/gin"
)

// GetStats godoc
// @Summary 下载统计
// @Description 汇总文件数、分类数、总下载量、各分类统计以及下载量前五的文件
// @Tags Stats
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} common.APIResponse{data=service.Stats}
// @Router /api/stats [get]
func GetStats(stats *service.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := stats.Stats()
		if err != nil {
			common.RespErrorFrom(c, err)
			return
		}
		common.RespSuccess(c, result)
	}
}
