package handler

import (
	"archive-hub/backend/common"
	"archive-hub/backend/model"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	Version      string `json:"version"`
	StartTime    int64  `json:"startTime"`
	StoreType    string `json:"storeType"`
	StoreHealthy bool   `json:"storeHealthy"`
	RedisEnabled bool   `json:"redisEnabled"`
}

func GetStatus(store model.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		healthy := true
		if err := store.Ping(); err != nil {
			common.SysError("store ping failed: " + err.Error())
			healthy = false
		}
		common.RespSuccess(c, StatusResponse{
			Version:      common.Version,
			StartTime:    common.StartTime,
			StoreType:    common.StoreType,
			StoreHealthy: healthy,
			RedisEnabled: common.RedisEnabled,
		})
	}
}
