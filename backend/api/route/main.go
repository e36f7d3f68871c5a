package route

import (
	"archive-hub/backend/api/middleware"
	"archive-hub/backend/common"
	"archive-hub/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine, catalog *service.Catalog, sessionStore sessions.Store) {
	// 默认不信任任何代理，限流按真实连接地址计算
	if err := route.SetTrustedProxies(common.TrustedProxyList()); err != nil {
		common.SysError("invalid TRUSTED_PROXIES, trusting no proxy: " + err.Error())
		_ = route.SetTrustedProxies(nil)
	}
	route.Use(middleware.CORS())
	route.Use(middleware.Sessions(sessionStore))
	route.Use(middleware.SessionTouch())
	route.Use(middleware.GzipDecodeMiddleware(common.MaxDecodedBodySize))
	if *common.EnableGzip {
		// 压缩包本身已压缩，下载不再 gzip
		route.Use(middleware.GzipEncodeMiddleware("/api/download/"))
	}

	SetApiRouter(route, catalog)
	setWebRouter(route, common.FrontendPath)
}
