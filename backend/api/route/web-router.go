package route

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"archive-hub/backend/common"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

func setWebRouter(route *gin.Engine, frontendPath string) {
	route.Use(static.Serve("/", static.LocalFile(frontendPath, false)))
	indexPage := filepath.Join(frontendPath, "index.html")
	route.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			common.RespErrorStr(c, http.StatusNotFound, "API route not found")
			return
		}
		if _, err := os.Stat(indexPage); err != nil {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.File(indexPage)
	})
}
