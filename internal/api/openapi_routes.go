package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// DefaultOpenAPIPath 相对工作目录的OpenAPI文档
const DefaultOpenAPIPath = "docs/api/openapi.yaml"

// registerDocRoutes 提供 /openapi、/docs/redoc 和 /swagger
func registerDocRoutes(engine *gin.Engine, specPath string) {
	if specPath == "" {
		specPath = DefaultOpenAPIPath
	}

	serveOpenAPI := func(c *gin.Context) {
		if _, err := os.Stat(specPath); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "OpenAPI文档不存在"})
			return
		}
		c.Header("Content-Type", "application/yaml; charset=utf-8")
		c.File(specPath)
	}
	engine.GET("/openapi", serveOpenAPI)
	engine.GET("/openapi.yaml", serveOpenAPI)
	engine.GET("/docs/redoc", serveRedoc)

	// 文档数据源直接用 /openapi，不依赖 swag 生成的包
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/openapi"),
		ginSwagger.DocExpansion("none"),
	))
}

const redocPage = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Battle Slot API - Redoc</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc spec-url="/openapi"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>`

func serveRedoc(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(redocPage))
}
