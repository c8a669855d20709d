package routes

import (
	"net/url"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yigit/learncircle/docs"
)

// SetupSwagger configures Swagger documentation routes. A non-empty publicURL
// replaces the host advertised in the API document.
func SetupSwagger(router *gin.Engine, publicURL string) {
	if u, err := url.Parse(publicURL); err == nil && u.Host != "" {
		docs.SwaggerInfo.Host = u.Host
		if u.Scheme != "" {
			docs.SwaggerInfo.Schemes = []string{u.Scheme}
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(1)))
}
