package restapi

import (
	_ "embed"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware
)

//go:embed docs/swagger.yaml
var swaggerSpec []byte

const swaggerSpecPath = "/docs/swagger.yaml"

// SetupRouter wires the results endpoints, the API docs and, when metrics is not nil, the Prometheus handler.
func SetupRouter(handler *ResultsHandler, metrics http.Handler) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/statistics", handler.GetStatistics)
		v1.GET("/report", handler.GetReport)
		v1.GET("/timings", handler.GetTimings)
		v1.GET("/balances", handler.GetBalances)
	}

	router.GET(swaggerSpecPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", swaggerSpec)
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(swaggerSpecPath)))

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	return router
}
