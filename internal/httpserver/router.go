package httpserver

import (
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the back-office API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/v1")
	v1.GET("/variants", listVariantsHandler(deps.VariantRepo))
	v1.GET("/customers", listCustomersHandler(deps.CustomerRepo))
	v1.POST("/customers", createCustomerHandler(deps.CustomerRepo))
	v1.POST("/sales", createSaleHandler(deps.SaleRepo))
	v1.GET("/sales/:id", getSaleHandler(deps.SaleRepo))

	return router
}

func corsConfig(allowedOrigins string) cors.Config {
	cfg := cors.DefaultConfig()
	if allowedOrigins == "" || allowedOrigins == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = strings.Split(allowedOrigins, ",")
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cfg
}
