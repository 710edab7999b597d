package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shopapi/internal/handlers"
	authmw "shopapi/internal/middleware/auth"
	"shopapi/internal/session"
)

type Deps struct {
	DB             *gorm.DB
	Sessions       *session.Service
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
}

func Register(e *echo.Echo, d *Deps) {
	requireSession := authmw.RequireSession(d.Sessions)

	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "Hello World!") })

	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout, requireSession)

	products := e.Group("/api/products")

	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	products.POST("/add", d.ProductHandler.AddProduct, requireSession)
	products.PUT("/update/:id", d.ProductHandler.UpdateProduct, requireSession)
	products.DELETE("/delete/:id", d.ProductHandler.DeleteProduct, requireSession)
}
