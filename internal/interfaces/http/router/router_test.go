package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// registrarFunc adapts a plain function to the RouteRegistrar interface.
type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func okRegistrar(prefix string) RouteRegistrar {
	return registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET(prefix, func(c *gin.Context) {
			c.String(http.StatusOK, prefix)
		})
	})
}

func serve(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterMountsUnderDefaultVersion(t *testing.T) {
	engine := gin.New()

	NewRouter(engine).Register(okRegistrar("/products")).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, "/api/v1/products").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, "/products").Code)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()

	NewRouter(engine, WithAPIVersion("v2")).Register(okRegistrar("/products")).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, "/api/v2/products").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, "/api/v1/products").Code)
}

func TestRouterRegisterChaining(t *testing.T) {
	engine := gin.New()

	NewRouter(engine).
		Register(okRegistrar("/products")).
		Register(okRegistrar("/orders"), okRegistrar("/invoices")).
		Setup()

	for _, path := range []string{"/api/v1/products", "/api/v1/orders", "/api/v1/invoices"} {
		assert.Equal(t, http.StatusOK, serve(engine, path).Code, path)
	}
}

func TestRouterRoutesNotMountedBeforeSetup(t *testing.T) {
	engine := gin.New()

	NewRouter(engine).Register(okRegistrar("/products"))

	assert.Equal(t, http.StatusNotFound, serve(engine, "/api/v1/products").Code)
}
