package mock

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowOriginHeader      = "Access-Control-Allow-Origin"
	allowHeadersHeader     = "Access-Control-Allow-Headers"
	allowMethodsHeader     = "Access-Control-Allow-Methods"
	controlRequestHeader   = "Access-Control-Request-Method"
	allowCredentialsHeader = "Access-Control-Allow-Credentials"
	exposeHeadersHeader    = "Access-Control-Expose-Headers"
	maxAgeHeader           = "Access-Control-Max-Age"
	separator              = ", "
)

// Cors lets a browser dashboard served from another origin call the backend.
type Cors struct {
	AllowCredentials bool
	AllowHeaders     []string
	AllowOrigins     []string
	ExposeHeaders    []string
	MaxAge           int
}

// DefaultCors allows any origin with the headers the dashboard sends.
func DefaultCors() *Cors {
	return &Cors{
		AllowCredentials: true,
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowOrigins:     []string{"*"},
		ExposeHeaders:    []string{"Content-Type", "X-Request-ID"},
		MaxAge:           600,
	}
}

func (c *Cors) allowed(origin string) bool {
	for _, candidate := range c.AllowOrigins {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}

func (c *Cors) middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c.setHeaders(ctx.Writer.Header(), ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader(controlRequestHeader) != "" {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

func (c *Cors) setHeaders(header http.Header, request *http.Request) {
	origin := request.Header.Get("Origin")
	if origin == "" || !c.allowed(origin) {
		return
	}
	header.Set(allowOriginHeader, origin)
	header.Add("Vary", "Origin")
	if method := request.Header.Get(controlRequestHeader); method != "" {
		header.Set(allowMethodsHeader, method)
	}
	if len(c.AllowHeaders) > 0 {
		header.Set(allowHeadersHeader, strings.Join(c.AllowHeaders, separator))
	}
	if c.AllowCredentials {
		header.Set(allowCredentialsHeader, "true")
	}
	if c.MaxAge > 0 {
		header.Set(maxAgeHeader, strconv.Itoa(c.MaxAge))
	}
	if len(c.ExposeHeaders) > 0 {
		header.Set(exposeHeadersHeader, strings.Join(c.ExposeHeaders, separator))
	}
}
