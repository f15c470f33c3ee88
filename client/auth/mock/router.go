package mock

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	codeTokenNotValid    = "token_not_valid"
	codeNotAuthenticated = "not_authenticated"
	codePermissionDenied = "permission_denied"
	codeInvalid          = "invalid"
	codeNotFound         = "not_found"
)

// router builds the gin engine with all API routes.
func (b *Backend) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if b.logRequests {
		r.Use(gin.Logger())
	}
	if b.cors != nil {
		r.Use(b.cors.middleware())
	}
	r.Use(b.countMiddleware())

	api := r.Group(BasePath)
	{
		api.POST("/otp/", b.otpHandler)
		api.POST("/token/", b.tokenHandler)
		api.POST("/token/refresh/", b.refreshHandler)
		api.POST("/users/", b.signUpHandler)
		api.GET("/get-invite/:token/", b.getInviteHandler)
		api.POST("/send-forgot-password-email/", b.forgotPasswordHandler)
		api.POST("/account/email/reset-password/", b.resetPasswordHandler)

		authorized := api.Group("/", b.authMiddleware())
		authorized.GET("/users/", b.staffOnly, b.listUsersHandler)
		authorized.GET("/users/:id/", b.getUserHandler)
		authorized.PATCH("/users/:id/", b.updateUserHandler)
		authorized.DELETE("/users/:id/", b.staffOnly, b.deleteUserHandler)
		authorized.GET("/account/:id/", b.accountHandler)
		authorized.PUT("/account/:id/change-password/", b.changePasswordHandler)
		authorized.POST("/send-invite/", b.staffOnly, b.sendInviteHandler)
		authorized.GET("/students/", b.staffOnly, b.studentsHandler)
	}
	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, codeNotFound, "Not found.")
	})
	return r
}

func (b *Backend) countMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if route := c.FullPath(); route != "" {
			b.countCall(c.Request.Method, route)
		}
		c.Next()
	}
}

// authMiddleware accepts "Authorization: Bearer <access>" and stores the user in the context.
func (b *Backend) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, codeNotAuthenticated, "Authentication credentials were not provided.")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, http.StatusUnauthorized, codeNotAuthenticated, "Authorization header must contain two space-delimited values")
			c.Abort()
			return
		}
		claims, err := b.parseJWT(parts[1], accessTokenType)
		if err != nil {
			respondError(c, http.StatusUnauthorized, codeTokenNotValid, "Given token not valid for any token type")
			c.Abort()
			return
		}
		user, ok := b.users.Get(claims.Subject)
		if !ok || !user.IsActive {
			respondError(c, http.StatusUnauthorized, codeTokenNotValid, "User not found")
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func (b *Backend) staffOnly(c *gin.Context) {
	user := currentUser(c)
	if !user.role().IsStaff() {
		respondError(c, http.StatusForbidden, codePermissionDenied, "You do not have permission to perform this action.")
		c.Abort()
		return
	}
	c.Next()
}

const userKey = "user"

func currentUser(c *gin.Context) *User {
	return c.MustGet(userKey).(*User)
}

// respondError sends a DRF style payload {"detail", "code"}.
func respondError(c *gin.Context, status int, code, detail string) {
	c.JSON(status, gin.H{"detail": detail, "code": code})
}
