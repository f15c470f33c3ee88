package mock

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

func (b *Backend) authenticate(c *gin.Context) (*User, *credentialsRequest, bool) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "invalid json")
		return nil, nil, false
	}
	user := b.userByEmail(strings.TrimSpace(req.Email))
	if user == nil || bcrypt.CompareHashAndPassword(user.passwordHash, []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "authentication_failed", "No active account found with the given credentials")
		return nil, nil, false
	}
	return user, &req, true
}

// otpHandler handles POST otp/; the OTP itself is fixed.
func (b *Backend) otpHandler(c *gin.Context) {
	if _, _, ok := b.authenticate(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email"})
}

// tokenHandler handles POST token/
func (b *Backend) tokenHandler(c *gin.Context) {
	user, req, ok := b.authenticate(c)
	if !ok {
		return
	}
	if req.OTP != b.OTP {
		respondError(c, http.StatusBadRequest, codeInvalid, "Invalid OTP")
		return
	}
	access, err := b.createJWT(user, accessTokenType, b.AccessTTL)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "error", "Server error")
		return
	}
	refresh, err := b.createJWT(user, refreshTokenType, b.RefreshTTL)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "error", "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh, "role": user.Role, "pk": user.ID})
}

// refreshHandler handles POST token/refresh/
func (b *Backend) refreshHandler(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		respondError(c, http.StatusBadRequest, codeInvalid, "This field is required.")
		return
	}
	if b.rejectRefresh.Load() {
		respondError(c, http.StatusUnauthorized, codeTokenNotValid, "Token is invalid or expired")
		return
	}
	claims, err := b.parseJWT(req.Refresh, refreshTokenType)
	if err != nil {
		respondError(c, http.StatusUnauthorized, codeTokenNotValid, "Token is invalid or expired")
		return
	}
	user, ok := b.users.Get(claims.Subject)
	if !ok {
		respondError(c, http.StatusUnauthorized, codeTokenNotValid, "Token is invalid or expired")
		return
	}
	access, err := b.createJWT(user, accessTokenType, b.AccessTTL)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "error", "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}
