package mock

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func (b *Backend) signUpHandler(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
		Token     string `json:"token"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "invalid json")
		return
	}
	invite, ok := b.invites.Get(req.Token)
	if !ok || invite.Email != strings.ToLower(req.Email) {
		respondError(c, http.StatusBadRequest, codeInvalid, "Invalid or expired invitation")
		return
	}
	user, err := b.AddUser(req.Email, req.Password, invite.Role, req.FirstName, req.LastName)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, err.Error())
		return
	}
	created := *user
	created.Phone = req.Phone
	b.users.Put(created.ID, &created)
	b.invites.Delete(req.Token)
	c.JSON(http.StatusCreated, &created)
}

func (b *Backend) getInviteHandler(c *gin.Context) {
	invite, ok := b.invites.Get(c.Param("token"))
	if !ok {
		respondError(c, http.StatusNotFound, codeNotFound, "Invitation not found")
		return
	}
	c.JSON(http.StatusOK, invite)
}

func (b *Backend) sendInviteHandler(c *gin.Context) {
	var req Invite
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Role == "" {
		respondError(c, http.StatusBadRequest, codeInvalid, "email and role are required")
		return
	}
	if b.userByEmail(req.Email) != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "User with this email already exists")
		return
	}
	b.AddInvite(req.Email, req.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Invitation sent"})
}

func (b *Backend) forgotPasswordHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "invalid json")
		return
	}
	if user := b.userByEmail(req.Email); user != nil {
		b.resets.Put(uuid.NewString(), user.Email)
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, an email has been sent"})
}

func (b *Backend) resetPasswordHandler(c *gin.Context) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "invalid json")
		return
	}
	email, ok := b.resets.Get(req.Token)
	if !ok {
		respondError(c, http.StatusBadRequest, codeInvalid, "Invalid or expired token")
		return
	}
	user := b.userByEmail(email)
	if user == nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "Invalid or expired token")
		return
	}
	if !b.setPassword(c, user, req.NewPassword) {
		return
	}
	b.resets.Delete(req.Token)
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (b *Backend) listUsersHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}
	users := b.sortedUsers("")
	start := (page - 1) * pageSize
	if page < 1 || (start >= len(users) && page != 1) {
		respondError(c, http.StatusNotFound, codeNotFound, "Invalid page.")
		return
	}
	end := min(start+pageSize, len(users))
	var next, previous interface{}
	if end < len(users) {
		next = b.pageURL(c, page+1, pageSize)
	}
	if page > 1 {
		previous = b.pageURL(c, page-1, pageSize)
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(users),
		"next":     next,
		"previous": previous,
		"results":  users[start:end],
	})
}

func (b *Backend) pageURL(c *gin.Context, page, pageSize int) string {
	return fmt.Sprintf("http://%v%vusers/?page=%d&page_size=%d", c.Request.Host, BasePath, page, pageSize)
}

func (b *Backend) getUserHandler(c *gin.Context) {
	user, ok := b.visibleUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (b *Backend) updateUserHandler(c *gin.Context) {
	user, ok := b.visibleUser(c)
	if !ok {
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "invalid json")
		return
	}
	updated := *user
	for key, value := range fields {
		text, _ := value.(string)
		switch key {
		case "first_name":
			updated.FirstName = text
		case "last_name":
			updated.LastName = text
		case "phone":
			updated.Phone = text
		case "email":
			updated.Email = strings.ToLower(text)
		default:
			respondError(c, http.StatusBadRequest, codeInvalid, fmt.Sprintf("field %v cannot be updated", key))
			return
		}
	}
	updated.Username = strings.TrimSpace(updated.FirstName + " " + updated.LastName)
	if !b.changeEmail(updated.ID, user.Email, updated.Email) {
		respondError(c, http.StatusBadRequest, codeInvalid, "User with this email already exists")
		return
	}
	b.users.Put(updated.ID, &updated)
	c.JSON(http.StatusOK, &updated)
}

func (b *Backend) deleteUserHandler(c *gin.Context) {
	if !b.deleteUser(c.Param("id")) {
		respondError(c, http.StatusNotFound, codeNotFound, "Not found.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (b *Backend) accountHandler(c *gin.Context) {
	user, ok := b.visibleUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"role":        user.Role,
		"phone":       user.Phone,
		"date_joined": user.DateJoined,
	})
}

func (b *Backend) changePasswordHandler(c *gin.Context) {
	user := currentUser(c)
	if target := b.userByUsername(c.Param("id")); target == nil || target.ID != user.ID {
		respondError(c, http.StatusForbidden, codePermissionDenied, "You do not have permission to perform this action.")
		return
	}
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "invalid json")
		return
	}
	if bcrypt.CompareHashAndPassword(user.passwordHash, []byte(req.OldPassword)) != nil {
		respondError(c, http.StatusBadRequest, codeInvalid, "Old password is incorrect")
		return
	}
	if !b.setPassword(c, user, req.NewPassword) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (b *Backend) studentsHandler(c *gin.Context) {
	students := b.sortedUsers("STUDENT")
	ret := make([]gin.H, 0, len(students))
	for _, student := range students {
		ret = append(ret, gin.H{
			"id":    student.ID,
			"name":  student.Username,
			"email": student.Email,
		})
	}
	c.JSON(http.StatusOK, ret)
}

// visibleUser resolves :id; non-staff users may only see themselves.
func (b *Backend) visibleUser(c *gin.Context) (*User, bool) {
	current := currentUser(c)
	user, ok := b.users.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, codeNotFound, "Not found.")
		return nil, false
	}
	if user.ID != current.ID && !current.role().IsStaff() {
		respondError(c, http.StatusForbidden, codePermissionDenied, "You do not have permission to perform this action.")
		return nil, false
	}
	return user, true
}

func (b *Backend) setPassword(c *gin.Context, user *User, password string) bool {
	if len(password) < 6 {
		respondError(c, http.StatusBadRequest, codeInvalid, "Password must be at least 6 characters long")
		return false
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "error", "Server error")
		return false
	}
	updated := *user
	updated.passwordHash = hash
	b.users.Put(updated.ID, &updated)
	return true
}
