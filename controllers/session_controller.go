package controllers

import (
	"net/http"
	"strings"

	"storefront-client/models"
	"storefront-client/services"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	session *services.SessionService
}

func NewSessionController(session *services.SessionService) *SessionController {
	return &SessionController{session: session}
}

// GetSession handles GET /session
func (sc *SessionController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, sc.session.Snapshot())
}

// Login handles POST /session/login
func (sc *SessionController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		badRequest(c, "Please enter both email and password", nil)
		return
	}

	if err := sc.session.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc.session.Snapshot())
}

// Register handles POST /session/register. The caller still has to log in.
func (sc *SessionController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid registration data. Please check your information and try again.", err)
		return
	}

	user, err := sc.session.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully. Please sign in.",
		"user":    user,
	})
}

// Logout handles POST /session/logout
func (sc *SessionController) Logout(c *gin.Context) {
	sc.session.Logout(c.Request.Context())
	c.JSON(http.StatusOK, sc.session.Snapshot())
}

// UpdateUser handles PATCH /session/user
func (sc *SessionController) UpdateUser(c *gin.Context) {
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	if patch.Empty() {
		badRequest(c, "Nothing to update", nil)
		return
	}

	if err := sc.session.UpdateUser(c.Request.Context(), patch); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc.session.Snapshot())
}

// UpdateProfile handles PUT /session/profile
func (sc *SessionController) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := sc.session.UpdateProfile(c.Request.Context(), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    sc.session.User(),
	})
}

type profileImageRequest struct {
	URI string `json:"uri" binding:"required"`
}

// GetProfileImage handles GET /session/profile-image
func (sc *SessionController) GetProfileImage(c *gin.Context) {
	uri, found, err := sc.session.ProfileImage(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"uri": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uri": uri})
}

// SetProfileImage handles PUT /session/profile-image
func (sc *SessionController) SetProfileImage(c *gin.Context) {
	var req profileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "uri is required", err)
		return
	}

	if err := sc.session.SetProfileImage(c.Request.Context(), req.URI); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uri": req.URI})
}
