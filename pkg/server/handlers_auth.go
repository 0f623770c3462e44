package server

import (
	"net/http"

	"github.com/example/storefront/pkg/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.shop.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.shop.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	token, err := s.sessions.Create(c.Request.Context(), &auth.Session{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		s.logger.Error("failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.SetCookie(s.config.Session.CookieName, token,
		int(s.sessions.TTL().Seconds()), "/", "", s.config.Session.Secure, true)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) logout(c *gin.Context) {
	token, err := c.Cookie(s.config.Session.CookieName)
	if err == nil && token != "" {
		if err := s.sessions.Destroy(c.Request.Context(), token); err != nil {
			s.logger.Warn("failed to destroy session", zap.Error(err))
		}
	}

	c.SetCookie(s.config.Session.CookieName, "", -1, "/", "", s.config.Session.Secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) getProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentSession(c)})
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.shop.UpdateProfile(c.Request.Context(), currentSession(c).UserID, req.Name, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
