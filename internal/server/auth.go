package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const userContextKey = "user"

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userUpdateRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (s *Server) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	rec := s.userByToken(strings.TrimSpace(header[7:]))
	if rec == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
		return
	}
	c.Set(userContextKey, rec)
	c.Next()
}

func (s *Server) adminRequired(c *gin.Context) {
	if !currentUser(c).IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Admin privileges required"})
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) *userRecord {
	return c.MustGet(userContextKey).(*userRecord)
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid signup payload"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Hashing failed"})
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}
	rec := &userRecord{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Hash:      hash,
		CreatedAt: time.Now().UTC(),
	}
	s.users[req.Email] = rec
	s.mu.Unlock()

	c.JSON(http.StatusOK, identityOf(rec))
}

func (s *Server) handleLogin(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")

	s.mu.Lock()
	rec := s.users[email]
	s.mu.Unlock()

	if rec == nil || bcrypt.CompareHashAndPassword(rec.Hash, []byte(password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = email
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, identityOf(currentUser(c)))
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid update payload"})
		return
	}
	if req.Name == nil && req.Password == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No valid fields to update"})
		return
	}

	rec := currentUser(c)
	s.mu.Lock()
	if req.Name != nil {
		rec.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.MinCost)
		if err != nil {
			s.mu.Unlock()
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Hashing failed"})
			return
		}
		rec.Hash = hash
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, identityOf(rec))
}
