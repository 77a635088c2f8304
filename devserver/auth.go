package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"smart-restaurant/api"
)

type claims struct {
	UserID int          `json:"user_id"`
	Email  string       `json:"email"`
	Role   api.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// generateToken creates a signed JWT for a given user
func (s *Server) generateToken(user *User) (string, error) {
	c := claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.jwtSecret)
}

// authRequired validates the JWT and injects claims into context
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		cl := &claims{}
		token, err := jwt.ParseWithClaims(tokenStr, cl, func(t *jwt.Token) (interface{}, error) {
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			c.Abort()
			return
		}
		c.Set("userID", cl.UserID)
		c.Set("email", cl.Email)
		c.Set("role", string(cl.Role))
		c.Next()
	}
}

// roleRequired enforces that the caller has one of the allowed roles
func roleRequired(roles ...api.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := currentRole(c)
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized"})
		c.Abort()
	}
}

func currentUserID(c *gin.Context) int {
	val, _ := c.Get("userID")
	return val.(int)
}

func currentRole(c *gin.Context) api.UserRole {
	val, _ := c.Get("role")
	return api.UserRole(val.(string))
}

type registerRequest struct {
	Name     string       `json:"name" binding:"required"`
	Email    string       `json:"email" binding:"required,email"`
	Password string       `json:"password" binding:"required,min=6"`
	Phone    string       `json:"phone"`
	Role     api.UserRole `json:"role"`
}

// register creates a new user account
func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = api.RoleCustomer
	}
	switch req.Role {
	case api.RoleCustomer, api.RoleRider, api.RoleAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid role. Must be: customer, rider, or admin"})
		return
	}

	var existing User
	if result := s.db.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to hash password"})
		return
	}

	user := User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         req.Role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	// Riders get a profile row so the location endpoints have a home
	if user.Role == api.RoleRider {
		s.db.Create(&RiderProfile{
			UserID:      user.UserID,
			FullName:    user.Name,
			PhoneNumber: user.Phone,
			Rating:      5.0,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// login authenticates against form-encoded OAuth2-password credentials
// (the email travels in the `username` field) and returns a bearer token.
func (s *Server) login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "username and password are required"})
		return
	}

	var user User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
		return
	}

	token, err := s.generateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"role":         user.Role,
		"name":         user.Name,
	})
}

// me returns the authenticated user's profile; the client uses it to
// restore a stored session.
func (s *Server) me(c *gin.Context) {
	var user User
	if err := s.db.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
