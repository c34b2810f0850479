package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Naicocircus/blog-tech/internal/client"
)

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *Server) issueToken(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// authRequired validates the bearer token and stores the user id in the
// request context for handlers.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, http.StatusUnauthorized, "missing authorization header")
			return
		}
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			fail(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
			if _, okAlg := t.Method.(*jwt.SigningMethodHMAC); !okAlg {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			fail(c, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, okClaims := token.Claims.(jwt.MapClaims)
		if !okClaims {
			fail(c, http.StatusUnauthorized, "invalid token claims")
			return
		}
		sub, _ := claims["sub"].(string)
		s.mu.Lock()
		_, exists := s.usersByID[sub]
		s.mu.Unlock()
		if !exists {
			fail(c, http.StatusUnauthorized, "unknown user")
			return
		}

		c.Set("userID", sub)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	id, _ := c.Get("userID")
	userID, _ := id.(string)
	return userID
}

func (s *Server) handleRegister(c *gin.Context) {
	var req client.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		fail(c, http.StatusBadRequest, "name, email and a password of 6+ characters are required")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	s.mu.Lock()
	if _, taken := s.usersByEmail[req.Email]; taken {
		s.mu.Unlock()
		fail(c, http.StatusConflict, "email already registered")
		return
	}
	acct := &account{ID: uuid.NewString(), Name: req.Name, Email: req.Email, PasswordHash: hash}
	s.usersByEmail[acct.Email] = acct
	s.usersByID[acct.ID] = acct
	s.mu.Unlock()

	s.respondWithToken(c, acct)
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds client.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	acct, exists := s.usersByEmail[creds.Email]
	s.mu.Unlock()
	if !exists || verifyPassword(acct.PasswordHash, creds.Password) != nil {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.respondWithToken(c, acct)
}

func (s *Server) respondWithToken(c *gin.Context, acct *account) {
	token, err := s.issueToken(acct.ID, acct.Email)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	ok(c, client.AuthResponse{
		Token: token,
		User:  client.User{ID: acct.ID, Name: acct.Name, Email: acct.Email, Avatar: acct.Avatar},
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	// Tokens are stateless; logout is client-side credential disposal.
	ok(c, nil)
}

func (s *Server) handleMe(c *gin.Context) {
	s.mu.Lock()
	acct := s.usersByID[currentUserID(c)]
	s.mu.Unlock()
	ok(c, client.User{ID: acct.ID, Name: acct.Name, Email: acct.Email, Avatar: acct.Avatar})
}
