package handlers

import (
	"errors"
	"net/http"

	"github.com/communityhub/server/internal/helpers"
	"github.com/communityhub/server/internal/models"
	"github.com/communityhub/server/internal/services"
	"github.com/gin-gonic/gin"
)

func Signup(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		// Roles are never client-assignable. Every signup starts as USER.
		user := models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Role:     models.RoleUser,
		}

		createdUser, err := u.CreateUser(c.Request.Context(), &user)
		if err != nil {
			if errors.Is(err, models.ErrDuplicateUsername) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(createdUser, "Account created successfully"))
	}
}

func Login(u *services.UserService, isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		user, token, err := u.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "message": "invalid username or password"})
			return
		}

		c.SetCookie(
			"access_token",
			token,
			int(helpers.SessionTTL.Seconds()),
			"/",
			"", // let Gin pick current domain
			isProduction,
			true,
		)

		// Return user info but not the token itself
		c.JSON(http.StatusOK, gin.H{
			"user": user,
		})
	}
}

// Logout clears the session cookie.
func Logout(isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
		})
	}
}

// sessionClaims pulls the authenticated claims stored by the auth
// middleware, or aborts with the right status when they are missing.
func sessionClaims(c *gin.Context) (*helpers.SessionClaims, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, false
	}

	claims, ok := userClaims.(*helpers.SessionClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return nil, false
	}
	return claims, true
}
