package middlewares

import (
	"net/http"
	"strings"

	"standup/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminOnly guards the admin area. Non-admin callers get a 403 with the
// member area they should land on instead.
func AdminOnly(ctx *gin.Context) {
	role := ctx.GetString("role")
	if role != string(types.ROLE_ADMIN) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "admin access required",
			"redirect": "/dashboard",
		})
		return
	}
}

// GuestOnly rejects authenticated callers on login/signup routes, pointing
// them at the area matching their role.
func GuestOnly(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		return
	}
	reqToken := strings.TrimPrefix(bearerToken, "Bearer ")
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil || !tkn.Valid {
		return
	}
	redirect := "/dashboard"
	if claims.Role == string(types.ROLE_ADMIN) {
		redirect = "/adminDashboard"
	}
	ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error":    "already authenticated",
		"redirect": redirect,
	})
}
