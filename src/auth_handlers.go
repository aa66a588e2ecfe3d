package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"standup/src/controllers"
	"standup/src/db"
	"standup/src/lib"
	"standup/src/middlewares"
	"standup/src/models"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	auth := apiv1.Group("/auth")
	auth.Use(middlewares.GuestOnly)
	auth.
		POST("/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("Error on AuthLogin: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"token": token})
		}).
		POST("/register", func(ctx *gin.Context) {
			id, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				log.Printf("Error on AuthRegister: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"id": id})
		})
	return auth
}

func sessionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/auth/session", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			val := lib.CachedUserJSON(context.Background(), userId)
			if gjson.Valid(val) {
				var cached models.User
				if err := json.Unmarshal([]byte(val), &cached); err == nil && cached.ID == userId {
					ctx.JSON(http.StatusOK, gin.H{"user": cached})
					return
				}
			}
			var user models.User
			db := db.GetDb()
			if err := db.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			lib.CacheUserJSON(context.Background(), userId, &user)
			ctx.JSON(http.StatusOK, gin.H{"user": user})
		})
	return g
}
