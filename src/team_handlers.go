package main

import (
	"log"
	"net/http"

	"standup/src/common"
	"standup/src/db"
	"standup/src/middlewares"
	"standup/src/models"
	"standup/src/models/scopes"
	"standup/src/types"
	"standup/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func teamHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/teams", middlewares.AdminOnly, func(ctx *gin.Context) {
			var body types.CreateTeamRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var team *models.Team
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				created, err := utils.CreateNewTeam(tx, &body, userId)
				if err != nil {
					return err
				}
				team = created
				return nil
			})
			if err != nil {
				log.Printf("Error creating team: %s\n", err.Error())
				status := http.StatusBadRequest
				if err.Error() == "team name already exists" {
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}

			go common.ScheduleTeamReminder(team)

			ctx.JSON(http.StatusCreated, gin.H{"data": team})
		}).
		GET("/teams", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var memberships []models.TeamMember
			if err := db.
				Model(&models.TeamMember{}).
				Where(&models.TeamMember{UserID: userId}).
				Find(&memberships).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			teamIds := make([]uint, 0, len(memberships))
			for _, m := range memberships {
				teamIds = append(teamIds, m.TeamID)
			}
			teams := make([]models.Team, 0)
			if len(teamIds) > 0 {
				if err := db.
					Model(&models.Team{}).
					Scopes(scopes.WithIDs(teamIds...)).
					Preload("Members").
					Preload("Members.User").
					Order("created_at desc").
					Find(&teams).
					Error; err != nil {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": teams, "count": len(teams)})
		})
	return g
}
