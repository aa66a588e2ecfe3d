package main

import (
	"errors"
	"log"
	"net/http"

	"standup/src/common"
	"standup/src/db"
	"standup/src/models"
	"standup/src/models/scopes"
	"standup/src/types"
	"standup/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func inviteHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/teams/invite", func(ctx *gin.Context) {
			var body types.SendInviteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var invite models.Invite
			var team models.Team
			var inviter models.User
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where(&models.Team{ID: body.TeamID}).
					Preload("Members").
					First(&team).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errors.New("team not found")
					}
					return err
				}
				if !team.IsAdmin(userId) {
					return errors.New("not authorized to send invites")
				}
				if err := tx.Where(&models.User{ID: userId}).First(&inviter).Error; err != nil {
					return err
				}

				// An existing account with this email that is already on the
				// team cannot be invited again.
				var target models.User
				if err := tx.
					Where(&models.User{Email: body.Email}).
					First(&target).
					Error; err == nil {
					if team.Member(target.ID) != nil {
						return models.ErrAlreadyMember
					}
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}

				var pending int64
				if err := tx.
					Model(&models.Invite{}).
					Where(&models.Invite{Email: body.Email, TeamID: body.TeamID}).
					Scopes(scopes.WithPendingStatus).
					Count(&pending).
					Error; err != nil {
					return err
				}
				if pending > 0 {
					return errors.New("invite already sent to this email")
				}

				invite = models.Invite{
					Email:     body.Email,
					TeamID:    body.TeamID,
					InvitedBy: userId,
					Status:    types.INVITE_PENDING,
				}
				if err := tx.Create(&invite).Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("Error creating invite: %s\n", err.Error())
				status := http.StatusBadRequest
				switch {
				case err.Error() == "team not found":
					status = http.StatusNotFound
				case err.Error() == "not authorized to send invites":
					status = http.StatusForbidden
				case errors.Is(err, models.ErrAlreadyMember), err.Error() == "invite already sent to this email":
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}

			go common.SendInviteNotification(&invite, &team, &inviter)

			ctx.JSON(http.StatusCreated, gin.H{"data": invite})
		}).
		GET("/teams/:teamId/invites", func(ctx *gin.Context) {
			var params struct {
				TeamID uint `uri:"teamId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var team models.Team
			if err := db.
				Where(&models.Team{ID: params.TeamID}).
				Preload("Members").
				First(&team).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if !team.IsAdmin(userId) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not authorized to view invites"})
				return
			}
			invites := make([]models.Invite, 0)
			if err := db.
				Model(&models.Invite{}).
				Where(&models.Invite{TeamID: params.TeamID}).
				Preload("Inviter").
				Order("created_at desc").
				Find(&invites).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": invites, "count": len(invites)})
		}).
		GET("/invites", func(ctx *gin.Context) {
			email := ctx.GetString("email")
			db := db.GetDb()
			invites := make([]models.Invite, 0)
			if err := db.
				Model(&models.Invite{}).
				Where(&models.Invite{Email: email}).
				Preload("Team").
				Preload("Inviter").
				Order("created_at desc").
				Find(&invites).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": invites, "count": len(invites)})
		}).
		POST("/teams/invite/accept", func(ctx *gin.Context) {
			var body types.AcceptInviteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			email := ctx.GetString("email")
			var team models.Team
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var invite models.Invite
				if err := tx.
					Scopes(scopes.WithID(body.InviteID)).
					First(&invite).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errors.New("invite not found")
					}
					return err
				}
				if err := tx.
					Where(&models.Team{ID: invite.TeamID}).
					Preload("Members").
					First(&team).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errors.New("team not found")
					}
					return err
				}

				alreadyMember := team.Member(userId) != nil
				if err := invite.Accept(email, alreadyMember); err != nil {
					return err
				}
				if err := tx.
					Model(&models.Invite{}).
					Where(&models.Invite{ID: invite.ID}).
					Update("status", types.INVITE_ACCEPTED).
					Error; err != nil {
					return err
				}

				var user models.User
				if err := tx.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
					return err
				}
				return utils.MoveMemberToTeam(tx, &user, &team.ID, types.ROLE_MEMBER)
			})
			if err != nil {
				log.Printf("Error accepting invite [%d]: %s\n", body.InviteID, err.Error())
				status := http.StatusBadRequest
				switch {
				case err.Error() == "invite not found", err.Error() == "team not found":
					status = http.StatusNotFound
				case errors.Is(err, models.ErrInviteNotPending), errors.Is(err, models.ErrAlreadyMember):
					status = http.StatusConflict
				case errors.Is(err, models.ErrInviteNotYours):
					status = http.StatusForbidden
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"message": "Invite accepted successfully",
				"team": gin.H{
					"id":   team.ID,
					"name": team.Name,
					"role": types.ROLE_MEMBER,
				},
			})
		})
	return g
}
