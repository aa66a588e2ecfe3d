package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"standup/src/db"
	"standup/src/lib"
	"standup/src/middlewares"
	"standup/src/models"
	"standup/src/types"
	"standup/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var memberSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

func memberHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	updateMember := func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var body types.UpdateMemberRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var user models.User
		db := db.GetDb()
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where(&models.User{ID: params.ID}).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("member not found")
				}
				return err
			}
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Email != nil {
				var count int64
				if err := tx.Model(&models.User{}).
					Where("email = ? AND id <> ?", *body.Email, user.ID).
					Count(&count).
					Error; err != nil {
					return err
				}
				if count > 0 {
					return errors.New("email already in use")
				}
				updates["email"] = *body.Email
			}
			if body.Timezone != nil {
				updates["timezone"] = *body.Timezone
			}
			if body.Role != nil {
				updates["role"] = *body.Role
			}
			if len(updates) > 0 {
				if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
					return err
				}
			}
			if body.TeamID != nil {
				role := user.Role
				if body.Role != nil {
					role = types.Role(*body.Role)
				}
				if err := utils.MoveMemberToTeam(tx, &user, body.TeamID, role); err != nil {
					return err
				}
			} else if body.Role != nil && user.TeamID != nil {
				if err := tx.Model(&models.TeamMember{}).
					Where(&models.TeamMember{TeamID: *user.TeamID, UserID: user.ID}).
					Update("role", *body.Role).
					Error; err != nil {
					return err
				}
			}
			return tx.Where(&models.User{ID: user.ID}).Preload("Team").First(&user).Error
		})
		if err != nil {
			log.Printf("Error updating member [%d]: %s\n", params.ID, err.Error())
			status := http.StatusBadRequest
			switch {
			case err.Error() == "member not found":
				status = http.StatusNotFound
			case err.Error() == "email already in use", errors.Is(err, models.ErrAlreadyMember):
				status = http.StatusConflict
			}
			ctx.JSON(status, gin.H{"error": err.Error()})
			return
		}
		lib.DropUserCache(ctx, user.ID)
		ctx.JSON(http.StatusOK, gin.H{"data": user})
	}

	g.
		GET("/members", middlewares.AdminOnly, func(ctx *gin.Context) {
			var filters types.MembersQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			query := db.Model(&models.User{}).Preload("Team")
			if filters.TeamID > 0 {
				query = query.Where("team_id = ?", filters.TeamID)
			}
			if filters.Query != "" {
				like := "%" + strings.ToLower(filters.Query) + "%"
				query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
			}
			order := "created_at desc"
			if filters.Sort != "" {
				field, desc := filters.Sort, false
				if strings.HasPrefix(field, "-") {
					field, desc = field[1:], true
				}
				col, ok := memberSortColumns[field]
				if !ok {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "unsupported sort field"})
					return
				}
				order = col
				if desc {
					order += " desc"
				}
			}
			members := make([]models.User, 0)
			if err := query.Order(order).Find(&members).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": members, "count": len(members)})
		}).
		PUT("/members/:id", middlewares.AdminOnly, updateMember).
		PATCH("/members/:id", middlewares.AdminOnly, updateMember).
		DELETE("/members/:id", middlewares.AdminOnly, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if params.ID == userId {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
				return
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var user models.User
				if err := tx.Where(&models.User{ID: params.ID}).First(&user).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errors.New("member not found")
					}
					return err
				}
				return utils.DeleteMember(tx, &user)
			})
			if err != nil {
				log.Printf("Error deleting member [%d]: %s\n", params.ID, err.Error())
				status := http.StatusBadRequest
				if err.Error() == "member not found" {
					status = http.StatusNotFound
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			lib.DropUserCache(ctx, params.ID)
			ctx.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
		})
	return g
}
