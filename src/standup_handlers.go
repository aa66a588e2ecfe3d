package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"standup/src/config"
	"standup/src/db"
	"standup/src/lib"
	"standup/src/middlewares"
	"standup/src/models"
	"standup/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func standupHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/standup/submit", func(ctx *gin.Context) {
			yesterday := ctx.PostForm("yesterday")
			today := ctx.PostForm("today")
			blockers := ctx.PostForm("blockers")
			if yesterday == "" || today == "" || blockers == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "yesterday, today and blockers are required"})
				return
			}

			userId := ctx.GetUint("id")
			teamId := ctx.GetUint("team_id")
			if teamId == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "you are not a member of any team"})
				return
			}

			// The standup date follows the submitter's clock, not the server's.
			loc, err := time.LoadLocation(ctx.GetString("timezone"))
			if err != nil {
				loc = time.UTC
			}
			date := time.Now().In(loc).Format(config.DATE_PARSE_FORMAT)

			standup := models.Standup{
				UserID:    userId,
				TeamID:    teamId,
				Date:      date,
				Yesterday: yesterday,
				Today:     today,
				Blockers:  blockers,
			}

			form, err := ctx.MultipartForm()
			if err == nil && form != nil {
				store := lib.CreateMediaStore()
				for _, header := range form.File["files"] {
					file, err := header.Open()
					if err != nil {
						ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
						return
					}
					contentType := header.Header.Get("Content-Type")
					fileName, fileURL, err := store.Save(header.Filename, contentType, file)
					file.Close()
					if err != nil {
						log.Printf("Error storing standup file %s: %s\n", header.Filename, err.Error())
						ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
						return
					}
					standup.Media = append(standup.Media, models.StandupMedia{
						FileName: fileName,
						FileType: contentType,
						FileURL:  fileURL,
					})
				}
			}

			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&standup).Error
			}); err != nil {
				log.Printf("Error submitting standup: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": standup})
		}).
		GET("/standup", middlewares.AdminOnly, func(ctx *gin.Context) {
			var filters types.StandupsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if filters.Page < 1 {
				filters.Page = 1
			}
			if filters.Limit < 1 || filters.Limit > 100 {
				filters.Limit = 20
			}

			userId := ctx.GetUint("id")
			db := db.GetDb()
			teamIds, err := administeredTeamIds(db, userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if filters.TeamID > 0 {
				found := false
				for _, id := range teamIds {
					if id == filters.TeamID {
						found = true
						break
					}
				}
				if !found {
					ctx.JSON(http.StatusForbidden, gin.H{"error": "not authorized to view standups for this team"})
					return
				}
				teamIds = []uint{filters.TeamID}
			}
			if len(teamIds) == 0 {
				ctx.JSON(http.StatusOK, gin.H{"data": []models.Standup{}, "count": 0, "page": filters.Page, "limit": filters.Limit})
				return
			}

			query := db.Model(&models.Standup{}).Where("team_id IN (?)", teamIds)
			if filters.StartDate != "" {
				query = query.Where("date >= ?", filters.StartDate)
			}
			if filters.EndDate != "" {
				query = query.Where("date <= ?", filters.EndDate)
			}

			var total int64
			if err := query.Count(&total).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			standups := make([]models.Standup, 0)
			if err := query.
				Preload("User").
				Preload("Team").
				Preload("Media").
				Order("date desc, created_at desc").
				Offset((filters.Page - 1) * filters.Limit).
				Limit(filters.Limit).
				Find(&standups).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":  standups,
				"count": total,
				"page":  filters.Page,
				"limit": filters.Limit,
			})
		})
	return g
}
