package main

import (
	"errors"
	"log"
	"net/http"
	"time"

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

// administeredTeamIds returns the ids of teams where userId holds the admin
// membership role.
func administeredTeamIds(tx *gorm.DB, userId uint) ([]uint, error) {
	var teamIds []uint
	err := tx.Model(&models.TeamMember{}).
		Where(&models.TeamMember{UserID: userId, Role: types.ROLE_ADMIN}).
		Pluck("team_id", &teamIds).
		Error
	return teamIds, err
}

func reminderHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reminders", middlewares.AdminOnly, func(ctx *gin.Context) {
			var body types.CreateReminderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.IsRecurring && body.RecurringPattern == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "recurring_pattern is required for recurring reminders"})
				return
			}
			userId := ctx.GetUint("id")
			assignees := utils.UniqueIDs(body.AssignedTo)
			var reminder models.Reminder
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var team models.Team
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
					return errors.New("not authorized to create reminders for this team")
				}
				for _, assigneeId := range assignees {
					if team.Member(assigneeId) == nil {
						return errors.New("assignee is not a member of this team")
					}
				}

				reminder = models.Reminder{
					Title:            body.Title,
					Description:      body.Description,
					Type:             types.ReminderType(body.Type),
					Priority:         types.ReminderPriority(body.Priority),
					DueDate:          body.DueDate,
					DueTime:          body.DueTime,
					TeamID:           body.TeamID,
					CreatedBy:        userId,
					IsRecurring:      body.IsRecurring,
					RecurringPattern: types.RecurringPattern(body.RecurringPattern),
					IsActive:         true,
				}
				if reminder.Type == "" {
					reminder.Type = types.REMINDER_GENERAL
				}
				if reminder.Priority == "" {
					reminder.Priority = types.PRIORITY_MEDIUM
				}
				for _, assigneeId := range assignees {
					reminder.Assignments = append(reminder.Assignments, models.ReminderAssignment{
						UserID: assigneeId,
						Status: types.ASSIGNMENT_PENDING,
					})
				}
				return tx.Create(&reminder).Error
			})
			if err != nil {
				log.Printf("Error creating reminder: %s\n", err.Error())
				status := http.StatusBadRequest
				switch err.Error() {
				case "team not found":
					status = http.StatusNotFound
				case "not authorized to create reminders for this team":
					status = http.StatusForbidden
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}

			go common.ScheduleReminderDueAlert(&reminder)

			ctx.JSON(http.StatusCreated, gin.H{"data": reminder})
		}).
		GET("/reminders", func(ctx *gin.Context) {
			var filters types.RemindersQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			db := db.GetDb()
			reminders := make([]models.Reminder, 0)

			if role == string(types.ROLE_ADMIN) {
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
						ctx.JSON(http.StatusForbidden, gin.H{"error": "not authorized to view reminders for this team"})
						return
					}
					teamIds = []uint{filters.TeamID}
				}
				if len(teamIds) == 0 {
					ctx.JSON(http.StatusOK, gin.H{"data": reminders, "count": 0})
					return
				}
				if err := db.
					Model(&models.Reminder{}).
					Where("team_id IN (?)", teamIds).
					Scopes(scopes.ActiveOnly).
					Preload("Assignments").
					Preload("Assignments.User").
					Preload("Team").
					Order("due_date, due_time").
					Find(&reminders).
					Error; err != nil {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": reminders, "count": len(reminders)})
				return
			}

			// Members only see reminders assigned to them, with the assignment
			// list narrowed to their own row.
			if err := db.
				Model(&models.Reminder{}).
				Joins("JOIN reminder_assignments ra ON ra.reminder_id = reminders.id AND ra.user_id = ?", userId).
				Scopes(scopes.ActiveOnly).
				Preload("Assignments", "user_id = ?", userId).
				Preload("Team").
				Order("due_date, due_time").
				Find(&reminders).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reminders, "count": len(reminders)})
		}).
		PUT("/reminders/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateReminderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var reminder models.Reminder
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Scopes(scopes.WithID(params.ID)).
					Preload("Assignments").
					First(&reminder).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errors.New("reminder not found")
					}
					return err
				}
				if !reminder.IsActive {
					return models.ErrReminderInactive
				}

				switch body.Action {
				case "update_status":
					if body.Status == "" {
						return errors.New("status is required for update_status")
					}
					assignment := reminder.Assignment(userId)
					if assignment == nil {
						return models.ErrNotAssigned
					}
					if err := assignment.Advance(types.AssignmentStatus(body.Status), time.Now()); err != nil {
						return err
					}
					return tx.Model(&models.ReminderAssignment{}).
						Where("id = ?", assignment.ID).
						Updates(map[string]any{
							"status":          assignment.Status,
							"acknowledged_at": assignment.AcknowledgedAt,
							"completed_at":    assignment.CompletedAt,
						}).
						Error

				case "edit":
					var team models.Team
					if err := tx.
						Where(&models.Team{ID: reminder.TeamID}).
						Preload("Members").
						First(&team).
						Error; err != nil {
						return err
					}
					if !team.IsAdmin(userId) {
						return errors.New("not authorized to edit this reminder")
					}
					updates := map[string]any{}
					if body.Title != nil {
						updates["title"] = *body.Title
					}
					if body.Description != nil {
						updates["description"] = *body.Description
					}
					if body.Type != nil {
						updates["type"] = *body.Type
					}
					if body.Priority != nil {
						updates["priority"] = *body.Priority
					}
					if body.DueDate != nil {
						updates["due_date"] = *body.DueDate
					}
					if body.DueTime != nil {
						updates["due_time"] = *body.DueTime
					}
					if len(updates) > 0 {
						if err := tx.Model(&models.Reminder{}).Where("id = ?", reminder.ID).Updates(updates).Error; err != nil {
							return err
						}
					}
					// Replacing the assignee list drops the old rows and their
					// statuses with them. Everyone starts over at pending.
					if body.AssignedTo != nil {
						assignees := utils.UniqueIDs(body.AssignedTo)
						for _, assigneeId := range assignees {
							if team.Member(assigneeId) == nil {
								return errors.New("assignee is not a member of this team")
							}
						}
						if err := tx.
							Unscoped().
							Where("reminder_id = ?", reminder.ID).
							Delete(&models.ReminderAssignment{}).
							Error; err != nil {
							return err
						}
						for _, assigneeId := range assignees {
							assignment := models.ReminderAssignment{
								ReminderID: reminder.ID,
								UserID:     assigneeId,
								Status:     types.ASSIGNMENT_PENDING,
							}
							if err := tx.Create(&assignment).Error; err != nil {
								return err
							}
						}
					}
					return nil
				}
				return errors.New("unsupported action")
			})
			if err != nil {
				log.Printf("Error updating reminder [%d]: %s\n", params.ID, err.Error())
				status := http.StatusBadRequest
				switch {
				case err.Error() == "reminder not found":
					status = http.StatusNotFound
				case errors.Is(err, models.ErrReminderInactive):
					status = http.StatusConflict
				case errors.Is(err, models.ErrNotAssigned), err.Error() == "not authorized to edit this reminder":
					status = http.StatusForbidden
				case errors.Is(err, models.ErrStatusNotForward):
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			if err := db.
				Where(&models.Reminder{ID: params.ID}).
				Preload("Assignments").
				Preload("Assignments.User").
				First(&reminder).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reminder})
		}).
		DELETE("/reminders/:id", middlewares.AdminOnly, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var reminder models.Reminder
				if err := tx.Scopes(scopes.WithID(params.ID)).First(&reminder).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errors.New("reminder not found")
					}
					return err
				}
				var team models.Team
				if err := tx.
					Where(&models.Team{ID: reminder.TeamID}).
					Preload("Members").
					First(&team).
					Error; err != nil {
					return err
				}
				if !team.IsAdmin(userId) {
					return errors.New("not authorized to delete this reminder")
				}
				// Soft delete. History stays queryable for the team log.
				return tx.Model(&models.Reminder{}).
					Where("id = ?", reminder.ID).
					Update("is_active", false).
					Error
			})
			if err != nil {
				log.Printf("Error deleting reminder [%d]: %s\n", params.ID, err.Error())
				status := http.StatusBadRequest
				switch err.Error() {
				case "reminder not found":
					status = http.StatusNotFound
				case "not authorized to delete this reminder":
					status = http.StatusForbidden
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
		})
	return g
}
