package common

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"standup/src/db"
	"standup/src/lib"
	"standup/src/lib/mailer"
	"standup/src/models"
	"standup/src/models/scopes"
	"standup/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	teamJobsMu sync.Mutex
	teamJobs   = map[uint]uuid.UUID{}
)

// SendStandupReminders mails every member of teamId that their daily standup
// is due. Runs from the per-team cron job at the team's reminder time.
func SendStandupReminders(teamId uint) {
	var team models.Team
	var emails []string
	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Team{}).
			Where(&models.Team{ID: teamId}).
			First(&team).
			Error; err != nil {
			return err
		}
		var memberIds []uint
		if err := tx.
			Model(&models.TeamMember{}).
			Where(&models.TeamMember{TeamID: teamId}).
			Pluck("user_id", &memberIds).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.User{}).
			Distinct("email").
			Where("id IN (?)", memberIds).
			Pluck("email", &emails).
			Error; err != nil {
			return err
		}
		return nil
	}); err != nil {
		log.Printf("[SendStandupReminders] Error on running database transaction: %s\n", err.Error())
		return
	}
	if len(emails) == 0 {
		return
	}

	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Standup reminder: %s", team.Name),
		From:     senderFrom,
		FromName: "noreply",
		To:       emails,
		Body: fmt.Sprintf(`
			<p>It is standup time for team <b>%s</b>.</p>
			<p>Submit what you did yesterday, what you are doing today, and any blockers <a href="%s/dashboard/submit-standup">here</a>.</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			team.Name,
			os.Getenv("APP_HOST"),
		),
		Html: true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
		return
	}
}

// ScheduleTeamReminder registers the daily standup-reminder job for a team,
// replacing any job previously registered for the same team.
func ScheduleTeamReminder(team *models.Team) {
	parts := strings.SplitN(team.ReminderTime, ":", 2)
	if len(parts) != 2 {
		log.Printf("Invalid reminder time for team [%d]: %s\n", team.ID, team.ReminderTime)
		return
	}
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])

	teamJobsMu.Lock()
	defer teamJobsMu.Unlock()
	if old, ok := teamJobs[team.ID]; ok {
		lib.RemoveJob(old)
		delete(teamJobs, team.ID)
	}
	name := fmt.Sprintf("Team_%d_StandupReminder", team.ID)
	id, err := lib.CreateDailyJob(name, hour, minute, SendStandupReminders, team.ID)
	if err != nil {
		log.Printf("Error creating job for Team: id=%d error=%s\n", team.ID, err.Error())
		return
	}
	teamJobs[team.ID] = *id
	log.Printf("Created job for Team[%d] with ID %s\n", team.ID, id.String())
}

// SendReminderDueAlert mails the assignees who have not completed a reminder
// when its due time arrives. Runs from the one-time job scheduled at creation.
func SendReminderDueAlert(reminderId uint) {
	var reminder models.Reminder
	db := db.GetDb()
	if err := db.
		Scopes(scopes.WithID(reminderId)).
		Preload("Assignments").
		Preload("Assignments.User").
		Preload("Team").
		First(&reminder).
		Error; err != nil {
		log.Printf("[SendReminderDueAlert] Error loading reminder [%d]: %s\n", reminderId, err.Error())
		return
	}
	if !reminder.IsActive {
		return
	}
	emails := make([]string, 0, len(reminder.Assignments))
	for _, a := range reminder.Assignments {
		if a.Status == types.ASSIGNMENT_COMPLETED || a.User == nil {
			continue
		}
		emails = append(emails, a.User.Email)
	}
	if len(emails) == 0 {
		return
	}

	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Reminder due: %s", reminder.Title),
		From:     senderFrom,
		FromName: "noreply",
		To:       emails,
		Body: fmt.Sprintf(`
			<p>The reminder <b>%s</b> is due now (%s %s).</p>
			<p>%s</p>
			<p>Update your status <a href="%s/dashboard/reminders">here</a>.</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			reminder.Title,
			reminder.DueDate,
			reminder.DueTime,
			reminder.Description,
			os.Getenv("APP_HOST"),
		),
		Html: true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
		return
	}
}

// ScheduleReminderDueAlert registers the one-time due-time alert for a newly
// created reminder. Reminders already past due are skipped.
func ScheduleReminderDueAlert(reminder *models.Reminder) {
	dueAt, err := reminder.DueAt(time.Local)
	if err != nil {
		log.Printf("Invalid due time for reminder [%d]: %s\n", reminder.ID, err.Error())
		return
	}
	if dueAt.Before(time.Now()) {
		return
	}
	name := fmt.Sprintf("Reminder_%d_DueAlert", reminder.ID)
	id, err := lib.CreateOneTimeJob(name, dueAt, SendReminderDueAlert, reminder.ID)
	if err != nil {
		log.Printf("Error creating job for Reminder: id=%d error=%s\n", reminder.ID, err.Error())
		return
	}
	log.Printf("Created job for Reminder[%d] with ID %s\n", reminder.ID, id.String())
}

// SendInviteNotification mails the invited address. Best effort: a mail
// failure never fails the invite itself.
func SendInviteNotification(invite *models.Invite, team *models.Team, inviter *models.User) {
	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("You have been invited to join %s", team.Name),
		From:     senderFrom,
		FromName: "noreply",
		To:       []string{invite.Email},
		Body: fmt.Sprintf(`
			<p><b>%s</b> invited you to join team <b>%s</b>.</p>
			<p>%s</p>
			<p>Sign in and accept the invite <a href="%s/dashboard/invites">here</a>.</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			inviter.Name,
			team.Name,
			team.Description,
			os.Getenv("APP_HOST"),
		),
		Html: true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
		return
	}
}
