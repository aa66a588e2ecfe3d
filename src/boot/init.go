package boot

import (
	"log"

	"standup/src/common"
	"standup/src/db"
	"standup/src/lib"
	"standup/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Invite{},
		&models.Reminder{},
		&models.ReminderAssignment{},
		&models.Standup{},
		&models.StandupMedia{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler rebuilds the per-team standup-reminder jobs from the teams
// table and starts the scheduler. Jobs do not survive a restart on their own.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if err := RecoverTeamReminderJobs(); err != nil {
		log.Printf("Error recovering reminder jobs: %s\n", err.Error())
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

func RecoverTeamReminderJobs() error {
	db := db.GetDb()
	ss := db.Session(&gorm.Session{PrepareStmt: true})
	var teams []models.Team
	if err := ss.
		Model(&models.Team{}).
		Select("id", "name", "reminder_time").
		Order("id asc").
		Find(&teams).
		Error; err != nil {
		log.Printf("Error retrieving teams: %s\n", err.Error())
		return err
	}
	log.Printf("Found %d teams with reminder schedules", len(teams))
	for i := range teams {
		common.ScheduleTeamReminder(&teams[i])
	}
	return nil
}
