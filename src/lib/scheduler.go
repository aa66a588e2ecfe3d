package lib

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	return sched, nil
}

// CreateDailyJob schedules handler every day at hour:minute. The returned id
// can be used to remove the job when its source row changes.
func CreateDailyJob(name string, hour, minute int, handler any, args ...any) (*uuid.UUID, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
		gocron.NewTask(handler, args...),
		gocron.WithName(name),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID()
	log.Printf("Job: %s %s\n", id.String(), j.Name())
	return &id, nil
}

// CreateOneTimeJob schedules handler once at runsAt.
func CreateOneTimeJob(name string, runsAt time.Time, handler any, args ...any) (*uuid.UUID, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(runsAt)),
		gocron.NewTask(handler, args...),
		gocron.WithName(name),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID()
	log.Printf("Job: %s %s\n", id.String(), j.Name())
	return &id, nil
}

func RemoveJob(id uuid.UUID) {
	sched, err := GetScheduler()
	if err != nil {
		return
	}
	if err := sched.RemoveJob(id); err != nil {
		log.Printf("Error removing job %s: %s\n", id.String(), err.Error())
	}
}
