package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"lingodeck/internal/repository"
	"lingodeck/internal/service"
)

// Scheduler manages the application's background jobs: purging expired
// quiz snapshots and sessions every hour and sending review reminder
// emails once a day.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	progressRepo *repository.ProgressRepository
	userRepo     *repository.UserRepository
	historyRepo  *repository.HistoryRepository
	emailService *service.EmailService
}

// New creates a new scheduler instance
func New(progressRepo *repository.ProgressRepository, userRepo *repository.UserRepository, historyRepo *repository.HistoryRepository, emailService *service.EmailService) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		progressRepo: progressRepo,
		userRepo:     userRepo,
		historyRepo:  historyRepo,
		emailService: emailService,
	}
}

// Start begins running all scheduled tasks in the background
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.purgeExpired)
	s.scheduler.Every(1).Day().At("08:00").Do(s.sendReviewReminders)
	s.scheduler.StartAsync()
	log.Println("Background scheduler started")
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// purgeExpired removes quiz snapshots past their TTL and dead auth
// sessions.
func (s *Scheduler) purgeExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	purged, err := s.progressRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("Error purging expired quiz progress: %v", err)
	} else if purged > 0 {
		log.Printf("Purged %d expired quiz snapshots", purged)
	}

	deleted, err := s.userRepo.DeleteExpiredSessions()
	if err != nil {
		log.Printf("Error purging expired sessions: %v", err)
	} else if deleted > 0 {
		log.Printf("Purged %d expired sessions", deleted)
	}
}

// sendReviewReminders emails users whose decks have come due for review
func (s *Scheduler) sendReviewReminders() {
	if s.emailService == nil || !s.emailService.IsEnabled() {
		return
	}

	due, err := s.historyRepo.FindDueDecks(time.Now())
	if err != nil {
		log.Printf("Error finding due decks: %v", err)
		return
	}

	for _, d := range due {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s.emailService.SendReviewReminderEmail(ctx, d.UserEmail, d.UserName, d.DeckName); err != nil {
			log.Printf("Error sending review reminder for deck %d: %v", d.DeckID, err)
		}
		cancel()
	}
}
