package services

import (
	"context"
	"log"
	"time"

	"tunehub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// StalePendingAge is how long a playlist may sit in the review queue
// before the nightly job flags it
const StalePendingAge = 7 * 24 * time.Hour

// CronService runs scheduled housekeeping jobs
type CronService struct {
	userRepo     repositories.UserRepository
	playlistRepo repositories.PlaylistRepository
	scheduler    *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(userRepo repositories.UserRepository, playlistRepo repositories.PlaylistRepository) *CronService {
	return &CronService{
		userRepo:     userRepo,
		playlistRepo: playlistRepo,
		scheduler:    cron.New(),
	}
}

// Start registers the jobs and launches the scheduler
func (s *CronService) Start() {
	// Nightly at 03:00: purge expired password reset tickets
	s.scheduler.AddFunc("0 3 * * *", s.purgeExpiredResetTickets)

	// Nightly at 03:10: flag playlists stuck in the review queue
	s.scheduler.AddFunc("10 3 * * *", s.reportStalePendingPlaylists)

	s.scheduler.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) purgeExpiredResetTickets() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cleared, err := s.userRepo.ClearExpiredResetTickets(ctx)
	if err != nil {
		log.Printf("❌ Reset ticket purge error: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("🧹 Cleared %d expired reset tickets", cleared)
	}
}

func (s *CronService) reportStalePendingPlaylists() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-StalePendingAge)
	stale, err := s.playlistRepo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Pending playlist check error: %v", err)
		return
	}

	for _, playlist := range stale {
		log.Printf("⏳ Playlist '%s' has waited for review since %s", playlist.Title, playlist.CreatedAt.Format("2006-01-02"))
	}
}
