package service

import (
	"sessionbot/internal/repository"
	"sessionbot/internal/session"

	"go.uber.org/zap"
)

// Stats is a point-in-time snapshot of bot usage.
type Stats struct {
	Users       int
	Ratings     int
	AvgRating   float64
	ActiveFlows int
	FlowsByStep map[session.Step]int
}

// StatsService aggregates usage statistics from persistent storage and
// the in-memory session registry.
type StatsService struct {
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
	registry   *session.Registry
	logger     *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	userRepo repository.UserRepository,
	ratingRepo repository.RatingRepository,
	registry *session.Registry,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		registry:   registry,
		logger:     logger,
	}
}

// RegisterUser records that a user talked to the bot
func (s *StatsService) RegisterUser(userID int64, username string) error {
	return s.userRepo.EnsureUserExists(userID, username)
}

// Snapshot gathers current usage statistics
func (s *StatsService) Snapshot() (*Stats, error) {
	users, err := s.userRepo.CountUsers()
	if err != nil {
		return nil, err
	}

	summary, err := s.ratingRepo.GetSummary()
	if err != nil {
		return nil, err
	}

	active, byStep := s.registry.Stats()

	return &Stats{
		Users:       users,
		Ratings:     summary.Count,
		AvgRating:   summary.Average,
		ActiveFlows: active,
		FlowsByStep: byStep,
	}, nil
}

// LogSnapshot logs a snapshot, for the periodic diagnostics job
func (s *StatsService) LogSnapshot() {
	stats, err := s.Snapshot()
	if err != nil {
		s.logger.Error("Failed to gather stats snapshot", zap.Error(err))
		return
	}

	s.logger.Info("Usage snapshot",
		zap.Int("users", stats.Users),
		zap.Int("ratings", stats.Ratings),
		zap.Float64("avg_rating", stats.AvgRating),
		zap.Int("active_flows", stats.ActiveFlows),
	)
}
