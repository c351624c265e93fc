package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/repository"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

const (
	dashboardCacheKey     = "dash:stats"
	dashboardCachePattern = "dash:*"
	activeHoursShown      = 4
)

// Student status labels in display order.
const (
	StatusStudying         = "Studying"
	StatusRecentlyEnrolled = "Recently enrolled"
	StatusAboutToGraduate  = "About to graduate"
	StatusGraduated        = "Graduated"
)

type dashboardRepository interface {
	TopInterests(ctx context.Context) ([]string, error)
	BottomInterests(ctx context.Context) ([]string, error)
	DistinctInterests(ctx context.Context) (int, error)
	Distribution(ctx context.Context, column string) ([]dto.NamedCount, error)
	Submissions(ctx context.Context) ([]dto.DateCount, error)
	AgeDistribution(ctx context.Context) ([]dto.AgeCount, error)
	DailyActivity(ctx context.Context) ([]dto.DateCount, error)
	QuarterHourActivity(ctx context.Context) ([]dto.TimeCount, error)
	StatusTotals(ctx context.Context) (dto.StudentStatusTotals, error)
	HourlyActivity(ctx context.Context) ([]dto.HourCount, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	QueryConcurrency int
}

// DashboardService composes the dashboard payload from independent aggregate queries.
type DashboardService struct {
	repo    dashboardRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService. cache and metrics may be nil.
func NewDashboardService(repo dashboardRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.QueryConcurrency <= 0 {
		cfg.QueryConcurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Stats returns the dashboard payload and whether it was served from cache. Any
// failing query fails the whole call.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, bool, error) {
	var cached dto.DashboardStats
	if s.cache.Get(ctx, dashboardCacheKey, &cached) {
		return &cached, true, nil
	}

	stats, err := s.compose(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "Failed to fetch dashboard stats")
	}
	_ = s.cache.Set(ctx, dashboardCacheKey, stats)
	return stats, false, nil
}

// Invalidate drops any cached payload.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) compose(ctx context.Context) (*dto.DashboardStats, error) {
	var (
		stats  dto.DashboardStats
		status dto.StudentStatusTotals
		hourly []dto.HourCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.QueryConcurrency)
	run := func(label string, fn func(context.Context) error) {
		g.Go(func() error {
			start := time.Now()
			err := fn(gctx)
			s.metrics.ObserveDBQuery("dashboard_"+label, time.Since(start))
			return err
		})
	}

	run("top_interests", func(ctx context.Context) (err error) {
		stats.TopInterests, err = s.repo.TopInterests(ctx)
		return err
	})
	run("bottom_interests", func(ctx context.Context) (err error) {
		stats.BottomInterests, err = s.repo.BottomInterests(ctx)
		return err
	})
	run("distinct_interests", func(ctx context.Context) (err error) {
		stats.DistinctInterests, err = s.repo.DistinctInterests(ctx)
		return err
	})
	run("city_distribution", func(ctx context.Context) (err error) {
		stats.ProvincialDistribution, err = s.repo.Distribution(ctx, repository.DistributionCity)
		return err
	})
	run("submissions", func(ctx context.Context) (err error) {
		stats.SubmissionsChart, err = s.repo.Submissions(ctx)
		return err
	})
	run("age_distribution", func(ctx context.Context) (err error) {
		stats.AgeDistribution, err = s.repo.AgeDistribution(ctx)
		return err
	})
	run("department_distribution", func(ctx context.Context) (err error) {
		stats.DepartmentDistribution, err = s.repo.Distribution(ctx, repository.DistributionDepartment)
		return err
	})
	run("degree_distribution", func(ctx context.Context) (err error) {
		stats.DegreeDistribution, err = s.repo.Distribution(ctx, repository.DistributionDegree)
		return err
	})
	run("gender_distribution", func(ctx context.Context) (err error) {
		stats.GenderDistribution, err = s.repo.Distribution(ctx, repository.DistributionGender)
		return err
	})
	run("daily_activity", func(ctx context.Context) (err error) {
		stats.Last30DaysActivity, err = s.repo.DailyActivity(ctx)
		return err
	})
	run("quarter_hour_activity", func(ctx context.Context) (err error) {
		stats.Last24HoursActivity, err = s.repo.QuarterHourActivity(ctx)
		return err
	})
	run("student_status", func(ctx context.Context) (err error) {
		status, err = s.repo.StatusTotals(ctx)
		return err
	})
	run("hourly_activity", func(ctx context.Context) (err error) {
		hourly, err = s.repo.HourlyActivity(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard aggregation failed", zap.Error(err))
		return nil, err
	}

	stats.StudentStatus = []dto.StatusCount{
		{Status: StatusStudying, Count: status.Studying},
		{Status: StatusRecentlyEnrolled, Count: status.RecentlyEnrolled},
		{Status: StatusAboutToGraduate, Count: status.AboutToGraduate},
		{Status: StatusGraduated, Count: status.Graduated},
	}
	stats.MostActiveHours, stats.LeastActiveHours, stats.DeadHours = activeHours(hourly)
	fillEmpty(&stats)
	return &stats, nil
}

// activeHours ranks the hourly histogram by count (ties by hour) and reports the
// busiest hours, the quietest hours with activity, and the hours with none.
func activeHours(hourly []dto.HourCount) (most, least, dead []string) {
	ranked := make([]dto.HourCount, len(hourly))
	copy(ranked, hourly)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Hour < ranked[j].Hour
	})

	most = make([]string, 0, activeHoursShown)
	for i := 0; i < len(ranked) && i < activeHoursShown; i++ {
		most = append(most, hourLabel(ranked[i].Hour))
	}
	least = make([]string, 0, activeHoursShown)
	from := len(ranked) - activeHoursShown
	if from < 0 {
		from = 0
	}
	for _, h := range ranked[from:] {
		least = append(least, hourLabel(h.Hour))
	}

	seen := make(map[int]bool, len(hourly))
	for _, h := range hourly {
		if h.Count > 0 {
			seen[h.Hour] = true
		}
	}
	dead = make([]string, 0, 24)
	for hour := 0; hour < 24; hour++ {
		if !seen[hour] {
			dead = append(dead, hourLabel(hour))
		}
	}
	return most, least, dead
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%d:00", hour)
}

func fillEmpty(stats *dto.DashboardStats) {
	if stats.TopInterests == nil {
		stats.TopInterests = []string{}
	}
	if stats.BottomInterests == nil {
		stats.BottomInterests = []string{}
	}
	for _, rows := range []*[]dto.NamedCount{&stats.ProvincialDistribution, &stats.DepartmentDistribution, &stats.DegreeDistribution, &stats.GenderDistribution} {
		if *rows == nil {
			*rows = []dto.NamedCount{}
		}
	}
	for _, rows := range []*[]dto.DateCount{&stats.SubmissionsChart, &stats.Last30DaysActivity} {
		if *rows == nil {
			*rows = []dto.DateCount{}
		}
	}
	if stats.AgeDistribution == nil {
		stats.AgeDistribution = []dto.AgeCount{}
	}
	if stats.Last24HoursActivity == nil {
		stats.Last24HoursActivity = []dto.TimeCount{}
	}
}
