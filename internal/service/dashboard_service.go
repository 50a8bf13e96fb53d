package service

import (
	"context"
	"time"

	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	bestSellerLimit = 10
	recentSaleLimit = 10
	chartDays       = 7
)

// PeriodSales is the sales and profit of one reporting period
type PeriodSales struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TransactionsCount int64           `json:"transactions_count"`
}

// RecentSale is a completed transaction as shown on the dashboard
type RecentSale struct {
	model.TransactionSummary
	CreatedAtLabel string `json:"created_at_label"` // dd/mm/yyyy HH:MM, business timezone
}

// ChartPoint is one day of the sales chart
type ChartPoint struct {
	Date  string          `json:"date"` // dd/mm
	Day   string          `json:"day"`  // YYYY-MM-DD
	Sales decimal.Decimal `json:"sales"`
}

type DashboardStats struct {
	Today              PeriodSales             `json:"today"`
	ThisWeek           PeriodSales             `json:"this_week"`
	LowStockProducts   []model.ProductResponse `json:"low_stock_products"`
	BestSellers        []repository.BestSeller `json:"best_sellers"`
	RecentTransactions []RecentSale            `json:"recent_transactions"`
	SalesChart         []ChartPoint            `json:"sales_chart"`
	GeneratedAt        time.Time               `json:"generated_at"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	reportRepo repository.ReportRepository
	cache      cache.Cache
	ttl        time.Duration
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

func NewDashboardService(reportRepo repository.ReportRepository, c cache.Cache, ttl time.Duration, loc *time.Location, log zerolog.Logger) DashboardService {
	return &dashboardService{
		reportRepo: reportRepo,
		cache:      c,
		ttl:        ttl,
		loc:        loc,
		now:        time.Now,
		log:        log.With().Str("service", "dashboard").Logger(),
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now().In(s.loc)
	key := s.cacheKey(ctx, now)

	if key != "" {
		var cached DashboardStats
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.compute(ctx, now)
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 && key != "" {
		if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return stats, nil
}

// cacheKey returns the key for today's payload at the current version, or ""
// when the version cannot be read. The version is read before computing, so
// a payload computed across a concurrent write lands under a key no later
// reader uses.
func (s *dashboardService) cacheKey(ctx context.Context, now time.Time) string {
	var version int64
	if _, err := s.cache.Get(ctx, dashboardVersionKey, &version); err != nil {
		s.log.Warn().Err(err).Msg("dashboard cache version read failed")
		return ""
	}
	return dashboardKey(now.Format(dateLayout), version)
}

func (s *dashboardService) compute(ctx context.Context, now time.Time) (*DashboardStats, error) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart, weekEnd := weekBounds(now)

	todaySum, err := s.reportRepo.SalesSummary(ctx, today, tomorrow)
	if err != nil {
		return nil, storageErr("today summary", err)
	}
	weekSum, err := s.reportRepo.SalesSummary(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, storageErr("week summary", err)
	}

	lowStock, err := s.reportRepo.LowStockProducts(ctx)
	if err != nil {
		return nil, storageErr("low stock products", err)
	}

	best, err := s.reportRepo.BestSellers(ctx, bestSellerLimit)
	if err != nil {
		return nil, storageErr("best sellers", err)
	}
	if best == nil {
		best = []repository.BestSeller{}
	}

	recent, err := s.reportRepo.RecentTransactions(ctx, recentSaleLimit)
	if err != nil {
		return nil, storageErr("recent transactions", err)
	}
	recentSales := make([]RecentSale, len(recent))
	for i, r := range recent {
		recentSales[i] = RecentSale{
			TransactionSummary: r,
			CreatedAtLabel:     r.CreatedAt.In(s.loc).Format("02/01/2006 15:04"),
		}
	}

	chartStart := today.AddDate(0, 0, -(chartDays - 1))
	points, err := s.reportRepo.CompletedSalesBetween(ctx, chartStart, tomorrow)
	if err != nil {
		return nil, storageErr("sales chart", err)
	}

	return &DashboardStats{
		Today: PeriodSales{
			TotalSales:        todaySum.TotalSales,
			TotalProfit:       todaySum.TotalProfit,
			TransactionsCount: todaySum.Count,
		},
		ThisWeek: PeriodSales{
			TotalSales:        weekSum.TotalSales,
			TotalProfit:       weekSum.TotalProfit,
			TransactionsCount: weekSum.Count,
		},
		LowStockProducts:   model.ToProductResponses(lowStock),
		BestSellers:        best,
		RecentTransactions: recentSales,
		SalesChart:         buildSalesChart(today, points, s.loc),
		GeneratedAt:        now,
	}, nil
}

// buildSalesChart returns chartDays points ending today, oldest first, with
// days that had no sale reported as zero.
func buildSalesChart(today time.Time, points []repository.SalePoint, loc *time.Location) []ChartPoint {
	totals := make(map[string]decimal.Decimal, chartDays)
	for _, p := range points {
		key := p.CreatedAt.In(loc).Format(dateLayout)
		totals[key] = totals[key].Add(p.TotalAmount)
	}

	chart := make([]ChartPoint, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(dateLayout)
		chart = append(chart, ChartPoint{
			Date:  day.Format("02/01"),
			Day:   key,
			Sales: totals[key],
		})
	}
	return chart
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// weekBounds returns [Monday 00:00, next Monday 00:00) around t.
func weekBounds(t time.Time) (time.Time, time.Time) {
	offset := (int(t.Weekday()) + 6) % 7
	start := startOfDay(t).AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}
