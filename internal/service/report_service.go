package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository"
)

const dayLayout = "2006-01-02"

// ReportService строит производную статистику для дашборда.
// Только чтение: агрегаты считаются поверх уже небольших выборок
type ReportService struct {
	tx          TxManager
	studentRepo StudentRepository
	bookingRepo BookingRepository
	txnRepo     TransactionRepository
	logger      *zap.Logger
}

func NewReportService(
	tx TxManager,
	studentRepo StudentRepository,
	bookingRepo BookingRepository,
	txnRepo TransactionRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		tx:          tx,
		studentRepo: studentRepo,
		bookingRepo: bookingRepo,
		txnRepo:     txnRepo,
		logger:      logger,
	}
}

type CashFlow struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type DashboardSnapshot struct {
	CashFlow        CashFlow        `json:"cash_flow"`
	RealizedRevenue decimal.Decimal `json:"realized_revenue"`
	UnearnedRevenue decimal.Decimal `json:"unearned_revenue"`
}

type ChartPoint struct {
	Date     string          `json:"date"` // YYYY-MM-DD
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Realized decimal.Decimal `json:"realized"`
}

// CashFlow считает обороты за окно: приход, расход, сальдо
func (s *ReportService) CashFlow(ctx context.Context, businessID string, from, to time.Time) (CashFlow, error) {
	income, expense, err := s.txnRepo.SumByType(ctx, s.tx.DB(), businessID, from, to)
	if err != nil {
		return CashFlow{}, err
	}

	return CashFlow{
		Income:  income,
		Expense: expense,
		Net:     income.Sub(expense),
	}, nil
}

// RealizedRevenue считает признанную выручку: Σ часы × ставка по
// завершённым занятиям, начавшимся в окне. Ставка читается текущая,
// поэтому исторические цифры плывут при смене ставки ученика
func (s *ReportService) RealizedRevenue(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, error) {
	bookings, err := s.bookingRepo.ListCompletedInRange(ctx, s.tx.DB(), businessID, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, b := range bookings {
		if b.Student == nil {
			continue
		}
		total = total.Add(b.Duration.Mul(b.Student.HourlyRate))
	}

	return total, nil
}

// UnearnedRevenue считает пул предоплаченных, но не отработанных часов:
// Σ max(баланс, 0) × ставка. Отрицательные балансы в пул не входят
func (s *ReportService) UnearnedRevenue(ctx context.Context, businessID string) (decimal.Decimal, error) {
	students, err := s.studentRepo.ListByBusiness(ctx, s.tx.DB(), businessID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, st := range students {
		total = total.Add(st.PrepaidValue())
	}

	return total, nil
}

// Overview собирает снимок дашборда. Три независимых чтения
// выполняются параллельно, порядок не важен
func (s *ReportService) Overview(ctx context.Context, businessID string, from, to time.Time) (*DashboardSnapshot, error) {
	var snapshot DashboardSnapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cf, err := s.CashFlow(gctx, businessID, from, to)
		if err != nil {
			return err
		}
		snapshot.CashFlow = cf
		return nil
	})

	g.Go(func() error {
		realized, err := s.RealizedRevenue(gctx, businessID, from, to)
		if err != nil {
			return err
		}
		snapshot.RealizedRevenue = realized
		return nil
	})

	g.Go(func() error {
		unearned, err := s.UnearnedRevenue(gctx, businessID)
		if err != nil {
			return err
		}
		snapshot.UnearnedRevenue = unearned
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("Dashboard snapshot built", zap.String("business_id", businessID))

	return &snapshot, nil
}

// ChartSeries строит посуточные ряды приход/расход/выручка за окно.
// Группировка по календарной дате (UTC), дни без операций — нули
func (s *ReportService) ChartSeries(ctx context.Context, businessID string, from, to time.Time) ([]ChartPoint, error) {
	txns, err := s.txnRepo.List(ctx, s.tx.DB(), repository.TransactionFilter{
		BusinessID: businessID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return nil, err
	}

	completed, err := s.bookingRepo.ListCompletedInRange(ctx, s.tx.DB(), businessID, from, to)
	if err != nil {
		return nil, err
	}

	income := map[string]decimal.Decimal{}
	expense := map[string]decimal.Decimal{}
	realized := map[string]decimal.Decimal{}

	for _, txn := range txns {
		day := txn.Date.UTC().Format(dayLayout)
		switch txn.Type {
		case model.TransactionTypeIncome:
			income[day] = income[day].Add(txn.Amount)
		case model.TransactionTypeExpense:
			expense[day] = expense[day].Add(txn.Amount)
		}
	}

	for _, b := range completed {
		if b.Student == nil {
			continue
		}
		day := b.StartTime.UTC().Format(dayLayout)
		realized[day] = realized[day].Add(b.Duration.Mul(b.Student.HourlyRate))
	}

	var points []ChartPoint
	for day := from.UTC().Truncate(24 * time.Hour); day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		points = append(points, ChartPoint{
			Date:     key,
			Income:   income[key],
			Expense:  expense[key],
			Realized: realized[key],
		})
	}

	return points, nil
}
