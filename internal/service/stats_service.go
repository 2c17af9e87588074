package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

// statsDateFormat is the day granularity accepted for report ranges.
const statsDateFormat = "2006-01-02"

// StatsService aggregates booked effort per project for reporting. Revenue is
// derived for time & material projects only; fixed-price projects bill their
// budget regardless of effort.
type StatsService struct {
	bookings repository.BookingRepository
}

func NewStatsService(bookings repository.BookingRepository) *StatsService {
	return &StatsService{bookings: bookings}
}

// ProjectStats sums booked minutes per project for bookings starting within
// [from, to], both given as YYYY-MM-DD dates. The end date is inclusive.
func (s *StatsService) ProjectStats(ctx context.Context, fromRaw, toRaw string) ([]*models.ProjectStat, error) {
	from, to, err := parseStatsRange(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}

	rows, err := s.bookings.AggregateByProjectInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}

	stats := make([]*models.ProjectStat, 0, len(rows))
	for _, row := range rows {
		stat := &models.ProjectStat{
			ProjectID:   row.ProjectID,
			ProjectName: row.ProjectName,
			Minutes:     row.Minutes,
			Hours:       minutesToHours(row.Minutes).StringFixed(2),
			BudgetType:  row.BudgetType,
		}
		if row.HourlyRate != nil {
			rate := row.HourlyRate.StringFixed(2)
			stat.HourlyRate = &rate
			if row.BudgetType == models.BudgetTypeTM {
				revenue := row.HourlyRate.Mul(minutesToHours(row.Minutes)).Round(2).StringFixed(2)
				stat.Revenue = &revenue
			}
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// ExportXLSX renders the project stats for the range as a spreadsheet.
func (s *StatsService) ExportXLSX(ctx context.Context, fromRaw, toRaw string) ([]byte, error) {
	stats, err := s.ProjectStats(ctx, fromRaw, toRaw)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Project Stats"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"Project", "Minutes", "Hours", "Budget Type", "Hourly Rate", "Revenue"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, stat := range stats {
		values := []any{
			stat.ProjectName,
			stat.Minutes,
			stat.Hours,
			stat.BudgetType,
			orEmpty(stat.HourlyRate),
			orEmpty(stat.Revenue),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func parseStatsRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, NewValidationError("from and to dates are required (YYYY-MM-DD)")
	}
	from, err := time.Parse(statsDateFormat, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("from must be a YYYY-MM-DD date")
	}
	to, err := time.Parse(statsDateFormat, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("to must be a YYYY-MM-DD date")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, NewValidationError("to must not be before from")
	}
	// End date inclusive: extend to the start of the following day.
	return from, to.AddDate(0, 0, 1), nil
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
