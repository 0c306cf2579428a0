package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"lottoapi/internal/models"
	"lottoapi/internal/repository"
)

// Prize tier labels as published on the wire.
const (
	TierFirstPrize  = "1st Prize"
	TierNearbyFirst = "Around 1st Prize"
	TierSecond      = "2nd Prize"
	TierThird       = "3rd Prize"
	TierFourth      = "4th Prize"
	TierFifth       = "5th Prize"
	TierFrontBack3  = "First/Last 3 Digits"
	TierAny3        = "Sub 3 Digits"
	TierLast2       = "Last 2 Digits"
)

// Fixed payout per tier, in baht. The front/back-3 and any-3 tiers
// share an amount but keep distinct labels.
var prizeAmounts = map[string]int{
	TierFirstPrize:  6000000,
	TierNearbyFirst: 100000,
	TierSecond:      200000,
	TierThird:       80000,
	TierFourth:      40000,
	TierFifth:       20000,
	TierFrontBack3:  4000,
	TierAny3:        4000,
	TierLast2:       2000,
}

// PrizeAmount returns the payout for a tier label, 0 for unknown tiers.
func PrizeAmount(tier string) int { return prizeAmounts[tier] }

// LotteryService answers draw lookups and ticket checks. The draw
// repository is injected at construction; the service itself keeps no
// state between calls, so a single instance serves concurrent
// requests without coordination.
type LotteryService struct {
	draws repository.DrawRepository

	// now supplies the date stamped on unmatched results when the
	// whole history was scanned; swapped in tests.
	now func() time.Time
}

// NewLotteryService creates a LotteryService backed by the given draw
// repository.
func NewLotteryService(draws repository.DrawRepository) *LotteryService {
	return &LotteryService{draws: draws, now: time.Now}
}

// GetAllDraws returns one page of the draw history, newest first.
func (s *LotteryService) GetAllDraws(ctx context.Context, page, size int) (*models.PaginatedDraws, error) {
	draws, total, err := s.draws.GetPage(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return paginate(draws, total, page, size), nil
}

// SearchDraws returns one page of draws within the optional date range.
func (s *LotteryService) SearchDraws(ctx context.Context, start, end *models.Date, page, size int) (*models.PaginatedDraws, error) {
	draws, total, err := s.draws.Search(ctx, start, end, page, size)
	if err != nil {
		return nil, err
	}
	return paginate(draws, total, page, size), nil
}

func paginate(draws []models.Draw, total int64, page, size int) *models.PaginatedDraws {
	if draws == nil {
		draws = []models.Draw{}
	}
	return &models.PaginatedDraws{
		Items: draws,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: int(math.Ceil(float64(total) / float64(size))),
	}
}

// GetDrawByDate returns the draw for an exact date.
func (s *LotteryService) GetDrawByDate(ctx context.Context, date models.Date) (*models.Draw, error) {
	return s.draws.GetByDate(ctx, date)
}

// GetLatestDraw returns the most recent draw.
func (s *LotteryService) GetLatestDraw(ctx context.Context) (*models.Draw, error) {
	return s.draws.GetLatest(ctx)
}

// CreateDraw ingests one draw record.
func (s *LotteryService) CreateDraw(ctx context.Context, draw *models.Draw) error {
	return s.draws.Create(ctx, draw)
}

// CheckNumbers evaluates a batch of ticket numbers. With a date it
// checks every number against that single draw; a missing draw for
// the date yields unmatched results stamped with the query date.
// Without a date it scans the entire history and keeps, per number,
// the highest-paying match. Results preserve input order 1:1.
func (s *LotteryService) CheckNumbers(ctx context.Context, numbers []string, date *models.Date) ([]models.CheckResult, error) {
	results := make([]models.CheckResult, 0, len(numbers))

	if date != nil {
		draw, err := s.draws.GetByDate(ctx, *date)
		if err != nil && !errors.Is(err, repository.ErrDrawNotFound) {
			return nil, fmt.Errorf("check numbers for %s: %w", date, err)
		}
		for _, number := range numbers {
			if draw == nil {
				results = append(results, models.CheckResult{
					Number: strings.TrimSpace(number),
					Date:   *date,
				})
				continue
			}
			results = append(results, s.CheckAgainstDraw(number, draw))
		}
		return results, nil
	}

	draws, err := s.draws.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("check numbers: %w", err)
	}
	today := models.NewDate(s.now())
	for _, number := range numbers {
		results = append(results, s.bestAcrossDraws(number, draws, today))
	}
	return results, nil
}

// bestAcrossDraws folds the descending-date history into the single
// best result for one number. Only a strictly greater amount replaces
// the running best, so equal-amount matches keep the most recent draw.
// fallback stamps the result when nothing matches.
func (s *LotteryService) bestAcrossDraws(number string, draws []models.Draw, fallback models.Date) models.CheckResult {
	best := models.CheckResult{Number: strings.TrimSpace(number), Date: fallback}
	for i := range draws {
		candidate := s.CheckAgainstDraw(number, &draws[i])
		if candidate.Matched && (!best.Matched || candidate.PrizeAmount > best.PrizeAmount) {
			best = candidate
		}
	}
	return best
}

// CheckAgainstDraw evaluates one ticket number against one draw. The
// tiers are tried in precedence order and the first hit wins, so a
// number never takes two prizes from the same draw. All comparisons
// are on digit strings; leading zeros are significant.
func (s *LotteryService) CheckAgainstDraw(number string, draw *models.Draw) models.CheckResult {
	number = strings.TrimSpace(number)
	win := func(tier string) models.CheckResult {
		return models.CheckResult{
			Number:      number,
			Date:        draw.Date,
			PrizeType:   tier,
			PrizeAmount: prizeAmounts[tier],
			Matched:     true,
		}
	}

	if number == draw.Prize1st {
		return win(TierFirstPrize)
	}
	if draw.Nearby1st.Contains(number) {
		return win(TierNearbyFirst)
	}
	if draw.Prize2nd.Contains(number) {
		return win(TierSecond)
	}
	if draw.Prize3rd.Contains(number) {
		return win(TierThird)
	}
	if draw.Prize4th.Contains(number) {
		return win(TierFourth)
	}
	if draw.Prize5th.Contains(number) {
		return win(TierFifth)
	}

	if len(number) >= 3 {
		first3 := number[:3]
		last3 := number[len(number)-3:]
		if draw.PrizePre3Digit.Contains(first3) || draw.PrizePre3Digit.Contains(last3) {
			return win(TierFrontBack3)
		}
		for i := 0; i+3 <= len(number); i++ {
			if draw.PrizeSub3Digits.Contains(number[i : i+3]) {
				return win(TierAny3)
			}
		}
	}

	if len(number) >= 2 && draw.Prize2Digits != nil {
		if number[len(number)-2:] == fmt.Sprintf("%02d", *draw.Prize2Digits) {
			return win(TierLast2)
		}
	}

	return models.CheckResult{Number: number, Date: draw.Date}
}

// Summarize aggregates a batch of check results. Absent prize amounts
// count as zero.
func Summarize(results []models.CheckResult) models.CheckSummary {
	summary := models.CheckSummary{CheckedCount: len(results)}
	for _, r := range results {
		if r.Matched {
			summary.WinningCount++
			summary.TotalWinnings += r.PrizeAmount
		}
	}
	return summary
}
