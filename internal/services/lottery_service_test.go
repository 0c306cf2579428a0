package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"lottoapi/internal/models"
	"lottoapi/internal/repository"
)

// fakeDrawRepository serves draws from memory, newest first, the same
// order the real store returns them in.
type fakeDrawRepository struct {
	draws []models.Draw
}

func (f *fakeDrawRepository) GetByDate(_ context.Context, date models.Date) (*models.Draw, error) {
	for i := range f.draws {
		if f.draws[i].Date.String() == date.String() {
			return &f.draws[i], nil
		}
	}
	return nil, repository.ErrDrawNotFound
}

func (f *fakeDrawRepository) GetLatest(_ context.Context) (*models.Draw, error) {
	if len(f.draws) == 0 {
		return nil, repository.ErrDrawNotFound
	}
	return &f.draws[0], nil
}

func (f *fakeDrawRepository) GetAll(_ context.Context) ([]models.Draw, error) {
	return f.draws, nil
}

func (f *fakeDrawRepository) GetPage(_ context.Context, page, size int) ([]models.Draw, int64, error) {
	start := (page - 1) * size
	if start > len(f.draws) {
		start = len(f.draws)
	}
	end := start + size
	if end > len(f.draws) {
		end = len(f.draws)
	}
	return f.draws[start:end], int64(len(f.draws)), nil
}

func (f *fakeDrawRepository) Search(_ context.Context, start, end *models.Date, page, size int) ([]models.Draw, int64, error) {
	return f.GetPage(context.Background(), page, size)
}

func (f *fakeDrawRepository) Create(_ context.Context, draw *models.Draw) error {
	f.draws = append([]models.Draw{*draw}, f.draws...)
	return nil
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func intPtr(n int) *int { return &n }

func TestCheckAgainstDraw(t *testing.T) {
	service := NewLotteryService(&fakeDrawRepository{})

	draw := &models.Draw{
		Date:            mustDate(t, "2024-03-16"),
		Prize1st:        "097863",
		Nearby1st:       models.StringList{"097862", "097864"},
		Prize2nd:        models.StringList{"111111"},
		Prize3rd:        models.StringList{"222222"},
		Prize4th:        models.StringList{"333333"},
		Prize5th:        models.StringList{"444444"},
		PrizePre3Digit:  models.StringList{"097", "555"},
		PrizeSub3Digits: models.StringList{"786"},
		Prize2Digits:    intPtr(7),
	}

	cases := []struct {
		name      string
		number    string
		wantTier  string
		wantMatch bool
	}{
		{"first prize exact match", "097863", TierFirstPrize, true},
		{"nearby first prize", "097864", TierNearbyFirst, true},
		{"second prize", "111111", TierSecond, true},
		{"third prize", "222222", TierThird, true},
		{"fourth prize", "333333", TierFourth, true},
		{"fifth prize", "444444", TierFifth, true},
		{"front 3 digits", "097111", TierFrontBack3, true},
		{"back 3 digits", "111555", TierFrontBack3, true},
		{"sub 3 digits in the middle", "178611", TierAny3, true},
		{"last 2 digits zero padded", "1107", TierLast2, true},
		{"no match", "888888", "", false},
		{"too short for any tier", "1", "", false},
		{"two digits misses last-2", "08", "", false},
		{"non-numeric never matches", "abc863", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := service.CheckAgainstDraw(tc.number, draw)
			if result.Matched != tc.wantMatch {
				t.Fatalf("Matched = %v, want %v", result.Matched, tc.wantMatch)
			}
			if result.PrizeType != tc.wantTier {
				t.Errorf("PrizeType = %q, want %q", result.PrizeType, tc.wantTier)
			}
			if tc.wantMatch && result.PrizeAmount != PrizeAmount(tc.wantTier) {
				t.Errorf("PrizeAmount = %d, want %d", result.PrizeAmount, PrizeAmount(tc.wantTier))
			}
			if result.Date.String() != "2024-03-16" {
				t.Errorf("Date = %s, want the draw date", result.Date)
			}
		})
	}

	t.Run("first prize wins over every lower tier", func(t *testing.T) {
		stacked := &models.Draw{
			Date:            mustDate(t, "2024-03-16"),
			Prize1st:        "123456",
			Prize5th:        models.StringList{"123456"},
			PrizePre3Digit:  models.StringList{"123", "456"},
			PrizeSub3Digits: models.StringList{"234"},
			Prize2Digits:    intPtr(56),
		}
		result := service.CheckAgainstDraw("123456", stacked)
		if result.PrizeType != TierFirstPrize {
			t.Errorf("PrizeType = %q, want %q", result.PrizeType, TierFirstPrize)
		}
	})

	t.Run("front/back beats sub-3 when both qualify", func(t *testing.T) {
		stacked := &models.Draw{
			Date:            mustDate(t, "2024-03-16"),
			Prize1st:        "000000",
			PrizePre3Digit:  models.StringList{"123"},
			PrizeSub3Digits: models.StringList{"123"},
		}
		result := service.CheckAgainstDraw("123999", stacked)
		if result.PrizeType != TierFrontBack3 {
			t.Errorf("PrizeType = %q, want %q", result.PrizeType, TierFrontBack3)
		}
	})

	t.Run("whitespace is trimmed before matching", func(t *testing.T) {
		result := service.CheckAgainstDraw("  097863  ", draw)
		if !result.Matched || result.PrizeType != TierFirstPrize {
			t.Errorf("got %+v, want a trimmed first-prize match", result)
		}
		if result.Number != "097863" {
			t.Errorf("Number = %q, want trimmed %q", result.Number, "097863")
		}
	})

	t.Run("every substring window is scanned", func(t *testing.T) {
		// "786" only appears at offset 2 of a 6-digit ticket.
		result := service.CheckAgainstDraw("117863", draw)
		if result.PrizeType != TierAny3 {
			t.Errorf("PrizeType = %q, want %q", result.PrizeType, TierAny3)
		}
	})
}

func TestCheckNumbersWithDate(t *testing.T) {
	repo := &fakeDrawRepository{draws: []models.Draw{
		{
			Date:     mustDate(t, "2024-03-16"),
			Prize1st: "097863",
			Prize5th: models.StringList{"555555"},
		},
	}}
	service := NewLotteryService(repo)
	ctx := context.Background()

	t.Run("checks every number against the dated draw", func(t *testing.T) {
		date := mustDate(t, "2024-03-16")
		results, err := service.CheckNumbers(ctx, []string{"097863", "555555", "42"}, &date)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("Expected 3 results, got %d", len(results))
		}
		if results[0].PrizeType != TierFirstPrize || results[1].PrizeType != TierFifth {
			t.Errorf("got tiers %q, %q", results[0].PrizeType, results[1].PrizeType)
		}
		if results[2].Matched {
			t.Errorf("Expected no match for 42, got %+v", results[2])
		}
	})

	t.Run("no draw for the date yields unmatched results with the query date", func(t *testing.T) {
		date := mustDate(t, "2020-01-01")
		results, err := service.CheckNumbers(ctx, []string{"097863", "42"}, &date)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Expected a result per submitted number, got %d", len(results))
		}
		for _, r := range results {
			if r.Matched {
				t.Errorf("Expected unmatched result, got %+v", r)
			}
			if r.Date.String() != "2020-01-01" {
				t.Errorf("Date = %s, want the query date", r.Date)
			}
		}
	})
}

func TestCheckNumbersAcrossHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the highest-paying match across draws", func(t *testing.T) {
		repo := &fakeDrawRepository{draws: []models.Draw{
			{
				Date:     mustDate(t, "2024-03-16"),
				Prize1st: "000001",
				Prize5th: models.StringList{"123456"},
			},
			{
				Date:     mustDate(t, "2024-03-01"),
				Prize1st: "000002",
				Prize2nd: models.StringList{"123456"},
			},
		}}
		service := NewLotteryService(repo)

		results, err := service.CheckNumbers(ctx, []string{"123456"}, nil)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if results[0].PrizeType != TierSecond {
			t.Errorf("PrizeType = %q, want the richer %q", results[0].PrizeType, TierSecond)
		}
		if results[0].Date.String() != "2024-03-01" {
			t.Errorf("Date = %s, want the winning draw's date", results[0].Date)
		}
	})

	t.Run("equal amounts keep the most recent draw", func(t *testing.T) {
		repo := &fakeDrawRepository{draws: []models.Draw{
			{
				Date:     mustDate(t, "2024-03-16"),
				Prize1st: "000001",
				Prize5th: models.StringList{"42"},
			},
			{
				Date:     mustDate(t, "2024-03-01"),
				Prize1st: "000002",
				Prize5th: models.StringList{"42"},
			},
		}}
		service := NewLotteryService(repo)

		results, err := service.CheckNumbers(ctx, []string{"42"}, nil)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if results[0].Date.String() != "2024-03-16" {
			t.Errorf("Date = %s, want the more recent 2024-03-16", results[0].Date)
		}
	})

	t.Run("sub-3 match across history", func(t *testing.T) {
		repo := &fakeDrawRepository{draws: []models.Draw{
			{
				Date:            mustDate(t, "2024-03-16"),
				Prize1st:        "000001",
				PrizeSub3Digits: models.StringList{"456"},
			},
		}}
		service := NewLotteryService(repo)

		results, err := service.CheckNumbers(ctx, []string{"123456"}, nil)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if !results[0].Matched || results[0].PrizeType != TierAny3 {
			t.Errorf("got %+v, want a %q match", results[0], TierAny3)
		}
		if results[0].PrizeAmount != PrizeAmount(TierAny3) {
			t.Errorf("PrizeAmount = %d, want %d", results[0].PrizeAmount, PrizeAmount(TierAny3))
		}
	})

	t.Run("empty history stamps unmatched results with today", func(t *testing.T) {
		service := NewLotteryService(&fakeDrawRepository{})
		service.now = func() time.Time {
			return time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)
		}

		results, err := service.CheckNumbers(ctx, []string{"123456"}, nil)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if results[0].Matched {
			t.Fatalf("Expected no match, got %+v", results[0])
		}
		if results[0].Date.String() != "2024-06-01" {
			t.Errorf("Date = %s, want the processing date", results[0].Date)
		}
	})

	t.Run("results preserve input order and duplicates", func(t *testing.T) {
		repo := &fakeDrawRepository{draws: []models.Draw{
			{
				Date:     mustDate(t, "2024-03-16"),
				Prize1st: "097863",
			},
		}}
		service := NewLotteryService(repo)

		numbers := []string{"42", "097863", "42"}
		results, err := service.CheckNumbers(ctx, numbers, nil)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("Expected 3 results, got %d", len(results))
		}
		for i, n := range numbers {
			if results[i].Number != n {
				t.Errorf("results[%d].Number = %q, want %q", i, results[i].Number, n)
			}
		}
		if results[0].Matched || !results[1].Matched || results[2].Matched {
			t.Errorf("unexpected match pattern: %+v", results)
		}
	})

	t.Run("identical calls yield identical output", func(t *testing.T) {
		repo := &fakeDrawRepository{draws: []models.Draw{
			{
				Date:            mustDate(t, "2024-03-16"),
				Prize1st:        "097863",
				Prize5th:        models.StringList{"555555"},
				PrizeSub3Digits: models.StringList{"786"},
			},
		}}
		service := NewLotteryService(repo)

		numbers := []string{"097863", "117860", "555555"}
		first, err := service.CheckNumbers(ctx, numbers, nil)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		second, err := service.CheckNumbers(ctx, numbers, nil)
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("repeated call diverged:\nfirst  %+v\nsecond %+v", first, second)
		}
	})
}

func TestSummarize(t *testing.T) {
	t.Run("counts and sums matched results", func(t *testing.T) {
		results := []models.CheckResult{
			{Number: "097863", Matched: true, PrizeType: TierFirstPrize, PrizeAmount: 6000000},
			{Number: "888888", Matched: false},
			{Number: "117863", Matched: true, PrizeType: TierAny3, PrizeAmount: 4000},
		}
		summary := Summarize(results)
		if summary.CheckedCount != 3 {
			t.Errorf("CheckedCount = %d, want 3", summary.CheckedCount)
		}
		if summary.WinningCount != 2 {
			t.Errorf("WinningCount = %d, want 2", summary.WinningCount)
		}
		if summary.TotalWinnings != 6004000 {
			t.Errorf("TotalWinnings = %d, want 6004000", summary.TotalWinnings)
		}
	})

	t.Run("empty input yields an all-zero summary", func(t *testing.T) {
		summary := Summarize(nil)
		if summary.CheckedCount != 0 || summary.WinningCount != 0 || summary.TotalWinnings != 0 {
			t.Errorf("got %+v, want zero values", summary)
		}
	})
}

func TestGetAllDrawsPagination(t *testing.T) {
	repo := &fakeDrawRepository{draws: []models.Draw{
		{Date: mustDate(t, "2024-03-16"), Prize1st: "000001"},
		{Date: mustDate(t, "2024-03-01"), Prize1st: "000002"},
		{Date: mustDate(t, "2024-02-16"), Prize1st: "000003"},
	}}
	service := NewLotteryService(repo)

	page, err := service.GetAllDraws(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	if page.Total != 3 || page.Pages != 2 {
		t.Errorf("Total = %d, Pages = %d, want 3 and 2", page.Total, page.Pages)
	}
	if len(page.Items) != 1 || page.Items[0].Prize1st != "000003" {
		t.Errorf("Items = %+v, want just the oldest draw", page.Items)
	}
}
