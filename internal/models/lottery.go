package models

import "time"

// Draw represents one historical lottery drawing and its published
// winning numbers across all prize tiers. Rows are immutable once
// ingested; the `date` column uniquely identifies a draw.
type Draw struct {
	ID              uint       `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Date            Date       `json:"date" gorm:"column:date;type:date;uniqueIndex;not null"`
	Prize1st        string     `json:"prize_1st" gorm:"column:prize_1st;type:varchar(6);not null"`
	PrizePre3Digit  StringList `json:"prize_pre_3digit" gorm:"column:prize_pre_3digit;type:json"`
	PrizeSub3Digits StringList `json:"prize_sub_3digits" gorm:"column:prize_sub_3digits;type:json"`
	Prize2Digits    *int       `json:"prize_2digits" gorm:"column:prize_2digits"`
	Nearby1st       StringList `json:"nearby_1st" gorm:"column:nearby_1st;type:json"`
	Prize2nd        StringList `json:"prize_2nd" gorm:"column:prize_2nd;type:json"`
	Prize3rd        StringList `json:"prize_3rd" gorm:"column:prize_3rd;type:json"`
	Prize4th        StringList `json:"prize_4th" gorm:"column:prize_4th;type:json"`
	Prize5th        StringList `json:"prize_5th" gorm:"column:prize_5th;type:json"`
	CreatedAt       time.Time  `json:"created_at,omitempty" gorm:"column:created_at"`
}

func (Draw) TableName() string { return "lottery_draws" }

// APIKey is one row of the api_keys table used by the access-control
// middleware. Keys are looked up live on every request.
type APIKey struct {
	ID         uint   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Key        string `json:"api_key" gorm:"column:api_key;type:varchar(64);uniqueIndex;not null"`
	ClientName string `json:"client_name" gorm:"column:client_name;type:varchar(128);not null"`
	Active     bool   `json:"active" gorm:"column:active;not null;default:true"`
}

func (APIKey) TableName() string { return "api_keys" }

// CheckRequest is the body of POST /check.
type CheckRequest struct {
	Numbers []string `json:"numbers" binding:"required,min=1,max=10"`
	Date    string   `json:"date"`
}

// CheckResult is the outcome of evaluating a single ticket number.
// PrizeType and PrizeAmount are omitted when the number did not match.
type CheckResult struct {
	Number      string `json:"number"`
	Date        Date   `json:"date"`
	PrizeType   string `json:"prize_type,omitempty"`
	PrizeAmount int    `json:"prize_amount,omitempty"`
	Matched     bool   `json:"matched"`
}

// CheckSummary aggregates a batch of check results.
type CheckSummary struct {
	CheckedCount  int `json:"checked_count"`
	WinningCount  int `json:"winning_count"`
	TotalWinnings int `json:"total_winnings"`
}

// CheckResponse is the payload of a successful POST /check.
type CheckResponse struct {
	Results []CheckResult `json:"results"`
	CheckSummary
}

// PaginatedDraws is the payload of the listing and search endpoints.
type PaginatedDraws struct {
	Items []Draw `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
	Pages int    `json:"pages"`
}

// APIResponse is the standard envelope for every endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
