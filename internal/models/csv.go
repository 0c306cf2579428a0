package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DrawCSVHeader is the expected header row for draw CSV files, in the
// column order produced by the result exporter.
var DrawCSVHeader = []string{
	"date",
	"prize_1st",
	"prize_pre_3digit",
	"prize_sub_3digits",
	"prize_2digits",
	"nearby_1st",
	"prize_2nd",
	"prize_3rd",
	"prize_4th",
	"prize_5th",
}

// ParseDrawRow builds a Draw from one CSV record. The header names the
// columns so files with reordered columns still load. List cells hold
// JSON arrays of digit strings; prize_2digits may be empty.
func ParseDrawRow(header, record []string) (*Draw, error) {
	if len(record) != len(header) {
		return nil, fmt.Errorf("row has %d fields, header has %d", len(record), len(header))
	}

	fields := make(map[string]string, len(header))
	for i, name := range header {
		fields[strings.TrimSpace(name)] = strings.TrimSpace(record[i])
	}

	date, err := ParseDate(fields["date"])
	if err != nil {
		return nil, err
	}
	if fields["prize_1st"] == "" {
		return nil, fmt.Errorf("row for %s is missing prize_1st", date)
	}

	draw := &Draw{
		Date:     date,
		Prize1st: fields["prize_1st"],
	}

	lists := map[string]*StringList{
		"prize_pre_3digit":  &draw.PrizePre3Digit,
		"prize_sub_3digits": &draw.PrizeSub3Digits,
		"nearby_1st":        &draw.Nearby1st,
		"prize_2nd":         &draw.Prize2nd,
		"prize_3rd":         &draw.Prize3rd,
		"prize_4th":         &draw.Prize4th,
		"prize_5th":         &draw.Prize5th,
	}
	for name, dst := range lists {
		cell := fields[name]
		if cell == "" {
			*dst = StringList{}
			continue
		}
		if err := json.Unmarshal([]byte(cell), dst); err != nil {
			return nil, fmt.Errorf("column %s of row for %s: %w", name, date, err)
		}
	}

	if cell := fields["prize_2digits"]; cell != "" {
		n, err := strconv.Atoi(cell)
		if err != nil || n < 0 || n > 99 {
			return nil, fmt.Errorf("column prize_2digits of row for %s: %q is not in [0,99]", date, cell)
		}
		draw.Prize2Digits = &n
	}

	return draw, nil
}
