package google

import (
	"fmt"
	"strconv"
	"strings"

	ports "hourtracker/internal/timesheet"
)

// parseRow converts a values row as returned by the Sheets API into a Row.
// Columns: A date, B project, C client, D hours, E billable, F notes.
func parseRow(raw []interface{}) ports.Row {
	return ports.Row{
		Date:     safeGet(raw, 0),
		Project:  safeGet(raw, 1),
		Client:   safeGet(raw, 2),
		Hours:    parseHoursCell(safeGet(raw, 3)),
		Billable: parseBillableCell(safeGet(raw, 4)),
		Notes:    safeGet(raw, 5),
	}
}

func safeGet(row []interface{}, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

// parseHoursCell accepts both "1.5" and the comma decimal format sheets
// localized to European locales produce.
func parseHoursCell(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBillableCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}
