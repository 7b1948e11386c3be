package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"kassabot/internal/core"
)

// encodeRow renders an entry as the A:E columns of one sheet row.
func encodeRow(e core.Entry) []any {
	return []any{
		e.Timestamp.UTC().Format(time.RFC3339),
		strconv.FormatInt(e.SenderID, 10),
		e.Category,
		e.Amount.String(),
		e.Note,
	}
}

// parseRow converts one sheet row back into an entry. Returns false for
// header rows, blank lines and anything else that does not parse.
func parseRow(row []any) (core.Entry, bool) {
	cols := make([]string, 5)
	for i := 0; i < len(row) && i < 5; i++ {
		cols[i] = strings.TrimSpace(fmt.Sprint(row[i]))
	}

	ts, err := time.Parse(time.RFC3339, cols[0])
	if err != nil {
		return core.Entry{}, false
	}
	senderID, err := strconv.ParseInt(cols[1], 10, 64)
	if err != nil {
		return core.Entry{}, false
	}
	amount, err := core.ParseAmount(cols[3])
	if err != nil {
		return core.Entry{}, false
	}
	if cols[2] == "" {
		return core.Entry{}, false
	}
	return core.Entry{
		Timestamp: ts,
		SenderID:  senderID,
		Category:  cols[2],
		Amount:    amount,
		Note:      cols[4],
	}, true
}
