package cards

import (
	"fmt"
	"time"

	"github.com/liamwears/moviecards/internal/models"
)

// historyTimeLayout matches the zh-CN locale string used in the history dialog
const historyTimeLayout = "2006/1/2 15:04:05"

// HistoryTime formats a history timestamp in local time, or "" when unknown
func HistoryTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(historyTimeLayout)
}

// HistoryMeta is the secondary line of a history entry: "{n} 部电影 · {time}"
func HistoryMeta(item models.HistoryItem) string {
	meta := fmt.Sprintf("%d 部电影", len(item.Movies))
	if t := HistoryTime(item.CreatedAt); t != "" {
		meta += " · " + t
	}
	return meta
}
