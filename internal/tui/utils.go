package tui

import (
	"time"

	"codeberg.org/gemiwell/server/internal/feed"
)

const (
	chatRequestTimeout = 90 * time.Second
	historyTimeout     = 15 * time.Second
	historyLimit       = 50
	feedBuffer         = 16
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
)

// one-line notice for feed events the chat view doesn't render inline
func describeEvent(eventType string) string {
	switch eventType {
	case feed.TypeReportCreated:
		return "a new report was analysed"
	case feed.TypeReportDeleted:
		return "a report was deleted"
	case feed.TypeProfileUpdated:
		return "your profile was updated"
	case feed.TypeServerShutdown:
		return "server is restarting, live updates paused"
	case feed.TypeError:
		return "live feed reported an error"
	default:
		return ""
	}
}
