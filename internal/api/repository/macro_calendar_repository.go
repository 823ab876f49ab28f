package repository

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"equity-insights/internal/entity"
	"equity-insights/pkg/common"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/utils"

	"github.com/google/uuid"
)

// MacroCalendarRepository loads the curated macro event calendar.
type MacroCalendarRepository interface {
	GetEvents(fromDate, toDate string) []entity.CatalystEvent
}

type macroCalendarEntry struct {
	UTCTime string                 `json:"utc_time"`
	Title   string                 `json:"title"`
	Country string                 `json:"country"`
	Impact  string                 `json:"impact"`
	Sectors []string               `json:"sectors"`
	Source  string                 `json:"source"`
	URL     string                 `json:"url"`
	Meta    map[string]interface{} `json:"meta"`
}

type macroCalendarRepository struct {
	path string
	log  *logger.Logger
}

// NewMacroCalendarRepository creates a repository reading the curated
// calendar from the given JSON file. The file is re-read on every call;
// aggregation-level caching elsewhere keeps this cheap.
func NewMacroCalendarRepository(path string, log *logger.Logger) MacroCalendarRepository {
	return &macroCalendarRepository{path: path, log: log}
}

// GetEvents returns curated macro events with dates in
// [fromDate, toDate] inclusive (YYYY-MM-DD), sorted by (time, title).
// A missing or malformed calendar file yields an empty slice.
func (r *macroCalendarRepository) GetEvents(fromDate, toDate string) []entity.CatalystEvent {
	entries := r.loadRaw()

	events := make([]entity.CatalystEvent, 0, len(entries))
	for _, entry := range entries {
		utcTime := strings.TrimSpace(entry.UTCTime)
		title := strings.TrimSpace(entry.Title)
		if utcTime == "" || title == "" {
			continue
		}

		date := utils.DateOnly(utcTime)
		if date == "" || date < fromDate || date > toDate {
			continue
		}

		source := entry.Source
		if source == "" {
			source = "Curated"
		}

		events = append(events, entity.CatalystEvent{
			ID:      stableEventID(utcTime, title, entry.Country, entry.Impact),
			Type:    common.CatalystTypeMacro,
			Title:   title,
			UTCTime: utcTime,
			Date:    date,
			Country: entry.Country,
			Impact:  entry.Impact,
			Sectors: entry.Sectors,
			Source:  source,
			URL:     entry.URL,
			Meta:    entry.Meta,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].UTCTime != events[j].UTCTime {
			return events[i].UTCTime < events[j].UTCTime
		}
		return events[i].Title < events[j].Title
	})
	return events
}

func (r *macroCalendarRepository) loadRaw() []macroCalendarEntry {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("Failed to read macro calendar", logger.StringField("path", r.path), logger.ErrorField(err))
		}
		return nil
	}

	var entries []macroCalendarEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.log.Warn("Failed to parse macro calendar", logger.StringField("path", r.path), logger.ErrorField(err))
		return nil
	}
	return entries
}

// stableEventID derives a deterministic ID from the event identity so
// repeated requests return the same ID for the same logical event.
func stableEventID(utcTime, title, country, impact string) string {
	key := strings.Join([]string{utcTime, title, country, impact}, "|")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
