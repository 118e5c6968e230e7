package version

import (
	"fmt"
	"time"
)

// Заполняются через -ldflags при сборке.
var (
	Release     = "dev"
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
)

var buildEpoch = time.Date(
	2026, time.March, 2,
	0, 0, 0, 0,
	time.UTC,
)

// BuildInfo describes the build metadata in structured form.
type BuildInfo struct {
	Release    string `json:"release"`
	BuildID    int    `json:"build_id"`
	BuildDate  string `json:"build_date"`
	Commit     string `json:"commit"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// CalculateBuildID считает номер сборки как число дней от эпохи проекта.
func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", BuildDate)
	}

	// Часы вместо дат обходят проблемы DST; обе точки в UTC.
	days := int(t.Sub(buildEpoch).Hours() / 24)
	return days, nil
}

// Info returns structured version information.
// Safe to call at any time.
func Info() BuildInfo {
	id, err := CalculateBuildID()

	info := BuildInfo{
		Release:   Release,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
	}

	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build string.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("%s (build unknown: %s)", info.Release, info.Error)
	}

	return fmt.Sprintf(
		"%s build %d (%s) commit[%s]",
		info.Release,
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
