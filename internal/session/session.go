package session

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"reelforge/internal/services"
)

var namePattern = regexp.MustCompile(`^(\d{4})\.(\d{2})\.(\d{2})(?:\.(\d+))?$`)

// Session identifies one calendar-dated recording event.
type Session struct {
	Year  int
	Month int
	Day   int
	// Index is the 1-based session number within the day.
	Index int
	// Indexed reports whether the directory name carried an explicit index.
	Indexed bool
	// Dir is the absolute session directory when discovered on disk.
	Dir string
}

// ParseName validates a session directory name.
func ParseName(name string) (Session, error) {
	match := namePattern.FindStringSubmatch(name)
	if match == nil {
		return Session{}, services.Wrap(services.ErrInvalidSessionFormat, "session", "parse name",
			fmt.Sprintf("%q does not match YYYY.MM.DD[.N]", name), nil)
	}
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return Session{}, services.Wrap(services.ErrInvalidSessionFormat, "session", "parse name",
			fmt.Sprintf("%q is not a calendar date", name), nil)
	}

	sess := Session{Year: year, Month: month, Day: day, Index: 1}
	if match[4] != "" {
		index, err := strconv.Atoi(match[4])
		if err != nil || index < 1 {
			return Session{}, services.Wrap(services.ErrInvalidSessionFormat, "session", "parse name",
				fmt.Sprintf("%q has a non-positive session index", name), err)
		}
		sess.Index = index
		sess.Indexed = true
	}
	return sess, nil
}

// Date returns the session date at midnight UTC.
func (s Session) Date() time.Time {
	return time.Date(s.Year, time.Month(s.Month), s.Day, 0, 0, 0, 0, time.UTC)
}

// Name returns the canonical directory name.
func (s Session) Name() string {
	if s.Indexed {
		return fmt.Sprintf("%s.%d", s.DottedDate(), s.Index)
	}
	return s.DottedDate()
}

// DottedDate formats the date as YYYY.MM.DD, the archive directory key.
func (s Session) DottedDate() string {
	return s.Date().Format("2006.01.02")
}

// ISODate formats the date as YYYY-MM-DD.
func (s Session) ISODate() string {
	return s.Date().Format("2006-01-02")
}

// CompactDate formats the date as YYYYMMDD for output filenames.
func (s Session) CompactDate() string {
	return s.Date().Format("20060102")
}

// DisplayDate formats the date for titles, e.g. "March 7, 2025".
func (s Session) DisplayDate() string {
	return s.Date().Format("January 2, 2006")
}

// OverlayDate formats the date for the intro overlay, e.g. "March 07, 2025".
func (s Session) OverlayDate() string {
	return s.Date().Format("January 02, 2006")
}

// RecordingDate is the platform recording timestamp for the session.
func (s Session) RecordingDate() string {
	return s.Date().Format("2006-01-02") + "T00:00:00Z"
}
