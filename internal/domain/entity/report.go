package entity

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout формат времени в журнале отчётов
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultLocation подставляется, если место не указано
const DefaultLocation = "Not specified"

// Severity степень опасности, указанная заявителем
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Severities перечисляет допустимые значения в порядке возрастания
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// ParseSeverity разбирает степень без учёта регистра.
// Пустая строка означает Medium.
func ParseSeverity(s string) (Severity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SeverityMedium, nil
	}
	for _, sev := range Severities {
		if strings.EqualFold(s, string(sev)) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// NormalizeLocation убирает пробелы и подставляет значение по умолчанию
func NormalizeLocation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLocation
	}
	return s
}

// ReportRecord строка журнала отчётов
type ReportRecord struct {
	Timestamp time.Time
	Location  string
	Severity  Severity
	Potholes  int
	ImagePath string
}

// FormattedTimestamp возвращает время в формате журнала
func (r ReportRecord) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}
