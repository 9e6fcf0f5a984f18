package payroll

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

func ParsePeriod(raw string) (Period, error) {
	parsed, err := time.Parse("2006-01", strings.TrimSpace(raw))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, raw)
	}
	return Period{Year: parsed.Year(), Month: parsed.Month()}, nil
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last calendar day of the period.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

func (p Period) Days() int {
	return p.End().Day()
}

func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
