// Package licenses watches contractor license expiration dates and raises
// one notification per license and reminder rule.
package licenses

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// License is a contractor license with a known expiration date.
type License struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Number         string
	ExpirationDate time.Time
}

// Rule names the reminder a notification was raised for.
type Rule string

const (
	RuleExpired    Rule = "expired"
	RuleToday      Rule = "expires_today"
	RuleOneDay     Rule = "expires_in_1_day"
	RuleSevenDays  Rule = "expires_in_7_days"
	RuleFourteen   Rule = "expires_in_14_days"
	RuleThirtyDays Rule = "expires_in_30_days"
)

// Horizon is the furthest ahead a reminder is raised.
const Horizon = 30

var thresholds = map[int]Rule{
	30: RuleThirtyDays,
	14: RuleFourteen,
	7:  RuleSevenDays,
	1:  RuleOneDay,
	0:  RuleToday,
}

// DaysUntil counts calendar days from today to the expiration date. Both
// are compared as dates in UTC.
func DaysUntil(expiration, today time.Time) int {
	e := dateOnly(expiration)
	t := dateOnly(today)
	return int(e.Sub(t).Hours() / 24)
}

// RuleFor returns the reminder due for a license on today, if any.
func RuleFor(expiration, today time.Time) (Rule, bool) {
	days := DaysUntil(expiration, today)
	if days < 0 {
		return RuleExpired, true
	}
	r, ok := thresholds[days]
	return r, ok
}

// Notification is a reminder stored for the license owner.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	LicenseID uuid.UUID
	Rule      Rule
	Title     string
	Message   string
}

// NewNotification words the reminder for l under rule r.
func NewNotification(l License, r Rule, today time.Time) Notification {
	name := l.Name
	if name == "" {
		name = "License"
	}
	if l.Number != "" {
		name = fmt.Sprintf("%s (%s)", name, l.Number)
	}
	exp := l.ExpirationDate.Format("Jan 2, 2006")

	var title, msg string
	switch r {
	case RuleExpired:
		title = "License expired"
		msg = fmt.Sprintf("%s expired on %s.", name, exp)
	case RuleToday:
		title = "License expires today"
		msg = fmt.Sprintf("%s expires today (%s).", name, exp)
	default:
		days := DaysUntil(l.ExpirationDate, today)
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		title = "License expiring soon"
		msg = fmt.Sprintf("%s expires in %d %s on %s.", name, days, unit, exp)
	}
	return Notification{
		ID:        uuid.New(),
		UserID:    l.UserID,
		LicenseID: l.ID,
		Rule:      r,
		Title:     title,
		Message:   msg,
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
