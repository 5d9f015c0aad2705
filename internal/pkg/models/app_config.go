package models

import "time"

type ConfigItem struct {
	ID           string    `json:"id"`
	Category     string    `json:"category" validate:"required"`
	Value        string    `json:"value" validate:"required"`
	IsActive     bool      `json:"isActive"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AppConfiguration maps a category to its active values in display order.
type AppConfiguration map[string][]string

// Values returns a copy of the active values for category, or fallback when
// the category is absent. A present but empty category yields no values.
func (c AppConfiguration) Values(category string, fallback []string) []string {
	if values, ok := c[category]; ok {
		return append([]string{}, values...)
	}
	return append([]string{}, fallback...)
}

// Clone returns a deep copy.
func (c AppConfiguration) Clone() AppConfiguration {
	out := make(AppConfiguration, len(c))
	for k, v := range c {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// RosterField names the case column that a roster rename cascades into.
type RosterField string

const (
	RosterTeamMember RosterField = "team_member"
	RosterBankName   RosterField = "bank_name"
)
