package models

// Entry is one check-in record. Entries are never edited in place.
type Entry struct {
	Name      string `json:"name" validate:"required"`      // Student name
	StudentID string `json:"studentId" validate:"required"` // Student number, free text
	ClassYear string `json:"classYear" validate:"required"` // Department and year, e.g. "資工三"
	Timestamp string `json:"timestamp" validate:"required"` // Locale-formatted capture time
}

// EntryForm is the check-in form as submitted by a user.
type EntryForm struct {
	ClassYear string `json:"classYear" form:"classYear" validate:"required"`
	Name      string `json:"name" form:"name" validate:"required"`
	StudentID string `json:"studentId" form:"studentId" validate:"required"`
}

// TabForm names a tab to add or select.
type TabForm struct {
	Name string `json:"name" form:"name"`
}

// Board is the JSON view of the multi-tab state.
type Board struct {
	Tabs    []string `json:"tabs"`
	Active  string   `json:"active"`
	Entries []Entry  `json:"entries"`
	MaxTabs int      `json:"maxTabs"`
}
