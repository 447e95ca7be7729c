package attendance

import (
	"errors"
	"fmt"

	"golang.org/x/text/message"

	"checkin-server-go/i18n"
)

// Errors a UI shows to the user as a blocking alert. None of them changes state.
var (
	ErrIncomplete      = errors.New("attendance: every field is required")
	ErrNoActiveTab     = errors.New("attendance: no active tab")
	ErrNothingToExport = errors.New("attendance: active list is empty")
)

// TabLimitError is returned when adding a tab to a full registry.
type TabLimitError struct {
	Max int
}

func (e *TabLimitError) Error() string {
	return fmt.Sprintf("attendance: tab limit of %d reached", e.Max)
}

// TabNotFoundError is returned when selecting or deleting an unknown tab.
type TabNotFoundError struct {
	Name string
}

func (e *TabNotFoundError) Error() string {
	return fmt.Sprintf("attendance: tab %q not found", e.Name)
}

// IndexError is returned when a row index does not address an entry.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("attendance: index %d out of range [0,%d)", e.Index, e.Len)
}

// AlertText renders err as the localized alert a user sees.
// ok is false for errors that are not user-facing (storage failures).
func AlertText(p *message.Printer, err error) (text string, ok bool) {
	var (
		limitErr *TabLimitError
		tabErr   *TabNotFoundError
		idxErr   *IndexError
	)
	switch {
	case errors.Is(err, ErrIncomplete):
		return p.Sprintf(i18n.IncompleteInputKey), true
	case errors.Is(err, ErrNoActiveTab):
		return p.Sprintf(i18n.NoActiveTabKey), true
	case errors.Is(err, ErrNothingToExport):
		return p.Sprintf(i18n.NothingToExportKey), true
	case errors.As(err, &limitErr):
		return p.Sprintf(i18n.TabLimitKey, limitErr.Max), true
	case errors.As(err, &tabErr):
		return p.Sprintf(i18n.TabNotFoundKey, tabErr.Name), true
	case errors.As(err, &idxErr):
		return p.Sprintf(i18n.IndexOutOfRangeKey, idxErr.Index+1), true
	}
	return "", false
}
