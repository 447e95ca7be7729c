// Package i18n holds the user-facing alert and prompt strings.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The zh-TW strings are the product's own wording.
const (
	IncompleteInputKey    = "attendance.incomplete_input"
	TabLimitKey           = "attendance.tab_limit"
	ConfirmDeleteEntryKey = "attendance.confirm_delete_entry"
	ConfirmDeleteAllKey   = "attendance.confirm_delete_all"
	ConfirmDeleteTabKey   = "attendance.confirm_delete_tab"
	NoActiveTabKey        = "attendance.no_active_tab"
	NothingToExportKey    = "attendance.nothing_to_export"
	TabNotFoundKey        = "attendance.tab_not_found"
	IndexOutOfRangeKey    = "attendance.index_out_of_range"
	EmptyListKey          = "attendance.empty_list"
	TitleKey              = "attendance.title"
	ImportedKey           = "attendance.imported"
	ExportedKey           = "attendance.exported"
	ClassYearLabelKey     = "attendance.label.class_year"
	NameLabelKey          = "attendance.label.name"
	StudentIDLabelKey     = "attendance.label.student_id"
	NewTabPlaceholderKey  = "attendance.new_tab"
)

// DefaultLocale is used when the configured locale cannot be matched.
var DefaultLocale = language.TraditionalChinese

var supported = []language.Tag{
	language.TraditionalChinese,
	language.AmericanEnglish,
	language.English,
}

var matcher = language.NewMatcher(supported)

// Match resolves a configured locale string to a supported tag.
func Match(locale string) language.Tag {
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLocale
	}
	return supported[idx]
}

// Printer returns a message printer for the locale.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
