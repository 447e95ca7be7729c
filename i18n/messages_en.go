package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	for _, lang := range []language.Tag{language.English, language.AmericanEnglish} {
		message.SetString(lang, IncompleteInputKey, "Please fill in every field!")
		message.SetString(lang, TabLimitKey, "Tab limit reached: at most %d tabs are allowed.")
		message.SetString(lang, ConfirmDeleteEntryKey, "Delete this check-in record?")
		message.SetString(lang, ConfirmDeleteAllKey, "Delete all check-in records?")
		message.SetString(lang, ConfirmDeleteTabKey, "Delete tab \"%s\"?")
		message.SetString(lang, NoActiveTabKey, "Add or select a tab first.")
		message.SetString(lang, NothingToExportKey, "There are no check-in records to download.")
		message.SetString(lang, TabNotFoundKey, "Tab \"%s\" not found.")
		message.SetString(lang, IndexOutOfRangeKey, "Check-in record %d not found.")
		message.SetString(lang, EmptyListKey, "No check-in records yet.")
		message.SetString(lang, TitleKey, "Check-in")
		message.SetString(lang, ImportedKey, "Imported %d check-in records.")
		message.SetString(lang, ExportedKey, "Downloaded %s")
		message.SetString(lang, ClassYearLabelKey, "Class")
		message.SetString(lang, NameLabelKey, "Name")
		message.SetString(lang, StudentIDLabelKey, "Student ID")
		message.SetString(lang, NewTabPlaceholderKey, "New tab")
	}
}
