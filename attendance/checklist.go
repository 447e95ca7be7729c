// Package attendance owns the check-in lists: the single flat list and the
// multi-tab board. Every mutation is written to the store before it becomes
// visible, so a failed write leaves the in-memory state untouched.
//
// Neither container is safe for concurrent use.
package attendance

import (
	"context"
	"fmt"
	"io"
	"log"

	"golang.org/x/text/message"

	"checkin-server-go/db"
	"checkin-server-go/i18n"
	"checkin-server-go/models"
)

// Checklist is the single-list variant, persisted under db.ListKey.
type Checklist struct {
	store   db.Store
	opts    Options
	printer *message.Printer
	entries []models.Entry
}

// NewChecklist creates an empty Checklist. Call Load to restore saved entries.
func NewChecklist(store db.Store, opts Options) *Checklist {
	opts = opts.withDefaults()
	return &Checklist{
		store:   store,
		opts:    opts,
		printer: opts.printer(),
		entries: []models.Entry{},
	}
}

// Load replaces the in-memory list with the persisted one.
func (c *Checklist) Load(ctx context.Context) {
	c.entries = loadEntries(ctx, c.store, db.ListKey)
}

// Entries returns a copy of the list in check-in order.
func (c *Checklist) Entries() []models.Entry {
	return append([]models.Entry{}, c.entries...)
}

// Len returns the number of entries
func (c *Checklist) Len() int { return len(c.entries) }

// Submit appends a new entry stamped with the current time.
func (c *Checklist) Submit(ctx context.Context, form models.EntryForm) (models.Entry, error) {
	entry, err := newEntry(form, c.opts)
	if err != nil {
		return models.Entry{}, err
	}
	next := appendEntries(c.entries, entry)
	if err := c.save(ctx, next); err != nil {
		return models.Entry{}, err
	}
	c.entries = next
	return entry, nil
}

// DeleteEntry removes the entry at index after confirmation.
// It reports whether anything was removed.
func (c *Checklist) DeleteEntry(ctx context.Context, index int, confirm Confirmer) (bool, error) {
	if index < 0 || index >= len(c.entries) {
		return false, &IndexError{Index: index, Len: len(c.entries)}
	}
	if !confirmed(confirm, c.printer.Sprintf(i18n.ConfirmDeleteEntryKey)) {
		return false, nil
	}
	next := removeEntry(c.entries, index)
	if err := c.save(ctx, next); err != nil {
		return false, err
	}
	c.entries = next
	return true, nil
}

// DeleteAll empties the list after confirmation and removes its key.
func (c *Checklist) DeleteAll(ctx context.Context, confirm Confirmer) (bool, error) {
	if !confirmed(confirm, c.printer.Sprintf(i18n.ConfirmDeleteAllKey)) {
		return false, nil
	}
	if err := c.store.Remove(ctx, db.ListKey); err != nil {
		return false, fmt.Errorf("remove %s: %w", db.ListKey, err)
	}
	c.entries = []models.Entry{}
	return true, nil
}

// ExportCSV renders the list as attendance_list.csv. An empty list exports
// the header alone.
func (c *Checklist) ExportCSV(quote bool) Export {
	return csvExport(c.entries, "", quote)
}

// ExportXLSX renders the list as attendance_list.xlsx.
func (c *Checklist) ExportXLSX() (Export, error) {
	return xlsxExport(c.entries, "")
}

// Import appends the rows of a workbook to the list in one write.
func (c *Checklist) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	entries, skipped, err := ReadXLSX(r, c.opts.timestamp)
	if err != nil {
		return ImportResult{}, err
	}
	if len(entries) > 0 {
		next := appendEntries(c.entries, entries...)
		if err := c.save(ctx, next); err != nil {
			return ImportResult{}, err
		}
		c.entries = next
	}
	log.Printf("Imported %d entries into %s (%d rows skipped)", len(entries), db.ListKey, skipped)
	return ImportResult{Imported: len(entries), Skipped: skipped}, nil
}

func (c *Checklist) save(ctx context.Context, entries []models.Entry) error {
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, db.ListKey, raw); err != nil {
		return fmt.Errorf("save %s: %w", db.ListKey, err)
	}
	return nil
}

func newEntry(form models.EntryForm, opts Options) (models.Entry, error) {
	if err := validate.Struct(form); err != nil {
		return models.Entry{}, ErrIncomplete
	}
	return models.Entry{
		Name:      form.Name,
		StudentID: form.StudentID,
		ClassYear: form.ClassYear,
		Timestamp: opts.timestamp(),
	}, nil
}

// appendEntries returns a new slice; the input is never modified.
func appendEntries(entries []models.Entry, more ...models.Entry) []models.Entry {
	next := make([]models.Entry, 0, len(entries)+len(more))
	next = append(next, entries...)
	return append(next, more...)
}

func removeEntry(entries []models.Entry, index int) []models.Entry {
	next := make([]models.Entry, 0, len(entries)-1)
	next = append(next, entries[:index]...)
	return append(next, entries[index+1:]...)
}
