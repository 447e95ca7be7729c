package attendance

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"

	"golang.org/x/text/message"

	"checkin-server-go/db"
	"checkin-server-go/i18n"
	"checkin-server-go/models"
)

// Board is the multi-tab variant: up to MaxTabs named lists, one of which is
// active. The registry is stored under db.TabsKey and each tab's list under
// db.TabKey(name).
type Board struct {
	store   db.Store
	opts    Options
	printer *message.Printer

	tabs    []string
	active  string
	entries []models.Entry // the active tab's list
}

// NewBoard creates an empty Board. Call Load to restore saved tabs.
func NewBoard(store db.Store, opts Options) *Board {
	opts = opts.withDefaults()
	return &Board{
		store:   store,
		opts:    opts,
		printer: opts.printer(),
		tabs:    []string{},
		entries: []models.Entry{},
	}
}

// Load restores the registry and activates its first tab, if any.
func (b *Board) Load(ctx context.Context) {
	b.tabs = loadTabs(ctx, b.store)
	b.active = firstTab(b.tabs)
	b.entries = []models.Entry{}
	if b.active != "" {
		b.entries = loadEntries(ctx, b.store, db.TabKey(b.active))
	}
}

// Tabs returns a copy of the registry in creation order.
func (b *Board) Tabs() []string {
	return append([]string{}, b.tabs...)
}

// Active returns the active tab's name, or "" when there is none.
func (b *Board) Active() string { return b.active }

// Entries returns a copy of the active tab's list.
func (b *Board) Entries() []models.Entry {
	return append([]models.Entry{}, b.entries...)
}

// View returns the JSON-ready state of the board.
func (b *Board) View() models.Board {
	return models.Board{
		Tabs:    b.Tabs(),
		Active:  b.active,
		Entries: b.Entries(),
		MaxTabs: MaxTabs,
	}
}

// AddTab registers name and makes it active. A full registry is an error;
// an empty or already registered name is ignored. It reports whether the tab
// was added.
func (b *Board) AddTab(ctx context.Context, name string) (bool, error) {
	if len(b.tabs) >= MaxTabs {
		return false, &TabLimitError{Max: MaxTabs}
	}
	if name == "" || slices.Contains(b.tabs, name) {
		return false, nil
	}
	next := append(b.Tabs(), name)
	rawTabs, err := encodeTabs(next)
	if err != nil {
		return false, err
	}
	// A partition left behind under the same name is picked up, not clobbered.
	entries, err := readEntries(ctx, b.store, db.TabKey(name))
	if err != nil {
		return false, fmt.Errorf("add tab %q: %w", name, err)
	}
	rawEntries, err := encodeEntries(entries)
	if err != nil {
		return false, err
	}
	if err := b.store.Apply(ctx,
		db.Put(db.TabsKey, rawTabs),
		db.Put(db.TabKey(name), rawEntries),
	); err != nil {
		return false, fmt.Errorf("add tab %q: %w", name, err)
	}
	b.tabs = next
	b.active = name
	b.entries = entries
	log.Printf("Added tab %q (%d/%d)", name, len(next), MaxTabs)
	return true, nil
}

// DeleteTab removes name and its list after confirmation. Deleting the
// active tab activates the first remaining one.
func (b *Board) DeleteTab(ctx context.Context, name string, confirm Confirmer) (bool, error) {
	idx := slices.Index(b.tabs, name)
	if idx < 0 {
		return false, &TabNotFoundError{Name: name}
	}
	if !confirmed(confirm, b.printer.Sprintf(i18n.ConfirmDeleteTabKey, name)) {
		return false, nil
	}
	next := slices.Delete(b.Tabs(), idx, idx+1)
	rawTabs, err := encodeTabs(next)
	if err != nil {
		return false, err
	}
	if err := b.store.Apply(ctx,
		db.Put(db.TabsKey, rawTabs),
		db.Delete(db.TabKey(name)),
	); err != nil {
		return false, fmt.Errorf("delete tab %q: %w", name, err)
	}
	b.tabs = next
	log.Printf("Deleted tab %q", name)
	if b.active == name {
		if err := b.activate(ctx, firstTab(next)); err != nil {
			// the tab is gone; leave nothing active rather than an empty
			// list that would overwrite the next tab's partition
			b.active = ""
			b.entries = []models.Entry{}
			return true, err
		}
	}
	return true, nil
}

// Select makes name the active tab and loads its list. Nothing is written.
// If the list cannot be read the active tab does not change.
func (b *Board) Select(ctx context.Context, name string) error {
	if !slices.Contains(b.tabs, name) {
		return &TabNotFoundError{Name: name}
	}
	return b.activate(ctx, name)
}

// Submit appends a new entry to the active tab.
func (b *Board) Submit(ctx context.Context, form models.EntryForm) (models.Entry, error) {
	if b.active == "" {
		return models.Entry{}, ErrNoActiveTab
	}
	entry, err := newEntry(form, b.opts)
	if err != nil {
		return models.Entry{}, err
	}
	next := appendEntries(b.entries, entry)
	if err := b.save(ctx, next); err != nil {
		return models.Entry{}, err
	}
	b.entries = next
	return entry, nil
}

// DeleteEntry removes the active tab's entry at index after confirmation.
func (b *Board) DeleteEntry(ctx context.Context, index int, confirm Confirmer) (bool, error) {
	if b.active == "" {
		return false, ErrNoActiveTab
	}
	if index < 0 || index >= len(b.entries) {
		return false, &IndexError{Index: index, Len: len(b.entries)}
	}
	if !confirmed(confirm, b.printer.Sprintf(i18n.ConfirmDeleteEntryKey)) {
		return false, nil
	}
	next := removeEntry(b.entries, index)
	if err := b.save(ctx, next); err != nil {
		return false, err
	}
	b.entries = next
	return true, nil
}

// DeleteAll empties the active tab's list after confirmation. The tab and
// its (now empty) partition stay registered.
func (b *Board) DeleteAll(ctx context.Context, confirm Confirmer) (bool, error) {
	if b.active == "" {
		return false, ErrNoActiveTab
	}
	if !confirmed(confirm, b.printer.Sprintf(i18n.ConfirmDeleteAllKey)) {
		return false, nil
	}
	next := []models.Entry{}
	if err := b.save(ctx, next); err != nil {
		return false, err
	}
	b.entries = next
	return true, nil
}

// ExportCSV renders the active list as attendance_list_<tab>.csv.
func (b *Board) ExportCSV(quote bool) (Export, error) {
	if err := b.exportable(); err != nil {
		return Export{}, err
	}
	return csvExport(b.entries, b.active, quote), nil
}

// ExportXLSX renders the active list as attendance_list_<tab>.xlsx.
func (b *Board) ExportXLSX() (Export, error) {
	if err := b.exportable(); err != nil {
		return Export{}, err
	}
	return xlsxExport(b.entries, b.active)
}

// Import appends the rows of a workbook to the active tab in one write.
func (b *Board) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	if b.active == "" {
		return ImportResult{}, ErrNoActiveTab
	}
	entries, skipped, err := ReadXLSX(r, b.opts.timestamp)
	if err != nil {
		return ImportResult{}, err
	}
	if len(entries) > 0 {
		next := appendEntries(b.entries, entries...)
		if err := b.save(ctx, next); err != nil {
			return ImportResult{}, err
		}
		b.entries = next
	}
	log.Printf("Imported %d entries into tab %q (%d rows skipped)", len(entries), b.active, skipped)
	return ImportResult{Imported: len(entries), Skipped: skipped}, nil
}

func (b *Board) exportable() error {
	if b.active == "" {
		return ErrNoActiveTab
	}
	if len(b.entries) == 0 {
		return ErrNothingToExport
	}
	return nil
}

func (b *Board) activate(ctx context.Context, name string) error {
	if name == "" {
		b.active = ""
		b.entries = []models.Entry{}
		return nil
	}
	entries, err := readEntries(ctx, b.store, db.TabKey(name))
	if err != nil {
		return fmt.Errorf("select tab %q: %w", name, err)
	}
	b.active = name
	b.entries = entries
	return nil
}

func (b *Board) save(ctx context.Context, entries []models.Entry) error {
	key := db.TabKey(b.active)
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if err := b.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func firstTab(tabs []string) string {
	if len(tabs) == 0 {
		return ""
	}
	return tabs[0]
}
