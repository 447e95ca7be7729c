package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"checkin-server-go/db"
	"checkin-server-go/models"
)

// MaxTabs bounds the tab registry.
const MaxTabs = 5

var validate = validator.New()

func decodeEntries(raw string) ([]models.Entry, error) {
	var entries []models.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	for i := range entries {
		if err := validate.Struct(entries[i]); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return entries, nil
}

func encodeEntries(entries []models.Entry) (string, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode entries: %w", err)
	}
	return string(data), nil
}

func decodeTabs(raw string) ([]string, error) {
	var tabs []string
	if err := json.Unmarshal([]byte(raw), &tabs); err != nil {
		return nil, fmt.Errorf("decode tabs: %w", err)
	}
	if len(tabs) > MaxTabs {
		return nil, fmt.Errorf("%d tabs exceed the limit of %d", len(tabs), MaxTabs)
	}
	seen := make(map[string]bool, len(tabs))
	for _, t := range tabs {
		if t == "" {
			return nil, errors.New("empty tab name")
		}
		if seen[t] {
			return nil, fmt.Errorf("duplicate tab %q", t)
		}
		seen[t] = true
	}
	return tabs, nil
}

func encodeTabs(tabs []string) (string, error) {
	if tabs == nil {
		tabs = []string{}
	}
	data, err := json.Marshal(tabs)
	if err != nil {
		return "", fmt.Errorf("encode tabs: %w", err)
	}
	return string(data), nil
}

// loadEntries reads a list partition. Missing, unreadable or malformed data
// is an empty list.
func loadEntries(ctx context.Context, store db.Store, key string) []models.Entry {
	entries, err := readEntries(ctx, store, key)
	if err != nil {
		log.Printf("Error reading %s, starting empty: %v", key, err)
		return []models.Entry{}
	}
	return entries
}

// readEntries is loadEntries for callers that are about to make the list
// writable: a missing or malformed partition is empty, a failed read is an
// error.
func readEntries(ctx context.Context, store db.Store, key string) ([]models.Entry, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, db.ErrNotFound) {
		return []models.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	entries, err := decodeEntries(raw)
	if err != nil {
		log.Printf("Discarding malformed %s: %v", key, err)
		return []models.Entry{}, nil
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

func loadTabs(ctx context.Context, store db.Store) []string {
	raw, err := store.Get(ctx, db.TabsKey)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Printf("Error reading %s, starting empty: %v", db.TabsKey, err)
		}
		return []string{}
	}
	tabs, err := decodeTabs(raw)
	if err != nil {
		log.Printf("Discarding malformed %s: %v", db.TabsKey, err)
		return []string{}
	}
	if tabs == nil {
		tabs = []string{}
	}
	return tabs
}
