package attendance

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-server-go/db"
	"checkin-server-go/models"
)

func newChecklist(t *testing.T, entries ...models.EntryForm) (*Checklist, *db.MemoryStore) {
	t.Helper()
	store := db.NewMemoryStore()
	c := NewChecklist(store, testOptions())
	c.Load(context.Background())
	for _, f := range entries {
		_, err := c.Submit(context.Background(), f)
		require.NoError(t, err)
	}
	return c, store
}

func TestChecklistSubmitRejectsIncompleteForm(t *testing.T) {
	tests := []struct {
		name string
		form models.EntryForm
	}{
		{"no class", form("", "王小明", "B1")},
		{"no name", form("資工三", "", "B1")},
		{"no id", form("資工三", "王小明", "")},
		{"nothing", form("", "", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newChecklist(t, form("資工三", "陳小華", "B2"))
			before, _ := store.Get(context.Background(), db.ListKey)

			_, err := c.Submit(context.Background(), tt.form)

			assert.ErrorIs(t, err, ErrIncomplete)
			assert.Equal(t, 1, c.Len())
			after, _ := store.Get(context.Background(), db.ListKey)
			assert.Equal(t, before, after)
		})
	}
}

func TestChecklistSubmitAppendsVerbatim(t *testing.T) {
	c, store := newChecklist(t)

	entry, err := c.Submit(context.Background(), form(" 資工三 ", "O'Neil", "b-01"))
	require.NoError(t, err)

	want := models.Entry{Name: "O'Neil", StudentID: "b-01", ClassYear: " 資工三 ", Timestamp: fixedStamp}
	assert.Equal(t, want, entry)
	assert.Equal(t, []models.Entry{want}, c.Entries())

	raw, err := store.Get(context.Background(), db.ListKey)
	require.NoError(t, err)
	var saved []models.Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Equal(t, []models.Entry{want}, saved)
}

func TestChecklistAllowsDuplicates(t *testing.T) {
	c, _ := newChecklist(t, form("資工三", "A", "1"), form("資工三", "A", "1"))
	assert.Equal(t, 2, c.Len())
}

func TestChecklistDeleteEntry(t *testing.T) {
	c, store := newChecklist(t, form("X", "A", "1"), form("X", "B", "2"), form("X", "C", "3"))
	confirm := &recorder{answer: true}

	removed, err := c.DeleteEntry(context.Background(), 1, confirm)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"確定要刪除這筆簽到資料嗎？"}, confirm.prompts)

	names := func(entries []models.Entry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.Name)
		}
		return out
	}
	assert.Equal(t, []string{"A", "C"}, names(c.Entries()))

	reloaded := NewChecklist(store, testOptions())
	reloaded.Load(context.Background())
	assert.Equal(t, []string{"A", "C"}, names(reloaded.Entries()))
}

func TestChecklistDeleteEntryDeclined(t *testing.T) {
	c, _ := newChecklist(t, form("X", "A", "1"))

	removed, err := c.DeleteEntry(context.Background(), 0, Declined)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, c.Len())

	removed, err = c.DeleteEntry(context.Background(), 0, nil)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestChecklistDeleteEntryOutOfRange(t *testing.T) {
	c, _ := newChecklist(t, form("X", "A", "1"))
	confirm := &recorder{answer: true}

	for _, idx := range []int{-1, 1, 5} {
		_, err := c.DeleteEntry(context.Background(), idx, confirm)
		var idxErr *IndexError
		require.ErrorAs(t, err, &idxErr)
		assert.Equal(t, idx, idxErr.Index)
	}
	assert.Empty(t, confirm.prompts)
	assert.Equal(t, 1, c.Len())
}

func TestChecklistDeleteLastEntryPersistsEmptyList(t *testing.T) {
	c, store := newChecklist(t, form("X", "A", "1"))

	_, err := c.DeleteEntry(context.Background(), 0, Confirmed)
	require.NoError(t, err)

	raw, err := store.Get(context.Background(), db.ListKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestChecklistDeleteAllRemovesKey(t *testing.T) {
	c, store := newChecklist(t, form("X", "A", "1"), form("X", "B", "2"))

	removed, err := c.DeleteAll(context.Background(), Declined)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, c.Len())

	confirm := &recorder{answer: true}
	removed, err = c.DeleteAll(context.Background(), confirm)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"確定要刪除所有簽到資料嗎？"}, confirm.prompts)
	assert.Empty(t, c.Entries())

	_, err = store.Get(context.Background(), db.ListKey)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestChecklistExportCSV(t *testing.T) {
	c, _ := newChecklist(t)
	exp := c.ExportCSV(false)
	assert.Equal(t, "attendance_list.csv", exp.FileName)
	assert.Equal(t, "text/csv", exp.ContentType)
	assert.Equal(t, "名字,學號,系級,簽到時間\n", string(exp.Data))

	_, err := c.Submit(context.Background(), form("CSY", "A", "1"))
	require.NoError(t, err)
	exp = c.ExportCSV(false)
	assert.Equal(t, "名字,學號,系級,簽到時間\nA,1,CSY,"+fixedStamp, string(exp.Data))
}

func TestChecklistReloadRoundTrip(t *testing.T) {
	c, store := newChecklist(t, form("資工三", "王小明", "B1"), form("電機二", "林小美", "B2"))

	reloaded := NewChecklist(store, testOptions())
	reloaded.Load(context.Background())
	assert.Equal(t, c.Entries(), reloaded.Entries())
}

func TestChecklistLoadDiscardsMalformedData(t *testing.T) {
	tests := map[string]string{
		"not json":      "{oops",
		"wrong shape":   `{"name":"A"}`,
		"missing field": `[{"name":"A","studentId":"1","classYear":"X"}]`,
		"wrong type":    `[{"name":1,"studentId":"1","classYear":"X","timestamp":"t"}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			store := db.NewMemoryStore()
			require.NoError(t, store.Set(context.Background(), db.ListKey, raw))

			c := NewChecklist(store, testOptions())
			c.Load(context.Background())
			assert.Empty(t, c.Entries())
		})
	}
}

func TestChecklistWriteFailureLeavesStateUnchanged(t *testing.T) {
	c, store := newChecklist(t, form("X", "A", "1"))
	c.store = brokenStore{Store: store}

	_, err := c.Submit(context.Background(), form("X", "B", "2"))
	assert.ErrorIs(t, err, errBroken)
	_, err = c.DeleteEntry(context.Background(), 0, Confirmed)
	assert.ErrorIs(t, err, errBroken)
	_, err = c.DeleteAll(context.Background(), Confirmed)
	assert.ErrorIs(t, err, errBroken)

	assert.Equal(t, 1, c.Len())
}
