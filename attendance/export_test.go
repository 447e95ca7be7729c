package attendance

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"

	"checkin-server-go/db"
	"checkin-server-go/i18n"
	"checkin-server-go/models"
)

func TestBuildCSV(t *testing.T) {
	entries := []models.Entry{
		{Name: "A", StudentID: "1", ClassYear: "CSY", Timestamp: "t1"},
		{Name: "B", StudentID: "2", ClassYear: "CSY", Timestamp: "t2"},
	}
	assert.Equal(t, "名字,學號,系級,簽到時間\nA,1,CSY,t1\nB,2,CSY,t2", BuildCSV(entries, false))
	assert.Equal(t, "名字,學號,系級,簽到時間\n", BuildCSV(nil, false))
}

func TestBuildCSVCommaInField(t *testing.T) {
	entries := []models.Entry{{Name: "Lin, Mei", StudentID: "1", ClassYear: `3"A`, Timestamp: "t"}}

	// historical format: the comma shifts every following column
	assert.Equal(t, "名字,學號,系級,簽到時間\nLin, Mei,1,3\"A,t", BuildCSV(entries, false))
	assert.Equal(t, "名字,學號,系級,簽到時間\n\"Lin, Mei\",1,\"3\"\"A\",t", BuildCSV(entries, true))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "attendance_list.csv", ExportFileName("", "csv"))
	assert.Equal(t, "attendance_list_週一.xlsx", ExportFileName("週一", "xlsx"))
	assert.Equal(t, "attendance_list_.._.._escaped.csv", ExportFileName("../../escaped", "csv"))
	assert.Equal(t, `attendance_list_a_b_c.csv`, ExportFileName(`a\b/c`, "csv"))
}

func TestFormatTimestamp(t *testing.T) {
	morning := time.Date(2024, 1, 5, 9, 7, 3, 0, time.UTC)
	evening := time.Date(2024, 10, 17, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "2024/1/5 上午9:07:03", FormatTimestamp(morning, language.TraditionalChinese))
	assert.Equal(t, "2024/10/17 下午3:04:05", FormatTimestamp(evening, i18n.Match("zh-TW")))
	assert.Equal(t, "10/17/2024, 3:04:05 PM", FormatTimestamp(evening, language.AmericanEnglish))
	assert.Equal(t, "2024-10-17 15:04:05", FormatTimestamp(evening, language.German))
}

func TestXLSXRoundTrip(t *testing.T) {
	entries := []models.Entry{
		{Name: "Lin, Mei", StudentID: "1", ClassYear: "CSY", Timestamp: "t1"},
		{Name: "B", StudentID: "2", ClassYear: "CSY", Timestamp: "t2"},
	}
	data, err := BuildXLSX(entries)
	require.NoError(t, err)

	got, skipped, err := ReadXLSX(bytes.NewReader(data), func() string { return "now" })
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, entries, got)
}

func TestReadXLSXSkipsIncompleteRows(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"名字", "學號", "系級"},
		{"A", "1", "CSY"},
		{"", "2", "CSY"},
		{"C", "3"},
		{"D", "4", "EE", "早上"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, skipped, err := ReadXLSX(buf, func() string { return "now" })
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, []models.Entry{
		{Name: "A", StudentID: "1", ClassYear: "CSY", Timestamp: "now"},
		{Name: "D", StudentID: "4", ClassYear: "EE", Timestamp: "早上"},
	}, got)
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	_, _, err := ReadXLSX(bytes.NewReader([]byte("not a workbook")), func() string { return "" })
	assert.Error(t, err)
}

func TestImportAppendsToLists(t *testing.T) {
	data, err := BuildXLSX([]models.Entry{{Name: "A", StudentID: "1", ClassYear: "X", Timestamp: "t"}})
	require.NoError(t, err)

	store := db.NewMemoryStore()
	list := NewChecklist(store, testOptions())
	res, err := list.Import(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 1}, res)
	assert.Equal(t, 1, list.Len())

	board := NewBoard(store, testOptions())
	_, err = board.Import(context.Background(), bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrNoActiveTab)

	_, err = board.AddTab(context.Background(), "T")
	require.NoError(t, err)
	res, err = board.Import(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Len(t, board.Entries(), 1)
}
