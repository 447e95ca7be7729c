package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.TraditionalChinese

	message.SetString(lang, IncompleteInputKey, "請完整輸入資料！")
	message.SetString(lang, TabLimitKey, "標籤數已達上限，最多只能有 %d 個標籤。")
	message.SetString(lang, ConfirmDeleteEntryKey, "確定要刪除這筆簽到資料嗎？")
	message.SetString(lang, ConfirmDeleteAllKey, "確定要刪除所有簽到資料嗎？")
	message.SetString(lang, ConfirmDeleteTabKey, "確定要刪除標籤 \"%s\" 嗎？")
	message.SetString(lang, NoActiveTabKey, "請先新增或選擇一個標籤。")
	message.SetString(lang, NothingToExportKey, "目前沒有簽到紀錄可供下載。")
	message.SetString(lang, TabNotFoundKey, "找不到標籤 \"%s\"。")
	message.SetString(lang, IndexOutOfRangeKey, "找不到第 %d 筆簽到資料。")
	message.SetString(lang, EmptyListKey, "目前沒有簽到紀錄。")
	message.SetString(lang, TitleKey, "簽到系統")
	message.SetString(lang, ImportedKey, "已匯入 %d 筆簽到資料。")
	message.SetString(lang, ExportedKey, "已下載 %s")
	message.SetString(lang, ClassYearLabelKey, "系級")
	message.SetString(lang, NameLabelKey, "名字")
	message.SetString(lang, StudentIDLabelKey, "學號")
	message.SetString(lang, NewTabPlaceholderKey, "新增標籤")
}
