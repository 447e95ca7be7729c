package handlers

import (
	"context"
	"errors"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/message"

	"checkin-server-go/attendance"
	"checkin-server-go/i18n"
	"checkin-server-go/models"
)

// APIHandler holds the dependencies for API handlers: the single list, the
// multi-tab board and their presentation settings. The containers are not
// safe for concurrent use, so every handler holds mu while touching them.
type APIHandler struct {
	mu            sync.Mutex
	Checklist     *attendance.Checklist
	Board         *attendance.Board
	Printer       *message.Printer
	CSVQuote      bool
	PublicBaseURL string
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(list *attendance.Checklist, board *attendance.Board, printer *message.Printer) *APIHandler {
	return &APIHandler{
		Checklist: list,
		Board:     board,
		Printer:   printer,
	}
}

// --- Single list handlers ---

// GetList handles GET /api/list
func (h *APIHandler) GetList(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"entries": h.Checklist.Entries()})
}

// SubmitListEntry handles POST /api/list/entries
func (h *APIHandler) SubmitListEntry(c *gin.Context) {
	var form models.EntryForm
	if !bindForm(c, &form) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, err := h.Checklist.Submit(requestContext(c), form)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteListEntry handles DELETE /api/list/entries/:index?confirm=true
func (h *APIHandler) DeleteListEntry(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	confirm := newQueryConfirm(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	removed, err := h.Checklist.DeleteEntry(requestContext(c), index, confirm)
	h.respondDeletion(c, removed, err, confirm, gin.H{"entries": h.Checklist.Entries()})
}

// DeleteAllListEntries handles DELETE /api/list/entries?confirm=true
func (h *APIHandler) DeleteAllListEntries(c *gin.Context) {
	confirm := newQueryConfirm(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	removed, err := h.Checklist.DeleteAll(requestContext(c), confirm)
	h.respondDeletion(c, removed, err, confirm, gin.H{"entries": h.Checklist.Entries()})
}

// ExportListCSV handles GET /api/list/export.csv
func (h *APIHandler) ExportListCSV(c *gin.Context) {
	h.mu.Lock()
	exp := h.Checklist.ExportCSV(h.CSVQuote)
	h.mu.Unlock()
	sendExport(c, exp)
}

// ExportListXLSX handles GET /api/list/export.xlsx
func (h *APIHandler) ExportListXLSX(c *gin.Context) {
	h.mu.Lock()
	exp, err := h.Checklist.ExportXLSX()
	h.mu.Unlock()
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendExport(c, exp)
}

// ImportList handles POST /api/list/import
func (h *APIHandler) ImportList(c *gin.Context) {
	file, filename, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	result, err := h.Checklist.Import(requestContext(c), file)
	if err != nil {
		log.Printf("Error importing %s into list: %v", filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to import entries: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       h.Printer.Sprintf(i18n.ImportedKey, result.Imported),
		"importedCount": result.Imported,
		"skippedCount":  result.Skipped,
	})
}

// --- Board handlers ---

// GetBoard handles GET /api/board
func (h *APIHandler) GetBoard(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.Board.View())
}

// AddTab handles POST /api/board/tabs
func (h *APIHandler) AddTab(c *gin.Context) {
	var form models.TabForm
	if !bindForm(c, &form) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	added, err := h.Board.AddTab(requestContext(c), form.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"added": added, "board": h.Board.View()})
}

// DeleteTab handles DELETE /api/board/tabs/:tab?confirm=true
func (h *APIHandler) DeleteTab(c *gin.Context) {
	tab := c.Param("tab")
	confirm := newQueryConfirm(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	removed, err := h.Board.DeleteTab(requestContext(c), tab, confirm)
	h.respondDeletion(c, removed, err, confirm, h.Board.View())
}

// SelectTab handles PUT /api/board/active
func (h *APIHandler) SelectTab(c *gin.Context) {
	var form models.TabForm
	if !bindForm(c, &form) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Board.Select(requestContext(c), form.Name); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Board.View())
}

// SubmitBoardEntry handles POST /api/board/entries
func (h *APIHandler) SubmitBoardEntry(c *gin.Context) {
	var form models.EntryForm
	if !bindForm(c, &form) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, err := h.Board.Submit(requestContext(c), form)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteBoardEntry handles DELETE /api/board/entries/:index?confirm=true
func (h *APIHandler) DeleteBoardEntry(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	confirm := newQueryConfirm(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	removed, err := h.Board.DeleteEntry(requestContext(c), index, confirm)
	h.respondDeletion(c, removed, err, confirm, h.Board.View())
}

// DeleteAllBoardEntries handles DELETE /api/board/entries?confirm=true
func (h *APIHandler) DeleteAllBoardEntries(c *gin.Context) {
	confirm := newQueryConfirm(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	removed, err := h.Board.DeleteAll(requestContext(c), confirm)
	h.respondDeletion(c, removed, err, confirm, h.Board.View())
}

// ExportBoardCSV handles GET /api/board/export.csv
func (h *APIHandler) ExportBoardCSV(c *gin.Context) {
	h.mu.Lock()
	exp, err := h.Board.ExportCSV(h.CSVQuote)
	h.mu.Unlock()
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendExport(c, exp)
}

// ExportBoardXLSX handles GET /api/board/export.xlsx
func (h *APIHandler) ExportBoardXLSX(c *gin.Context) {
	h.mu.Lock()
	exp, err := h.Board.ExportXLSX()
	h.mu.Unlock()
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendExport(c, exp)
}

// ImportBoard handles POST /api/board/import
func (h *APIHandler) ImportBoard(c *gin.Context) {
	file, filename, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	result, err := h.Board.Import(requestContext(c), file)
	if err != nil {
		if _, alert := attendance.AlertText(h.Printer, err); alert {
			h.respondError(c, err)
			return
		}
		log.Printf("Error importing %s into tab %q: %v", filename, h.Board.Active(), err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to import entries: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       h.Printer.Sprintf(i18n.ImportedKey, result.Imported),
		"importedCount": result.Imported,
		"skippedCount":  result.Skipped,
		"tab":           h.Board.Active(),
	})
}

// TabQRCode handles GET /api/board/tabs/:tab/qrcode.png. The code links to
// the check-in page with the tab preselected.
func (h *APIHandler) TabQRCode(c *gin.Context) {
	tab := c.Param("tab")
	h.mu.Lock()
	known := slices.Contains(h.Board.Tabs(), tab)
	h.mu.Unlock()
	if !known {
		h.respondError(c, &attendance.TabNotFoundError{Name: tab})
		return
	}

	target := strings.TrimRight(h.PublicBaseURL, "/") + "/?tab=" + url.QueryEscape(tab)
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		log.Printf("Error encoding QR code for tab %q: %v", tab, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

// --- Helpers ---

// queryConfirm answers the container's prompt from the confirm query
// parameter and remembers the prompt for the reply.
type queryConfirm struct {
	yes    bool
	prompt string
}

func newQueryConfirm(c *gin.Context) *queryConfirm {
	yes, _ := strconv.ParseBool(c.Query("confirm"))
	return &queryConfirm{yes: yes}
}

func (q *queryConfirm) Confirm(prompt string) bool {
	q.prompt = prompt
	return q.yes
}

func (h *APIHandler) respondDeletion(c *gin.Context, removed bool, err error, confirm *queryConfirm, body any) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed && !confirm.yes {
		c.JSON(http.StatusPreconditionRequired, gin.H{"message": confirm.prompt, "confirmed": false})
		return
	}
	c.JSON(http.StatusOK, body)
}

// respondError maps container errors to status codes; user-facing errors
// carry the localized alert text.
func (h *APIHandler) respondError(c *gin.Context, err error) {
	text, alert := attendance.AlertText(h.Printer, err)
	if !alert {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal error"})
		return
	}
	var (
		tabErr *attendance.TabNotFoundError
		idxErr *attendance.IndexError
	)
	status := http.StatusConflict
	switch {
	case errors.Is(err, attendance.ErrIncomplete):
		status = http.StatusBadRequest
	case errors.As(err, &tabErr), errors.As(err, &idxErr):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"message": text})
}

// requestContext keeps the request's values but not its cancellation: a
// container call that has started reading or writing runs to completion even
// if the client goes away.
func requestContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func bindForm(c *gin.Context, form any) bool {
	if err := c.ShouldBind(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Index must be an integer"})
		return 0, false
	}
	return index, true
}

func uploadedFile(c *gin.Context) (multipart.File, string, bool) {
	file, header, err := c.Request.FormFile("file") // "file" is the name attribute in the form
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error retrieving uploaded file: " + err.Error()})
		return nil, "", false
	}
	log.Printf("Received file upload: %s", header.Filename)
	return file, header.Filename, true
}

func sendExport(c *gin.Context, exp attendance.Export) {
	contentType := exp.ContentType
	if contentType == attendance.CSVContentType {
		contentType += "; charset=utf-8"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.FileName}))
	c.Data(http.StatusOK, contentType, exp.Data)
}
