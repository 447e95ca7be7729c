package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestID echoes the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// NewRouter builds the gin engine with every API route.
func NewRouter(h *APIHandler, debug bool) *gin.Engine {
	var router *gin.Engine
	if debug {
		router = gin.Default()
	} else {
		gin.SetMode(gin.ReleaseMode)
		router = gin.New()
		router.Use(gin.Logger(), gin.Recovery())
	}
	// Tab names are free text; route on the escaped path so an encoded "/"
	// stays inside the :tab segment. Params are still unescaped.
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(RequestID())

	// Setup API routes
	api := router.Group("/api")
	{
		// Single list routes
		api.GET("/list", h.GetList)
		api.POST("/list/entries", h.SubmitListEntry)
		api.DELETE("/list/entries", h.DeleteAllListEntries)
		api.DELETE("/list/entries/:index", h.DeleteListEntry)
		api.GET("/list/export.csv", h.ExportListCSV)
		api.GET("/list/export.xlsx", h.ExportListXLSX)
		api.POST("/list/import", h.ImportList)

		// Multi-tab routes
		api.GET("/board", h.GetBoard)
		api.POST("/board/tabs", h.AddTab)
		api.DELETE("/board/tabs/:tab", h.DeleteTab)
		api.GET("/board/tabs/:tab/qrcode.png", h.TabQRCode)
		api.PUT("/board/active", h.SelectTab)
		api.POST("/board/entries", h.SubmitBoardEntry)
		api.DELETE("/board/entries", h.DeleteAllBoardEntries)
		api.DELETE("/board/entries/:index", h.DeleteBoardEntry)
		api.GET("/board/export.csv", h.ExportBoardCSV)
		api.GET("/board/export.xlsx", h.ExportBoardXLSX)
		api.POST("/board/import", h.ImportBoard)

		api.GET("/ping", PingHandler)
	}
	return router
}
