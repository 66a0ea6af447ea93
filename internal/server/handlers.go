// Package server provides HTTP handlers and server setup for the chat relay.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"nerachat/internal/core"
)

// ChatService is the completion backend used by the handlers
type ChatService interface {
	Complete(ctx context.Context, messages []core.Message) (string, error)
	CompleteWithFiles(ctx context.Context, message string, files []core.UploadedFile) (*core.CompletionResult, error)
	CheckProvider(ctx context.Context) error
	Model() string
}

// Handler holds the HTTP handlers
type Handler struct {
	chat ChatService
}

// NewHandler creates a new handler with the given chat service
func NewHandler(chat ChatService) *Handler {
	return &Handler{
		chat: chat,
	}
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Messages []core.Message `json:"messages"`
}

// ChatResponse is the reply of POST /api/chat
type ChatResponse struct {
	Message core.Message `json:"message"`
}

// UploadResponse is the reply of POST /api/chat/upload
type UploadResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    *core.CompletionResult `json:"data"`
}

// Chat handles POST /api/chat
//
//	@Summary	Send chat messages
//	@Tags		chat
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ChatRequest	true	"Conversation history"
//	@Success	200		{object}	ChatResponse
//	@Failure	400		{object}	map[string]interface{}
//	@Failure	500		{object}	map[string]interface{}
//	@Router		/api/chat [post]
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}

	if len(req.Messages) == 0 {
		return handleError(c, core.NewInvalidRequestError("No messages provided", nil))
	}

	content, err := h.chat.Complete(c.Request().Context(), req.Messages)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Message: core.Message{Role: core.RoleAssistant, Content: content},
	})
}

// Upload handles POST /api/chat/upload
//
//	@Summary	Upload files with chat messages
//	@Tags		chat
//	@Accept		mpfd
//	@Produce	json
//	@Param		files	formData	file	true	"Files to analyze (PDF, DOCX, DOC, CSV, XLSX, XLS, TXT)"
//	@Param		message	formData	string	true	"The message associated with the files"
//	@Success	200		{object}	UploadResponse
//	@Failure	400		{object}	map[string]interface{}
//	@Failure	500		{object}	map[string]interface{}
//	@Router		/api/chat/upload [post]
func (h *Handler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return handleError(c, core.NewInvalidRequestError("invalid multipart form: "+err.Error(), err))
	}

	var headers []*multipart.FileHeader
	if form != nil {
		headers = form.File["files"]
	}
	if len(headers) == 0 {
		slog.WarnContext(ctx, "no files provided in the request", core.RequestAttr(ctx))
		return handleError(c, core.NewInvalidRequestError("No files provided. Use /api/chat for text-only messages.", nil))
	}

	message := c.FormValue("message")
	files := make([]core.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, core.UploadedFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
		slog.InfoContext(ctx, "received file",
			core.RequestAttr(ctx),
			"filename", fh.Filename,
			"content_type", fh.Header.Get(echo.HeaderContentType),
			"size", fh.Size,
		)
	}

	result, err := h.chat.CompleteWithFiles(ctx, message, files)
	if err != nil {
		var gwErr *core.GatewayError
		if errors.As(err, &gwErr) {
			wrapped := *gwErr
			wrapped.Message = "Error processing files: " + gwErr.Message
			return handleError(c, &wrapped)
		}
		return handleError(c, err)
	}

	slog.InfoContext(ctx, "successfully processed files", core.RequestAttr(ctx), "files", len(files))
	return c.JSON(http.StatusOK, UploadResponse{
		Status:  "success",
		Message: "Files processed successfully",
		Data:    result,
	})
}

// Health handles GET /health
//
//	@Summary	Check service health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Failure	500	{object}	map[string]interface{}
//	@Router		/health [get]
func (h *Handler) Health(c echo.Context) error {
	if err := h.chat.CheckProvider(c.Request().Context()); err != nil {
		message := "Failed to connect to OpenRouter API: " + err.Error()
		var gwErr *core.GatewayError
		if errors.As(err, &gwErr) && gwErr.Type == core.ErrorTypeConfiguration {
			message = gwErr.Message
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": message,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"openrouter": map[string]string{
			"status": "connected",
			"model":  h.chat.Model(),
		},
	})
}

type endpointInfo struct {
	URL         string `json:"url"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// Root handles GET / with static service metadata
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"service": "NERA Chat Service",
		"version": "1.0.0",
		"endpoints": map[string]endpointInfo{
			"chat":        {URL: "/api/chat", Method: http.MethodPost, Description: "Send chat messages"},
			"file_upload": {URL: "/api/chat/upload", Method: http.MethodPost, Description: "Upload files with chat messages"},
			"health":      {URL: "/health", Method: http.MethodGet, Description: "Check service health"},
		},
		"documentation": "/docs/index.html",
	})
}

// handleError converts relay errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	var gatewayErr *core.GatewayError
	if errors.As(err, &gatewayErr) {
		slog.ErrorContext(ctx, "request failed",
			core.RequestAttr(ctx),
			"path", c.Path(),
			"type", gatewayErr.Type,
			"error", gatewayErr.Message,
		)
		return c.JSON(gatewayErr.HTTPStatusCode(), gatewayErr.ToJSON())
	}

	slog.ErrorContext(ctx, "unexpected error", core.RequestAttr(ctx), "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"detail": err.Error(),
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": err.Error(),
		},
	})
}
