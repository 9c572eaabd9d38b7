package handler

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/labstack/echo/v4"

	"promostore/internal/domain/entity"
	"promostore/internal/usecase"
	"promostore/pkg/errors"
	"promostore/pkg/logger"
	"promostore/pkg/response"
)

// ChatHandler is the REST surface over the chat store, for clients that are
// not holding a live websocket session (admin tooling, message history on
// first page render).
type ChatHandler struct {
	chatStore      *usecase.ChatStore
	orderUseCase   *usecase.OrderUseCase
	profileUseCase *usecase.ProfileUseCase
}

func NewChatHandler(chatStore *usecase.ChatStore, orderUseCase *usecase.OrderUseCase, profileUseCase *usecase.ProfileUseCase) *ChatHandler {
	return &ChatHandler{
		chatStore:      chatStore,
		orderUseCase:   orderUseCase,
		profileUseCase: profileUseCase,
	}
}

// GetMessages returns the full conversation for an order, oldest first.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	uid := c.Get("uid").(string)
	orderID := c.Param("id")

	if _, err := h.authorize(c, uid, orderID); err != nil {
		return response.Error(c, err)
	}

	messages, err := h.chatStore.LoadHistory(c.Request().Context(), orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// SendMessage accepts a multipart form with a "message" field and zero or
// more "attachments" files. Uploads are best-effort: a failed file is dropped
// as long as something sendable remains.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid := c.Get("uid").(string)
	orderID := c.Param("id")

	profile, err := h.authorize(c, uid, orderID)
	if err != nil {
		return response.Error(c, err)
	}

	text := strings.TrimSpace(c.FormValue("message"))

	var fileHeaders []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		fileHeaders = form.File["attachments"]
	}

	if text == "" && len(fileHeaders) == 0 {
		return response.Error(c, errors.BadRequest("Message must have text or attachments", nil))
	}

	ctx := c.Request().Context()

	var attachments []string
	var lastUploadErr error
	for _, fh := range fileHeaders {
		file, err := readAttachment(fh)
		if err != nil {
			logger.Warn("Failed to read attachment %s for order %s: %v", fh.Filename, orderID, err)
			lastUploadErr = errors.UploadFailed("Failed to read attachment", err)
			continue
		}

		url, err := h.chatStore.UploadAttachment(ctx, orderID, file)
		if err != nil {
			logger.Warn("Attachment %s failed for order %s: %v", fh.Filename, orderID, err)
			lastUploadErr = err
			continue
		}
		attachments = append(attachments, url)
	}

	if text == "" && len(attachments) == 0 {
		return response.Error(c, lastUploadErr)
	}

	body := text
	if body == "" {
		body = "📎 attachment(s)"
	}

	message, err := h.chatStore.InsertMessage(ctx, orderID, uid, body, attachments)
	if err != nil {
		return response.Error(c, err)
	}
	message.Sender = profile

	return response.Created(c, message)
}

// authorize verifies the caller may view the order's conversation and
// returns their profile for denormalization.
func (h *ChatHandler) authorize(c echo.Context, uid, orderID string) (*entity.Profile, error) {
	ctx := c.Request().Context()

	profile, err := h.profileUseCase.GetProfile(ctx, uid)
	if err != nil {
		profile = &entity.Profile{ID: uid}
	}

	if _, err := h.orderUseCase.GetOrder(ctx, uid, orderID, profile.IsAdmin); err != nil {
		return nil, err
	}

	return profile, nil
}

func readAttachment(fh *multipart.FileHeader) (usecase.AttachmentInput, error) {
	src, err := fh.Open()
	if err != nil {
		return usecase.AttachmentInput{}, err
	}
	defer src.Close()

	// Read one byte past the limit so the store can reject oversized files
	// without the handler buffering them whole.
	data, err := io.ReadAll(io.LimitReader(src, usecase.MaxAttachmentSize+1))
	if err != nil {
		return usecase.AttachmentInput{}, err
	}

	return usecase.AttachmentInput{Name: fh.Filename, Data: data}, nil
}
