package handler

import (
	"errors"
	"net/http"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/domain"
	"github.com/damoang/caption-queue/internal/service"
	"github.com/damoang/caption-queue/internal/web"
	"github.com/gin-gonic/gin"
)

// multipart 헤더/프롬프트 여유분
const multipartOverhead = 1 << 20

// CaptionHandler handles media upload and caption generation
type CaptionHandler struct {
	moderation     service.ModerationService
	maxUploadBytes int64
}

// NewCaptionHandler creates a new CaptionHandler
func NewCaptionHandler(moderation service.ModerationService, maxUploadBytes int64) *CaptionHandler {
	return &CaptionHandler{moderation: moderation, maxUploadBytes: maxUploadBytes}
}

// GeneratorPage handles GET /caption-generator
func (h *CaptionHandler) GeneratorPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.CaptionGeneratorPage, gin.H{})
}

// GenerateCaption handles POST /generate-caption
// @Summary 캡션 생성 및 승인 대기열 등록
// @Description 미디어를 저장하고 캡션을 생성한 뒤 승인 대기 게시글을 만듭니다
// @Tags moderation
// @Accept multipart/form-data
// @Produce json
// @Param media formData file true "사진 또는 동영상"
// @Param prompt formData string false "캡션 컨텍스트"
// @Success 200 {object} domain.GenerateCaptionResponse
// @Failure 400 {object} domain.CaptionErrorResponse
// @Failure 401 {object} common.APIResponse
// @Failure 413 {object} domain.CaptionErrorResponse
// @Failure 500 {object} domain.CaptionErrorResponse
// @Router /generate-caption [post]
func (h *CaptionHandler) GenerateCaption(c *gin.Context) {
	limit := h.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		h.fail(c, http.StatusRequestEntityTooLarge, "File too large.", common.ErrInvalidInput)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile("media")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, http.StatusRequestEntityTooLarge, "File too large.", err)
			return
		}
		h.fail(c, http.StatusBadRequest, "No media file uploaded.", err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Could not read uploaded file.", err)
		return
	}
	defer f.Close()

	resp, err := h.moderation.GenerateAndQueue(c.Request.Context(), service.Upload{
		Body:     f,
		Size:     fh.Size,
		Filename: fh.Filename,
	}, c.PostForm("prompt"))
	if err != nil {
		h.fail(c, errorStatus(err), captionFailureMessage(err), err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CaptionHandler) fail(c *gin.Context, status int, message string, err error) {
	_ = c.Error(err)
	c.JSON(status, domain.CaptionErrorResponse{Error: message})
}

func captionFailureMessage(err error) string {
	switch {
	case errorStatus(err) == http.StatusBadRequest:
		return err.Error()
	case common.IsStorageError(err):
		return "Failed to store media."
	case common.IsCaptionServiceError(err):
		return "Failed to generate caption."
	default:
		return "Failed to queue post."
	}
}
