package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio/internal/api/middleware"
	"portfolio/internal/metrics"
	"portfolio/internal/storage"
)

// ObjectStore is satisfied by *storage.Client.
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	OpenObject(ctx context.Context, objectKey string) (io.ReadCloser, storage.ObjectInfo, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// Scanner 检查上传内容；命中病毒时返回 ErrInfected。
type Scanner interface {
	Scan(r io.Reader) error
}

var ErrInfected = errors.New("malicious file detected")

// ClamdScanner 通过 clamd 的 INSTREAM 扫描文件。
type ClamdScanner struct {
	client *clamd.Clamd
}

func NewClamdScanner(addr string) *ClamdScanner {
	return &ClamdScanner{client: clamd.NewClamd(addr)}
}

func (s *ClamdScanner) Scan(r io.Reader) error {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("clamd scan: %w", err)
	}
	for res := range results {
		switch res.Status {
		case clamd.RES_OK:
		case clamd.RES_FOUND:
			return fmt.Errorf("%w: %s", ErrInfected, res.Description)
		default:
			return fmt.Errorf("clamd scan: %s %s", res.Status, res.Description)
		}
	}
	return nil
}

// 允许的图片类型以嗅探结果为准，扩展名只做第一道过滤。
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

const (
	pdfType = "application/pdf"
	// multipart 边界与表单头的余量。
	multipartOverhead = 64 * 1024
)

// UploadHandler 处理管理端的图片、简历上传，以及公开的文件读取。
type UploadHandler struct {
	store    ObjectStore
	scanner  Scanner
	maxBytes int64
}

// NewUploadHandler scanner 为 nil 时跳过病毒扫描。
func NewUploadHandler(store ObjectStore, scanner Scanner, maxBytes int64) *UploadHandler {
	return &UploadHandler{store: store, scanner: scanner, maxBytes: maxBytes}
}

// UploadImage 接收字段 image，返回可直接写入内容字段的 URL。
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, ok := h.formFile(c, "image", "image")
	if !ok {
		return
	}
	if !imageExts[strings.ToLower(filepath.Ext(file.Filename))] {
		metrics.Upload("image", "rejected")
		BadRequest(c, "only image files are allowed")
		return
	}

	data, ok := h.readAndCheck(c, file, "image")
	if !ok {
		return
	}
	sniffed := http.DetectContentType(data)
	ext, allowed := imageTypes[sniffed]
	if !allowed {
		metrics.Upload("image", "rejected")
		BadRequest(c, "only image files are allowed")
		return
	}

	key := imagePrefix + uuid.NewString() + ext
	if !h.put(c, "image", key, data, sniffed) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": uploadsPath + key})
}

// UploadResume 接收字段 resume，覆盖固定位置的简历 PDF。
func (h *UploadHandler) UploadResume(c *gin.Context) {
	file, ok := h.formFile(c, "resume", "resume")
	if !ok {
		return
	}
	data, ok := h.readAndCheck(c, file, "resume")
	if !ok {
		return
	}
	if http.DetectContentType(data) != pdfType {
		metrics.Upload("resume", "rejected")
		BadRequest(c, "only PDF files are allowed")
		return
	}
	if !h.put(c, "resume", resumeKey, data, pdfType) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Resume uploaded successfully",
		"url":     uploadsPath + resumeKey,
	})
}

// ServeUpload 公开读取已上传的对象。
func (h *UploadHandler) ServeUpload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !isValidUploadKey(key) {
		NotFound(c, "file not found")
		return
	}

	body, info, err := h.store.OpenObject(c.Request.Context(), key)
	if err != nil {
		if storage.IsNoSuchKey(err) {
			NotFound(c, "file not found")
			return
		}
		middleware.LoggerFromContext(c).Error("open upload failed", slog.String("key", key), slog.Any("error", err))
		Internal(c, "failed to read file")
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers := map[string]string{"Cache-Control": "public, max-age=300"}
	if info.ETag != "" {
		headers["ETag"] = strconv.Quote(info.ETag)
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, body, headers)
}

// DeleteUpload 删除管理员不再使用的图片，对象不存在视为成功。
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !isValidUploadKey(key) {
		BadRequest(c, "invalid file key")
		return
	}
	if err := h.store.DeleteObject(c.Request.Context(), key); err != nil {
		middleware.LoggerFromContext(c).Error("delete upload failed", slog.String("key", key), slog.Any("error", err))
		Internal(c, "failed to delete file")
		return
	}
	Message(c, http.StatusOK, "File deleted successfully")
}

func (h *UploadHandler) formFile(c *gin.Context, field, kind string) (*multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	file, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.Upload(kind, "rejected")
			BadRequest(c, h.tooLargeMessage())
			return nil, false
		}
		BadRequest(c, "no file uploaded")
		return nil, false
	}
	return file, true
}

func (h *UploadHandler) tooLargeMessage() string {
	return fmt.Sprintf("file exceeds the %d MB limit", h.maxBytes/(1024*1024))
}

// readAndCheck 读入内存（上限 maxBytes），并在配置了 clamd 时先扫描。
func (h *UploadHandler) readAndCheck(c *gin.Context, file *multipart.FileHeader, kind string) ([]byte, bool) {
	if file.Size > h.maxBytes {
		metrics.Upload(kind, "rejected")
		BadRequest(c, h.tooLargeMessage())
		return nil, false
	}

	f, err := file.Open()
	if err != nil {
		metrics.Upload(kind, "error")
		Internal(c, "failed to open file")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		metrics.Upload(kind, "error")
		Internal(c, "failed to read file")
		return nil, false
	}
	if int64(len(data)) > h.maxBytes {
		metrics.Upload(kind, "rejected")
		BadRequest(c, h.tooLargeMessage())
		return nil, false
	}

	if h.scanner != nil {
		if err := h.scanner.Scan(bytes.NewReader(data)); err != nil {
			if errors.Is(err, ErrInfected) {
				metrics.Upload(kind, "infected")
				BadRequest(c, ErrInfected.Error())
				return nil, false
			}
			metrics.Upload(kind, "error")
			middleware.LoggerFromContext(c).Error("scan upload failed", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return nil, false
		}
	}
	return data, true
}

func (h *UploadHandler) put(c *gin.Context, kind, key string, data []byte, contentType string) bool {
	if err := h.store.UploadFile(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		metrics.Upload(kind, "error")
		middleware.LoggerFromContext(c).Error("store upload failed", slog.String("key", key), slog.Any("error", err))
		Internal(c, "failed to upload "+kind)
		return false
	}
	metrics.Upload(kind, "ok")
	middleware.LoggerFromContext(c).Info("file uploaded", slog.String("key", key), slog.Int("size", len(data)))
	return true
}
