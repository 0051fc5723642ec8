package httpx

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

const (
	defaultMaxBody  = 32 << 20
	maxJSONBody     = 1 << 20
	multipartMemory = 8 << 20
	maxAttachments  = 10
)

// uploadRule restricts the files accepted on one form field.
type uploadRule struct {
	maxBytes int64
	types    []string
}

var (
	imageRule = uploadRule{
		maxBytes: 5 << 20,
		types:    []string{"image/jpeg", "image/png", "image/webp"},
	}
	attachmentRule = uploadRule{
		maxBytes: 10 << 20,
		types:    []string{"image/jpeg", "image/png", "application/pdf"},
	}
)

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return rpcerr.Invalidf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return rpcerr.Invalidf("invalid multipart body: %v", err)
	}
	return nil
}

// readUploads reads and checks every file sent on field.
func readUploads(r *http.Request, field string, rule uploadRule, limit int) ([]entity.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) > limit {
		return nil, rpcerr.Invalidf("%s: at most %d files are accepted", field, limit)
	}

	uploads := make([]entity.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readUpload(fh, rule)
		if err != nil {
			return nil, rpcerr.Invalidf("%s: %v", field, err)
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// singleUpload reads the one file of field; nil when absent and not required.
func singleUpload(r *http.Request, field string, rule uploadRule, required bool) (*entity.Upload, error) {
	uploads, err := readUploads(r, field, rule, 1)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		if required {
			return nil, rpcerr.Invalidf("%s: file is required", field)
		}
		return nil, nil
	}
	return &uploads[0], nil
}

func readUpload(fh *multipart.FileHeader, rule uploadRule) (entity.Upload, error) {
	if fh.Size == 0 {
		return entity.Upload{}, fmt.Errorf("%s is empty", fh.Filename)
	}
	if fh.Size > rule.maxBytes {
		return entity.Upload{}, fmt.Errorf("%s exceeds %d bytes", fh.Filename, rule.maxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return entity.Upload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, rule.maxBytes+1))
	if err != nil {
		return entity.Upload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > rule.maxBytes {
		return entity.Upload{}, fmt.Errorf("%s exceeds %d bytes", fh.Filename, rule.maxBytes)
	}

	contentType := declaredType(fh)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}
	if !slices.Contains(rule.types, contentType) {
		return entity.Upload{}, fmt.Errorf("%s has unsupported type %q", fh.Filename, contentType)
	}

	return entity.Upload{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}

func declaredType(fh *multipart.FileHeader) string {
	mt, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}
