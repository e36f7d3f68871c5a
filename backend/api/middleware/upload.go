package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"
	"archive-hub/backend/model"
	"archive-hub/backend/service"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

const (
	uploadFormField = "file"
	ctxKeyUpload    = "upload"
	// room for the other form fields and multipart boundaries
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

func fileTooLarge(maxSize int64) error {
	return apperrors.New(apperrors.ErrFileTooLarge, fmt.Sprintf("file exceeds the %s limit", humanize.IBytes(uint64(maxSize))))
}

// Upload parses the multipart body and stages the "file" part in blob
// storage. Unsupported extensions are rejected before anything is written.
func Upload(blobs *service.BlobStorage, maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize+multipartOverhead {
			common.AbortWithError(c, fileTooLarge(maxSize))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				common.AbortWithError(c, fileTooLarge(maxSize))
				return
			}
			common.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrNoFile, "invalid multipart form"))
			return
		}
		defer c.Request.MultipartForm.RemoveAll()

		header, err := c.FormFile(uploadFormField)
		if err != nil {
			common.AbortWithError(c, apperrors.New(apperrors.ErrNoFile, "no file uploaded"))
			return
		}
		if _, ok := model.FileTypeFromName(header.Filename); !ok {
			common.AbortWithError(c, apperrors.New(apperrors.ErrUnsupportedType, "only .rar, .zip and .7z files are allowed"))
			return
		}
		if header.Size > maxSize {
			common.AbortWithError(c, fileTooLarge(maxSize))
			return
		}

		src, err := header.Open()
		if err != nil {
			common.AbortWithError(c, apperrors.InternalServerError(err))
			return
		}
		path, size, err := blobs.Save(header.Filename, src)
		src.Close()
		if err != nil {
			common.AbortWithError(c, apperrors.InternalServerError(err))
			return
		}
		c.Set(ctxKeyUpload, &service.StagedUpload{
			OriginalName: header.Filename,
			Path:         path,
			Size:         size,
		})
		c.Next()
	}
}

// StagedUpload returns the upload staged by Upload, or nil.
func StagedUpload(c *gin.Context) *service.StagedUpload {
	value, ok := c.Get(ctxKeyUpload)
	if !ok {
		return nil
	}
	upload, _ := value.(*service.StagedUpload)
	return upload
}
