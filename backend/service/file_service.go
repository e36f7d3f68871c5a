package service

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"
	"archive-hub/backend/model"
)

// StagedUpload is an uploaded archive already written to blob storage but
// not yet recorded in the catalog.
type StagedUpload struct {
	OriginalName string
	Path         string
	Size         int64
}

type FileService struct {
	store model.Store
	blobs *BlobStorage
}

func NewFileService(store model.Store, blobs *BlobStorage) *FileService {
	return &FileService{store: store, blobs: blobs}
}

func fileNotFound(id int64) error {
	return apperrors.New(apperrors.ErrFileNotFound, fmt.Sprintf("file %d not found", id))
}

func (s *FileService) List(categoryID *int64) ([]*model.File, error) {
	files, err := s.store.ListFiles(categoryID)
	if err != nil {
		return nil, apperrors.InternalServerError(err)
	}
	return files, nil
}

func (s *FileService) Get(id int64) (*model.File, error) {
	file, err := s.store.FileByID(id)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, fileNotFound(id)
		}
		return nil, apperrors.InternalServerError(err)
	}
	return file, nil
}

// discard removes a staged blob that will not be recorded.
func (s *FileService) discard(upload *StagedUpload) {
	if err := s.blobs.Remove(upload.Path); err != nil {
		common.SysError(fmt.Sprintf("failed to discard staged upload %s: %s", upload.Path, err.Error()))
	}
}

// Create records a staged upload. Every rejection removes the staged blob.
func (s *FileService) Create(upload *StagedUpload, name string, description string, categoryIDRaw string) (*model.File, error) {
	if upload == nil {
		return nil, apperrors.New(apperrors.ErrNoFile, "no file uploaded")
	}
	fileType, ok := model.FileTypeFromName(upload.OriginalName)
	if !ok {
		s.discard(upload)
		return nil, apperrors.New(apperrors.ErrUnsupportedType, "only .rar, .zip and .7z files are allowed")
	}
	categoryID, err := strconv.ParseInt(strings.TrimSpace(categoryIDRaw), 10, 64)
	if err != nil {
		s.discard(upload)
		return nil, apperrors.New(apperrors.ErrInvalidCategoryID, "categoryId must be an integer")
	}

	if name == "" {
		name = upload.OriginalName
	}
	file := &model.File{
		Name:         name,
		OriginalName: upload.OriginalName,
		Description:  description,
		Size:         upload.Size,
		Path:         upload.Path,
		Type:         fileType,
		CategoryID:   categoryID,
		CreatedAt:    time.Now().UTC(),
	}
	// 分类是否存在由 store 在插入时一并检查
	if err := s.store.CreateFile(file); err != nil {
		s.discard(upload)
		if errors.Is(err, model.ErrCategoryMissing) {
			return nil, apperrors.New(apperrors.ErrCategoryMissing, fmt.Sprintf("category %d does not exist", categoryID))
		}
		return nil, apperrors.InternalServerError(err)
	}
	return file, nil
}

// Delete removes the metadata first, then unlinks the blob best-effort.
func (s *FileService) Delete(id int64) error {
	file, err := s.store.DeleteFile(id)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return fileNotFound(id)
		}
		return apperrors.InternalServerError(err)
	}
	if err := s.blobs.Remove(file.Path); err != nil {
		common.SysError(fmt.Sprintf("failed to remove blob %s of file %d: %s", file.Path, file.ID, err.Error()))
	}
	return nil
}

// OpenDownload opens the blob and counts the download. The counter is only
// incremented once the blob is known to be readable, and before any byte is
// sent. The caller closes the returned file.
func (s *FileService) OpenDownload(id int64) (*os.File, *model.File, error) {
	file, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	blob, err := s.blobs.Open(file.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrInvalidBlobPath) {
			return nil, nil, apperrors.Wrap(err, apperrors.ErrBlobMissing, "file content is missing")
		}
		return nil, nil, apperrors.InternalServerError(err)
	}
	updated, err := s.store.IncrementDownloads(id)
	if err != nil {
		blob.Close()
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, nil, fileNotFound(id)
		}
		return nil, nil, apperrors.InternalServerError(err)
	}
	return blob, updated, nil
}
