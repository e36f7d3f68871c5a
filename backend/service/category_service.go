package service

import (
	"errors"
	"fmt"
	"time"

	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"
	"archive-hub/backend/model"
)

type CategoryService struct {
	store model.Store
	blobs *BlobStorage
}

func NewCategoryService(store model.Store, blobs *BlobStorage) *CategoryService {
	return &CategoryService{store: store, blobs: blobs}
}

// CategoryWithCount is a category as listed, with the number of files in it.
type CategoryWithCount struct {
	model.Category
	FileCount int `json:"fileCount"`
}

// CategoryDetail is a single category together with its files.
type CategoryDetail struct {
	model.Category
	Files     []*model.File `json:"files"`
	FileCount int           `json:"fileCount"`
}

func categoryNotFound(id int64) error {
	return apperrors.New(apperrors.ErrCategoryNotFound, fmt.Sprintf("category %d not found", id))
}

func (s *CategoryService) List() ([]*CategoryWithCount, error) {
	categories, err := s.store.ListCategories()
	if err != nil {
		return nil, apperrors.InternalServerError(err)
	}
	files, err := s.store.ListFiles(nil)
	if err != nil {
		return nil, apperrors.InternalServerError(err)
	}
	counts := make(map[int64]int, len(categories))
	for _, file := range files {
		counts[file.CategoryID]++
	}
	result := make([]*CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		result = append(result, &CategoryWithCount{Category: *category, FileCount: counts[category.ID]})
	}
	return result, nil
}

func (s *CategoryService) Get(id int64) (*CategoryDetail, error) {
	category, err := s.store.CategoryByID(id)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, categoryNotFound(id)
		}
		return nil, apperrors.InternalServerError(err)
	}
	files, err := s.store.ListFiles(&id)
	if err != nil {
		return nil, apperrors.InternalServerError(err)
	}
	return &CategoryDetail{Category: *category, Files: files, FileCount: len(files)}, nil
}

// Create requires a non-empty name. Whitespace is kept as given.
func (s *CategoryService) Create(name string, description string) (*model.Category, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrEmptyName, "category name is required")
	}
	category := &model.Category{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateCategory(category); err != nil {
		return nil, apperrors.InternalServerError(err)
	}
	return category, nil
}

// Update changes only the supplied fields. An empty name leaves the current
// name in place. The store applies the change in one step.
func (s *CategoryService) Update(id int64, name *string, description *string) (*model.Category, error) {
	if name != nil && *name == "" {
		name = nil
	}
	category, err := s.store.UpdateCategory(id, name, description)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, categoryNotFound(id)
		}
		return nil, apperrors.InternalServerError(err)
	}
	return category, nil
}

// Delete removes the category and all of its files. Metadata goes first in a
// single store call; blobs are unlinked afterwards and failures are only
// logged.
func (s *CategoryService) Delete(id int64) error {
	removed, err := s.store.DeleteCategoryCascade(id)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return categoryNotFound(id)
		}
		return apperrors.InternalServerError(err)
	}
	for _, file := range removed {
		if err := s.blobs.Remove(file.Path); err != nil {
			common.SysError(fmt.Sprintf("failed to remove blob %s of file %d: %s", file.Path, file.ID, err.Error()))
		}
	}
	return nil
}
