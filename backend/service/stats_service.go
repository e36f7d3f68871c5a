package service

import (
	"sort"

	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"
	"archive-hub/backend/model"
)

type CategoryStats struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FileCount int    `json:"fileCount"`
	Downloads int64  `json:"downloads"`
}

type TopFile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Downloads int64  `json:"downloads"`
}

type Stats struct {
	TotalFiles      int              `json:"totalFiles"`
	TotalCategories int              `json:"totalCategories"`
	TotalDownloads  int64            `json:"totalDownloads"`
	PerCategory     []*CategoryStats `json:"perCategory"`
	TopFiles        []*TopFile       `json:"topFiles"`
}

type StatsService struct {
	store model.Store
}

func NewStatsService(store model.Store) *StatsService {
	return &StatsService{store: store}
}

// Stats is recomputed from the store on every call.
func (s *StatsService) Stats() (*Stats, error) {
	categories, err := s.store.ListCategories()
	if err != nil {
		return nil, apperrors.InternalServerError(err)
	}
	files, err := s.store.ListFiles(nil)
	if err != nil {
		return nil, apperrors.InternalServerError(err)
	}

	stats := &Stats{
		TotalFiles:      len(files),
		TotalCategories: len(categories),
		PerCategory:     make([]*CategoryStats, 0, len(categories)),
		TopFiles:        make([]*TopFile, 0, common.TopFilesLimit),
	}
	byCategory := make(map[int64]*CategoryStats, len(categories))
	for _, category := range categories {
		entry := &CategoryStats{ID: category.ID, Name: category.Name}
		byCategory[category.ID] = entry
		stats.PerCategory = append(stats.PerCategory, entry)
	}
	for _, file := range files {
		stats.TotalDownloads += file.Downloads
		if entry, ok := byCategory[file.CategoryID]; ok {
			entry.FileCount++
			entry.Downloads += file.Downloads
		}
	}

	// files 按 id 升序返回，稳定排序保证下载数相同时保持原有顺序
	ranked := make([]*model.File, len(files))
	copy(ranked, files)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Downloads > ranked[j].Downloads
	})
	for i := 0; i < len(ranked) && i < common.TopFilesLimit; i++ {
		stats.TopFiles = append(stats.TopFiles, &TopFile{
			ID:        ranked[i].ID,
			Name:      ranked[i].Name,
			Downloads: ranked[i].Downloads,
		})
	}
	return stats, nil
}
