package service

import "archive-hub/backend/model"

// Catalog bundles the services the HTTP layer depends on.
type Catalog struct {
	Store      model.Store
	Blobs      *BlobStorage
	Auth       *AuthService
	Categories *CategoryService
	Files      *FileService
	Stats      *StatsService
}

func NewCatalog(store model.Store, blobs *BlobStorage, blacklist TokenBlacklist) *Catalog {
	return &Catalog{
		Store:      store,
		Blobs:      blobs,
		Auth:       NewAuthService(store, blacklist),
		Categories: NewCategoryService(store, blobs),
		Files:      NewFileService(store, blobs),
		Stats:      NewStatsService(store),
	}
}
