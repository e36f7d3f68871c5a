package model

import "errors"

// ErrRecordNotFound is returned by every Store lookup that finds nothing.
var ErrRecordNotFound = errors.New("record not found")

// ErrCategoryMissing is returned by CreateFile when the referenced category
// does not exist at insert time.
var ErrCategoryMissing = errors.New("category does not exist")

// Store owns the user, category and file tables and their identifier
// counters. Identifiers are assigned by the store, start at 1 and are never
// reused. Every method is atomic with respect to the others.
type Store interface {
	CreateUser(user *User) error
	UserByID(id int64) (*User, error)
	UserByUsername(username string) (*User, error)

	ListCategories() ([]*Category, error)
	CategoryByID(id int64) (*Category, error)
	CreateCategory(category *Category) error
	// UpdateCategory sets only the non-nil fields and returns the stored
	// record after the change.
	UpdateCategory(id int64, name *string, description *string) (*Category, error)
	// DeleteCategoryCascade removes the category and every file that
	// references it, returning the removed files so their blobs can be
	// cleaned up.
	DeleteCategoryCascade(id int64) ([]*File, error)

	// ListFiles returns files in identifier order, restricted to one
	// category when categoryID is non-nil.
	ListFiles(categoryID *int64) ([]*File, error)
	FileByID(id int64) (*File, error)
	// CreateFile checks the file's category in the same critical section as
	// the insert, so a concurrent cascade can never leave it orphaned.
	CreateFile(file *File) error
	DeleteFile(id int64) (*File, error)
	IncrementDownloads(id int64) (*File, error)

	Ping() error
	Close() error
}
