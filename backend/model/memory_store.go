package model

import (
	"sort"
	"sync"
)

// MemoryStore keeps the catalog in process memory. One lock guards all three
// tables so a read-modify-write never interleaves with another mutation.
// Records are copied in and out; callers never share memory with the store.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[int64]*User
	categories map[int64]*Category
	files      map[int64]*File

	lastUserID     int64
	lastCategoryID int64
	lastFileID     int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]*User),
		categories: make(map[int64]*Category),
		files:      make(map[int64]*File),
	}
}

func (s *MemoryStore) CreateUser(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUserID++
	user.ID = s.lastUserID
	u := *user
	s.users[u.ID] = &u
	return nil
}

func (s *MemoryStore) UserByID(id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	u := *user
	return &u, nil
}

func (s *MemoryStore) UserByUsername(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *MemoryStore) ListCategories() ([]*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]*Category, 0, len(s.categories))
	for _, category := range s.categories {
		c := *category
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

func (s *MemoryStore) CategoryByID(id int64) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	c := *category
	return &c, nil
}

func (s *MemoryStore) CreateCategory(category *Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCategoryID++
	category.ID = s.lastCategoryID
	c := *category
	s.categories[c.ID] = &c
	return nil
}

func (s *MemoryStore) UpdateCategory(id int64, name *string, description *string) (*Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	if name != nil {
		category.Name = *name
	}
	if description != nil {
		category.Description = *description
	}
	c := *category
	return &c, nil
}

func (s *MemoryStore) DeleteCategoryCascade(id int64) ([]*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return nil, ErrRecordNotFound
	}
	var removed []*File
	for fileID, file := range s.files {
		if file.CategoryID == id {
			removed = append(removed, file)
			delete(s.files, fileID)
		}
	}
	delete(s.categories, id)
	sort.Slice(removed, func(i, j int) bool {
		return removed[i].ID < removed[j].ID
	})
	return removed, nil
}

func (s *MemoryStore) ListFiles(categoryID *int64) ([]*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]*File, 0, len(s.files))
	for _, file := range s.files {
		if categoryID != nil && file.CategoryID != *categoryID {
			continue
		}
		f := *file
		files = append(files, &f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].ID < files[j].ID
	})
	return files, nil
}

func (s *MemoryStore) FileByID(id int64) (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, ok := s.files[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	f := *file
	return &f, nil
}

func (s *MemoryStore) CreateFile(file *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[file.CategoryID]; !ok {
		return ErrCategoryMissing
	}
	s.lastFileID++
	file.ID = s.lastFileID
	f := *file
	s.files[f.ID] = &f
	return nil
}

func (s *MemoryStore) DeleteFile(id int64) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	delete(s.files, id)
	return file, nil
}

func (s *MemoryStore) IncrementDownloads(id int64) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	file.Downloads++
	f := *file
	return &f, nil
}

func (s *MemoryStore) Ping() error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
