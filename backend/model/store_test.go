package model

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storesUnderTest(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			return store
		},
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	for name, open := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

func newTestFile(categoryID int64, name string) *File {
	return &File{
		Name:         name,
		OriginalName: name + ".zip",
		Size:         3,
		Path:         name + ".zip",
		Type:         FileTypeZIP,
		CategoryID:   categoryID,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestStore_CategoryIDsAreMonotonic(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		first := &Category{Name: "Tools", CreatedAt: time.Now().UTC()}
		second := &Category{Name: "Games", CreatedAt: time.Now().UTC()}
		require.NoError(t, store.CreateCategory(first))
		require.NoError(t, store.CreateCategory(second))
		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)

		_, err := store.DeleteCategoryCascade(second.ID)
		require.NoError(t, err)

		third := &Category{Name: "Docs", CreatedAt: time.Now().UTC()}
		require.NoError(t, store.CreateCategory(third))
		assert.Equal(t, int64(3), third.ID, "deleted ids must not be reused")

		categories, err := store.ListCategories()
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "Tools", categories[0].Name)
		assert.Equal(t, "Docs", categories[1].Name)
	})
}

func newTestCategory(t *testing.T, store Store, name string) *Category {
	category := &Category{Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreateCategory(category))
	return category
}

func TestStore_UpdateCategory(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		category := &Category{Name: "Tools", Description: "old", CreatedAt: time.Now().UTC()}
		require.NoError(t, store.CreateCategory(category))

		description := "new"
		updated, err := store.UpdateCategory(category.ID, nil, &description)
		require.NoError(t, err)
		assert.Equal(t, "Tools", updated.Name)
		assert.Equal(t, "new", updated.Description)

		got, err := store.CategoryByID(category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tools", got.Name)
		assert.Equal(t, "new", got.Description)

		// 不带字段的更新只返回当前记录
		unchanged, err := store.UpdateCategory(category.ID, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "new", unchanged.Description)

		name := "ghost"
		_, err = store.UpdateCategory(99, &name, nil)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestStore_ConcurrentPartialUpdatesKeepBothFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		for round := 0; round < 10; round++ {
			category := newTestCategory(t, store, "Tools")

			name := fmt.Sprintf("Renamed %d", round)
			description := fmt.Sprintf("Described %d", round)
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, err := store.UpdateCategory(category.ID, &name, nil)
				assert.NoError(t, err)
			}()
			go func() {
				defer wg.Done()
				_, err := store.UpdateCategory(category.ID, nil, &description)
				assert.NoError(t, err)
			}()
			wg.Wait()

			got, err := store.CategoryByID(category.ID)
			require.NoError(t, err)
			assert.Equal(t, name, got.Name)
			assert.Equal(t, description, got.Description)
		}
	})
}

func TestStore_DeleteCategoryCascade(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		tools := &Category{Name: "Tools", CreatedAt: time.Now().UTC()}
		games := &Category{Name: "Games", CreatedAt: time.Now().UTC()}
		require.NoError(t, store.CreateCategory(tools))
		require.NoError(t, store.CreateCategory(games))

		require.NoError(t, store.CreateFile(newTestFile(tools.ID, "a")))
		require.NoError(t, store.CreateFile(newTestFile(games.ID, "b")))
		require.NoError(t, store.CreateFile(newTestFile(tools.ID, "c")))

		removed, err := store.DeleteCategoryCascade(tools.ID)
		require.NoError(t, err)
		require.Len(t, removed, 2)
		assert.Equal(t, "a", removed[0].Name)
		assert.Equal(t, "c", removed[1].Name)

		files, err := store.ListFiles(nil)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "b", files[0].Name)

		_, err = store.CategoryByID(tools.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)

		_, err = store.DeleteCategoryCascade(tools.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestStore_ListFilesByCategory(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		tools := newTestCategory(t, store, "Tools")
		games := newTestCategory(t, store, "Games")
		require.NoError(t, store.CreateFile(newTestFile(tools.ID, "a")))
		require.NoError(t, store.CreateFile(newTestFile(games.ID, "b")))

		files, err := store.ListFiles(&tools.ID)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "a", files[0].Name)

		missing := int64(42)
		files, err = store.ListFiles(&missing)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestStore_CreateFileRequiresCategory(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		file := newTestFile(7, "a")
		assert.ErrorIs(t, store.CreateFile(file), ErrCategoryMissing)

		files, err := store.ListFiles(nil)
		require.NoError(t, err)
		assert.Empty(t, files)

		tools := newTestCategory(t, store, "Tools")
		first := newTestFile(tools.ID, "b")
		require.NoError(t, store.CreateFile(first))
		assert.Equal(t, int64(1), first.ID, "a rejected insert does not consume an id")
	})
}

func TestStore_CreateFileRacingCascadeNeverOrphans(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		for round := 0; round < 10; round++ {
			category := newTestCategory(t, store, "Doomed")

			const writers = 8
			var wg sync.WaitGroup
			wg.Add(writers + 1)
			for i := 0; i < writers; i++ {
				go func(i int) {
					defer wg.Done()
					err := store.CreateFile(newTestFile(category.ID, fmt.Sprintf("f%d-%d", round, i)))
					if err != nil {
						assert.ErrorIs(t, err, ErrCategoryMissing)
					}
				}(i)
			}
			go func() {
				defer wg.Done()
				_, err := store.DeleteCategoryCascade(category.ID)
				assert.NoError(t, err)
			}()
			wg.Wait()

			files, err := store.ListFiles(nil)
			require.NoError(t, err)
			for _, file := range files {
				_, err := store.CategoryByID(file.CategoryID)
				assert.NoError(t, err, "file %d references deleted category %d", file.ID, file.CategoryID)
			}
		}
	})
}

func TestStore_DeleteFile(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		file := newTestFile(newTestCategory(t, store, "Tools").ID, "a")
		require.NoError(t, store.CreateFile(file))

		removed, err := store.DeleteFile(file.ID)
		require.NoError(t, err)
		assert.Equal(t, file.Path, removed.Path)

		_, err = store.FileByID(file.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		_, err = store.DeleteFile(file.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestStore_ConcurrentIncrementDownloads(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		file := newTestFile(newTestCategory(t, store, "Tools").ID, "a")
		require.NoError(t, store.CreateFile(file))

		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.IncrementDownloads(file.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := store.FileByID(file.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(n), got.Downloads)

		_, err = store.IncrementDownloads(999)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestStore_ConcurrentFirstInsertsGetDistinctIDs(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		const n = 10
		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				category := &Category{Name: fmt.Sprintf("c%d", i), CreatedAt: time.Now().UTC()}
				if assert.NoError(t, store.CreateCategory(category)) {
					ids <- category.ID
				}
			}(i)
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool)
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}

func TestGormStore_SequencesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	first := newTestCategory(t, store, "Tools")
	_, err = store.DeleteCategoryCascade(first.ID)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// 重新打开时不会重置已有计数
	store, err = OpenSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()
	second := newTestCategory(t, store, "Games")
	assert.Equal(t, first.ID+1, second.ID)

	var seqs []Sequence
	require.NoError(t, store.db.Order("name asc").Find(&seqs).Error)
	require.Len(t, seqs, 3)
	assert.Equal(t, seqCategories, seqs[0].Name)
	assert.Equal(t, seqFiles, seqs[1].Name)
	assert.Equal(t, seqUsers, seqs[2].Name)
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	category := &Category{Name: "Tools", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreateCategory(category))

	got, err := store.CategoryByID(category.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := store.CategoryByID(category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tools", again.Name)
}

func TestCreateRootAccountIfNeed(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		require.NoError(t, CreateRootAccountIfNeed(store, "admin", "admin123"))
		require.NoError(t, CreateRootAccountIfNeed(store, "admin", "admin123"))

		user, err := store.UserByUsername("admin")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.True(t, user.IsAdmin)
		assert.NotEqual(t, "admin123", user.Password)

		_, err = store.UserByID(2)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestFileTypeFromName(t *testing.T) {
	cases := []struct {
		name string
		want FileType
		ok   bool
	}{
		{"tool.zip", FileTypeZIP, true},
		{"TOOL.ZIP", FileTypeZIP, true},
		{"backup.RaR", FileTypeRAR, true},
		{"pack.7z", FileType7Z, true},
		{"notes.txt", "", false},
		{"archive.tar.gz", "", false},
		{"zip", "", false},
	}
	for _, tc := range cases {
		got, ok := FileTypeFromName(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
	assert.Equal(t, "application/zip", FileTypeZIP.ContentType())
}
