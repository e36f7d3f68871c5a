package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Sequence 记录每张表已分配的最大 ID，删除记录后 ID 也不会被复用
type Sequence struct {
	Name   string `gorm:"primaryKey;size:32"`
	LastID int64  `gorm:"not null;default:0"`
}

func (Sequence) TableName() string {
	return "sequences"
}

const (
	seqUsers      = "users"
	seqCategories = "categories"
	seqFiles      = "files"
)

// GormStore persists the catalog through gorm. SQLite and MySQL are supported.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// OpenSQLiteStore opens (or creates) the SQLite database at path.
func OpenSQLiteStore(path string) (*GormStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory %s: %w", dir, err)
		}
	}
	store, err := NewGormStore(sqlite.Open(path + "?_busy_timeout=5000"))
	if err != nil {
		return nil, err
	}
	sqlDB, err := store.db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite 只允许单个写连接
	sqlDB.SetMaxOpenConns(1)
	return store, nil
}

// OpenMySQLStore connects to MySQL using a go-sql-driver DSN.
func OpenMySQLStore(dsn string) (*GormStore, error) {
	store, err := NewGormStore(mysql.Open(dsn))
	if err != nil {
		return nil, err
	}
	sqlDB, err := store.db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return store, nil
}

func NewGormStore(dialector gorm.Dialector) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Sequence{}, &User{}, &Category{}, &File{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := seedSequences(db); err != nil {
		return nil, fmt.Errorf("seed sequences: %w", err)
	}
	return &GormStore{db: db}, nil
}

// seedSequences 在启动时插入计数行，已存在的行保持不变
func seedSequences(db *gorm.DB) error {
	seqs := []Sequence{{Name: seqUsers}, {Name: seqCategories}, {Name: seqFiles}}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seqs).Error
}

func nextID(tx *gorm.DB, name string) (int64, error) {
	// 先自增再读取，MySQL 下 UPDATE 会持有行锁直到事务结束
	result := tx.Model(&Sequence{}).Where("name = ?", name).
		UpdateColumn("last_id", gorm.Expr("last_id + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("sequence %q is not seeded", name)
	}
	var seq Sequence
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastID, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

func (s *GormStore) CreateUser(user *User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, seqUsers)
		if err != nil {
			return err
		}
		user.ID = id
		return tx.Create(user).Error
	})
}

func (s *GormStore) UserByID(id int64) (*User, error) {
	var user User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) UserByUsername(username string) (*User, error) {
	var user User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) ListCategories() ([]*Category, error) {
	categories := make([]*Category, 0)
	err := s.db.Order("id asc").Find(&categories).Error
	return categories, err
}

func (s *GormStore) CategoryByID(id int64) (*Category, error) {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (s *GormStore) CreateCategory(category *Category) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, seqCategories)
		if err != nil {
			return err
		}
		category.ID = id
		return tx.Create(category).Error
	})
}

func (s *GormStore) UpdateCategory(id int64, name *string, description *string) (*Category, error) {
	var category Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 只写入调用方提供的列，避免并发的部分更新互相覆盖
		columns := make(map[string]any, 2)
		if name != nil {
			columns["name"] = *name
		}
		if description != nil {
			columns["description"] = *description
		}
		if len(columns) > 0 {
			if err := tx.Model(&Category{}).Where("id = ?", id).Updates(columns).Error; err != nil {
				return err
			}
		}
		return notFound(tx.First(&category, id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *GormStore) DeleteCategoryCascade(id int64) ([]*File, error) {
	var removed []*File
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).First(&category, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("category_id = ?", id).Order("id asc").Find(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&File{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *GormStore) ListFiles(categoryID *int64) ([]*File, error) {
	files := make([]*File, 0)
	query := s.db.Order("id asc")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	err := query.Find(&files).Error
	return files, err
}

func (s *GormStore) FileByID(id int64) (*File, error) {
	var file File
	if err := s.db.First(&file, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &file, nil
}

func (s *GormStore) CreateFile(file *File) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// 共享锁挡住并发的级联删除，直到文件行写入
		var category Category
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
			Select("id").First(&category, file.CategoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryMissing
		}
		if err != nil {
			return err
		}
		id, err := nextID(tx, seqFiles)
		if err != nil {
			return err
		}
		file.ID = id
		return tx.Create(file).Error
	})
}

func (s *GormStore) DeleteFile(id int64) (*File, error) {
	var file File
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&file, id).Error; err != nil {
			return notFound(err)
		}
		return tx.Delete(&File{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *GormStore) IncrementDownloads(id int64) (*File, error) {
	var file File
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&File{}).Where("id = ?", id).
			UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return tx.First(&file, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *GormStore) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
