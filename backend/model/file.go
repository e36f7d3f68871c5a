package model

import (
	"path/filepath"
	"strings"
	"time"
)

// FileType is the archive format, derived from the extension at upload time.
type FileType string

const (
	FileTypeRAR FileType = "RAR"
	FileTypeZIP FileType = "ZIP"
	FileType7Z  FileType = "7Z"
)

var fileTypesByExt = map[string]FileType{
	".rar": FileTypeRAR,
	".zip": FileTypeZIP,
	".7z":  FileType7Z,
}

// FileTypeFromName returns the archive type for filename's extension,
// compared case-insensitively.
func FileTypeFromName(filename string) (FileType, bool) {
	fileType, ok := fileTypesByExt[strings.ToLower(filepath.Ext(filename))]
	return fileType, ok
}

// ContentType is the MIME type sent with downloads of this type.
func (t FileType) ContentType() string {
	switch t {
	case FileTypeRAR:
		return "application/vnd.rar"
	case FileTypeZIP:
		return "application/zip"
	case FileType7Z:
		return "application/x-7z-compressed"
	default:
		return "application/octet-stream"
	}
}

// File is the metadata of an uploaded archive. Path is an opaque handle into
// the blob storage and is never sent to clients.
type File struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	OriginalName string    `json:"originalName" gorm:"size:255;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Size         int64     `json:"size" gorm:"not null"`
	Path         string    `json:"-" gorm:"size:512;not null"`
	Type         FileType  `json:"type" gorm:"size:8;not null"`
	Downloads    int64     `json:"downloads" gorm:"not null;default:0"`
	CategoryID   int64     `json:"categoryId" gorm:"index;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (File) TableName() string {
	return "files"
}
