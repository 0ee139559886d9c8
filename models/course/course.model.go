package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Level        string         `json:"level" gorm:"default:'BEGINNER'"`
	Topics       datatypes.JSON `json:"topics"`
	ThumbnailURL string         `json:"thumbnail_url"`
	IsEnrollable bool           `json:"is_enrollable" gorm:"default:true"`
	IsPublished  bool           `json:"is_published" gorm:"default:false"`
	IsDeleted    bool           `json:"-" gorm:"default:false"`
}

// IsValidLevel reports whether level is one of the known course levels
func IsValidLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}
