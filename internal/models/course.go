package models

import (
	"math"
	"time"
)

// CourseLevel is the fixed difficulty enumeration for courses.
type CourseLevel string

// Supported course levels.
const (
	CourseLevelBeginner     CourseLevel = "Beginner"
	CourseLevelIntermediate CourseLevel = "Intermediate"
	CourseLevelAdvanced     CourseLevel = "Advanced"
	CourseLevelAllLevels    CourseLevel = "All Levels"
)

// LevelFilterAll is the sentinel value meaning "do not filter by level".
const LevelFilterAll = "all"

// Valid reports whether the level is part of the enumeration.
func (l CourseLevel) Valid() bool {
	switch l {
	case CourseLevelBeginner, CourseLevelIntermediate, CourseLevelAdvanced, CourseLevelAllLevels:
		return true
	}
	return false
}

// Course is a purchasable unit of instruction in the catalog.
type Course struct {
	ID            string      `db:"id" json:"id"`
	Title         string      `db:"title" json:"title"`
	Description   string      `db:"description" json:"description"`
	Instructor    string      `db:"instructor" json:"instructor"`
	Duration      string      `db:"duration" json:"duration"`
	Level         CourseLevel `db:"level" json:"level"`
	Price         float64     `db:"price" json:"price"`
	OriginalPrice *float64    `db:"original_price" json:"original_price,omitempty"`
	Thumbnail     string      `db:"thumbnail" json:"thumbnail"`
	Enrolled      int         `db:"enrolled" json:"enrolled"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// DiscountPercent returns the displayed discount derived from original price,
// or 0 when no original price is set or it does not exceed the current price.
func (c Course) DiscountPercent() int {
	if c.OriginalPrice == nil || *c.OriginalPrice <= c.Price || *c.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((*c.OriginalPrice - c.Price) / *c.OriginalPrice * 100))
}

// CourseFilter captures the client-side catalog filter parameters.
type CourseFilter struct {
	Query string
	Level string
	Limit int
}
