package drawing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blueprint is a named, authored drawing. (Author, Name) is unique and
// enforced by idx_blueprint_author_name; ID is a storage-only surrogate key.
type Blueprint struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"-"`
	Author    string           `gorm:"column:author;not null;index:idx_blueprint_author_name,unique,priority:1" json:"author"`
	Name      string           `gorm:"column:name;not null;index:idx_blueprint_author_name,unique,priority:2" json:"name"`
	Points    []BlueprintPoint `gorm:"foreignKey:BlueprintID;references:ID;constraint:OnDelete:CASCADE" json:"points"`
	CreatedAt time.Time        `gorm:"not null" json:"-"`
	UpdatedAt time.Time        `gorm:"not null" json:"-"`
}

func (Blueprint) TableName() string { return "blueprint" }

func (b *Blueprint) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Key returns the "author:name" form used in messages and events.
func (b *Blueprint) Key() string {
	if b == nil {
		return ""
	}
	return b.Author + ":" + b.Name
}

// PointValues returns the points in ordinal order as plain values.
func (b *Blueprint) PointValues() []Point {
	if b == nil {
		return nil
	}
	out := make([]Point, 0, len(b.Points))
	for _, p := range b.Points {
		out = append(out, Point{X: p.X, Y: p.Y})
	}
	return out
}

// BlueprintPoint is a point row owned by exactly one blueprint. Ordinal is
// dense (0..n-1) per blueprint and defines read-back order.
type BlueprintPoint struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	BlueprintID uuid.UUID `gorm:"type:uuid;not null;index:idx_blueprint_point_ordinal,unique,priority:1" json:"-"`
	Ordinal     int       `gorm:"column:ordinal;not null;index:idx_blueprint_point_ordinal,unique,priority:2" json:"-"`
	X           int       `gorm:"column:x;not null" json:"x"`
	Y           int       `gorm:"column:y;not null" json:"y"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
}

func (BlueprintPoint) TableName() string { return "blueprint_point" }

func (p *BlueprintPoint) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Point is an integer 2D coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// NormalizeKey trims author and name and reports whether both are non-empty.
func NormalizeKey(author, name string) (string, string, bool) {
	author = strings.TrimSpace(author)
	name = strings.TrimSpace(name)
	return author, name, author != "" && name != ""
}
