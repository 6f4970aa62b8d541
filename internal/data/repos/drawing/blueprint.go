package drawing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/blueprints-backend/internal/domain"
	"github.com/yungbote/blueprints-backend/internal/platform/dbctx"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

type BlueprintRepo interface {
	Create(dbc dbctx.Context, rows []*types.Blueprint) ([]*types.Blueprint, error)
	GetByAuthorAndName(dbc dbctx.Context, author, name string) (*types.Blueprint, error)
	ListByAuthor(dbc dbctx.Context, author string) ([]*types.Blueprint, error)
	ListAll(dbc dbctx.Context) ([]*types.Blueprint, error)
	LockByAuthorAndName(dbc dbctx.Context, author, name string) (*types.Blueprint, error)
	Touch(dbc dbctx.Context, id uuid.UUID) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type blueprintRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlueprintRepo(db *gorm.DB, log *logger.Logger) BlueprintRepo {
	return &blueprintRepo{db: db, log: log.With("repo", "BlueprintRepo")}
}

// Create inserts blueprint rows only; points go through BlueprintPointRepo so
// ordinal collisions are never swallowed by association upserts.
func (r *blueprintRepo) Create(dbc dbctx.Context, rows []*types.Blueprint) ([]*types.Blueprint, error) {
	if len(rows) == 0 {
		return []*types.Blueprint{}, nil
	}
	if err := dbc.Or(r.db).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *blueprintRepo) GetByAuthorAndName(dbc dbctx.Context, author, name string) (*types.Blueprint, error) {
	author = strings.TrimSpace(author)
	name = strings.TrimSpace(name)
	if author == "" || name == "" {
		return nil, fmt.Errorf("missing author or name")
	}
	var out []*types.Blueprint
	if err := withOrderedPoints(dbc.Or(r.db)).
		Where("author = ? AND name = ?", author, name).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *blueprintRepo) ListByAuthor(dbc dbctx.Context, author string) ([]*types.Blueprint, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, fmt.Errorf("missing author")
	}
	var out []*types.Blueprint
	if err := withOrderedPoints(dbc.Or(r.db)).
		Where("author = ?", author).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *blueprintRepo) ListAll(dbc dbctx.Context) ([]*types.Blueprint, error) {
	var out []*types.Blueprint
	if err := withOrderedPoints(dbc.Or(r.db)).
		Order("author ASC").
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LockByAuthorAndName takes a row lock on the blueprint for the rest of the
// transaction. Returns (nil, nil) when absent.
func (r *blueprintRepo) LockByAuthorAndName(dbc dbctx.Context, author, name string) (*types.Blueprint, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByAuthorAndName requires dbc.Tx")
	}
	var out []*types.Blueprint
	if err := dbc.Or(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("author = ? AND name = ?", author, name).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *blueprintRepo) Touch(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	return dbc.Or(r.db).
		Model(&types.Blueprint{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().UTC()).Error
}

func (r *blueprintRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	res := dbc.Or(r.db).Where("id = ?", id).Delete(&types.Blueprint{})
	return res.RowsAffected, res.Error
}

func withOrderedPoints(q *gorm.DB) *gorm.DB {
	return q.Preload("Points", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordinal ASC")
	})
}
