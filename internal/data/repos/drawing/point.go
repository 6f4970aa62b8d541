package drawing

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/blueprints-backend/internal/domain"
	"github.com/yungbote/blueprints-backend/internal/platform/dbctx"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

type BlueprintPointRepo interface {
	Create(dbc dbctx.Context, rows []*types.BlueprintPoint) ([]*types.BlueprintPoint, error)
	MaxOrdinal(dbc dbctx.Context, blueprintID uuid.UUID) (int, error)
	ListByBlueprintID(dbc dbctx.Context, blueprintID uuid.UUID) ([]*types.BlueprintPoint, error)
	DeleteByBlueprintID(dbc dbctx.Context, blueprintID uuid.UUID) (int64, error)
}

type blueprintPointRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlueprintPointRepo(db *gorm.DB, log *logger.Logger) BlueprintPointRepo {
	return &blueprintPointRepo{db: db, log: log.With("repo", "BlueprintPointRepo")}
}

func (r *blueprintPointRepo) Create(dbc dbctx.Context, rows []*types.BlueprintPoint) ([]*types.BlueprintPoint, error) {
	if len(rows) == 0 {
		return []*types.BlueprintPoint{}, nil
	}
	if err := dbc.Or(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MaxOrdinal returns the highest ordinal stored for the blueprint, or -1 when it has no points.
func (r *blueprintPointRepo) MaxOrdinal(dbc dbctx.Context, blueprintID uuid.UUID) (int, error) {
	if blueprintID == uuid.Nil {
		return 0, fmt.Errorf("missing blueprint_id")
	}
	var max sql.NullInt64
	row := dbc.Or(r.db).
		Model(&types.BlueprintPoint{}).
		Select("MAX(ordinal)").
		Where("blueprint_id = ?", blueprintID).
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

func (r *blueprintPointRepo) ListByBlueprintID(dbc dbctx.Context, blueprintID uuid.UUID) ([]*types.BlueprintPoint, error) {
	if blueprintID == uuid.Nil {
		return []*types.BlueprintPoint{}, nil
	}
	var out []*types.BlueprintPoint
	if err := dbc.Or(r.db).
		Where("blueprint_id = ?", blueprintID).
		Order("ordinal ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *blueprintPointRepo) DeleteByBlueprintID(dbc dbctx.Context, blueprintID uuid.UUID) (int64, error) {
	if blueprintID == uuid.Nil {
		return 0, fmt.Errorf("missing blueprint_id")
	}
	res := dbc.Or(r.db).Where("blueprint_id = ?", blueprintID).Delete(&types.BlueprintPoint{})
	return res.RowsAffected, res.Error
}
