package testutil

import (
	"context"
	"testing"

	types "github.com/yungbote/blueprints-backend/internal/domain"
	"gorm.io/gorm"
)

// SeedBlueprint stores a blueprint with points at ordinals 0..n-1.
func SeedBlueprint(tb testing.TB, ctx context.Context, tx *gorm.DB, author, name string, pts ...types.Point) *types.Blueprint {
	tb.Helper()
	bp := &types.Blueprint{Author: author, Name: name}
	if err := tx.WithContext(ctx).Omit("Points").Create(bp).Error; err != nil {
		tb.Fatalf("seed blueprint: %v", err)
	}
	for i, p := range pts {
		row := &types.BlueprintPoint{BlueprintID: bp.ID, Ordinal: i, X: p.X, Y: p.Y}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed point %d: %v", i, err)
		}
		bp.Points = append(bp.Points, *row)
	}
	return bp
}

func CountRows(tb testing.TB, ctx context.Context, db *gorm.DB, model any) int64 {
	tb.Helper()
	var n int64
	if err := db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count %T: %v", model, err)
	}
	return n
}
