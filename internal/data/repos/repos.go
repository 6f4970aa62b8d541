package repos

import (
	"github.com/yungbote/blueprints-backend/internal/data/repos/drawing"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type BlueprintRepo = drawing.BlueprintRepo
type BlueprintPointRepo = drawing.BlueprintPointRepo

func NewBlueprintRepo(db *gorm.DB, log *logger.Logger) BlueprintRepo {
	return drawing.NewBlueprintRepo(db, log)
}

func NewBlueprintPointRepo(db *gorm.DB, log *logger.Logger) BlueprintPointRepo {
	return drawing.NewBlueprintPointRepo(db, log)
}
