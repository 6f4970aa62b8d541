package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/blueprints-backend/internal/data/repos"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

type Repos struct {
	Blueprint      repos.BlueprintRepo
	BlueprintPoint repos.BlueprintPointRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Blueprint:      repos.NewBlueprintRepo(db, log),
		BlueprintPoint: repos.NewBlueprintPointRepo(db, log),
	}
}
