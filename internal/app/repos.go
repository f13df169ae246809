package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
)

type Repos struct {
	Event          repos.EventRepo
	FeatureToggle  repos.FeatureToggleRepo
	Strategy       repos.StrategyRepo
	Tag            repos.TagRepo
	TagType        repos.TagTypeRepo
	FeatureTag     repos.FeatureTagRepo
	ContextField   repos.ContextFieldRepo
	Addon          repos.AddonRepo
	ClientApp      repos.ClientAppRepo
	ClientInstance repos.ClientInstanceRepo
	ClientMetric   repos.ClientMetricRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Event:          repos.NewEventRepo(db, log),
		FeatureToggle:  repos.NewFeatureToggleRepo(db, log),
		Strategy:       repos.NewStrategyRepo(db, log),
		Tag:            repos.NewTagRepo(db, log),
		TagType:        repos.NewTagTypeRepo(db, log),
		FeatureTag:     repos.NewFeatureTagRepo(db, log),
		ContextField:   repos.NewContextFieldRepo(db, log),
		Addon:          repos.NewAddonRepo(db, log),
		ClientApp:      repos.NewClientAppRepo(db, log),
		ClientInstance: repos.NewClientInstanceRepo(db, log),
		ClientMetric:   repos.NewClientMetricRepo(db, log),
	}
}
