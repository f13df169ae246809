package events

// Kind is the closed set of domain event types recorded in the event log.
// Projectors dispatch on these with exhaustive switches, so adding a kind
// here means deciding which read models it touches.
type Kind string

const (
	FeatureCreated      Kind = "feature-created"
	FeatureUpdated      Kind = "feature-updated"
	FeatureEnabled      Kind = "feature-enabled"
	FeatureDisabled     Kind = "feature-disabled"
	FeatureArchived     Kind = "feature-archived"
	FeatureRevived      Kind = "feature-revived"
	FeatureStaleOn      Kind = "feature-stale-on"
	FeatureStaleOff     Kind = "feature-stale-off"
	FeatureImport       Kind = "feature-import"
	DropFeatures        Kind = "drop-features"
	FeatureTagged       Kind = "feature-tagged"
	FeatureUntagged     Kind = "feature-untagged"
	FeatureTagImport    Kind = "feature-tag-import"
	DropFeatureTags     Kind = "drop-feature-tags"
	StrategyCreated     Kind = "strategy-created"
	StrategyUpdated     Kind = "strategy-updated"
	StrategyDeleted     Kind = "strategy-deleted"
	StrategyDeprecated  Kind = "strategy-deprecated"
	StrategyReactivated Kind = "strategy-reactivated"
	StrategyImport      Kind = "strategy-import"
	DropStrategies      Kind = "drop-strategies"
	TagCreated          Kind = "tag-created"
	TagDeleted          Kind = "tag-deleted"
	TagImport           Kind = "tag-import"
	DropTags            Kind = "drop-tags"
	TagTypeCreated      Kind = "tag-type-created"
	TagTypeUpdated      Kind = "tag-type-updated"
	TagTypeDeleted      Kind = "tag-type-deleted"
	TagTypeImport       Kind = "tag-type-import"
	DropTagTypes        Kind = "drop-tag-types"
	ContextFieldCreated Kind = "context-field-created"
	ContextFieldUpdated Kind = "context-field-updated"
	ContextFieldDeleted Kind = "context-field-deleted"
	AddonConfigCreated  Kind = "addon-config-created"
	AddonConfigUpdated  Kind = "addon-config-updated"
	AddonConfigDeleted  Kind = "addon-config-deleted"
	ApplicationCreated  Kind = "application-created"
)

func (k Kind) String() string { return string(k) }

// IsDropMarker reports whether the kind instructs projectors to clear
// their table before applying anything newer.
func (k Kind) IsDropMarker() bool {
	switch k {
	case DropFeatures, DropStrategies, DropTags, DropTagTypes, DropFeatureTags:
		return true
	default:
		return false
	}
}
