package config

// FeatureFlags toggles optional behavior of the progress core.
// Everything here defaults to on; flags exist so operators can disable a
// subsystem (cache, cascade, reconciliation) without a redeploy.
type FeatureFlags struct {
	// EnableSpecializationCascade controls whether a league-level badge award
	// immediately re-evaluates every specialization containing that league.
	// When off, the reconciliation job is the only path to specialization awards.
	EnableSpecializationCascade bool

	// EnableLeaderboardCache controls the Redis read-through cache for
	// leaderboard pages. The SQL ranker is always the source of truth.
	EnableLeaderboardCache bool

	// EnableReconciliation controls the periodic sweep that re-runs award
	// evaluation for recently completed sections.
	EnableReconciliation bool
}

// LoadFeatureFlags reads flags from the environment with on-by-default values.
func LoadFeatureFlags() FeatureFlags {
	return FeatureFlags{
		EnableSpecializationCascade: getEnvBool("FEATURE_SPECIALIZATION_CASCADE", true),
		EnableLeaderboardCache:      getEnvBool("FEATURE_LEADERBOARD_CACHE", true),
		EnableReconciliation:        getEnvBool("FEATURE_RECONCILIATION", true),
	}
}
