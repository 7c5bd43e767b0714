package config

// Version is the recommender binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/recommender/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
