// Package sync derives a profile's environment and writes it into the Claude
// CLI settings file.
package sync

import "ccm/config/models"

// Environment keys owned by ccm
const (
	EnvAuthToken   = "ANTHROPIC_AUTH_TOKEN"
	EnvBaseURL     = "ANTHROPIC_BASE_URL"
	EnvHaikuModel  = "ANTHROPIC_DEFAULT_HAIKU_MODEL"
	EnvSonnetModel = "ANTHROPIC_DEFAULT_SONNET_MODEL"
	EnvOpusModel   = "ANTHROPIC_DEFAULT_OPUS_MODEL"
)

// ReservedKeys are derived from profile fields rather than extraEnv.
var ReservedKeys = []string{EnvAuthToken, EnvBaseURL, EnvHaikuModel, EnvSonnetModel, EnvOpusModel}

// IsReserved reports whether key is one of ReservedKeys.
func IsReserved(key string) bool {
	for _, k := range ReservedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// BuildEnv derives the environment a profile exports. Empty fields produce no
// entry. extraEnv is applied last and wins on collision.
func BuildEnv(p models.Profile) models.EnvVars {
	env := models.EnvVars{}
	setIf := func(key, value string) {
		if value != "" {
			env.Set(key, value)
		}
	}

	setIf(EnvAuthToken, p.APIKey)
	setIf(EnvBaseURL, p.BaseURL)

	haiku, sonnet, opus := models.EffectiveModels(p.Mode)
	setIf(EnvHaikuModel, haiku)
	setIf(EnvSonnetModel, sonnet)
	setIf(EnvOpusModel, opus)

	for _, v := range p.ExtraEnv {
		env.Set(v.Key, v.Value)
	}
	return env
}
