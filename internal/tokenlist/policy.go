package tokenlist

import "github.com/rs/zerolog/log"

// AcceptPolicy decides whether a PATCH or MINOR pending version is applied
// without user interaction.
type AcceptPolicy func(listURL string, current, pending *TokenList, bump VersionUpgrade) bool

// MinBumpPolicy accepts an update when its declared bump covers the token
// changes it actually makes.
func MinBumpPolicy(listURL string, current, pending *TokenList, bump VersionUpgrade) bool {
	required := MinVersionBump(current.Tokens, pending.Tokens)
	if bump >= required {
		return true
	}

	log.Error().
		Str("url", listURL).
		Str("bump", bump.String()).
		Str("required", required.String()).
		Msg("List could not automatically update because the version bump is lower than its changes require")
	return false
}

// AlwaysAccept accepts every update
func AlwaysAccept(string, *TokenList, *TokenList, VersionUpgrade) bool {
	return true
}
