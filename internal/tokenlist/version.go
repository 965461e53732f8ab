package tokenlist

import "fmt"

// Version is the semantic version of a token list
type Version struct {
	Major int `json:"major" validate:"min=0"`
	Minor int `json:"minor" validate:"min=0"`
	Patch int `json:"patch" validate:"min=0"`
}

func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// VersionUpgrade classifies the difference between two list versions.
// Values are ordered by severity.
type VersionUpgrade int

const (
	VersionUpgradeNone VersionUpgrade = iota
	VersionUpgradePatch
	VersionUpgradeMinor
	VersionUpgradeMajor
)

func (u VersionUpgrade) String() string {
	switch u {
	case VersionUpgradePatch:
		return "patch"
	case VersionUpgradeMinor:
		return "minor"
	case VersionUpgradeMajor:
		return "major"
	}
	return "none"
}

// GetVersionUpgrade returns the bump from base to update; a downgrade is None
func GetVersionUpgrade(base, update Version) VersionUpgrade {
	if update.Major > base.Major {
		return VersionUpgradeMajor
	}
	if update.Major < base.Major {
		return VersionUpgradeNone
	}
	if update.Minor > base.Minor {
		return VersionUpgradeMinor
	}
	if update.Minor < base.Minor {
		return VersionUpgradeNone
	}
	if update.Patch > base.Patch {
		return VersionUpgradePatch
	}
	return VersionUpgradeNone
}
