package profileio

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Library document versions understood by this package.
const (
	MinSupportedVersion = "0.1.0"
	MaxTestedVersion    = "0.2.0"
)

var supportedRange *semver.Constraints

func init() {
	var err error
	supportedRange, err = semver.NewConstraint(fmt.Sprintf(">= %s, <= %s", MinSupportedVersion, MaxTestedVersion))
	if err != nil {
		panic(fmt.Sprintf("profileio: invalid supported range: %v", err))
	}
}

// SupportedRange returns the minimum and maximum supported document versions.
func SupportedRange() (min, max string) {
	return MinSupportedVersion, MaxTestedVersion
}

// IsSupportedVersion reports whether v is within the supported range. v must
// be a full MAJOR.MINOR.PATCH version.
func IsSupportedVersion(v string) (bool, error) {
	parsed, err := semver.StrictNewVersion(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return supportedRange.Check(parsed), nil
}
