// Package tessera is a span-aware table editing core for tree documents,
// with a Bubble Tea host in the editor package.
package tessera

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Release is a parsed release number. Pre holds the pre-release suffix
// without its leading dash.
type Release struct {
	Major, Minor, Patch int
	Pre                 string
}

func (r Release) String() string {
	s := fmt.Sprintf("%d.%d.%d", r.Major, r.Minor, r.Patch)
	if r.Pre != "" {
		s += "-" + r.Pre
	}
	return s
}

// Version returns the module release as written in the VERSION file.
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// VersionTag returns Version in git tag form, with a leading "v".
func VersionTag() string {
	return "v" + Version()
}

// ParseRelease parses "MAJOR.MINOR.PATCH[-PRE][+BUILD]". Build metadata is
// dropped. Numbers must not carry leading zeros.
func ParseRelease(v string) (Release, error) {
	v = strings.TrimSpace(v)
	if i := strings.IndexByte(v, '+'); i >= 0 {
		v = v[:i]
	}
	var r Release
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v, r.Pre = v[:i], v[i+1:]
		if r.Pre == "" {
			return Release{}, fmt.Errorf("release %q: empty pre-release", v)
		}
	}
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return Release{}, fmt.Errorf("release %q: want three numbers", v)
	}
	nums := [3]*int{&r.Major, &r.Minor, &r.Patch}
	for i, p := range parts {
		if len(p) > 1 && p[0] == '0' {
			return Release{}, fmt.Errorf("release %q: leading zero in %q", v, p)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Release{}, fmt.Errorf("release %q: bad number %q", v, p)
		}
		*nums[i] = n
	}
	return r, nil
}

// CurrentRelease parses Version.
func CurrentRelease() (Release, error) {
	return ParseRelease(Version())
}
