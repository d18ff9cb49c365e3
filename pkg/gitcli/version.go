package gitcli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionRegexp = regexp.MustCompile(`^git version (\d+)\.(\d+)\.(\d+)`)

// Version is a git release number.
type Version struct {
	Major int
	Minor int
	Patch int
}

// MinByteBlameVersion is the first git release whose blame honours textconv drivers.
var MinByteBlameVersion = Version{Major: 1, Minor: 7, Patch: 2}

// ParseVersion parses the output of `git --version`.
func ParseVersion(raw string) (Version, error) {
	lines := strings.Split(strings.TrimRight(raw, "\r\n"), "\n")
	if len(lines) != 1 {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, raw)
	}

	match := versionRegexp.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if match == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, raw)
	}

	parts := [3]int{}

	for i, field := range match[1:] {
		n, err := strconv.Atoi(field)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, raw)
		}

		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// Compare returns -1, 0 or 1 as v is older than, equal to or newer than other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return sign(v.Major - other.Major)
	case v.Minor != other.Minor:
		return sign(v.Minor - other.Minor)
	default:
		return sign(v.Patch - other.Patch)
	}
}

// AtLeast reports whether v is the same as or newer than other.
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
