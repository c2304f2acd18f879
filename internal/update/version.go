package update

import (
	"fmt"
	"strconv"
	"strings"
)

// DevVersion marks builds without an injected release version
const DevVersion = "dev"

// Version is a numeric major.minor.patch triple
type Version [3]int

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// NormalizeTag strips the decorations release tags carry ("v1.2.0-universal")
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(strings.TrimPrefix(tag, "v"), "V")
	return strings.TrimSuffix(tag, "-universal")
}

// ParseVersion parses one to three dot separated non-negative integers.
// Missing components are zero.
func ParseVersion(s string) (Version, error) {
	var v Version
	parts := strings.Split(NormalizeTag(s), ".")
	if len(parts) == 0 || len(parts) > len(v) {
		return v, fmt.Errorf("malformed version %q", s)
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || part == "" || strings.HasPrefix(part, "+") {
			return Version{}, fmt.Errorf("malformed version %q", s)
		}
		v[i] = n
	}
	return v, nil
}

// Compare returns -1, 0 or 1. Malformed versions sort below every
// well-formed one and equal to each other.
func Compare(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	for i := range va {
		switch {
		case va[i] < vb[i]:
			return -1
		case va[i] > vb[i]:
			return 1
		}
	}
	return 0
}
