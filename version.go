package pyvenv

import (
	"fmt"
	"strings"
)

// Version is a dotted release number. Minor and Patch are -1 when the
// version string did not include them.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses "X.Y.Z", "X.Y" or "X". Text after the last number
// is ignored, so "3.13.0rc1" parses as 3.13.0.
func ParseVersion(s string) (Version, error) {
	v := Version{Minor: -1, Patch: -1}
	if _, err := fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch); err != nil {
		v = Version{Minor: -1, Patch: -1}
		if _, err := fmt.Sscanf(s, "%d.%d", &v.Major, &v.Minor); err != nil {
			v = Version{Minor: -1, Patch: -1}
			if _, err := fmt.Sscanf(s, "%d", &v.Major); err != nil {
				return Version{}, fmt.Errorf("error parsing version %q: %w", s, err)
			}
		}
	}
	if v.Major < 0 || v.Minor < -1 || v.Patch < -1 {
		return Version{}, fmt.Errorf("invalid version: %s", s)
	}
	return v, nil
}

// ParseToolVersion parses the first line of a tool's --version output,
// which must start with the tool name followed by a version:
//
//	pytest 8.3.2
//	uv 0.4.18 (7b55e9790 2024-10-01)
//	maturin 1.7.4
//	Python 3.12.5
//
// The tool name is matched case-insensitively.
func ParseToolVersion(tool, output string) (Version, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.EqualFold(fields[0], tool) {
		return Version{}, fmt.Errorf("invalid %s version string: %q", tool, line)
	}
	return ParseVersion(fields[1])
}

// Compare returns -1, 0 or 1 as v is older than, equal to or newer than other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpInt(v.Minor, other.Minor)
	default:
		return cmpInt(v.Patch, other.Patch)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func (v Version) String() string {
	switch {
	case v.Minor == -1:
		return fmt.Sprintf("%d", v.Major)
	case v.Patch == -1:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// ToolVersions holds the versions of the tools an environment drives.
type ToolVersions struct {
	UV      Version
	Maturin Version
	Pytest  Version
	Python  Version
}

// ToolVersions runs each tool with --version inside the environment.
func (e *Environment) ToolVersions() (*ToolVersions, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	var tv ToolVersions
	tools := []struct {
		name string
		exe  string
		dst  *Version
	}{
		{"uv", e.opts.UV, &tv.UV},
		{"maturin", e.opts.Maturin, &tv.Maturin},
		{"pytest", e.opts.Pytest, &tv.Pytest},
		{"python", e.opts.Python, &tv.Python},
	}
	for _, t := range tools {
		out, err := e.run(e.Command(t.exe, "--version"))
		if err != nil {
			return nil, err
		}
		// Older pytest and python releases print their version to stderr.
		text := string(out.Stdout)
		if strings.TrimSpace(text) == "" {
			text = string(out.Stderr)
		}
		v, err := ParseToolVersion(t.name, text)
		if err != nil {
			return nil, err
		}
		*t.dst = v
	}
	return &tv, nil
}
