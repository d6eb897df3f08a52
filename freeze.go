package pyvenv

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Package sources recorded in a frozen EnvironmentSpec.
const (
	SourceIndex = "index" // pinned release from a package index
	SourceLocal = "local" // installed from a local path
	SourceURL   = "url"   // installed from a direct URL
)

// Serializer encodes and decodes environment specs.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// MsgpackSerializer is the Serializer used for spec files.
type MsgpackSerializer struct{}

func (MsgpackSerializer) Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MsgpackSerializer) Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

var specSerializer Serializer = MsgpackSerializer{}

// PackageSpec is one installed package.
type PackageSpec struct {
	Name    string `msgpack:"name"`
	Version string `msgpack:"version,omitempty"`
	Source  string `msgpack:"source"`
	// URL is the direct reference of packages installed from a path or URL.
	URL string `msgpack:"url,omitempty"`
}

// Requirement renders the package as a uv pip install argument.
func (p PackageSpec) Requirement() string {
	switch {
	case p.URL != "":
		return p.Name + " @ " + p.URL
	case p.Source == SourceIndex && p.Version != "":
		return p.Name + "==" + p.Version
	default:
		return p.Name
	}
}

// EnvironmentSpec is a snapshot of the packages installed in an environment.
type EnvironmentSpec struct {
	Name          string        `msgpack:"name"`
	Platform      string        `msgpack:"platform"`
	PythonVersion string        `msgpack:"python_version,omitempty"`
	Packages      []PackageSpec `msgpack:"packages"`
}

// Requirements returns the install arguments for every package in the spec
// except local ones, whose paths only exist on the machine that was frozen.
func (s *EnvironmentSpec) Requirements() []string {
	reqs := make([]string, 0, len(s.Packages))
	for _, p := range s.Packages {
		if p.Source == SourceLocal {
			continue
		}
		reqs = append(reqs, p.Requirement())
	}
	return reqs
}

// Freeze lists the packages installed in the environment with `uv pip freeze`.
// Editable installs (such as extensions added by AddMaturinDep) are skipped.
func (e *Environment) Freeze() (*EnvironmentSpec, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	out, err := e.run(e.Command(e.opts.UV, "pip", "freeze"))
	if err != nil {
		return nil, err
	}

	spec := &EnvironmentSpec{
		Name:     filepath.Base(e.root),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Packages: parseFreeze(out.Stdout),
	}

	if pyOut, err := e.run(e.Command(e.opts.Python, "--version")); err == nil {
		text := string(pyOut.Stdout)
		if strings.TrimSpace(text) == "" {
			text = string(pyOut.Stderr)
		}
		if v, err := ParseToolVersion("python", text); err == nil {
			spec.PythonVersion = v.String()
		}
	} else {
		e.logger.Warn("unable to determine python version", "err", err)
	}

	return spec, nil
}

// parseFreeze parses pip freeze output. Comments, blank lines, options and
// editable installs are dropped.
func parseFreeze(data []byte) []PackageSpec {
	var pkgs []PackageSpec
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// A '#' only starts a comment after whitespace; URL fragments such
		// as "#sha256=..." belong to the reference.
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		if name, ref, ok := strings.Cut(line, " @ "); ok {
			ref = strings.TrimSpace(ref)
			source := SourceURL
			if strings.HasPrefix(ref, "file:") {
				source = SourceLocal
			}
			pkgs = append(pkgs, PackageSpec{Name: strings.TrimSpace(name), Source: source, URL: ref})
			continue
		}

		name, version, _ := strings.Cut(line, "==")
		pkgs = append(pkgs, PackageSpec{
			Name:    strings.TrimSpace(name),
			Version: strings.TrimSpace(version),
			Source:  SourceIndex,
		})
	}
	return pkgs
}

// FreezeToFile writes the result of Freeze to path as MessagePack.
func (e *Environment) FreezeToFile(path string) error {
	spec, err := e.Freeze()
	if err != nil {
		return err
	}
	return WriteSpecFile(path, spec)
}

// WriteSpecFile encodes spec to path.
func WriteSpecFile(path string, spec *EnvironmentSpec) error {
	data, err := specSerializer.Marshal(spec)
	if err != nil {
		return fmt.Errorf("error encoding environment spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing environment spec: %w", err)
	}
	return nil
}

// LoadSpecFile reads a spec written by FreezeToFile.
func LoadSpecFile(path string) (*EnvironmentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading environment spec: %w", err)
	}
	var spec EnvironmentSpec
	if err := specSerializer.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("error decoding environment spec %s: %w", path, err)
	}
	return &spec, nil
}

// Restore installs every package of spec into the environment. Packages
// installed from local paths are skipped with a warning. Like Install, it
// closes the environment on failure.
func (e *Environment) Restore(spec *EnvironmentSpec) (*Environment, error) {
	for _, p := range spec.Packages {
		if p.Source == SourceLocal {
			e.logger.Warn("skipping local package", "name", p.Name, "url", p.URL)
		}
	}
	reqs := spec.Requirements()
	if len(reqs) == 0 {
		if err := e.checkOpen(); err != nil {
			return nil, err
		}
		return e, nil
	}
	if spec.Platform != "" && spec.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		e.logger.Warn("restoring spec frozen on another platform", "platform", spec.Platform)
	}
	return e.Install(reqs...)
}
