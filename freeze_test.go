package pyvenv

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

const freezeOutput = `# generated by uv
numpy==2.1.1
pandas==2.2.3  # via -r requirements.txt

-e file:///home/dev/fastext
fastext @ file:///home/dev/fastext/target/wheels/fastext-0.1.0.whl
toolz @ https://example.com/toolz-0.12.1-py3-none-any.whl#sha256=abc123
`

func TestParseFreeze(t *testing.T) {
	got := parseFreeze([]byte(freezeOutput))
	want := []PackageSpec{
		{Name: "numpy", Version: "2.1.1", Source: SourceIndex},
		{Name: "pandas", Version: "2.2.3", Source: SourceIndex},
		{Name: "fastext", Source: SourceLocal, URL: "file:///home/dev/fastext/target/wheels/fastext-0.1.0.whl"},
		{Name: "toolz", Source: SourceURL, URL: "https://example.com/toolz-0.12.1-py3-none-any.whl#sha256=abc123"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseFreeze:\n got %+v\nwant %+v", got, want)
	}

	spec := &EnvironmentSpec{Packages: got}
	wantReqs := []string{"numpy==2.1.1", "pandas==2.2.3", "toolz @ https://example.com/toolz-0.12.1-py3-none-any.whl#sha256=abc123"}
	if reqs := spec.Requirements(); !reflect.DeepEqual(reqs, wantReqs) {
		t.Errorf("Requirements() = %v, want %v", reqs, wantReqs)
	}
}

func TestFreezeToFileAndRestore(t *testing.T) {
	skipWithoutShell(t)

	src := newFakeEnvironment(t)
	writeTool(t, src.BinDir(), "uv", `[ "$1 $2" = "pip freeze" ] && cat <<'EOF'
numpy==2.1.1
-e file:///home/dev/fastext
fastext @ file:///home/dev/fastext/target/wheels/fastext-0.1.0.whl
toolz @ https://example.com/toolz-0.12.1-py3-none-any.whl
EOF`)
	writeTool(t, src.BinDir(), "python", `echo "Python 3.12.5"`)

	path := filepath.Join(t.TempDir(), "env.msgpack")
	if err := src.FreezeToFile(path); err != nil {
		t.Fatalf("FreezeToFile failed: %v", err)
	}

	spec, err := LoadSpecFile(path)
	if err != nil {
		t.Fatalf("LoadSpecFile failed: %v", err)
	}
	if spec.Name != filepath.Base(src.Root()) {
		t.Errorf("unexpected name %q", spec.Name)
	}
	if spec.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %q", spec.Platform)
	}
	if spec.PythonVersion != "3.12.5" {
		t.Errorf("unexpected python version %q", spec.PythonVersion)
	}
	if len(spec.Packages) != 3 {
		t.Fatalf("unexpected packages %+v", spec.Packages)
	}
	if toolz := spec.Packages[2]; toolz.Source != SourceURL || toolz.URL != "https://example.com/toolz-0.12.1-py3-none-any.whl" {
		t.Errorf("direct URL lost in the spec file: %+v", toolz)
	}

	dst := newFakeEnvironment(t)
	writeTool(t, dst.BinDir(), "uv", fakeUV)
	if _, err := dst.Restore(spec); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if log := readFile(t, filepath.Join(dst.Root(), "uv.log")); strings.TrimSpace(log) != "pip install numpy==2.1.1 toolz @ https://example.com/toolz-0.12.1-py3-none-any.whl" {
		t.Errorf("unexpected restore install %q", log)
	}
}

func TestRestoreSkipsLocalPackages(t *testing.T) {
	env := newFakeEnvironment(t)
	spec := &EnvironmentSpec{Packages: []PackageSpec{
		{Name: "fastext", Source: SourceLocal, URL: "file:///home/dev/fastext.whl"},
	}}
	if reqs := spec.Requirements(); len(reqs) != 0 {
		t.Fatalf("local packages must not be installed, got %v", reqs)
	}
	got, err := env.Restore(spec)
	if err != nil || got != env {
		t.Fatalf("expected a no-op restore, got %v, %v", got, err)
	}
}

func TestRestoreEmptySpecIsNoop(t *testing.T) {
	env := newFakeEnvironment(t)
	got, err := env.Restore(&EnvironmentSpec{})
	if err != nil || got != env {
		t.Fatalf("expected a no-op restore, got %v, %v", got, err)
	}
}

func TestSpecFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSpecFile(filepath.Join(dir, "missing.msgpack")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist for a missing file, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.msgpack")
	if err := os.WriteFile(garbage, []byte("not a spec"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSpecFile(garbage); err == nil {
		t.Error("expected an error decoding garbage")
	}
}
