package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	verrors "github.com/matzehuels/violin/pkg/errors"
	"github.com/matzehuels/violin/pkg/viewmodel"
)

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		output string
		input  string
		multi  bool
		want   string
	}{
		{"next to input", "", "data/weights.csv", false, filepath.Join("data", "weights.viewmodel.json")},
		{"stdin to stdout", "", "-", false, "-"},
		{"explicit file", "out.json", "weights.csv", false, "out.json"},
		{"explicit stdout", "-", "weights.csv", false, "-"},
		{"several inputs", "out", "a/weights.csv", true, filepath.Join("out", "weights.viewmodel.json")},
		{"trailing separator", "out" + string(filepath.Separator), "weights.csv", false, filepath.Join("out", "weights.viewmodel.json")},
		{"existing directory", dir, "weights.xlsx", false, filepath.Join(dir, "weights.viewmodel.json")},
		{"stdin into directory", dir, "-", false, filepath.Join(dir, "stdin.viewmodel.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.multi); got != tt.want {
				t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.output, tt.input, tt.multi, got, tt.want)
			}
		})
	}
}

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		output  string
		wantErr bool
	}{
		{"single input to stdout", []string{"a.csv"}, "-", false},
		{"several inputs", []string{"a.csv", "b.csv"}, "out", false},
		{"several inputs to stdout", []string{"a.csv", "b.csv"}, "-", true},
		{"duplicate input", []string{"a.csv", "a.csv"}, "out", true},
		{"duplicate after cleaning", []string{"a.csv", "./a.csv"}, "out", true},
		{"same base name into one directory", []string{"x/data.csv", "y/data.csv"}, "out", true},
		{"same stem next to input", []string{"a.csv", "a.json"}, "", true},
		{"same base name next to input", []string{"x/data.csv", "y/data.csv"}, "", false},
		{"stdin and a file", []string{"-", "a.csv"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInputs(tt.inputs, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateInputs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func readViewModel(t *testing.T, path string) viewmodel.ViewModel {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read view model: %v", err)
	}
	vm, err := viewmodel.Unmarshal(data)
	if err != nil {
		t.Fatalf("decode view model: %v", err)
	}
	return vm
}

func TestRenderWritesNextToInput(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "weights.csv", groupsCSV)

	if err := runCLI(t, c, "render", input, "--category-column", "group", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	vm := readViewModel(t, filepath.Join(dir, "weights.viewmodel.json"))
	if !vm.Render {
		t.Fatal("view model should be renderable")
	}
	if len(vm.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(vm.Categories))
	}
	if vm.Categories[0].Name != "a" || vm.Categories[1].Name != "b" {
		t.Errorf("categories = %q, %q; want a, b", vm.Categories[0].Name, vm.Categories[1].Name)
	}
	if vm.Global.Count != 6 {
		t.Errorf("global count = %d, want 6", vm.Global.Count)
	}
}

func TestRenderToStdout(t *testing.T) {
	c, out := newTestCLI(t)
	input := writeFile(t, t.TempDir(), "weights.csv", groupsCSV)

	err := runCLI(t, c, "render", input, "-o", "-", "--no-cache",
		"--category-column", "group", "--sort", "median", "--order", "desc")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	vm, err := viewmodel.Unmarshal(out.Bytes())
	if err != nil {
		t.Fatalf("decode stdout: %v", err)
	}
	if len(vm.Categories) != 2 || vm.Categories[0].Name != "b" {
		t.Errorf("descending median order should put b first, got %+v", vm.Categories)
	}
}

func TestRenderSeveralInputs(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", groupsCSV)
	b := writeFile(t, dir, "b.tsv", "weight\n1\n2\n3\n5\n8\n")
	out := filepath.Join(dir, "out")

	if err := runCLI(t, c, "render", a, b, "-o", out, "--jobs", "2", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"a.viewmodel.json", "b.viewmodel.json"} {
		if vm := readViewModel(t, filepath.Join(out, name)); !vm.Render {
			t.Errorf("%s should be renderable", name)
		}
	}
}

func TestRenderConfigAndFlags(t *testing.T) {
	c, out := newTestCLI(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "weights.csv", groupsCSV)
	cfg := writeFile(t, dir, "config.toml", "[density]\nkernel = \"gaussian\"\n\n[source]\ncategory_column = \"group\"\n")

	if err := runCLI(t, c, "render", input, "-o", "-", "--no-cache", "--config", cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	vm, err := viewmodel.Unmarshal(out.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if vm.Settings.Kernel != "gaussian" {
		t.Errorf("kernel = %q, want gaussian from the config file", vm.Settings.Kernel)
	}
	if len(vm.Categories) != 2 {
		t.Errorf("category column from the config file should give 2 categories, got %d", len(vm.Categories))
	}

	out.Reset()
	if err := runCLI(t, c, "render", input, "-o", "-", "--no-cache", "--config", cfg, "--kernel", "quartic"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if vm, err = viewmodel.Unmarshal(out.Bytes()); err != nil {
		t.Fatal(err)
	}
	if vm.Settings.Kernel != "quartic" {
		t.Errorf("kernel = %q, want the --kernel flag to win", vm.Settings.Kernel)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "weights.csv", groupsCSV)

	t.Run("missing input", func(t *testing.T) {
		c, _ := newTestCLI(t)
		err := runCLI(t, c, "render", filepath.Join(dir, "missing.csv"), "--no-cache")
		if !verrors.Is(err, verrors.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("unknown kernel", func(t *testing.T) {
		c, _ := newTestCLI(t)
		err := runCLI(t, c, "render", input, "--kernel", "cosine", "--no-cache")
		if err == nil || !strings.Contains(err.Error(), "--kernel") {
			t.Errorf("error = %v, want a --kernel error", err)
		}
	})

	t.Run("missing config", func(t *testing.T) {
		c, _ := newTestCLI(t)
		err := runCLI(t, c, "render", input, "--config", filepath.Join(dir, "nope.toml"))
		if !verrors.Is(err, verrors.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want FILE_NOT_FOUND", err)
		}
	})
}
