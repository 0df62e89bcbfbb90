package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/violin/pkg/category"
	"github.com/matzehuels/violin/pkg/kernel"
	"github.com/matzehuels/violin/pkg/pipeline"
)

func parseRunFlags(t *testing.T, args ...string) (*runFlags, *cobra.Command) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var f runFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return &f, cmd
}

func TestResolveDefaults(t *testing.T) {
	f, cmd := parseRunFlags(t)
	res, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	def := pipeline.DefaultOptions()
	if res.Options.Kernel != def.Kernel || res.Options.Limit != def.Limit {
		t.Errorf("unset flags should keep defaults, got kernel %v limit %d", res.Options.Kernel, res.Options.Limit)
	}
	if res.Options.DomainStart != nil || res.Options.DomainEnd != nil {
		t.Error("domain bounds should stay unset")
	}
}

func TestResolveFlags(t *testing.T) {
	f, cmd := parseRunFlags(t,
		"--kernel", "gaussian", "--sort", "max", "--order", "desc",
		"--bandwidth", "0.25", "--domain-start", "0", "--limit", "10",
		"--category-column", "species", "--format", "tsv", "--refresh")
	res, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	o := res.Options
	if o.Kernel != kernel.Gaussian {
		t.Errorf("kernel = %v, want gaussian", o.Kernel)
	}
	if o.Sort != category.ByMax || o.Order != category.Descending {
		t.Errorf("sort = %v %v, want max desc", o.Sort, o.Order)
	}
	if !o.Bandwidth.Enabled || o.Bandwidth.Value != 0.25 {
		t.Errorf("bandwidth = %+v, want manual 0.25", o.Bandwidth)
	}
	if o.DomainStart == nil || *o.DomainStart != 0 {
		t.Error("--domain-start 0 should set an explicit zero bound")
	}
	if o.Limit != 10 || !o.Refresh {
		t.Errorf("limit = %d refresh = %v", o.Limit, o.Refresh)
	}
	if res.Source.CategoryColumn != "species" || res.Source.Format != "tsv" {
		t.Errorf("source = %+v", res.Source)
	}
}

func TestResolveRejectsBadValues(t *testing.T) {
	for _, args := range [][]string{
		{"--kernel", "cosine"},
		{"--resolution", "ultra"},
		{"--whiskers", "tukey"},
		{"--sort", "variance"},
		{"--order", "sideways"},
		{"--limit", "-1"},
	} {
		f, cmd := parseRunFlags(t, args...)
		if _, err := f.resolve(cmd); err == nil {
			t.Errorf("resolve(%v) should fail", args)
		}
	}
}
