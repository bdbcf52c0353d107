// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
	configv1alpha1 "github.com/gardener/instance-pricing/api/config/v1alpha1"
	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/common/cliutil"
	"github.com/gardener/instance-pricing/common/testutil"
	"github.com/gardener/instance-pricing/pricing"
	"github.com/gardener/instance-pricing/pricing/catalog"
	"github.com/gardener/instance-pricing/pricing/regions"
	pricingtestutil "github.com/gardener/instance-pricing/pricing/testutil"
)

const usEast1 = "US East (N. Virginia)"

// writeFixtures copies the embedded us-east-1 pricing data into temporary files.
func writeFixtures(t *testing.T) (ec2Path, ecsPath string) {
	t.Helper()
	fsys := pricingtestutil.DataFS()
	ec2Path = testutil.WriteTempFile(t, "amazonec2-us-east-1.json", testutil.ReadTestData(t, fsys, pricingtestutil.EC2OfferFileName))
	ecsPath = testutil.WriteTempFile(t, "amazonecs-us-east-1.json", testutil.ReadTestData(t, fsys, pricingtestutil.ECSProductLinesName))
	return
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Run(context.Background(), args, &out)
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	defaults := &configv1alpha1.PreprocessorConfig{}
	configv1alpha1.SetDefaults_PreprocessorConfig(defaults)

	tests := []struct {
		want    *configv1alpha1.PreprocessorConfig
		wantErr error
		name    string
		path    string
	}{
		{
			name: "ShouldDefaultWithoutFile",
			want: defaults,
		},
		{
			name: "ShouldLoadConfigFile",
			path: "testdata/preprocessor-config.yaml",
			want: &configv1alpha1.PreprocessorConfig{
				TypeMeta: metav1.TypeMeta{
					APIVersion: configv1alpha1.GroupVersion,
					Kind:       configv1alpha1.KindPreprocessorConfig,
				},
				Regions: []pricingapi.RegionInfo{
					{ID: "eu-south-1", Label: "EU (Milan)"},
					{ID: "eu-west-1", Label: "Europe (Ireland)"},
				},
				OutputDir:            "/tmp/instance-pricing",
				MetricsFile:          "/tmp/instance-pricing/ec2pricing.prom",
				ExcludedPriceNames:   []string{},
				MaxConcurrentRegions: ptr.To(2),
				Fetch: configv1alpha1.FetchConfig{
					OfferBaseURL: configv1alpha1.DefaultOfferBaseURL,
					APIRegion:    "ap-south-1",
					Timeout:      metav1.Duration{Duration: 30 * time.Second},
				},
			},
		},
		{
			name:    "ShouldRejectInvalidValues",
			path:    "testdata/invalid-config.yaml",
			wantErr: commonerrors.ErrInvalidOptVal,
		},
		{
			name:    "ShouldRejectUnknownFields",
			path:    "testdata/unknown-field-config.yaml",
			wantErr: commonerrors.ErrLoadConfig,
		},
		{
			name:    "ShouldFailOnMissingFile",
			path:    "testdata/does-not-exist.yaml",
			wantErr: commonerrors.ErrLoadConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(tt.path)
			testutil.AssertError(t, err, tt.wantErr)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigReportsAllViolations(t *testing.T) {
	_, err := LoadConfig("testdata/invalid-config.yaml")
	for _, want := range []string{"kind", "maxConcurrentRegions", "regions[0]"} {
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("LoadConfig() error = %v, want it to mention %s", err, want)
		}
	}
}

func TestParseBuildJobs(t *testing.T) {
	table := regions.Default()
	tests := []struct {
		wantErr error
		name    string
		args    []string
		want    []BuildJob
	}{
		{
			name: "ShouldParseEC2Only",
			args: []string{"us-east-1=ec2.json"},
			want: []BuildJob{{RegionID: "us-east-1", Label: usEast1, EC2Path: "ec2.json"}},
		},
		{
			name: "ShouldParseEC2AndECS",
			args: []string{"us-east-1=ec2.json,ecs.json", "eu-west-1=raw/ec2.json"},
			want: []BuildJob{
				{RegionID: "us-east-1", Label: usEast1, EC2Path: "ec2.json", ECSPath: "ecs.json"},
				{RegionID: "eu-west-1", Label: "EU (Ireland)", EC2Path: "raw/ec2.json"},
			},
		},
		{
			name:    "ShouldRejectMissingFiles",
			args:    []string{"us-east-1"},
			wantErr: commonerrors.ErrInvalidOptVal,
		},
		{
			name:    "ShouldRejectTooManyFiles",
			args:    []string{"us-east-1=a.json,b.json,c.json"},
			wantErr: commonerrors.ErrInvalidOptVal,
		},
		{
			name:    "ShouldRejectUnknownRegion",
			args:    []string{"mars-north-1=ec2.json"},
			wantErr: commonerrors.ErrInvalidOptVal,
		},
		{
			name:    "ShouldRejectDuplicateRegion",
			args:    []string{"us-east-1=a.json", "us-east-1=b.json"},
			wantErr: commonerrors.ErrInvalidOptVal,
		},
		{
			name:    "ShouldRequireOneJob",
			wantErr: commonerrors.ErrMissingOpt,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBuildJobs(tt.args, table)
			testutil.AssertError(t, err, tt.wantErr)
			if tt.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseBuildJobs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildCommand(t *testing.T) {
	ec2Path, ecsPath := writeFixtures(t)
	outDir := t.TempDir()
	metricsFile := filepath.Join(outDir, "ec2pricing.prom")

	_, err := run(t, "build", "us-east-1="+ec2Path+","+ecsPath, "--output-dir", outDir, "--metrics-file", metricsFile)
	if err != nil {
		t.Fatalf("build unexpected error: %v", err)
	}

	got, err := pricing.LoadRegionCatalog(filepath.Join(outDir, "ec2-us-east-1.json"))
	if err != nil {
		t.Fatalf("cannot load written catalog: %v", err)
	}
	if got.Name != usEast1 {
		t.Errorf("catalog name = %q, want %q", got.Name, usEast1)
	}
	if want := 3 + 2*len(catalog.FargateTaskSizes); len(got.Types) != want {
		t.Errorf("catalog has %d instance types, want %d", len(got.Types), want)
	}

	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("cannot read metrics file: %v", err)
	}
	for _, want := range []string{
		`ec2pricing_products{region="us-east-1"} 8`,
		`ec2pricing_skipped_products{region="us-east-1"} 3`,
		fmt.Sprintf(`ec2pricing_instance_types{region="us-east-1"} %d`, 3+2*len(catalog.FargateTaskSizes)),
		`ec2pricing_last_success_timestamp_seconds`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics file does not contain %q:\n%s", want, data)
		}
	}
}

func TestBuildCommandStdout(t *testing.T) {
	ec2Path, _ := writeFixtures(t)
	outDir := t.TempDir()

	out, err := run(t, "build", "us-east-1="+ec2Path, "--stdout", "--output-dir", outDir)
	if err != nil {
		t.Fatalf("build unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("build --stdout wrote %d lines, want 1", len(lines))
	}
	got, err := pricing.RegionCatalogFromData([]byte(lines[0]))
	if err != nil {
		t.Fatalf("cannot parse catalog written to stdout: %v", err)
	}
	if len(got.Types) != 3 {
		t.Errorf("catalog has %d instance types, want 3 without ECS data", len(got.Types))
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("build --stdout wrote %d files to the output directory", len(entries))
	}
}

func TestBuildCommandWritesNothingOnFailure(t *testing.T) {
	ec2Path, ecsPath := writeFixtures(t)
	badPath := testutil.WriteTempFile(t, "amazonec2-eu-west-1.json", []byte(`{"products": 42}`))
	outDir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "ec2pricing.prom")

	_, err := run(t, "build", "us-east-1="+ec2Path+","+ecsPath, "eu-west-1="+badPath, "-o", outDir, "--metrics-file", metricsFile)
	testutil.AssertError(t, err, pricingapi.ErrDecodeOffer)
	if err != nil && !strings.Contains(err.Error(), `"eu-west-1"`) {
		t.Errorf("build error %q does not name the failed region", err)
	}
	if code := cliutil.ExitCode(err); code != cliutil.ExitErrRun {
		t.Errorf("ExitCode() = %d, want %d", code, cliutil.ExitErrRun)
	}
	if _, serr := os.Stat(filepath.Join(outDir, "ec2-us-east-1.json")); !errors.Is(serr, os.ErrNotExist) {
		t.Errorf("build wrote the catalog of a succeeded region although another region failed")
	}
	data, rerr := os.ReadFile(metricsFile)
	if rerr != nil {
		t.Fatalf("cannot read metrics file: %v", rerr)
	}
	if want := `ec2pricing_build_failures_total{region="eu-west-1"} 1`; !strings.Contains(string(data), want) {
		t.Errorf("metrics file does not contain %q:\n%s", want, data)
	}
	if strings.Contains(string(data), "ec2pricing_last_success_timestamp_seconds 1") {
		t.Errorf("metrics file records success of a failed run:\n%s", data)
	}
}

func TestCommandExitCodes(t *testing.T) {
	tests := []struct {
		wantErr  error
		name     string
		args     []string
		wantCode int
	}{
		{name: "ShouldRejectMalformedJob", args: []string{"build", "us-east-1"}, wantErr: commonerrors.ErrInvalidOptVal, wantCode: cliutil.ExitErrParseOpts},
		{name: "ShouldRequireJob", args: []string{"build"}, wantErr: commonerrors.ErrMissingOpt, wantCode: cliutil.ExitErrParseOpts},
		{name: "ShouldRejectUnknownFlag", args: []string{"build", "--no-such-flag"}, wantErr: cliutil.ErrParseArgs, wantCode: cliutil.ExitErrParseOpts},
		{name: "ShouldRequireCatalogs", args: []string{"merge"}, wantErr: commonerrors.ErrMissingOpt, wantCode: cliutil.ExitErrParseOpts},
		{name: "ShouldRejectArgsOfRegions", args: []string{"regions", "us-east-1"}, wantErr: cliutil.ErrParseArgs, wantCode: cliutil.ExitErrParseOpts},
		{name: "ShouldRejectBadConfig", args: []string{"regions", "--config", "testdata/invalid-config.yaml"}, wantErr: commonerrors.ErrInvalidOptVal, wantCode: cliutil.ExitErrParseOpts},
		{name: "ShouldFailOnMissingCatalog", args: []string{"merge", "testdata/does-not-exist.json"}, wantErr: pricingapi.ErrLoadCatalog, wantCode: cliutil.ExitErrRun},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			testutil.AssertError(t, err, tt.wantErr)
			if code := cliutil.ExitCode(err); code != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestMergeCommand(t *testing.T) {
	ec2Path, ecsPath := writeFixtures(t)
	dataDir := t.TempDir()
	if _, err := run(t, "build", "us-east-1="+ec2Path+","+ecsPath, "-o", dataDir); err != nil {
		t.Fatalf("build unexpected error: %v", err)
	}
	euWest1 := pricingapi.RegionCatalog{
		Name: "EU (Ireland)",
		Date: "2024-04-01T00:00:00Z",
		Types: map[string]pricingapi.InstanceTypeInfo{
			"m5.large": {InstanceType: "m5.large", Info: pricingapi.TypeSpecs{Memory: "8 GiB", VCPU: "2"}},
		},
		Options: pricingapi.PurchaseOptions{
			Names:        []string{"Linux", "SUSE"},
			Reservations: []string{"3yr - standard - No Upfront"},
		},
		Prices: map[string][]pricingapi.PriceEntry{
			"m5.large": {{Name: "Linux", OnDemand: ptr.To(0.107)}},
		},
	}
	euWest1Path := filepath.Join(dataDir, pricing.RegionCatalogFileName("eu-west-1"))
	if err := pricing.WriteRegionCatalog(euWest1Path, euWest1); err != nil {
		t.Fatal(err)
	}
	usEast1Path := filepath.Join(dataDir, pricing.RegionCatalogFileName("us-east-1"))

	t.Run("ShouldWriteMergedOptions", func(t *testing.T) {
		output := filepath.Join(dataDir, "options.json")
		if _, err := run(t, "merge", usEast1Path, euWest1Path, "--output", output); err != nil {
			t.Fatalf("merge unexpected error: %v", err)
		}
		data := testutil.ReadTestData(t, os.DirFS(dataDir), "options.json")
		var got pricingapi.MergedOptions
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("cannot decode merged options: %v", err)
		}
		wantOptions := pricingapi.PurchaseOptions{
			Names: []string{"Linux", "RHEL - SQL Std", "SUSE", "Windows"},
			Reservations: []string{
				"1yr - standard - All Upfront",
				"1yr - standard - No Upfront",
				"3yr - standard - No Upfront",
				"3yr - convertible - Partial Upfront",
			},
		}
		if diff := cmp.Diff(wantOptions, got.Options); diff != "" {
			t.Errorf("merged options mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"2024-03-15T00:00:00Z", "2024-04-01T00:00:00Z"}, got.Dates); diff != "" {
			t.Errorf("merged dates mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(euWest1.Types["m5.large"], got.Types["m5.large"]); diff != "" {
			t.Errorf("later catalog did not replace instance type (-want +got):\n%s", diff)
		}
		if _, ok := got.Types["t3.micro"]; !ok {
			t.Errorf("merged types lack t3.micro of the first catalog")
		}
	})

	t.Run("ShouldWriteSlimDocumentToStdout", func(t *testing.T) {
		out, err := run(t, "merge", usEast1Path, euWest1Path, "-o", "-", "--omit-types", "--exclude-name", "SUSE,Windows")
		if err != nil {
			t.Fatalf("merge unexpected error: %v", err)
		}
		var got map[string]json.RawMessage
		if err = json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("cannot decode merged options: %v", err)
		}
		if _, ok := got["types"]; ok {
			t.Errorf("merge --omit-types wrote types")
		}
		var options pricingapi.PurchaseOptions
		if err = json.Unmarshal(got["options"], &options); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"Linux", "RHEL - SQL Std"}, options.Names); diff != "" {
			t.Errorf("merged price names mismatch (-want +got):\n%s", diff)
		}
	})
}

func newPriceListServer(t *testing.T) *httptest.Server {
	t.Helper()
	fsys := pricingtestutil.DataFS()
	files := map[string][]byte{
		"AmazonEC2": testutil.ReadTestData(t, fsys, pricingtestutil.EC2OfferFileName),
		"AmazonECS": testutil.ReadTestData(t, fsys, pricingtestutil.ECSProductLinesName),
	}
	mux := http.NewServeMux()
	for offerCode, data := range files {
		mux.HandleFunc("/offers/v1.0/aws/"+offerCode+"/current/region_index.json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprintf(w, `{"regions":{"us-east-1":{"regionCode":"us-east-1","currentVersionUrl":"/offers/v1.0/aws/%s/20240315000000/us-east-1/index.json"}}}`, offerCode)
		})
		mux.HandleFunc("/offers/v1.0/aws/"+offerCode+"/20240315000000/us-east-1/index.json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(data)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCommand(t *testing.T) {
	srv := newPriceListServer(t)
	config := fmt.Sprintf("apiVersion: %s\nkind: %s\nfetch:\n  offerBaseURL: %s\n", configv1alpha1.GroupVersion, configv1alpha1.KindPreprocessorConfig, srv.URL)
	configPath := testutil.WriteTempFile(t, "config.yaml", []byte(config))

	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{name: "ShouldFetchByRegion", args: []string{"--region", "us-east-1"}},
		{name: "ShouldFetchByLocation", args: []string{"--location", usEast1}},
		{name: "ShouldFailForRegionMissingFromIndex", args: []string{"--region", "eu-west-1"}, wantErr: commonerrors.ErrFetch},
		{name: "ShouldRejectUnknownRegion", args: []string{"--region", "mars-north-1"}, wantErr: commonerrors.ErrInvalidOptVal},
		{name: "ShouldRequireRegion", wantErr: commonerrors.ErrMissingOpt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := t.TempDir()
			args := append([]string{"fetch", "--config", configPath, "--output-dir", outDir}, tt.args...)
			_, err := run(t, args...)
			testutil.AssertError(t, err, tt.wantErr)
			if tt.wantErr != nil {
				return
			}
			ec2Path := filepath.Join(outDir, RawPricingFileName("AmazonEC2", "us-east-1", false))
			ecsPath := filepath.Join(outDir, RawPricingFileName("AmazonECS", "us-east-1", false))
			if _, err = run(t, "build", "us-east-1="+ec2Path+","+ecsPath, "-o", outDir); err != nil {
				t.Fatalf("build of fetched pricing data failed: %v", err)
			}
		})
	}
}

func TestRawPricingFileName(t *testing.T) {
	if got := RawPricingFileName("AmazonEC2", "eu-west-1", false); got != "amazonec2-eu-west-1.json" {
		t.Errorf("RawPricingFileName() = %q", got)
	}
	if got := RawPricingFileName("AmazonECS", "eu-west-1", true); got != "amazonecs-eu-west-1.ndjson" {
		t.Errorf("RawPricingFileName() = %q", got)
	}
}

func TestRegionsCommand(t *testing.T) {
	out, err := run(t, "regions", "--config", "testdata/preprocessor-config.yaml")
	if err != nil {
		t.Fatalf("regions unexpected error: %v", err)
	}
	for _, want := range []string{"ID", "us-east-1", usEast1, "eu-south-1", "EU (Milan)", "Europe (Ireland)"} {
		if !strings.Contains(out, want) {
			t.Errorf("regions output does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "EU (Ireland)") {
		t.Errorf("regions output lists the overridden label of eu-west-1:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, pricingapi.ProgramName) {
		t.Errorf("version output = %q, want it to start with %q", out, pricingapi.ProgramName)
	}
}

func TestLogFile(t *testing.T) {
	ec2Path, _ := writeFixtures(t)
	logFile := filepath.Join(t.TempDir(), "ec2pricing.log")

	if _, err := run(t, "build", "us-east-1="+ec2Path, "--stdout", "--log-file", logFile); err != nil {
		t.Fatalf("build unexpected error: %v", err)
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("cannot read log file: %v", err)
	}
	if !strings.Contains(string(data), "build finished") {
		t.Errorf("log file does not contain the build summary:\n%s", data)
	}
}
