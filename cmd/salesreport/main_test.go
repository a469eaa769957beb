package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/infrastructure"
	"salesreport/pkg/contracts"
)

// latin-1 bytes: "Café" and "Grün"
const rawSales = "ORDERNUMBER,QUANTITYORDERED,PRICEEACH,SALES,ORDERDATE,PRODUCTCODE,CUSTOMERNAME,MSRP\n" +
	"10107,30,80,2871,2/24/2003 0:00,S10_1678,Caf\xe9,100\n" +
	"10107,30,80,2871,2/24/2003 0:00,S10_1678,Caf\xe9,100\n" +
	"10121,34,81.35,2765.9,5/7/2003 0:00,S10_1678,Gr\xfcn,95\n" +
	"10134,41,94.74,3884.34,,S10_2016,Gr\xfcn,100\n" +
	"10145,45,83.26,3746.7,8/25/2003 0:00,S10_2016,Caf\xe9,100\n"

// setupBase points the run at a fresh base directory holding the default input file
func setupBase(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("SALES_BASE_DIR", base)
	t.Setenv("SALES_LOGGING_LEVEL", "error")
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	input := filepath.Join(base, "data", "sample_sales_data.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(input), 0755))
	require.NoError(t, os.WriteFile(input, []byte(rawSales), 0644))
	return base
}

func TestRun_Success(t *testing.T) {
	base := setupBase(t)
	var stdout, stderr bytes.Buffer

	code := run(nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Equal(t, "✅ Cleaned data saved to output/cleaned_sales_data.csv\n"+
		"✅ Plots saved in output/: monthly_sales.png, top_products.png\n"+
		"Correlation between discount % and quantity ordered: -0.34\n", stdout.String())
	assert.Empty(t, stderr.String())

	for _, name := range []string{
		"cleaned_sales_data.csv",
		"monthly_sales.png",
		"top_products.png",
		"monthly_sales.csv",
		"top_products.csv",
		"sales_report.xlsx",
		"run_manifest.json",
		"metrics.prom",
	} {
		assert.FileExists(t, filepath.Join(base, "output", name))
	}

	file, err := os.Open(filepath.Join(base, "output", "cleaned_sales_data.csv"))
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, "YearMonth", rows[0][len(rows[0])-1])
	assert.Equal(t, "Café", rows[1][6], "decoded from latin-1")
	assert.Equal(t, "Grün", rows[2][6])
}

func TestRun_FlagOverrides(t *testing.T) {
	base := setupBase(t)
	other := filepath.Join(base, "other.csv")
	utf8 := strings.NewReplacer("\xe9", "é", "\xfc", "ü").Replace(rawSales)
	require.NoError(t, os.WriteFile(other, []byte(utf8), 0644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-input", other, "-output-dir", "reports", "-encoding", "utf-8"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "reports/cleaned_sales_data.csv")
	assert.FileExists(t, filepath.Join(base, "reports", "top_products.png"))
	assert.NoDirExists(t, filepath.Join(base, "output"))
}

func TestRun_ConfigFile(t *testing.T) {
	base := setupBase(t)
	configFile := filepath.Join(base, "salesreport.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("output:\n  dir: yaml-out\n  extra_exports: false\n"), 0644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", configFile}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.FileExists(t, filepath.Join(base, "yaml-out", "cleaned_sales_data.csv"))
	assert.NoFileExists(t, filepath.Join(base, "yaml-out", "sales_report.xlsx"))
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		prepare func(t *testing.T, base string)
		want    string
	}{
		{
			name: "missing input",
			prepare: func(t *testing.T, base string) {
				require.NoError(t, os.Remove(filepath.Join(base, "data", "sample_sales_data.csv")))
			},
			want: "NOT_FOUND",
		},
		{
			name: "unknown encoding",
			args: []string{"-encoding", "klingon"},
			want: "unknown encoding",
		},
		{
			name: "undecodable input",
			args: []string{"-encoding", "utf-8"},
			want: "ENCODING",
		},
		{
			name: "invalid config",
			prepare: func(t *testing.T, base string) {
				t.Setenv("SALES_REPORT_TOP_N", "0")
			},
			want: "config validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := setupBase(t)
			if tt.prepare != nil {
				tt.prepare(t, base)
			}

			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.True(t, strings.HasPrefix(stderr.String(), "error: "), stderr.String())
			assert.Contains(t, stderr.String(), tt.want)
			assert.NoFileExists(t, filepath.Join(base, "output", "run_manifest.json"))
			assert.NoFileExists(t, filepath.Join(base, "output", "cleaned_sales_data.csv"))
		})
	}
}

func TestRun_FlagErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-bogus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-bogus")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"extra"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unexpected arguments")

	stderr.Reset()
	assert.Equal(t, 0, run([]string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-output-dir")
	assert.Empty(t, stdout.String())
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stdout.String(), "salesreport v"+contracts.Version+" ("), stdout.String())
}
