package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffwagency/vacancy-importer/internal/config"
	"github.com/ffwagency/vacancy-importer/internal/importer"
	"github.com/ffwagency/vacancy-importer/internal/sources"
)

const positionList = `<?xml version="1.0" encoding="utf-8"?>
<PositionListResult>
  <TransactionStatus><StatusCode>Ok</StatusCode></TransactionStatus>
  <Items>
    <JobPortalPosition>
      <Id>1001</Id>
      <Name>Lagermedarbejder</Name>
      <Languages><JobPortalLanguage><Code>da</Code></JobPortalLanguage></Languages>
      <PositionCategory><Name>Lager</Name></PositionCategory>
      <ApplicationDue>2024-06-30T00:00:00</ApplicationDue>
    </JobPortalPosition>
    <JobPortalPosition>
      <Id>1002</Id>
      <Name>Controller</Name>
    </JobPortalPosition>
  </Items>
</PositionListResult>`

// newVendorServer fakes the HR-Manager API for the "acme" customer.
func newVendorServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobportal.svc/acme/positionlist/xml/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(positionList))
	}))
	t.Cleanup(server.Close)

	sourceHTTPClient = server.Client()
	t.Cleanup(func() { sourceHTTPClient = nil })
	return server
}

func writeSettings(t *testing.T, dir, name, domain string) string {
	t.Helper()
	body := fmt.Sprintf(`source: hrmanager
language: da
timezone: Europe/Copenhagen
sources:
  hrmanager:
    api_domain: %s
    api_name: acme
`, domain)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"VACANCY_IMPORTER_SOURCE", "VACANCY_IMPORTER_CONFIG", "DATABASE_URL", "REDIS_URL", "HRMANAGER_API_NAME"} {
		t.Setenv(key, "")
	}

	configPath, logJSON, logLevel = "", false, ""
	importDryRun, importVerbose = false, false
	checkAPISource = ""
	configureFrom, configureWrite = "", false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestImportCommand_DryRun(t *testing.T) {
	server := newVendorServer(t)
	path := writeSettings(t, t.TempDir(), "config.yml", server.URL)

	out, err := executeCommand(t, "import", "--config", path, "--dry-run", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "IMPORT RESULT")
	assert.Contains(t, out, `Dry run: 2 vacancies imported/updated from "hrmanager".`)
}

func TestImportCommand_RequiresDatabase(t *testing.T) {
	server := newVendorServer(t)
	path := writeSettings(t, t.TempDir(), "config.yml", server.URL)

	_, err := executeCommand(t, "import", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url is not configured")
}

func TestImportCommand_UnknownSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("source: workday\n"), 0o600))

	_, err := executeCommand(t, "import", "--config", path, "--dry-run")
	require.Error(t, err)
	var ce *sources.ConfigurationError
	assert.ErrorAs(t, err, &ce)
	var nf *sources.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSourcesCommand(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "config.yml", "https://api.hr-manager.net")

	out, err := executeCommand(t, "sources", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "VACANCY SOURCES")
	assert.Contains(t, out, "* hrmanager")
	assert.Contains(t, out, "  emply")
}

func TestCheckAPICommand(t *testing.T) {
	server := newVendorServer(t)
	path := writeSettings(t, t.TempDir(), "config.yml", server.URL)

	out, err := executeCommand(t, "check-api", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `API check for "hrmanager" succeeded`)

	_, err = executeCommand(t, "check-api", "--config", path, "--source", "emply")
	require.Error(t, err, "emply has no settings")
}

func TestCheckAPICommand_Failure(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	sourceHTTPClient = server.Client()
	defer func() { sourceHTTPClient = nil }()

	path := writeSettings(t, t.TempDir(), "config.yml", server.URL)
	_, err := executeCommand(t, "check-api", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

func TestConfigureCommand(t *testing.T) {
	server := newVendorServer(t)
	dir := t.TempDir()
	current := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(current, []byte("source: emply\n"), 0o600))
	candidate := writeSettings(t, dir, "candidate.yml", server.URL)

	out, err := executeCommand(t, "configure", "--config", current, "--from", candidate)
	require.NoError(t, err)
	assert.Contains(t, out, `Settings for "hrmanager" are valid`)

	unchanged, err := os.ReadFile(current)
	require.NoError(t, err)
	assert.Equal(t, "source: emply\n", string(unchanged))

	out, err = executeCommand(t, "configure", "--config", current, "--from", candidate, "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved to")

	saved, err := config.Load(current)
	require.NoError(t, err)
	assert.Equal(t, "hrmanager", saved.Source)
	assert.Equal(t, "acme", saved.Sources.HRManager.APIName)
	_, err = os.Stat(current + ".bak")
	assert.NoError(t, err)
}

func TestConfigureCommand_RejectsInsecureDomain(t *testing.T) {
	dir := t.TempDir()
	candidate := writeSettings(t, dir, "candidate.yml", "http://api.hr-manager.net")

	_, err := executeCommand(t, "configure", "--config", filepath.Join(dir, "config.yml"), "--from", candidate)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "https"), err.Error())
}

func TestScheduledJobs(t *testing.T) {
	cfg = config.Default()
	cfg.Import.Enabled = true
	cfg.Archive.Enabled = false
	cfg.Cleanup.Enabled = true
	cfg.Cleanup.Interval = 12 * time.Hour

	jobs := scheduledJobs(nil, nil)
	require.Len(t, jobs, 2)
	assert.Equal(t, "import", jobs[0].Name)
	assert.Equal(t, config.DefaultImportInterval, jobs[0].Interval)
	assert.Equal(t, "cleanup", jobs[1].Name)
	assert.Equal(t, 12*time.Hour, jobs[1].Interval)

	cfg.Import.Enabled = false
	cfg.Cleanup.Enabled = false
	assert.Empty(t, scheduledJobs(nil, nil))
}

func TestImportMessage(t *testing.T) {
	res := &importer.Result{PluginID: "emply", Count: 3}
	assert.Equal(t, `3 vacancies imported/updated from "emply".`, importMessage(res))
}
