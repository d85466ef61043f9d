package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
source: emply
language: da
timezone: Europe/Copenhagen
http:
  timeout: 10s
import:
  enabled: true
  interval: 1h
archive:
  enabled: true
  interval: 15m
  minutes: 30
cleanup:
  enabled: false
sources:
  emply:
    api_domain: https://company.emply.com
    media_id: "abc-123"
    api_key: secret
    insert_jobid_in_facts: true
    fact_ids:
      work_area: 11111111-aaaa
      work_time: 22222222-bbbb
  hrmanager:
    api_name: acme
    query_parameters:
      take: "10"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ParsesFileAndAppliesDefaults(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "emply", cfg.Source)
	assert.Equal(t, "Europe/Copenhagen", cfg.Timezone)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.True(t, cfg.Import.Enabled)
	assert.Equal(t, time.Hour, cfg.Import.Interval)
	assert.Equal(t, 30, cfg.Archive.Minutes)
	assert.Equal(t, DefaultCleanupInterval, cfg.Cleanup.Interval)

	assert.Equal(t, "https://company.emply.com", cfg.Sources.Emply.APIDomain)
	assert.Equal(t, DefaultEmplyAPIPath, cfg.Sources.Emply.APIPath)
	assert.True(t, cfg.Sources.Emply.InsertJobIDInFacts)
	assert.Equal(t, "11111111-aaaa", cfg.Sources.Emply.FactIDs.WorkArea)
	assert.Equal(t, DefaultHRManagerDomain, cfg.Sources.HRManager.APIDomain)
	assert.Equal(t, map[string]string{"take": "10"}, cfg.Sources.HRManager.QueryParameters)

	require.NoError(t, cfg.Validate())
}

func TestParse_ArchiveMinutes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"absent key takes default", "source: emply\n", DefaultArchiveMinutes},
		{"archive block without minutes", "archive:\n  enabled: true\n", DefaultArchiveMinutes},
		{"explicit zero is kept", "archive:\n  minutes: 0\n", 0},
		{"explicit value", "archive:\n  minutes: 45\n", 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Archive.Minutes)
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestSaveAtomic_KeepsZeroArchiveMinutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := Default()
	cfg.Archive.Minutes = 0
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Archive.Minutes)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "source: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VACANCY_IMPORTER_SOURCE", "hrmanager")
	t.Setenv("DATABASE_URL", "postgres://localhost/vacancies")
	t.Setenv("EMPLY_API_KEY", "from-env")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "hrmanager", cfg.Source)
	assert.Equal(t, "postgres://localhost/vacancies", cfg.DatabaseURL)
	assert.Equal(t, "from-env", cfg.Sources.Emply.APIKey)
}

func TestResolvePath(t *testing.T) {
	t.Setenv("VACANCY_IMPORTER_CONFIG", "")
	assert.Equal(t, DefaultPath, ResolvePath(""))
	assert.Equal(t, "a.yml", ResolvePath("a.yml"))

	t.Setenv("VACANCY_IMPORTER_CONFIG", "/etc/vacancy.yml")
	assert.Equal(t, "/etc/vacancy.yml", ResolvePath(""))
	assert.Equal(t, "a.yml", ResolvePath("a.yml"))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultLanguage, cfg.Language)
	assert.Equal(t, DefaultTimezone, cfg.Timezone)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTP.Timeout)
	assert.Equal(t, DefaultImportInterval, cfg.Import.Interval)
	assert.Equal(t, DefaultArchiveInterval, cfg.Archive.Interval)
	assert.Equal(t, DefaultArchiveMinutes, cfg.Archive.Minutes)
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestValidate_Global(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Mars/Olympus"
	cfg.Import.Interval = 10 * time.Second
	cfg.Archive.Minutes = -1
	cfg.Language = "x"

	err := cfg.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"timezone", "import.interval", "archive.minutes", "language"}, fields)
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		wantErr string
	}{
		{"valid", "https://company.emply.com", ""},
		{"trailing slash", "https://company.emply.com/", ""},
		{"http rejected", "http://company.emply.com", "https"},
		{"path rejected", "https://company.emply.com/v1", "path"},
		{"query rejected", "https://company.emply.com?x=1", "path"},
		{"no host", "https://", "host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoint(tt.domain)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmplyConfig_Validate(t *testing.T) {
	valid := EmplyConfig{APIDomain: "https://a.emply.com", APIPath: DefaultEmplyAPIPath, MediaID: "m", APIKey: "k"}
	require.NoError(t, valid.Validate())

	missing := EmplyConfig{APIDomain: "http://a.emply.com/x"}
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sources.emply.media_id")
	assert.Contains(t, err.Error(), "sources.emply.api_key")
	assert.Contains(t, err.Error(), "sources.emply.api_domain")
}

func TestHRManagerConfig_Validate(t *testing.T) {
	valid := HRManagerConfig{APIDomain: DefaultHRManagerDomain, APIName: "acme"}
	require.NoError(t, valid.Validate())

	err := HRManagerConfig{APIDomain: DefaultHRManagerDomain, APIName: "a/b"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_name")

	err = HRManagerConfig{APIDomain: DefaultHRManagerDomain}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sources.hrmanager.api_name")
}

func TestSaveAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Source, loaded.Source)
	assert.Equal(t, cfg.Sources.Emply, loaded.Sources.Emply)
	assert.Equal(t, time.Hour, loaded.Import.Interval)

	cfg.Source = "hrmanager"
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)

	bad := Default()
	bad.Timezone = "Nowhere/Land"
	require.Error(t, SaveAtomic(path, bad))
}
