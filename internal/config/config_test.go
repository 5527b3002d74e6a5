/*
fixmessage — FIX message parsing and validation
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "warn", "")
	fs.String("colour", "auto", "")
	fs.Bool("obfuscate", false, "")
	fs.String("charset", "", "")
	fs.String("metrics-file", "", "")
	fs.Bool("strict", false, "")
	return fs
}

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, Config{LogLevel: "warn", Colour: "auto"}, cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, "fixmessage.yaml", "log_level: debug\nobfuscate: true\nmetrics_file: /tmp/fix.prom\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Obfuscate)
	assert.Equal(t, "/tmp/fix.prom", cfg.MetricsFile)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "fixmessage.toml", "log_level = \"debug\"\ncolour = \"no\"\n")
	t.Setenv("FIXMESSAGE_LOG_LEVEL", "ERROR")
	t.Setenv("FIXMESSAGE_STRICT", "true")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "no", cfg.Colour)
	assert.True(t, cfg.Strict)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("FIXMESSAGE_COLOUR", "no")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--colour=yes", "--charset=latin1"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "yes", cfg.Colour)
	assert.Equal(t, "latin1", cfg.Charset)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"log level", []string{"--log-level=loud"}, "LogLevel"},
		{"colour", []string{"--colour=sometimes"}, "Colour"},
		{"charset", []string{"--charset=klingon"}, "Charset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testFlags()
			require.NoError(t, fs.Parse(tt.args))

			_, err := Load("", fs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestCharsetValidation(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = newValidator() })

	type input struct {
		Charset string `validate:"charset"`
	}
	assert.NoError(t, v.Struct(input{Charset: "windows-1252"}))
	assert.Error(t, v.Struct(input{Charset: "klingon"}))
}
