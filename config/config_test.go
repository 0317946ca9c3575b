package config

import (
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/policy"
	"os"
	"path/filepath"
	"testing"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	v.Reset()

	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, `
[security]
jwt_secret = "abc"
`)

	require.NoError(t, Load(p))

	require.Equal(t, "info", v.GetString("app.log_level"))
	require.Equal(t, 8080, v.GetInt("host.port"))
	require.Equal(t, int64(50<<20), v.GetInt64("upload.max_size"))
	require.Equal(t, "local", v.GetString("storage.type"))
	require.Same(t, policy.Adult, Variant())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeConfig(t, `
[app]
variant = "adult"
`)
	t.Setenv("APP_VARIANT", "youth")
	t.Setenv("HOST_PORT", "9000")

	require.NoError(t, Load(p))

	require.Same(t, policy.Youth, Variant())
	require.Equal(t, 9000, v.GetInt("host.port"))
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"log level":     "[app]\nlog_level = \"loud\"",
		"variant":       "[app]\nvariant = \"kids\"",
		"storage type":  "[storage]\ntype = \"ftp\"",
		"s3 creds":      "[storage]\ntype = \"s3\"",
		"db driver":     "[db]\ndriver = \"mysql\"",
		"upload size":   "[upload]\nmax_size = 0",
		"redis addr":    "[cache]\ntype = \"redis\"",
		"ssl cert":      "[host.ssl]\nenabled = true",
		"turnstile key": "[turnstile]\nenabled = true",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, Load(writeConfig(t, body)))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	v.Reset()

	err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorContains(t, err, "is missing")
}

func TestBuckets(t *testing.T) {
	p := writeConfig(t, `
[storage.buckets]
"adult-private" = "prod-adult"
`)
	require.NoError(t, Load(p))

	require.Equal(t, map[model.Bucket]string{
		model.BucketProfilePublic: "profile-public",
		model.BucketAdultPrivate:  "prod-adult",
		model.BucketChatTemp:      "chat-temp",
	}, Buckets(policy.Adult))

	require.Equal(t, map[model.Bucket]string{
		model.BucketProfilePublic: "profile-public",
		model.BucketChatTemp:      "chat-temp",
	}, Buckets(policy.Youth))
}
