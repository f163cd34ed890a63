package dotenv

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeEnvDefaultsToDev(t *testing.T) {
	os.Unsetenv("LIKES_ENV")
	assert.Equal(t, DevEnv, RuntimeEnv())

	os.Setenv("LIKES_ENV", ProdEnv)
	defer os.Unsetenv("LIKES_ENV")
	assert.Equal(t, ProdEnv, RuntimeEnv())
}

func TestLoadDotEnvsPrecedence(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	os.Unsetenv("LIKES_ENV")
	os.Unsetenv("LIKES_DOTENV_SENTINEL")
	defer os.Unsetenv("LIKES_DOTENV_SENTINEL")

	// The env-scoped local file must win over the shared .env.
	require.NoError(t, ioutil.WriteFile(dir+".env.dev.local", []byte("LIKES_DOTENV_SENTINEL=local\n"), 0644))
	require.NoError(t, ioutil.WriteFile(dir+".env", []byte("LIKES_DOTENV_SENTINEL=shared\n"), 0644))

	loadDotEnvs(dir)
	assert.Equal(t, "local", os.Getenv("LIKES_DOTENV_SENTINEL"))
}
