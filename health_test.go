// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package outreach_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dairylink/outreach"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(outreach.Health("campaigns", "instance-1"))
	defer ts.Close()

	res, err := http.Get(ts.URL)
	require.Nil(t, err, "unexpected error performing request")
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/health+json", res.Header.Get("Content-Type"))

	var info outreach.HealthInfo
	require.Nil(t, json.NewDecoder(res.Body).Decode(&info))
	assert.Equal(t, outreach.HealthInfo{
		Status:      "pass",
		Version:     outreach.Version,
		Commit:      outreach.Commit,
		Description: "campaigns service",
		BuildTime:   outreach.BuildTime,
		InstanceID:  "instance-1",
	}, info)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	t.Setenv("OR_TEST_ENV_FILE_PRESET", "from-env")
	require.Nil(t, os.WriteFile(path, []byte("OR_TEST_ENV_FILE_KEY=from-file\nOR_TEST_ENV_FILE_PRESET=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("OR_TEST_ENV_FILE_KEY") })

	assert.Nil(t, outreach.LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("OR_TEST_ENV_FILE_KEY"))
	assert.Equal(t, "from-env", os.Getenv("OR_TEST_ENV_FILE_PRESET"))

	assert.Nil(t, outreach.LoadEnvFile(filepath.Join(dir, "missing.env")))
	assert.Nil(t, outreach.LoadEnvFile(""))
}
