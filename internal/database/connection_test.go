package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionURL(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantErr     bool
		wantAppName string
		wantBinary  string
	}{
		{"adds defaults", "postgres://console:pw@db:5432/audit?sslmode=disable", false, applicationName, "yes"},
		{"keeps explicit options", "postgresql://db/audit?application_name=probe&binary_parameters=no", false, "probe", "no"},
		{"empty", "  ", true, "", ""},
		{"not a postgres url", "mysql://db/audit", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := connectionURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			u, err := url.Parse(dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAppName, u.Query().Get("application_name"))
			assert.Equal(t, tt.wantBinary, u.Query().Get("binary_parameters"))
		})
	}

	dsn, err := connectionURL("postgres://db/audit?sslmode=require")
	require.NoError(t, err)
	u, _ := url.Parse(dsn)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}
