package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set_Valid(t *testing.T) {
	tests := []struct {
		input    string
		wantHost string
		wantPort int
	}{
		{"localhost:8080", "localhost", 8080},
		{"127.0.0.1:9000", "127.0.0.1", 9000},
		{":443", "", 443},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var addr NetAddress
			if tt.wantHost == "" {
				// ":443" has an empty host, which fails IP validation
				err := addr.Set(tt.input)
				assert.Error(t, err)
				return
			}

			require.NoError(t, addr.Set(tt.input))
			assert.Equal(t, tt.wantHost, addr.Host)
			assert.Equal(t, tt.wantPort, addr.Port)
		})
	}
}

func TestNetAddress_Set_Invalid(t *testing.T) {
	tests := []string{
		"no-port",
		"host:port:extra",
		"localhost:abc",
		"localhost:0",
		"not-an-ip:8080",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			var addr NetAddress
			assert.Error(t, addr.Set(input))
		})
	}
}

func TestNetAddress_String(t *testing.T) {
	assert.Equal(t, "", (&NetAddress{}).String())
	assert.Equal(t, "localhost:8080", (&NetAddress{Host: "localhost", Port: 8080}).String())
}
