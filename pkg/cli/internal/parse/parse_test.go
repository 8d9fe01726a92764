package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValue(t *testing.T) {
	tests := []struct {
		in         string
		delims     []rune
		key, value string
		ok         bool
	}{
		{in: "Content-Type:text/plain", key: "Content-Type", value: "text/plain", ok: true},
		{in: "a=b", delims: []rune{'='}, key: "a", value: "b", ok: true},
		{in: "a=b:c", delims: []rune{':', '='}, key: "a", value: "b:c", ok: true},
		{in: "novalue"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, v, ok := KeyValue(tt.in, tt.delims...)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, k)
			assert.Equal(t, tt.value, v)
		})
	}
}

func TestMapping(t *testing.T) {
	tests := []struct {
		in                     string
		prefix, target, option string
		wantErr                bool
	}{
		{in: "/=public", prefix: "/", target: "public"},
		{in: "/site=./www:index.html", prefix: "/site", target: "./www", option: "index.html"},
		{in: "/api/todos=data/todos.json:$.meta.id", prefix: "/api/todos", target: "data/todos.json", option: "$.meta.id"},
		{in: " /x = dir ", prefix: "/x", target: "dir"},
		{in: "public", wantErr: true},
		{in: "site=public", wantErr: true},
		{in: "/site=", wantErr: true},
		{in: "/site=:index.html", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			prefix, target, option, err := Mapping(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.target, target)
			assert.Equal(t, tt.option, option)
		})
	}
}
