package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestKVConfig_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		want    KVConfig
		wantErr bool
	}{
		{
			name: "valid/canonical case",
			config: `storageDir: ./tempTestDir3012705204
namespace: prefs
valueLogFileSize: 64MiB`,
			want: KVConfig{
				StorageDirPath:   "./tempTestDir3012705204",
				Namespace:        "prefs",
				ValueLogFileSize: 64 << 20,
			},
		},
		{
			name:   "only a storage dir",
			config: `storageDir: ./tempTestDir3012705204`,
			want: KVConfig{
				StorageDirPath: "./tempTestDir3012705204",
			},
		},
		{
			name:   "disabled",
			config: `disabled: true`,
			want: KVConfig{
				Disabled: true,
			},
		},
		{
			name: "value log size not a size",
			config: `storageDir: ./tempTestDir3012705204
valueLogFileSize: "lots"`,
			wantErr: true,
		},
		{
			name: "disabled not a boolean",
			config: `storageDir: ./tempTestDir3012705204
disabled: "sometimes"`,
			wantErr: true,
		},
		{
			name:    "not a JSON object",
			config:  `[]`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.NewBuffer([]byte(tt.config))
			dec := yaml.NewDecoder(buf)
			var c KVConfig
			err := dec.Decode(&c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestKVConfig_CheckAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		config  KVConfig
		want    KVConfig
		wantErr bool
	}{
		{
			name:   "namespace defaults",
			config: KVConfig{StorageDirPath: "data"},
			want:   KVConfig{StorageDirPath: "data", Namespace: DefaultNamespace},
		},
		{
			name:    "no storage path",
			config:  KVConfig{Namespace: "prefs"},
			wantErr: true,
		},
		{
			name:   "no storage path but disabled",
			config: KVConfig{Disabled: true},
			want:   KVConfig{Disabled: true, Namespace: DefaultNamespace},
		},
		{
			name:    "namespace with a slash",
			config:  KVConfig{StorageDirPath: "data", Namespace: "a/b"},
			wantErr: true,
		},
		{
			name:    "value log too small",
			config:  KVConfig{StorageDirPath: "data", ValueLogFileSize: 1024},
			wantErr: true,
		},
		{
			name:    "value log too big",
			config:  KVConfig{StorageDirPath: "data", ValueLogFileSize: 4 << 30},
			wantErr: true,
		},
		{
			name:   "value log in range",
			config: KVConfig{StorageDirPath: "data", Namespace: "n", ValueLogFileSize: 16 << 20},
			want:   KVConfig{StorageDirPath: "data", Namespace: "n", ValueLogFileSize: 16 << 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.CheckAndSetDefaults()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, KVConfig{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntries(t *testing.T) {
	s := NewFallbackStore()
	require.NoError(t, s.SetItem("b", "2"))
	require.NoError(t, s.SetItem("a", "1"))
	require.NoError(t, s.SetItem("c", "3"))

	es, err := Entries(s)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "b", Value: "2"},
		{Key: "a", Value: "1"},
		{Key: "c", Value: "3"},
	}, es)

	require.NoError(t, s.Clear())
	es, err = Entries(s)
	require.NoError(t, err)
	assert.Empty(t, es)
}
