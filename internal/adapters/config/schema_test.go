package config_test

import (
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCommandDTO_Fields(t *testing.T) {
	t.Parallel()

	env := map[string]string{"APP": "lyvio", "SETTINGS": "lyvio.settings.FIRST"}
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{"list", `[gunicorn, "--bind", "fd://3"]`, []string{"gunicorn", "--bind", "fd://3"}},
		{"string", `gunicorn --bind fd://3 $APP.wsgi`, []string{"gunicorn", "--bind", "fd://3", "lyvio.wsgi"}},
		{"quoted", `sh -c 'echo "a b"'`, []string{"sh", "-c", `echo "a b"`}},
		{"unknown variable kept", `echo $MISSING`, []string{"echo", "$MISSING"}},
		{"unknown beside known", `echo $MISSING $APP`, []string{"echo", "$MISSING", "lyvio"}},
		{"value not split on letters", `django-admin check --settings $SETTINGS`, []string{"django-admin", "check", "--settings", "lyvio.settings.FIRST"}},
		{"placeholder", `pip install --root {root}`, []string{"pip", "install", "--root", "{root}"}},
		{"empty", `""`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var cmd config.CommandDTO
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &cmd))

			got, err := cmd.Fields(env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandDTO_RejectsMapping(t *testing.T) {
	t.Parallel()

	var cmd config.CommandDTO
	require.Error(t, yaml.Unmarshal([]byte(`{a: b}`), &cmd))
}
