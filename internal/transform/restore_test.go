package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestore(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "epoch seconds",
			body: `{"id":"x","created":1577836800,"title":"hello"}`,
			want: `{"id":"x","created":"2020-01-01T00:00:00.000Z","title":"hello"}`,
		},
		{
			name: "already a string",
			body: `{"created":"2020-01-01"}`,
			want: `{"created":"2020-01-01"}`,
		},
		{
			name: "no created",
			body: `{"id":"x"}`,
			want: `{"id":"x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Restore([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRestore_InvertsTransform(t *testing.T) {
	line := []byte(`{"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6","created":"2020-01-01T02:00:00+02:00"}`)

	doc, err := New(nil).Transform(line)
	require.NoError(t, err)

	restored, err := Restore(doc.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6","created":"2020-01-01T00:00:00.000Z"}`, string(restored))
}
