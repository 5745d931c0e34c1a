package bot

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramMedia_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("jpeg"))
		case "/huge":
			_, _ = w.Write(make([]byte, maxPhotoBytes+10))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewTelegramMedia(&fakeAPI{fileURL: srv.URL}, srv.Client())

	var buf bytes.Buffer
	require.NoError(t, m.Fetch(context.Background(), "ok", &buf))
	assert.Equal(t, "jpeg", buf.String())

	buf.Reset()
	assert.ErrorIs(t, m.Fetch(context.Background(), "huge", &buf), errPhotoTooLarge)

	assert.Error(t, m.Fetch(context.Background(), "missing", &buf))
}
