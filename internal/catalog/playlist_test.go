package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStreamURL_DirectURLPassesThrough(t *testing.T) {
	got, err := ResolveStreamURL("Tuner/test", "http://ice1.somafm.com/groovesalad-128-mp3")
	require.NoError(t, err)
	assert.Equal(t, "http://ice1.somafm.com/groovesalad-128-mp3", got)
}

func TestResolveStreamURL_Playlist(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		statusCode int
		wantURL    string
		wantErr    bool
	}{
		{
			name: "valid pls file",
			content: `[playlist]
NumberOfEntries=1
File1=http://ice1.somafm.com/groovesalad-128-mp3
Title1=Groove Salad: A nicely chilled plate of ambient/downtempo beats and grooves.
Length1=-1
Version=2`,
			statusCode: http.StatusOK,
			wantURL:    "http://ice1.somafm.com/groovesalad-128-mp3",
		},
		{
			name: "multiple entries returns first",
			content: `[playlist]
NumberOfEntries=3
File1=http://ice1.somafm.com/groovesalad-128-mp3
Title1=Groove Salad
File2=http://ice2.somafm.com/groovesalad-128-mp3
Title2=Groove Salad (backup)
Version=2`,
			statusCode: http.StatusOK,
			wantURL:    "http://ice1.somafm.com/groovesalad-128-mp3",
		},
		{
			name:       "empty file",
			content:    "",
			statusCode: http.StatusOK,
			wantErr:    true,
		},
		{
			name: "no File1 entry",
			content: `[playlist]
NumberOfEntries=0
Version=2`,
			statusCode: http.StatusOK,
			wantErr:    true,
		},
		{
			name:       "server error",
			content:    "",
			statusCode: http.StatusNotFound,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.content))
			}))
			defer server.Close()

			got, err := ResolveStreamURL("Tuner/test", server.URL+"/stream.pls")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, got)
		})
	}
}
