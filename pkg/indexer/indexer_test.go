package indexer

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "ipfs uri", in: hex.EncodeToString([]byte("ipfs://QmHash/1.json")), want: "ipfs://QmHash/1.json"},
		{name: "0x prefix", in: "0x" + hex.EncodeToString([]byte("ipfs://x")), want: "ipfs://x"},
		{name: "empty", in: "", want: ""},
		{name: "odd length", in: "abc", wantErr: true},
		{name: "not hex", in: "zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBytes(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RequestURI()
		// Out of order, one id as a JSON number.
		fmt.Fprintf(w, `[
			{"token_id":"3","token_info":{"":"%s"}},
			{"token_id":1,"token_info":{"":"%s"}},
			{"token_id":"2","token_info":{"":"%s"}}
		]`,
			hex.EncodeToString([]byte("ipfs://c")),
			hex.EncodeToString([]byte("ipfs://a")),
			hex.EncodeToString([]byte("ipfs://b")))
	}))
	defer srv.Close()

	l := NewLoader(fetcher.NewFetcher(5*time.Second), srv.URL+"/", "KT1abc", 10000)
	entries, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.CatalogEntry{
		{TokenID: 1, MetadataURI: "ipfs://a"},
		{TokenID: 2, MetadataURI: "ipfs://b"},
		{TokenID: 3, MetadataURI: "ipfs://c"},
	}, entries)
	assert.Equal(t, "/contracts/KT1abc/bigmaps/token_metadata/keys?active=true&limit=10000&select=value", gotQuery)
}

func TestParseRecords_Errors(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		_, err := parseRecords([]record{
			{TokenID: 1, TokenInfo: map[string]string{"": "61"}},
			{TokenID: 1, TokenInfo: map[string]string{"": "62"}},
		})
		assert.ErrorIs(t, err, ErrDuplicateToken)
	})

	t.Run("missing locator", func(t *testing.T) {
		_, err := parseRecords([]record{{TokenID: 1, TokenInfo: map[string]string{}}})
		assert.Error(t, err)
	})
}

func TestLoad_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewLoader(fetcher.NewFetcher(time.Second), srv.URL, "KT1abc", 10).Load(context.Background())
	assert.ErrorIs(t, err, fetcher.ErrBadStatus)
}
