package naver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/news.json", r.URL.Path)
		assert.Equal(t, "id", r.Header.Get("X-Naver-Client-Id"))
		assert.Equal(t, "secret", r.Header.Get("X-Naver-Client-Secret"))
		assert.Equal(t, "주식", r.URL.Query().Get("query"))
		assert.Equal(t, "date", r.URL.Query().Get("sort"))

		w.Write([]byte(`{"total":2,"items":[
			{"title":"<b>삼성전자</b> 수출 &quot;호조&quot;","link":"https://news.example/1","description":"반도체 <b>수출</b> 증가","pubDate":"Mon, 02 Jun 2025 09:30:00 +0900"},
			{"title":"","link":"https://news.example/2","description":"untitled","pubDate":"bad date"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("id", "secret", WithBaseURL(srv.URL))
	items, err := c.FetchNews(context.Background(), "주식", 10)
	require.NoError(t, err)

	// The untitled item is dropped.
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, `삼성전자 수출 "호조"`, item.Title)
	assert.Equal(t, "반도체 수출 증가", item.Body)
	assert.Equal(t, "https://news.example/1", item.URL)
	assert.Equal(t, "naver", item.Source)
	assert.NotEmpty(t, item.ID)

	want := time.Date(2025, 6, 2, 0, 30, 0, 0, time.UTC)
	assert.True(t, item.PublishedAt.Equal(want), "got %v", item.PublishedAt)
}

func TestFetchNewsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errorMessage":"bad credentials"}`))
	}))
	defer srv.Close()

	c := NewClient("id", "secret", WithBaseURL(srv.URL))
	_, err := c.FetchNews(context.Background(), "주식", 10)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestParsePubDateFallback(t *testing.T) {
	fallback := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fallback, parsePubDate("not a date", fallback))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "A & B", cleanText(" <b>A</b> &amp; B "))
}
