package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/types"
)

func fastOptions() Options {
	return Options{PageDelay: time.Millisecond}
}

func httpSource(name, listingURL string) config.SourceConfig {
	return config.SourceConfig{
		Name:      name,
		Kind:      config.KindHTTP,
		URL:       listingURL,
		Enabled:   true,
		MaxPages:  5,
		Selectors: testSelectors(),
	}
}

func jobItem(title, href string) string {
	return fmt.Sprintf(`<li class="job"><h2 class="title">%s</h2><a class="link" href="%s">View</a></li>`, title, href)
}

func TestNew_ByKind(t *testing.T) {
	httpCol, err := New(httpSource("acme", "https://example.com/jobs"), Options{})
	require.NoError(t, err)
	assert.IsType(t, &HTTPCollector{}, httpCol)
	assert.Equal(t, "acme", httpCol.Name())

	src := httpSource("spa", "https://example.com/jobs")
	src.Kind = config.KindBrowser
	browserCol, err := New(src, Options{})
	require.NoError(t, err)
	assert.IsType(t, &BrowserCollector{}, browserCol)
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(config.SourceConfig{Name: "feed", Kind: "rss"}, Options{})
	require.Error(t, err)

	var colErr *Error
	assert.ErrorAs(t, err, &colErr)
	assert.Contains(t, err.Error(), "unknown source kind")
}

func TestHTTPCollector_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<ul>%s%s</ul>", jobItem("Backend Engineer", "/jobs/1"), jobItem("SRE", "/jobs/2"))
	}))
	defer server.Close()

	col, err := New(httpSource("acme", server.URL+"/jobs"), fastOptions())
	require.NoError(t, err)

	batch, err := col.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, batch.Complete)
	assert.Equal(t, 1, batch.PagesScraped)
	require.Len(t, batch.Records, 2)
	assert.Equal(t, "Backend Engineer", batch.Records[0].Field(types.FieldTitle))
	assert.Equal(t, server.URL+"/jobs/1", batch.Records[0].Field(types.FieldURL))
}

func TestHTTPCollector_FollowsPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<ul>%s</ul><a class="next" href="/jobs/page/2">Next</a>`, jobItem("A", "/j/1"))
	})
	mux.HandleFunc("/jobs/page/2", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<ul>%s%s</ul>", jobItem("B", "/j/2"), jobItem("C", "/j/3"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	col, err := New(httpSource("acme", server.URL+"/jobs"), fastOptions())
	require.NoError(t, err)

	batch, err := col.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, batch.Complete)
	assert.Equal(t, 2, batch.PagesScraped)
	require.Len(t, batch.Records, 3)
	assert.Equal(t, "C", batch.Records[2].Field(types.FieldTitle))
}

func TestHTTPCollector_StopsAtMaxPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("p"))
		fmt.Fprintf(w, `<ul>%s</ul><a class="next" href="/jobs?p=%d">Next</a>`,
			jobItem(fmt.Sprintf("Job %d", n), fmt.Sprintf("/j/%d", n)), n+1)
	}))
	defer server.Close()

	src := httpSource("acme", server.URL+"/jobs")
	src.MaxPages = 2

	col, err := New(src, fastOptions())
	require.NoError(t, err)

	batch, err := col.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, batch.Complete, "hitting the page cap still covers the configured window")
	assert.Equal(t, 2, batch.PagesScraped)
	assert.Len(t, batch.Records, 2)
}

func TestHTTPCollector_MidPaginationFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<ul>%s</ul><a class="next" href="/jobs/page/2">Next</a>`, jobItem("A", "/j/1"))
	})
	mux.HandleFunc("/jobs/page/2", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	col, err := New(httpSource("acme", server.URL+"/jobs"), fastOptions())
	require.NoError(t, err)

	batch, err := col.Collect(context.Background())
	require.Error(t, err)

	var colErr *Error
	assert.ErrorAs(t, err, &colErr)
	assert.Contains(t, err.Error(), "page 2")

	require.NotNil(t, batch, "earlier pages should survive a later page failing")
	assert.False(t, batch.Complete)
	assert.Len(t, batch.Records, 1)
}

func TestHTTPCollector_FirstPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	col, err := New(httpSource("acme", server.URL+"/jobs"), fastOptions())
	require.NoError(t, err)

	batch, err := col.Collect(context.Background())
	require.Error(t, err)
	assert.Nil(t, batch)
}

func TestHTTPCollector_AppliesSearchParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprintf(w, "<ul>%s</ul>", jobItem("SWE", "/j/1"))
	}))
	defer server.Close()

	src := httpSource("acme", server.URL+"/jobs")
	src.SearchParams = map[string]string{"team": "platform", "sort_by": "date"}

	col, err := New(src, fastOptions())
	require.NoError(t, err)

	_, err = col.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "platform", gotQuery.Get("team"))
	assert.Equal(t, "date", gotQuery.Get("sort_by"))
}

func TestHTTPCollector_FetchDetails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<ul>%s</ul>", jobItem("SWE", "/jobs/42"))
	})
	mux.HandleFunc("/jobs/42", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div class="job-description"><p>Full posting text with responsibilities.</p></div></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	src := httpSource("acme", server.URL+"/jobs")
	src.FetchDetails = true

	col, err := New(src, fastOptions())
	require.NoError(t, err)

	batch, err := col.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Contains(t, batch.Records[0].Field(types.FieldDescription), "Full posting text")
}

func TestHTTPCollector_DetailFailureKeepsListingValue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<ul><li class="job"><h2 class="title">SWE</h2><span class="desc">Short blurb</span><a class="link" href="/jobs/42">View</a></li></ul>`)
	})
	mux.HandleFunc("/jobs/42", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	src := httpSource("acme", server.URL+"/jobs")
	src.FetchDetails = true
	src.Selectors.Description = ".desc"

	col, err := New(src, fastOptions())
	require.NoError(t, err)

	batch, err := col.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "Short blurb", batch.Records[0].Field(types.FieldDescription))
}

func TestHTTPCollector_InterruptedBetweenPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("p"))
		fmt.Fprintf(w, `<ul>%s</ul><a class="next" href="/jobs?p=%d">Next</a>`,
			jobItem("Job", "/j/1"), n+1)
	}))
	defer server.Close()

	col, err := New(httpSource("acme", server.URL+"/jobs"), Options{PageDelay: 200 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	batch, err := col.Collect(ctx)
	require.Error(t, err)
	require.NotNil(t, batch)
	assert.False(t, batch.Complete)
	assert.Len(t, batch.Records, 1)
}
