package research

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/store"
)

const resultsPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com/click">Sponsored</a>
</div>
<div class="result results_links">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.com%2Fabout&amp;rut=abc">About Acme</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://acme.com/careers">Careers at Acme</a>
</div>
<div class="result results_links">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.com%2Fabout&amp;rut=def">About Acme again</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://blog.acme.com/eng">Engineering blog</a>
</div>
</body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.FormValue("q") != "Acme company culture technology stack" {
			t.Errorf("Unexpected query '%s'", r.FormValue("q"))
		}
		if r.Header.Get("User-Agent") != BrowserUserAgent {
			t.Errorf("Expected browser user agent, got '%s'", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	searcher := NewDuckDuckGo(time.Second)
	searcher.Endpoint = server.URL

	results, err := searcher.Search(context.Background(), Query("Acme"), 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	if results[0].URL != "https://acme.com/about" || results[0].Title != "About Acme" {
		t.Errorf("Unexpected first result %+v", results[0])
	}

	if results[1].URL != "https://acme.com/careers" {
		t.Errorf("Unexpected second result %+v", results[1])
	}
}

func TestDuckDuckGoSearchDedups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	searcher := NewDuckDuckGo(time.Second)
	searcher.Endpoint = server.URL

	results, err := searcher.Search(context.Background(), "acme", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("Expected ads and duplicates dropped leaving 3, got %d", len(results))
	}
}

func TestDuckDuckGoSearchStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	searcher := NewDuckDuckGo(time.Second)
	searcher.Endpoint = server.URL

	_, err := searcher.Search(context.Background(), "acme", 5)
	if err == nil {
		t.Error("Expected error for non-200 status, got nil")
	}
}

func TestUnwrapRedirect(t *testing.T) {
	tests := map[string]string{
		"//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.com%2Fjobs%3Fid%3D1": "https://acme.com/jobs?id=1",
		"https://acme.com/":  "https://acme.com/",
		"/relative/path":     "",
		"javascript:void(0)": "",
	}

	for href, expected := range tests {
		if got := UnwrapRedirect(href); got != expected {
			t.Errorf("UnwrapRedirect(%q) = %q, want %q", href, got, expected)
		}
	}
}

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != BrowserUserAgent {
			t.Errorf("Expected browser user agent, got '%s'", r.Header.Get("User-Agent"))
		}
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("<html><head><title>t</title></head><body><script>x()</script><h1>Acme</h1><p>We build   rockets.</p></body></html>"))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(time.Second)

	text, err := fetcher.Fetch(context.Background(), server.URL+"/ok")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if text != "Acme We build rockets." {
		t.Errorf("Unexpected text '%s'", text)
	}

	_, err = fetcher.Fetch(context.Background(), server.URL+"/blocked")
	if err == nil {
		t.Error("Expected error for 403, got nil")
	}
}

type fakeSearcher struct {
	results []SearchResult
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) (results []SearchResult, err error) {
	f.queries = append(f.queries, query)
	results = f.results
	err = f.err
	return results, err
}

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (text string, err error) {
	text, ok := f.pages[url]
	if !ok {
		err = errors.New("connection refused")
	}
	return text, err
}

type countingGateway struct {
	result  llm.Result
	calls   int
	prompts []string
}

func (c *countingGateway) ParseStructured(ctx context.Context, prompt string) (result llm.Result) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	result = c.result
	return result
}

func acmeSearcher() (s *fakeSearcher) {
	s = &fakeSearcher{results: []SearchResult{
		{URL: "https://acme.com/about", Title: "About"},
		{URL: "https://acme.com/down", Title: "Down"},
		{URL: "https://acme.com/blog", Title: "Blog"},
	}}
	return s
}

func acmeFetcher() (f *fakeFetcher) {
	f = &fakeFetcher{pages: map[string]string{
		"https://acme.com/about": "Acme builds rockets. " + strings.Repeat("x", 3000),
		"https://acme.com/blog":  "We use Go and Kubernetes.",
	}}
	return f
}

func TestResearch(t *testing.T) {
	gateway := &countingGateway{result: llm.Result{
		"summary":     "Acme builds rockets.",
		"tech_stack":  []any{"Go", "Kubernetes"},
		"values":      []any{"Curiosity"},
		"recent_news": []any{"a", "b", "c", "d"},
		"culture":     "",
	}}

	researcher := NewResearcher(acmeSearcher(), acmeFetcher(), gateway, 5, nil)
	profile := researcher.Research(context.Background(), "Acme")

	if profile.Company != "Acme" {
		t.Errorf("Expected company backfilled, got '%s'", profile.Company)
	}

	if len(profile.TechStack) != 2 || len(profile.Values) != 1 {
		t.Errorf("Unexpected lists %+v", profile)
	}

	if len(profile.RecentNews) != MaxRecentNews {
		t.Errorf("Expected news capped at %d, got %d", MaxRecentNews, len(profile.RecentNews))
	}

	if profile.Culture != jobs.Unknown || profile.Size != jobs.Unknown {
		t.Errorf("Expected Unknown scalars, got '%s', '%s'", profile.Culture, profile.Size)
	}

	if len(profile.Sources) != 2 || profile.Sources[0] != "https://acme.com/about" || profile.Sources[1] != "https://acme.com/blog" {
		t.Errorf("Expected fetched urls as sources, got %v", profile.Sources)
	}

	if !profile.Complete() {
		t.Error("Expected complete profile")
	}

	if strings.Contains(gateway.prompts[0], strings.Repeat("x", llm.PageContentLimit)) {
		t.Error("Expected page content to be truncated")
	}
}

func TestResearchNoPages(t *testing.T) {
	gateway := &countingGateway{result: llm.Result{}}
	searcher := &fakeSearcher{err: errors.New("rate limited")}

	profile := NewResearcher(searcher, acmeFetcher(), gateway, 5, nil).Research(context.Background(), "Acme")

	if gateway.calls != 0 {
		t.Errorf("Expected no model call, got %d", gateway.calls)
	}

	if profile.Summary != NoInformation {
		t.Errorf("Expected '%s', got '%s'", NoInformation, profile.Summary)
	}

	if profile.Culture != jobs.Unknown || len(profile.TechStack) != 0 || len(profile.Sources) != 0 {
		t.Errorf("Unexpected degraded profile %+v", profile)
	}

	if profile.Complete() {
		t.Error("Expected degraded profile to be incomplete")
	}
}

func TestResearchModelFailure(t *testing.T) {
	gateway := &countingGateway{result: llm.Result{"error": "timeout", "raw_response": ""}}

	profile := NewResearcher(acmeSearcher(), acmeFetcher(), gateway, 5, nil).Research(context.Background(), "Acme")

	if profile.Summary != "Research failed: timeout" {
		t.Errorf("Unexpected summary '%s'", profile.Summary)
	}

	if profile.Error != "timeout" {
		t.Errorf("Expected error 'timeout', got '%s'", profile.Error)
	}

	if len(profile.Sources) != 2 {
		t.Errorf("Expected attempted sources kept, got %v", profile.Sources)
	}

	if profile.FundingStage != jobs.Unknown {
		t.Errorf("Expected Unknown funding stage, got '%s'", profile.FundingStage)
	}
}

func TestResearchMaxURLs(t *testing.T) {
	gateway := &countingGateway{result: llm.Result{}}
	profile := NewResearcher(acmeSearcher(), acmeFetcher(), gateway, 1, nil).Research(context.Background(), "Acme")

	if len(profile.Sources) != 1 {
		t.Errorf("Expected 1 source, got %v", profile.Sources)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Acme Corp":         "acme-corp",
		"  Initech, Inc.  ": "initech-inc",
		"AT&T":              "at-t",
		"Zürich Systems":    "zürich-systems",
		"---":               "",
	}

	for in, expected := range tests {
		if got := Slug(in); got != expected {
			t.Errorf("Slug(%q) = %q, want %q", in, got, expected)
		}
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	cache, err := NewFileCache(filepath.Join(t.TempDir(), "research"), time.Hour)
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	_, found, err := cache.Get(ctx, "Acme Corp")
	if err != nil || found {
		t.Fatalf("Expected empty cache, got found=%v err=%v", found, err)
	}

	profile := jobs.CompanyProfile{Company: "Acme Corporation", Summary: "Rockets", Sources: []string{"https://acme.com"}, FetchedAt: now}
	err = cache.Put(ctx, "Acme Corp", profile)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := cache.Get(ctx, "acme corp")
	if err != nil || !found {
		t.Fatalf("Expected cached profile, got found=%v err=%v", found, err)
	}

	if got.Summary != "Rockets" {
		t.Errorf("Expected 'Rockets', got '%s'", got.Summary)
	}

	cache.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, found, _ = cache.Get(ctx, "Acme Corp")
	if found {
		t.Error("Expected expired profile to be ignored")
	}
}

func TestFileCachePutReplacesTruncatedFile(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "research")
	cache, err := NewFileCache(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}

	err = os.WriteFile(cache.path("Acme"), []byte(`{"company": "Ac`), 0600)
	if err != nil {
		t.Fatalf("Failed to write truncated file: %v", err)
	}

	_, _, err = cache.Get(ctx, "Acme")
	if err == nil {
		t.Fatal("Expected an error for a truncated cache file")
	}

	profile := jobs.CompanyProfile{Company: "Acme", Summary: "Rockets", Sources: []string{"https://acme.com"}, FetchedAt: time.Now()}
	err = cache.Put(ctx, "Acme", profile)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := cache.Get(ctx, "Acme")
	if err != nil || !found || got.Summary != "Rockets" {
		t.Errorf("Expected cached 'Rockets', got found=%v err=%v summary='%s'", found, err, got.Summary)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	if len(entries) != 1 || entries[0].Name() != "acme.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only acme.json left in the cache dir, got %v", names)
	}

	info, err := os.Stat(cache.path("Acme"))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

type memoryCache struct {
	profiles map[string]jobs.CompanyProfile
	puts     int
}

func (m *memoryCache) Get(ctx context.Context, company string) (profile jobs.CompanyProfile, found bool, err error) {
	profile, found = m.profiles[Slug(company)]
	return profile, found, err
}

func (m *memoryCache) Put(ctx context.Context, company string, profile jobs.CompanyProfile) (err error) {
	m.puts++
	m.profiles[Slug(company)] = profile
	return err
}

type stubProfiler struct {
	profile jobs.CompanyProfile
	calls   int
}

func (s *stubProfiler) Research(ctx context.Context, company string) (profile jobs.CompanyProfile) {
	s.calls++
	profile = s.profile
	profile.Company = company
	return profile
}

func TestCachedResearcher(t *testing.T) {
	ctx := context.Background()
	cache := &memoryCache{profiles: map[string]jobs.CompanyProfile{}}
	profiler := &stubProfiler{profile: jobs.CompanyProfile{Summary: "fresh", Sources: []string{"https://acme.com"}}}

	cached := NewCachedResearcher(profiler, cache, nil)

	cached.Lookup(ctx, "Acme", false)
	cached.Lookup(ctx, "Acme", false)

	if profiler.calls != 1 {
		t.Errorf("Expected second lookup served from cache, got %d calls", profiler.calls)
	}

	cached.Lookup(ctx, "Acme", true)
	if profiler.calls != 2 {
		t.Errorf("Expected refresh to bypass cache, got %d calls", profiler.calls)
	}
}

func TestCachedResearcherSkipsIncomplete(t *testing.T) {
	ctx := context.Background()
	cache := &memoryCache{profiles: map[string]jobs.CompanyProfile{}}

	for _, p := range []jobs.CompanyProfile{
		{Summary: NoInformation},
		{Summary: "Research failed: x", Error: "x", Sources: []string{"https://acme.com"}},
	} {
		NewCachedResearcher(&stubProfiler{profile: p}, cache, nil).Lookup(ctx, "Acme", false)
	}

	if cache.puts != 0 {
		t.Errorf("Expected incomplete profiles not cached, got %d puts", cache.puts)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache("not a url", time.Hour)
	if err == nil {
		t.Error("Expected error for invalid redis url, got nil")
	}

	cache, err := NewRedisCache("redis://localhost:6379/2", 0)
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	defer cache.Close()

	if cache.ttl != DefaultTTL {
		t.Errorf("Expected default ttl, got %v", cache.ttl)
	}

	if cache.key("Acme Corp") != DefaultKeyPrefix+"acme-corp" {
		t.Errorf("Unexpected key '%s'", cache.key("Acme Corp"))
	}
}

func TestBatchRun(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "jobs"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	seed := []struct {
		title, company string
		score          int
	}{
		{"Backend", "Acme", 90},
		{"Frontend", "acme", 75},
		{"Infra", "Initech", 80},
		{"Mystery", "Unknown", 95},
		{"Blank", "", 85},
		{"Low", "Globex", 40},
	}
	for _, sd := range seed {
		job := jobs.Job{Title: sd.title, Company: sd.company}
		job.SetScore(sd.score)
		job.ID = job.ComputeID()
		_, err = s.Save(&job)
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	profiler := &stubProfiler{profile: jobs.CompanyProfile{Summary: "ok", Sources: []string{"https://x"}}}
	looker := NewCachedResearcher(profiler, &memoryCache{profiles: map[string]jobs.CompanyProfile{}}, nil)

	report, err := NewBatch(looker, s, true, nil).Run(context.Background(), 70)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if profiler.calls != 2 {
		t.Errorf("Expected each distinct company researched once, got %d", profiler.calls)
	}

	if report.Jobs != 3 || report.Companies != 2 || report.Skipped != 2 {
		t.Errorf("Unexpected report %+v", report)
	}

	all, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	for _, job := range all {
		hasResearch := job.CompanyResearch != nil
		switch job.Title {
		case "Backend", "Frontend", "Infra":
			if !hasResearch {
				t.Errorf("Expected research attached to %s", job.Title)
			}
		default:
			if hasResearch {
				t.Errorf("Expected no research on %s", job.Title)
			}
		}
	}
}
