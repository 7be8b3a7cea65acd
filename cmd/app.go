package cmd

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/config"
	"github.com/nikogura/job-assistant/pkg/googleauth"
	"github.com/nikogura/job-assistant/pkg/index"
	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/research"
	"github.com/nikogura/job-assistant/pkg/resume"
	"github.com/nikogura/job-assistant/pkg/store"
)

// app holds what every command needs: configuration, the job store and, on demand, the model.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *store.Store
	gateway *llm.Gateway
	closers []func() error
}

func newApp() (a *app, err error) {
	var cfg config.Config
	cfg, err = config.Load(getEnvFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return a, err
	}

	err = cfg.EnsureDirectories()
	if err != nil {
		return a, err
	}

	var s *store.Store
	s, err = store.New(cfg.Storage.JobsDir)
	if err != nil {
		return a, err
	}

	a = &app{
		cfg:    cfg,
		logger: logger,
		store:  s,
	}

	return a, err
}

// close releases model and cache connections.
func (a *app) close() {
	for _, c := range a.closers {
		err := c()
		if err != nil {
			a.logger.Debug("close failed", "error", err)
		}
	}
}

// llm returns the configured model gateway, creating it on first use.
func (a *app) llm(ctx context.Context) (gateway *llm.Gateway, err error) {
	if a.gateway != nil {
		gateway = a.gateway
		return gateway, err
	}

	var completer llm.Completer
	switch a.cfg.Model.Provider {
	case config.ProviderVertex:
		var vertex *llm.VertexClient
		vertex, err = llm.NewVertexClient(ctx, a.cfg.Model.VertexProject, a.cfg.Model.VertexLocation, a.cfg.Model.VertexModel)
		if err != nil {
			return gateway, err
		}
		a.closers = append(a.closers, vertex.Close)
		completer = vertex
	default:
		completer = llm.NewOllamaClient(a.cfg.Model.OllamaBaseURL, a.cfg.Model.OllamaModel)
	}

	a.logger.Debug("using model", "provider", a.cfg.Model.Provider)

	a.gateway = llm.NewGateway(completer, a.logger)
	gateway = a.gateway

	return gateway, err
}

// resumeSource picks the local file when one is configured, else the Google Doc.
func (a *app) resumeSource() (fetcher resume.Fetcher, id string) {
	if a.cfg.Google.ResumeFile != "" {
		fetcher = resume.LocalFile{}
		id = a.cfg.Google.ResumeFile
		return fetcher, id
	}
	fetcher = &docsFetcher{cfg: a.cfg.Google}
	id = a.cfg.Google.ResumeDocID
	return fetcher, id
}

// profile returns the resume profile, parsing the document when forced or not yet cached.
func (a *app) profile(ctx context.Context, force bool) (profile resume.Profile, err error) {
	var gateway *llm.Gateway
	gateway, err = a.llm(ctx)
	if err != nil {
		return profile, err
	}

	fetcher, id := a.resumeSource()
	ingestor := resume.NewIngestor(fetcher, id, gateway, store.NewResumeCache(a.cfg.Storage.ResumeCacheFile), a.logger)

	profile, err = ingestor.Load(ctx, force)
	if err != nil {
		if errors.Is(err, resume.ErrNoDocument) {
			err = errors.Wrap(config.ErrMissing, "GOOGLE_DRIVE_RESUME_ID or RESUME_FILE")
		}
		return profile, err
	}

	return profile, err
}

// researcher builds the cached company researcher for the configured cache backend.
func (a *app) researcher(ctx context.Context) (looker *research.CachedResearcher, err error) {
	var gateway *llm.Gateway
	gateway, err = a.llm(ctx)
	if err != nil {
		return looker, err
	}

	rc := a.cfg.Research
	base := research.NewResearcher(
		research.NewDuckDuckGo(rc.FetchTimeout),
		research.NewHTTPFetcher(rc.FetchTimeout),
		gateway,
		rc.MaxURLs,
		a.logger,
	)

	var cache research.Cache
	switch {
	case rc.CacheTTL == 0:
		cache = research.NoCache{}
	case rc.RedisURL != "":
		var redisCache *research.RedisCache
		redisCache, err = research.NewRedisCache(rc.RedisURL, rc.CacheTTL)
		if err != nil {
			return looker, err
		}
		a.closers = append(a.closers, redisCache.Close)
		cache = redisCache
	default:
		cache, err = research.NewFileCache(rc.CacheDir, rc.CacheTTL)
		if err != nil {
			return looker, err
		}
	}

	looker = research.NewCachedResearcher(base, cache, a.logger)

	return looker, err
}

// rebuildIndex regenerates the secondary index from the store. Failures are only logged.
func (a *app) rebuildIndex() {
	count, err := a.reindex()
	if err != nil {
		a.logger.Warn("failed to rebuild index", "error", err)
		return
	}
	a.logger.Debug("rebuilt index", "entries", count)
}

func (a *app) reindex() (count int, err error) {
	var indexer *index.Indexer
	indexer, err = index.NewIndexer(a.cfg.Storage.IndexFile)
	if err != nil {
		return count, err
	}

	var all []jobs.Job
	all, err = a.store.List()
	if err != nil {
		return count, err
	}

	count, err = indexer.Rebuild(all)

	return count, err
}

// docsFetcher authorizes against Google Docs only when the resume actually has to be fetched.
type docsFetcher struct {
	cfg config.GoogleConfig
}

func (d *docsFetcher) FetchText(ctx context.Context, id string) (text string, err error) {
	client, err := googleauth.Client(ctx, d.cfg.CredentialsPath, d.cfg.DocsTokenPath, resume.DocsScope)
	if err != nil {
		err = errors.Wrap(err, "failed to authorize Google Docs")
		return text, err
	}

	var docs *resume.GoogleDocs
	docs, err = resume.NewGoogleDocs(ctx, client)
	if err != nil {
		return text, err
	}

	text, err = docs.FetchText(ctx, id)

	return text, err
}
