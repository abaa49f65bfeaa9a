package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ecosense/internal/domain/advisor"
	"github.com/yanqian/ecosense/internal/domain/auth"
	"github.com/yanqian/ecosense/internal/domain/chat"
	"github.com/yanqian/ecosense/internal/domain/climate"
	"github.com/yanqian/ecosense/internal/domain/idea"
	"github.com/yanqian/ecosense/internal/domain/poll"
	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/weather"
	"github.com/yanqian/ecosense/internal/infra/chatrepo"
	"github.com/yanqian/ecosense/internal/infra/climatearchive"
	"github.com/yanqian/ecosense/internal/infra/config"
	"github.com/yanqian/ecosense/internal/infra/idearepo"
	"github.com/yanqian/ecosense/internal/infra/live"
	"github.com/yanqian/ecosense/internal/infra/llm/groq"
	"github.com/yanqian/ecosense/internal/infra/openmeteo"
	"github.com/yanqian/ecosense/internal/infra/pollrepo"
	"github.com/yanqian/ecosense/internal/infra/profilerepo"
	"github.com/yanqian/ecosense/internal/infra/tokenizer"
	"github.com/yanqian/ecosense/internal/infra/userrepo"
	"github.com/yanqian/ecosense/internal/infra/weathercache"
	httpiface "github.com/yanqian/ecosense/internal/interface/http"
	"github.com/yanqian/ecosense/pkg/util"
)

// hanoiOffset is used when the tz database is missing from the image.
const hanoiOffset = 7 * time.Hour

func provideLocation(cfg *config.Config) *time.Location {
	return util.LoadLocation(cfg.Location.Timezone, hanoiOffset)
}

func provideOpenMeteoClient(cfg *config.Config) *openmeteo.Client {
	return openmeteo.NewClient(openmeteo.Config{
		ForecastURL:   cfg.OpenMeteo.ForecastURL,
		AirQualityURL: cfg.OpenMeteo.AirQualityURL,
		ArchiveURL:    cfg.OpenMeteo.ArchiveURL,
		ClimateURL:    cfg.OpenMeteo.ClimateURL,
		FloodURL:      cfg.OpenMeteo.FloodURL,
		Latitude:      cfg.Location.Latitude,
		Longitude:     cfg.Location.Longitude,
		Timezone:      cfg.Location.Timezone,
		ForecastDays:  cfg.OpenMeteo.ForecastDays,
		Timeout:       cfg.OpenMeteo.Timeout,
	})
}

func provideWeatherConfig(cfg *config.Config, loc *time.Location) weather.Config {
	return weather.Config{
		Location:        loc,
		CacheTTL:        cfg.Cache.TTL,
		HistoryPastDays: cfg.OpenMeteo.HistoryPastDays,
	}
}

func provideWeatherCache(cfg *config.Config, logger *slog.Logger) weather.Cache {
	if cfg.Cache.TTL <= 0 {
		logger.Info("weather cache disabled")
		return nil
	}
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return weathercache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return weathercache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("weather valkey cache enabled", "addr", cfg.Cache.Valkey.Addr)
			return weathercache.NewValkeyStore(client, cfg.Cache.Valkey.Prefix)
		}
	}
	return weathercache.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideClimateConfig(cfg *config.Config) climate.Config {
	return climate.Config{FloodForecastDays: cfg.OpenMeteo.ForecastDays}
}

func provideClimateArchive(cfg *config.Config, logger *slog.Logger) climate.Archive {
	if !cfg.Archive.Enabled {
		return climatearchive.NewMemoryArchive()
	}
	archive, err := climatearchive.NewR2Archive(
		cfg.Archive.Endpoint,
		cfg.Archive.AccessKey,
		cfg.Archive.SecretKey,
		cfg.Archive.Bucket,
		cfg.Archive.Region,
		cfg.Archive.ClimateKey,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize climate archive, using memory archive", "error", err)
		return climatearchive.NewMemoryArchive()
	}
	logger.Info("climate r2 archive enabled", "bucket", cfg.Archive.Bucket)
	return archive
}

// providePostgresPool returns nil when no database is configured or reachable.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, noop
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, noop
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

func provideProfileRepository(pool *pgxpool.Pool) profile.Repository {
	if pool == nil {
		return profilerepo.NewMemoryRepository()
	}
	return profilerepo.NewPostgresRepository(pool)
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideChatRepository(pool *pgxpool.Pool) chat.Repository {
	if pool == nil {
		return chatrepo.NewMemoryRepository()
	}
	return chatrepo.NewPostgresRepository(pool)
}

func providePollRepository(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (poll.Repository, error) {
	var seed []poll.Poll
	if cfg.Polls.Seed {
		seed = poll.SeedPolls(util.NowUTC())
	}
	if pool == nil {
		return pollrepo.NewMemoryRepository(seed), nil
	}
	repo := pollrepo.NewPostgresRepository(pool)
	if len(seed) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Seed(ctx, seed); err != nil {
			return nil, err
		}
		logger.Info("poll seed applied")
	}
	return repo, nil
}

func provideIdeaRepository(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (idea.Repository, error) {
	var seed []idea.Idea
	if cfg.Polls.Seed {
		seed = idea.SeedIdeas()
	}
	if pool == nil {
		return idearepo.NewMemoryRepository(seed), nil
	}
	repo := idearepo.NewPostgresRepository(pool)
	if len(seed) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Seed(ctx, seed); err != nil {
			return nil, err
		}
		logger.Info("idea seed applied")
	}
	return repo, nil
}

func providePollConfig(cfg *config.Config) poll.Config {
	return poll.Config{DefaultDurationDays: cfg.Polls.DefaultDurationDays, LiveChannel: poll.DefaultLiveChannel}
}

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		SystemPrompt:    cfg.Chat.SystemPrompt,
		MaxPromptTokens: cfg.Chat.MaxPromptTokens,
		HistoryLimit:    cfg.Chat.HistoryLimit,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideGroqClient(cfg *config.Config, logger *slog.Logger) *groq.Client {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn("llm api key not set, chat replies will use the fallback message")
	}
	return groq.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, groq.Options{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) *tokenizer.Counter {
	return tokenizer.New(cfg.Chat.Encoding, logger)
}

func provideHub(cfg *config.Config, logger *slog.Logger) *live.Hub {
	return live.NewHub(httpiface.OriginChecker(cfg.HTTP.AllowedOrigins), logger)
}

func provideSnapshotSource(svc weather.Service) advisor.SnapshotSource {
	return svc
}

func provideAdvisorProfiles(svc profile.Service) advisor.ProfileSource {
	return svc
}

func provideChatProfiles(svc profile.Service) chat.ProfileSource {
	return svc
}
