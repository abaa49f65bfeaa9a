//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/ecosense/internal/bootstrap"
	"github.com/yanqian/ecosense/internal/domain/advisor"
	"github.com/yanqian/ecosense/internal/domain/auth"
	"github.com/yanqian/ecosense/internal/domain/chat"
	"github.com/yanqian/ecosense/internal/domain/climate"
	"github.com/yanqian/ecosense/internal/domain/idea"
	"github.com/yanqian/ecosense/internal/domain/poll"
	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/sustainability"
	"github.com/yanqian/ecosense/internal/domain/weather"
	"github.com/yanqian/ecosense/internal/infra/config"
	"github.com/yanqian/ecosense/internal/infra/live"
	"github.com/yanqian/ecosense/internal/infra/llm/groq"
	"github.com/yanqian/ecosense/internal/infra/openmeteo"
	"github.com/yanqian/ecosense/internal/infra/tokenizer"
	httpiface "github.com/yanqian/ecosense/internal/interface/http"
	"github.com/yanqian/ecosense/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideLocation,
		provideOpenMeteoClient,
		provideWeatherConfig,
		provideWeatherCache,
		provideClimateConfig,
		provideClimateArchive,
		providePostgresPool,
		provideProfileRepository,
		provideUserRepository,
		provideChatRepository,
		providePollRepository,
		provideIdeaRepository,
		providePollConfig,
		provideChatConfig,
		provideAuthConfig,
		provideGroqClient,
		provideTokenCounter,
		provideHub,
		provideSnapshotSource,
		provideAdvisorProfiles,
		provideChatProfiles,
		weather.NewService,
		climate.NewService,
		profile.NewService,
		advisor.NewService,
		poll.NewService,
		idea.NewService,
		sustainability.NewService,
		chat.NewService,
		auth.NewService,
		wire.Bind(new(weather.Source), new(*openmeteo.Client)),
		wire.Bind(new(climate.Source), new(*openmeteo.Client)),
		wire.Bind(new(poll.Publisher), new(*live.Hub)),
		wire.Bind(new(chat.Completer), new(*groq.Client)),
		wire.Bind(new(chat.TokenCounter), new(*tokenizer.Counter)),
		wire.Struct(new(httpiface.Services), "*"),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
