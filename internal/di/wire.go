//go:build wireinject
// +build wireinject

package di

import (
	"SmallCapLab/pkg/config"
	"SmallCapLab/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideClickHouseClient,
		ProvideResponseCache,

		// Quote sources and use cases
		ProvideQuoteSources,
		ProvideScreener,
		ProvideConfidenceProvider,
		ProvideSignalUseCase,

		// Transport and application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
