//go:build wireinject
// +build wireinject

package di

import (
	"TradeCoin/pkg/config"
	"TradeCoin/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Logging and metrics
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisCache,

		// Repositories (with business logic)
		ProvideSignalStorage,
		ProvideSignalPublisher,
		ProvideUsageCounter,
		ProvideSignalFeed,

		// Use cases
		ProvideSignalProcessor,
		ProvideNotifier,
		ProvideSignalCollector,
		ProvideKafkaSignalsHandler,
		ProvideSignalsFeedUseCase,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
