//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/pkg/config"
	"StockPulse/pkg/server"

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

		// Repositories (with business logic)
		ProvideSignalStore,
		ProvideSignalPublisher,

		// Market data, news and scoring services
		ProvideMarketDataProvider,
		ProvideNewsProvider,
		ProvideProfileProvider,
		ProvideSentimentAnalyzer,
		ProvideSignalGenerator,
		ProvideCache,
		ProvideAlertQueue,

		// Use cases
		ProvideSignalService,
		ProvideSignalBoard,
		ProvideMarketData,
		ProvideSignalProcessor,
		ProvideSignalRefresher,
		ProvideKafkaSignalsHandler,

		// Transport
		ProvideDashboardHandler,
		ProvideHub,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
