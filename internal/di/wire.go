//go:build wireinject
// +build wireinject

package di

import (
	"FundPulse/pkg/config"
	"FundPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideAlertPublisher,

		// Repositories
		ProvideNavStore,

		// Use cases
		ProvideAnalysisUseCase,
		ProvideIngestUseCase,
		ProvideSeeder,

		// Transport
		ProvideSimulator,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
