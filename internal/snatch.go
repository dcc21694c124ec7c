package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/Snatch/internal/api"
	"github.com/hbomb79/Snatch/internal/download"
	"github.com/hbomb79/Snatch/internal/extractor"
	"github.com/hbomb79/Snatch/internal/http/websocket"
	"github.com/hbomb79/Snatch/internal/prompt"
	"github.com/hbomb79/Snatch/internal/record"
	"github.com/hbomb79/Snatch/internal/style"
	"github.com/hbomb79/Snatch/internal/trim"
	"github.com/hbomb79/Snatch/internal/workspace"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}
)

// snatchImpl is the top-level object for the server, responsible for
// constructing the stores, services, and REST gateway, and for running
// them until stopped.
type snatchImpl struct {
	config      SnatchConfig
	restGateway RunnableService
}

func New(config SnatchConfig) *snatchImpl {
	log.Emit(logger.DEBUG, "Bootstrapping Snatch services using config: %#v\n", config)

	socket := websocket.New()
	broadcaster := api.NewBroadcaster(socket)

	downloadService := download.NewService(
		workspace.NewManager(config.Download.WorkspaceRoot),
		extractor.New(config.Extractor),
		trim.New(config.Trimmer),
		broadcaster,
	)

	styleService := style.NewService(
		record.NewFlatStore[style.Style](config.Store.stylesDirPath()),
		config.Store.imagesDirPath(),
	)
	promptService := prompt.NewService(
		record.NewFlatStore[prompt.Prompt](config.Store.promptsDirPath()),
	)

	restGateway := api.NewRestGateway(
		&config.Rest,
		socket,
		downloadService,
		styleService,
		promptService,
		config.Extractor.CookiePath,
	)

	return &snatchImpl{config: config, restGateway: restGateway}
}

// Run will start Snatch by bringing up all required services. This
// function will not return until Snatch is stopped; to stop it, the
// provided context must be cancelled. Errors from which a service
// cannot recover will also cause Snatch to stop.
func (snatch *snatchImpl) Run(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel()
	}

	wg := &sync.WaitGroup{}
	snatch.spawnAsyncService(ctx, wg, snatch.restGateway, "rest-gateway", crashHandler)
	log.Emit(logger.SUCCESS, "Snatch services spawned!\n")

	wg.Wait()
	return nil
}

// spawnAsyncService will run the provided service as its own
// go-routine, ensuring that the service waitgroup is updated correctly
func (snatch *snatchImpl) spawnAsyncService(context context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		defer wg.Done()
		if err := service.Run(context); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
