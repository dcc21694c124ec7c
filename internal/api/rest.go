package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Snatch/internal/api/downloads"
	"github.com/hbomb79/Snatch/internal/api/prompts"
	"github.com/hbomb79/Snatch/internal/api/styles"
	"github.com/hbomb79/Snatch/internal/http/websocket"
	"github.com/hbomb79/Snatch/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var log = logger.Get("API")

type (
	RestConfig struct {
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8080"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// The RestGateway is a thin wrapper around the Echo HTTP router.
	// Its sole responsibility is to create the routes Snatch exposes,
	// manage ongoing websocket connections, and translate errors in to
	// the service's error contract.
	RestGateway struct {
		config             *RestConfig
		ec                 *echo.Echo
		socket             *websocket.SocketHub
		downloadController controller
		styleController    controller
		promptController   controller
	}
)

// NewRestGateway constructs the Echo router and populates it with all
// the routes defined by the various controllers. Each controller is
// handed the service it fronts.
func NewRestGateway(
	config *RestConfig,
	socket *websocket.SocketHub,
	downloadService downloads.DownloadService,
	styleService styles.Service,
	promptService prompts.Service,
	cookiePath string,
) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true
	ec.HTTPErrorHandler = HTTPErrorHandler

	validate := validator.New()
	gateway := &RestGateway{
		config:             config,
		ec:                 ec,
		socket:             socket,
		downloadController: downloads.New(validate, downloadService, cookiePath),
		styleController:    styles.New(validate, styleService),
		promptController:   prompts.New(validate, promptService),
	}

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	ec.Pre(middleware.AddTrailingSlash())

	ec.GET("/health/", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	ec.GET("/activity/ws/", func(ec echo.Context) error {
		gateway.socket.UpgradeToSocket(ec.Response(), ec.Request())
		return nil
	})

	gateway.downloadController.SetRoutes(ec.Group(""))
	gateway.styleController.SetRoutes(ec.Group("/styles"))
	gateway.promptController.SetRoutes(ec.Group("/prompts"))

	return gateway
}

// HTTPErrorHandler renders every request failure using the service's
// error contract: a JSON object carrying a single 'detail' message.
func HTTPErrorHandler(err error, ec echo.Context) {
	code := http.StatusInternalServerError
	detail := err.Error()

	var httpError *echo.HTTPError
	if errors.As(err, &httpError) {
		code = httpError.Code
		detail = fmt.Sprintf("%v", httpError.Message)
	}

	if ec.Response().Committed {
		return
	}

	if err := ec.JSON(code, map[string]string{"detail": detail}); err != nil {
		log.Emit(logger.ERROR, "Failed to render error response: %v\n", err)
	}
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil {
			ctxCancel(err)
		}
	}()

	// Start thread to listen for context cancellation
	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	// Start websocket
	wg.Add(1)
	go func() {
		defer wg.Done()
		gateway.socket.Start(ctx)
	}()

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}
