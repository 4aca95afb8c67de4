package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"hr-agent-backend/config"
	apiv1 "hr-agent-backend/controllers/v1"
	_ "hr-agent-backend/docs"
	"hr-agent-backend/fiberlog"
	"hr-agent-backend/initializers"
	"hr-agent-backend/middleware"
	apimodels "hr-agent-backend/models/api"
)

// @title HR Agent API
// @version 1.0
// @description Natural-language HR assistant with recruiting, interview, onboarding and document workflows.
// @BasePath /
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx, true)

	app := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.UploadLimitMB * 1024 * 1024,
	})
	app.Use(fiberRecover.New(fiberRecover.Config{EnableStackTrace: true}))

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(apimodels.NewMessage("HR Agent API is running", fiber.Map{"time": time.Now().Format(time.RFC3339)}))
	})

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	if config.Conf.App.ErrNotifyURL != "" {
		apiV1.Use(middleware.ErrNotify("hr-agent-backend", config.Conf.App.ErrNotifyURL))
	}
	apiV1.Use(middleware.WithBodyLimit(config.Conf.App.BodyLimitMB*1024*1024, "resume-screening/upload"))
	apiV1.Use(middleware.AuthorizationRequired(config.Conf.Auth.JWTSecret))

	apiv1.InitAskApiRouters(apiV1)
	apiv1.InitAskWsRouters(apiV1)
	apiv1.InitEmployeeApiRouters(apiV1)
	apiv1.InitJobApiRouters(apiV1)
	apiv1.InitInterviewApiRouters(apiV1)
	apiv1.InitOnboardingApiRouters(apiV1)
	apiv1.InitDocumentsApiRouters(apiV1)
	apiv1.InitAgentsApiRouters(apiV1)
	apiv1.InitAnalyticsApiRouters(apiV1)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-c:
		case <-ctx.Done():
			return
		}
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		cancel()
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
