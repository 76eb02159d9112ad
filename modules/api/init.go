package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/facebookgo/inject"
	"github.com/gin-gonic/gin"
	"github.com/olebedev/config"
	"github.com/op/go-logging"
	"github.com/tryanzu/tribunal/modules/api/controller"
)

var log = logging.MustGetLogger("api")

type Module struct {
	Dependencies ModuleDI
	Middlewares  MiddlewareAPI
}

type ModuleDI struct {
	Config *config.Config `inject:""`
}

// Router builds the moderation API.
func (module *Module) Router() *gin.Engine {
	debug := module.Dependencies.Config.UString("environment", "development") == "development"
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())

	// Middlewares setup
	router.Use(module.Middlewares.ErrorTracking(debug))
	router.Use(module.Middlewares.CORS())

	v1 := router.Group("/v1")
	v1.Use(module.Middlewares.Authorization())

	authorized := v1.Group("")
	authorized.Use(module.Middlewares.NeedAuthorization())

	// Reasons routes
	authorized.GET("/reasons/report", controller.ReportReasons)
	authorized.GET("/reasons/ban", controller.BanReasons)
	authorized.GET("/reasons/appeal", controller.AppealTypes)

	// Report routes
	authorized.POST("/reports", controller.NewReport)
	authorized.GET("/reports/:type/:id", controller.TargetReports)

	// Moderation routes
	authorized.POST("/moderation/actions", controller.NewAction)
	authorized.GET("/moderation/actions/:id", controller.Action)

	// Ban routes
	authorized.POST("/communities/:community/bans", controller.NewBan)
	authorized.GET("/communities/:community/bans", controller.MemberBans)
	authorized.GET("/communities/:community/bans/:id", controller.Ban)
	authorized.DELETE("/communities/:community/bans/:id", controller.LiftBan)

	// Appeal routes
	authorized.POST("/moderation/appeals", controller.NewAppeal)
	authorized.GET("/moderation/appeals", controller.MyAppeals)
	authorized.GET("/moderation/appeals/:id", controller.Appeal)
	authorized.POST("/moderation/appeals/:id/claim", controller.ClaimAppeal)
	authorized.PATCH("/moderation/appeals/:id/review", controller.ReviewAppeal)
	authorized.POST("/moderation/appeals/:id/escalate", controller.EscalateAppeal)
	authorized.POST("/moderation/appeals/:id/apply", controller.ApplyAppeal)

	return router
}

func (module *Module) Run(bindTo string) {
	srv := &http.Server{
		Addr:    bindTo,
		Handler: module.Router(),
	}

	// Start the http server as an isolated goroutine.
	go func() {
		log.Infof("listening on %s", bindTo)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	log.Info("Server exiting")
}

func (module *Module) Populate(g *inject.Graph) {
	err := g.Provide(
		&inject.Object{Value: &module.Dependencies},
		&inject.Object{Value: &module.Middlewares},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Populate the DI with the instances
	if err := g.Populate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
