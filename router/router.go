package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/student-records/config"
	"github.com/yeremiapane/student-records/controllers"
	"github.com/yeremiapane/student-records/database"
	"github.com/yeremiapane/student-records/flash"
	"github.com/yeremiapane/student-records/middlewares"
	"github.com/yeremiapane/student-records/templates"
	"github.com/yeremiapane/student-records/utils"
)

// SetupRouter wires the middleware chain, templates and record routes. All
// state the handlers need is built here from cfg.
func SetupRouter(cfg *config.Config, log *logrus.Logger) (*gin.Engine, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).RateLimit())

	userCtrl := controllers.NewUserController(
		database.NewOpener(cfg.Database, log),
		flash.NewCodec(cfg.Session.SecretKey),
		log,
		cfg.PageSize,
	)

	r.GET("/", userCtrl.Index)
	r.POST("/add", userCtrl.AddUser)

	r.GET("/display", userCtrl.DisplayUsers)
	r.POST("/display", userCtrl.DisplayUsers)
	r.GET("/display/:page", userCtrl.DisplayUsers)
	r.POST("/display/:page", userCtrl.DisplayUsers)

	r.POST("/delete/:id", userCtrl.DeleteUser)
	r.DELETE("/delete/:id", userCtrl.DeleteUser)

	r.GET("/update/:id", userCtrl.EditUser)
	r.POST("/update/:id", userCtrl.UpdateUser)

	r.GET("/download", userCtrl.Download)
	r.GET("/healthz", userCtrl.Health)

	r.NoRoute(func(c *gin.Context) {
		utils.RespondErrorPage(c, http.StatusNotFound, "Page not found")
	})

	return r, nil
}
