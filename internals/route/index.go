package routes

import (
	"io"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	"dndbuilder_backend/internals/configs"
	database "dndbuilder_backend/internals/databases"
	backgroundRoute "dndbuilder_backend/internals/features/backgrounds/route"
	characterRoute "dndbuilder_backend/internals/features/characters/route"
	classRoute "dndbuilder_backend/internals/features/classes/route"
	raceRoute "dndbuilder_backend/internals/features/races/route"
	referenceRoute "dndbuilder_backend/internals/features/reference/route"
	authRoute "dndbuilder_backend/internals/features/users/auth/route"
	userRoute "dndbuilder_backend/internals/features/users/user/route"
	helper "dndbuilder_backend/internals/helpers"
	"dndbuilder_backend/internals/middlewares"
)

var startTime time.Time

// NewApp builds the fiber app with the global middleware chain and every
// route mounted. accessLog receives one line per request.
func NewApp(s *configs.Settings, db *gorm.DB, c cache.Cache, accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               s.AppName,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          middlewares.ErrorHandler,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	middlewares.SetupMiddlewares(app, s, accessLog)
	SetupRoutes(app, s, db, c)
	return app
}

func SetupRoutes(app *fiber.App, s *configs.Settings, db *gorm.DB, c cache.Cache) {
	startTime = time.Now()
	if c == nil {
		c = cache.Noop{}
	}
	v := helper.NewValidator()
	reg := database.NewRegistry()

	BaseRoutes(app, s, db)

	api := app.Group(s.APIV1Str)

	log.Println("[INFO] Mounting auth routes...")
	authRoute.AuthRoutes(api, db, v, s)
	userRoute.UserRoutes(api, db, v, reg, s.SecretKey)

	log.Println("[INFO] Mounting reference routes...")
	referenceRoute.ReferenceRoutes(api, db, v, c, reg)

	log.Println("[INFO] Mounting race routes...")
	raceRoute.RaceRoutes(api, db, v, c, reg)

	log.Println("[INFO] Mounting class routes...")
	classRoute.ClassRoutes(api, db, v, c, reg)

	log.Println("[INFO] Mounting background routes...")
	backgroundRoute.BackgroundRoutes(api, db, v, c, reg)

	log.Println("[INFO] Mounting character routes...")
	characterRoute.CharacterRoutes(api, db, v, reg, s.SecretKey)
}
