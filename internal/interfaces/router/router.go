package router

import (
	"time"

	distsvc "seedtrace-backend/internal/application/distributions"
	lotsvc "seedtrace-backend/internal/application/lots"
	multsvc "seedtrace-backend/internal/application/multipliers"
	parcelsvc "seedtrace-backend/internal/application/parcels"
	prodsvc "seedtrace-backend/internal/application/productions"
	qcsvc "seedtrace-backend/internal/application/qualitycontrols"
	varsvc "seedtrace-backend/internal/application/varieties"
	"seedtrace-backend/internal/config"
	"seedtrace-backend/internal/infrastructure/database"
	disthandler "seedtrace-backend/internal/interfaces/handlers/distributions"
	healthhandler "seedtrace-backend/internal/interfaces/handlers/health"
	lothandler "seedtrace-backend/internal/interfaces/handlers/lots"
	multhandler "seedtrace-backend/internal/interfaces/handlers/multipliers"
	parcelhandler "seedtrace-backend/internal/interfaces/handlers/parcels"
	prodhandler "seedtrace-backend/internal/interfaces/handlers/productions"
	qchandler "seedtrace-backend/internal/interfaces/handlers/qualitycontrols"
	varhandler "seedtrace-backend/internal/interfaces/handlers/varieties"
	"seedtrace-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with global middleware and all route groups.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.NewErrorHandler(rdb),
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	if rdb != nil {
		app.Use(middleware.HealthMarker(rdb))
	}
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	if db != nil {
		registerRoutes(app, db, rdb, cfg)
	}

	return app, db, rdb, nil
}

func registerRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	lotsService := &lotsvc.Service{
		DB:        db,
		Rdb:       rdb,
		CacheTTL:  time.Duration(cfg.GenealogyCacheTTL) * time.Second,
		QRBaseURL: cfg.QRBaseURL,
	}
	lotsHandlers := &lothandler.Handlers{Service: lotsService}
	lotsGroup := app.Group("/api/v1/lots")
	lotsGroup.Post("/", lotsHandlers.CreateLot)
	lotsGroup.Get("/", lotsHandlers.ListLots)
	lotsGroup.Get("/stats", lotsHandlers.GetStats)
	lotsGroup.Get("/:id", lotsHandlers.GetLot)
	lotsGroup.Put("/:id", lotsHandlers.UpdateLot)
	lotsGroup.Delete("/:id", lotsHandlers.DeleteLot)
	lotsGroup.Get("/:id/genealogy", lotsHandlers.GetGenealogy)
	lotsGroup.Get("/:id/qr", lotsHandlers.GetQR)

	varietiesService := &varsvc.Service{DB: db}
	varietiesHandlers := &varhandler.Handlers{Service: varietiesService}
	varietiesGroup := app.Group("/api/v1/varieties")
	varietiesGroup.Post("/", varietiesHandlers.CreateVariety)
	varietiesGroup.Get("/", varietiesHandlers.ListVarieties)
	varietiesGroup.Get("/:id", varietiesHandlers.GetVariety)
	varietiesGroup.Put("/:id", varietiesHandlers.UpdateVariety)
	varietiesGroup.Delete("/:id", varietiesHandlers.DeleteVariety)

	multipliersService := &multsvc.Service{DB: db}
	multipliersHandlers := &multhandler.Handlers{Service: multipliersService}
	multipliersGroup := app.Group("/api/v1/multipliers")
	multipliersGroup.Post("/", multipliersHandlers.CreateMultiplier)
	multipliersGroup.Get("/", multipliersHandlers.ListMultipliers)
	multipliersGroup.Get("/:id", multipliersHandlers.GetMultiplier)
	multipliersGroup.Put("/:id", multipliersHandlers.UpdateMultiplier)
	multipliersGroup.Delete("/:id", multipliersHandlers.DeleteMultiplier)
	multipliersGroup.Get("/:id/lots", multipliersHandlers.ListDistributedLots)

	parcelsService := &parcelsvc.Service{DB: db}
	parcelsHandlers := &parcelhandler.Handlers{Service: parcelsService}
	parcelsGroup := app.Group("/api/v1/parcels")
	parcelsGroup.Post("/", parcelsHandlers.CreateParcel)
	parcelsGroup.Get("/", parcelsHandlers.ListParcels)
	parcelsGroup.Get("/:id", parcelsHandlers.GetParcel)
	parcelsGroup.Put("/:id", parcelsHandlers.UpdateParcel)
	parcelsGroup.Delete("/:id", parcelsHandlers.DeleteParcel)

	productionsService := &prodsvc.Service{DB: db}
	productionsHandlers := &prodhandler.Handlers{Service: productionsService}
	productionsGroup := app.Group("/api/v1/productions")
	productionsGroup.Post("/", productionsHandlers.CreateProduction)
	productionsGroup.Get("/", productionsHandlers.ListProductions)
	productionsGroup.Get("/:id", productionsHandlers.GetProduction)
	productionsGroup.Put("/:id", productionsHandlers.UpdateProduction)
	productionsGroup.Post("/:id/harvest", productionsHandlers.Harvest)

	distributionsService := &distsvc.Service{DB: db}
	distributionsHandlers := &disthandler.Handlers{Service: distributionsService}
	distributionsGroup := app.Group("/api/v1/distributions")
	distributionsGroup.Post("/", distributionsHandlers.Distribute)
	distributionsGroup.Get("/", distributionsHandlers.ListDistributions)

	qcService := &qcsvc.Service{DB: db}
	qcHandlers := &qchandler.Handlers{Service: qcService}
	qcGroup := app.Group("/api/v1/quality-controls")
	qcGroup.Post("/", qcHandlers.CreateControl)
	qcGroup.Get("/", qcHandlers.ListControls)
	qcGroup.Get("/:id", qcHandlers.GetControl)
}
