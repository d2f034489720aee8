// @title                       Dental Ops API
// @version                     1.0
// @description                 Contratos, órdenes de compra directa, reportes de falla e inventario de la red de centros.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"

	appanalytics "github.com/jhoicas/dental-ops-api/internal/application/analytics"
	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/application/inventory"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/excel"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/lock"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/dental-ops-api/internal/infrastructure/pdf"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/postgres"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/printing"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/dental-ops-api/internal/interfaces/http"
	"github.com/jhoicas/dental-ops-api/internal/observability"
	"github.com/jhoicas/dental-ops-api/pkg/config"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

// stores repositorios de un backend (PostgreSQL o memoria).
type stores struct {
	facilities  repository.FacilityRepository
	contracts   repository.ContractRepository
	orders      repository.OrderRepository
	reports     repository.ReportRepository
	items       repository.InventoryItemRepository
	withdrawals repository.WithdrawalRepository
	tx          inventory.TxRunner
	analytics   repository.AnalyticsRepository
	blobs       ports.AttachmentStore // solo memoria; con PostgreSQL los adjuntos van a S3
	close       func()
}

func openPostgres(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*stores, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &stores{
		facilities:  postgres.NewFacilityRepository(pool),
		contracts:   postgres.NewContractRepository(pool),
		orders:      postgres.NewOrderRepository(pool),
		reports:     postgres.NewReportRepository(pool),
		items:       postgres.NewInventoryItemRepository(pool),
		withdrawals: postgres.NewWithdrawalRepository(pool),
		tx:          postgres.NewTxRunner(pool),
		analytics:   postgres.NewAnalyticsRepository(pool),
		close:       pool.Close,
	}, nil
}

func openMemory() *stores {
	contracts := memory.NewContractRepository()
	orders := memory.NewOrderRepository()
	reports := memory.NewReportRepository()
	inv := memory.NewInventory()
	return &stores{
		facilities:  memory.NewFacilityRepository(),
		contracts:   contracts,
		orders:      orders,
		reports:     reports,
		items:       inv.Items,
		withdrawals: inv.Withdrawals,
		tx:          inv.Tx,
		analytics:   memory.NewAnalyticsRepository(contracts, orders, reports, inv.Items),
		blobs:       memory.NewBlobStore(),
		close:       func() {},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st *stores
	if cfg.DB.InMemory() {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		st = openMemory()
	} else {
		st, err = openPostgres(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
	}
	defer st.close()

	// Bloqueo de envíos duplicados: Redis si está configurado, si no en memoria (una sola instancia).
	var guard ports.InFlightGuard = lock.NewMemoryGuard()
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		guard = lock.NewRedisGuard(rdb, time.Duration(cfg.Redis.LockTTL)*time.Second, log)
	}

	// Adjuntos: S3 si hay bucket; en modo memoria, almacenamiento del proceso; si no, deshabilitados.
	var blobs ports.AttachmentStore
	switch {
	case cfg.Storage.Enabled():
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket de adjuntos")
		}
		blobs = s3Store
	case st.blobs != nil:
		blobs = st.blobs
	default:
		log.Warn().Msg("S3_BUCKET vacío: adjuntos deshabilitados")
	}

	metrics := observability.NewMetrics()
	pageSize := cfg.Export.PageSize

	facilityUC := usecase.NewFacilityUseCase(st.facilities, metrics)
	contractUC := usecase.NewContractUseCase(st.contracts, guard, metrics, log, pageSize)
	orderUC := usecase.NewOrderUseCase(st.orders, guard, metrics, log, pageSize)
	reportUC := usecase.NewReportUseCase(st.reports, guard, metrics, log, pageSize)
	inventoryUC := inventory.NewUseCase(st.tx, st.items, guard, metrics, log, pageSize)
	withdrawalUC := inventory.NewWithdrawalUseCase(st.tx, st.items, st.withdrawals, guard, metrics, log)
	dashboardUC := appanalytics.NewDashboardUseCase(st.analytics)
	attachmentUC := usecase.NewAttachmentUseCase(blobs, map[workflow.Kind]usecase.AttachmentTarget{
		workflow.KindContract: usecase.TargetOf[*entity.Contract](st.contracts),
		workflow.KindOrder:    usecase.TargetOf[*entity.DirectPurchaseOrder](st.orders),
		workflow.KindReport:   usecase.TargetOf[*entity.Report](st.reports),
	}, guard, metrics, log,
		int64(cfg.Storage.MaxUploadMB)<<20,
		time.Duration(cfg.Storage.PresignMinutes)*time.Minute,
	)

	// Exportaciones: PDF (maroto), Excel (excelize), HTML imprimible y CSV.
	pdfRenderer, err := infrapdf.NewTableRenderer(cfg.Export)
	if err != nil {
		log.Fatal().Err(err).Str("font", cfg.Export.PDFFontPath).Msg("fuente del PDF")
	}
	htmlRenderer, err := printing.NewHTMLRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("plantilla HTML")
	}
	exports := export.NewService(metrics, log,
		pdfRenderer, excel.NewXLSXRenderer(), htmlRenderer, printing.CSVRenderer{},
	)
	tables := export.NewBuilder(language.Make(cfg.Export.Locale))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    (cfg.Storage.MaxUploadMB + 1) << 20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init -g cmd/api/main.go)
	const swaggerFile = "./docs/swagger.json"
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Dental Ops API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		FacilityUC:   facilityUC,
		ContractUC:   contractUC,
		OrderUC:      orderUC,
		ReportUC:     reportUC,
		InventoryUC:  inventoryUC,
		WithdrawalUC: withdrawalUC,
		AttachmentUC: attachmentUC,
		DashboardUC:  dashboardUC,
		Exports:      exports,
		Tables:       tables,
		Metrics:      metrics,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
