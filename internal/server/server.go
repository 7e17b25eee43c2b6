package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/decora/internal/backup"
	backupdomain "github.com/smallbiznis/decora/internal/backup/domain"
	"github.com/smallbiznis/decora/internal/blobstore"
	"github.com/smallbiznis/decora/internal/canvas"
	canvasdomain "github.com/smallbiznis/decora/internal/canvas/domain"
	"github.com/smallbiznis/decora/internal/catalog"
	catalogdomain "github.com/smallbiznis/decora/internal/catalog/domain"
	"github.com/smallbiznis/decora/internal/client"
	clientdomain "github.com/smallbiznis/decora/internal/client/domain"
	"github.com/smallbiznis/decora/internal/config"
	"github.com/smallbiznis/decora/internal/ledger"
	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
	"github.com/smallbiznis/decora/internal/note"
	notedomain "github.com/smallbiznis/decora/internal/note/domain"
	obstracing "github.com/smallbiznis/decora/internal/observability/tracing"
	"github.com/smallbiznis/decora/internal/quotation"
	quotationdomain "github.com/smallbiznis/decora/internal/quotation/domain"
	"github.com/smallbiznis/decora/internal/savedreport"
	reportdomain "github.com/smallbiznis/decora/internal/savedreport/domain"
	"github.com/smallbiznis/decora/internal/settings"
	settingsdomain "github.com/smallbiznis/decora/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	catalog.Module,
	canvas.Module,
	ledger.Module,
	quotation.Module,
	client.Module,
	note.Module,
	savedreport.Module,
	settings.Module,
	backup.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	log    *zap.Logger
	blobs  *blobstore.Store

	catalogSvc   catalogdomain.Service
	canvasSvc    canvasdomain.Service
	ledgerSvc    ledgerdomain.Service
	quotationSvc quotationdomain.Service
	backupSvc    backupdomain.Service
	clients      clientdomain.Repository
	notes        notedomain.Repository
	reports      reportdomain.Repository
	settings     settingsdomain.Repository
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	Blobs *blobstore.Store

	CatalogSvc   catalogdomain.Service
	CanvasSvc    canvasdomain.Service
	LedgerSvc    ledgerdomain.Service
	QuotationSvc quotationdomain.Service
	BackupSvc    backupdomain.Service
	Clients      clientdomain.Repository
	Notes        notedomain.Repository
	Reports      reportdomain.Repository
	Settings     settingsdomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("http"),
		blobs:        p.Blobs,
		catalogSvc:   p.CatalogSvc,
		canvasSvc:    p.CanvasSvc,
		ledgerSvc:    p.LedgerSvc,
		quotationSvc: p.QuotationSvc,
		backupSvc:    p.BackupSvc,
		clients:      p.Clients,
		notes:        p.Notes,
		reports:      p.Reports,
		settings:     p.Settings,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Sections --------
	api.GET("/sections", s.ListSections)
	api.POST("/sections", s.CreateSection)
	api.GET("/sections/:id", s.GetSection)
	api.PATCH("/sections/:id", s.UpdateSection)
	api.DELETE("/sections/:id", s.DeleteSection)
	api.GET("/sections/:id/products", s.ListSectionProducts)

	// -------- Products --------
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProduct)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	// -------- Canvases --------
	api.GET("/canvases", s.ListCanvases)
	api.POST("/canvases", s.SaveCanvas)
	api.GET("/canvases/:id", s.GetCanvas)
	api.DELETE("/canvases/:id", s.DeleteCanvas)

	// -------- Transactions --------
	api.GET("/transactions", s.ListTransactions)
	api.POST("/transactions", s.CreateTransaction)
	api.GET("/transactions/:id", s.GetTransaction)
	api.PATCH("/transactions/:id", s.UpdateTransaction)
	api.DELETE("/transactions/:id", s.DeleteTransaction)
	api.GET("/reports/summary", s.GetSummary)

	// -------- Expenses --------
	api.GET("/expenses", s.ListExpenses)
	api.POST("/expenses", s.CreateExpense)
	api.DELETE("/expenses/:id", s.DeleteExpense)

	// -------- Quotations --------
	api.GET("/quotations", s.ListQuotations)
	api.POST("/quotations", s.CreateQuotation)
	api.GET("/quotations/:id", s.GetQuotation)
	api.PATCH("/quotations/:id", s.UpdateQuotation)
	api.DELETE("/quotations/:id", s.DeleteQuotation)
	api.POST("/quotations/:id/convert", s.ConvertQuotation)

	// -------- Clients / Notes / Saved reports --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	api.GET("/notes", s.ListNotes)
	api.POST("/notes", s.CreateNote)
	api.PATCH("/notes/:id", s.UpdateNote)
	api.DELETE("/notes/:id", s.DeleteNote)

	api.GET("/saved-reports", s.ListSavedReports)
	api.POST("/saved-reports", s.CreateSavedReport)
	api.DELETE("/saved-reports/:id", s.DeleteSavedReport)

	// -------- Settings --------
	api.GET("/settings", s.ListSettings)
	api.PUT("/settings/:key", s.PutSetting)
	api.DELETE("/settings/:key", s.DeleteSetting)

	// -------- Media --------
	api.POST("/media", s.UploadMedia)

	// -------- Backup --------
	api.POST("/backup/export", s.ExportBackup)
	api.POST("/backup/import", s.ImportBackup)
	api.POST("/backup/collect", s.CollectGarbage)
}
