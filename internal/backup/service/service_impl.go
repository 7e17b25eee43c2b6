package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/smallbiznis/decora/internal/backup/domain"
	"github.com/smallbiznis/decora/internal/blobstore"
	canvasdomain "github.com/smallbiznis/decora/internal/canvas/domain"
	catalogdomain "github.com/smallbiznis/decora/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/decora/internal/client/domain"
	"github.com/smallbiznis/decora/internal/clock"
	"github.com/smallbiznis/decora/internal/config"
	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
	notedomain "github.com/smallbiznis/decora/internal/note/domain"
	quotationdomain "github.com/smallbiznis/decora/internal/quotation/domain"
	reportdomain "github.com/smallbiznis/decora/internal/savedreport/domain"
	settingsdomain "github.com/smallbiznis/decora/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Manifest file names inside the archive. Legacy archives wrote sections
// under the old "folders" name.
const (
	metaFile     = "meta.json"
	settingsFile = "settings.json"

	sectionsFile      = "data/sections.json"
	foldersLegacyFile = "data/folders.json"
	productsFile      = "data/products.json"
	canvasesFile      = "data/canvases.json"
	transactionsFile  = "data/transactions.json"
	rentalsFile       = "data/rentals.json"
	decorationsFile   = "data/decorations.json"
	expensesFile      = "data/expenses.json"
	savedReportsFile  = "data/saved_reports.json"
	clientsFile       = "data/clients.json"
	quotationsFile    = "data/quotations.json"
	notesFile         = "data/notes.json"
)

// Blob subfolder per record kind inside the archive's images/ tree.
const (
	kindSections        = "sections"
	kindProducts        = "products"
	kindCanvases        = "canvases"
	kindCanvasesContent = "canvases_content"
	kindExpenses        = "expenses"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
	Backup *config.BackupConfigHolder
	Blobs  *blobstore.Store
	Clock  clock.Clock

	Catalog    catalogdomain.Repository
	Canvases   canvasdomain.Repository
	Ledger     ledgerdomain.Repository
	Quotations quotationdomain.Repository
	Clients    clientdomain.Repository
	Notes      notedomain.Repository
	Reports    reportdomain.Repository
	Settings   settingsdomain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	cfg    config.Config
	backup *config.BackupConfigHolder
	blobs  *blobstore.Store
	clock  clock.Clock

	catalog    catalogdomain.Repository
	canvases   canvasdomain.Repository
	ledger     ledgerdomain.Repository
	quotations quotationdomain.Repository
	clients    clientdomain.Repository
	notes      notedomain.Repository
	reports    reportdomain.Repository
	settings   settingsdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("backup.service"),
		cfg:        p.Config,
		backup:     p.Backup,
		blobs:      p.Blobs,
		clock:      p.Clock,
		catalog:    p.Catalog,
		canvases:   p.Canvases,
		ledger:     p.Ledger,
		quotations: p.Quotations,
		clients:    p.Clients,
		notes:      p.Notes,
		reports:    p.Reports,
		settings:   p.Settings,
	}
}

// canvasManifest is the archive form of a canvas: the design payload travels
// as a JSON object. Legacy archives may carry it as a JSON-encoded string
// instead, which the importer also accepts.
type canvasManifest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Thumbnail *string         `json:"thumbnail"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func readJSON(path string, v any) (bool, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

// readManifest loads a per-kind manifest, treating a missing file as an empty
// list so archives from older versions keep importing.
func readManifest[T any](dir, name string) ([]T, error) {
	var records []T
	if _, err := readJSON(filepath.Join(dir, filepath.FromSlash(name)), &records); err != nil {
		return nil, err
	}
	return records, nil
}
