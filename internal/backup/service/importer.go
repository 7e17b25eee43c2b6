package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/smallbiznis/decora/internal/backup/archive"
	"github.com/smallbiznis/decora/internal/backup/domain"
	canvasdomain "github.com/smallbiznis/decora/internal/canvas/domain"
	catalogdomain "github.com/smallbiznis/decora/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/decora/internal/client/domain"
	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
	"github.com/smallbiznis/decora/internal/migration"
	notedomain "github.com/smallbiznis/decora/internal/note/domain"
	quotationdomain "github.com/smallbiznis/decora/internal/quotation/domain"
	reportdomain "github.com/smallbiznis/decora/internal/savedreport/domain"
	"github.com/smallbiznis/decora/pkg/db"
	"go.uber.org/zap"
)

// productManifest accepts both the current sectionId key and the legacy
// folderId key written before the rename.
type productManifest struct {
	catalogdomain.Product
	FolderID *string `json:"folderId"`
}

// manifests is everything parsed out of an unpacked archive. All of it is
// loaded and validated before any destructive step runs.
type manifests struct {
	meta         domain.Meta
	settings     map[string]string
	sections     []catalogdomain.Section
	products     []productManifest
	canvases     []canvasManifest
	transactions []ledgerdomain.Transaction
	rentals      []ledgerdomain.RentalDetail
	decorations  []ledgerdomain.DecorationDetail
	expenses     []ledgerdomain.Expense
	quotations   []quotationdomain.Quotation
	clients      []clientdomain.Client
	notes        []notedomain.Note
	reports      []reportdomain.SavedReport
}

// Import restores the given archive. Everything is unpacked and parsed
// before the wipe so a bad file never destroys live data; once the wipe has
// begun, any failure surfaces as ErrPartialRestore.
func (s *Service) Import(ctx context.Context, archivePath string) error {
	scratch := filepath.Join(s.cfg.ScratchDir(), "import")
	if err := os.RemoveAll(scratch); err != nil {
		return err
	}
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	if err := archive.Unpack(archivePath, scratch); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}

	parsed, err := s.parseManifests(scratch)
	if err != nil {
		return err
	}

	s.log.Info("restoring backup",
		zap.String("archive", archivePath),
		zap.String("source_app", parsed.meta.AppName),
		zap.String("source_version", parsed.meta.Version),
	)

	// Destructive point.
	if err := db.WipeAll(ctx, s.db, s.cfg.DBType, migration.Tables()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPartialRestore, err)
	}
	if err := s.blobs.Wipe(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPartialRestore, err)
	}

	if err := s.restore(ctx, scratch, parsed); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPartialRestore, err)
	}

	s.log.Info("backup restored",
		zap.Int("sections", len(parsed.sections)),
		zap.Int("products", len(parsed.products)),
		zap.Int("transactions", len(parsed.transactions)),
	)
	return nil
}

// parseManifests loads every manifest from the unpacked archive. A missing
// meta manifest invalidates the archive; missing per-kind manifests are
// treated as empty lists so older archives keep importing.
func (s *Service) parseManifests(scratch string) (*manifests, error) {
	var parsed manifests

	ok, err := readJSON(filepath.Join(scratch, metaFile), &parsed.meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if !ok || parsed.meta.AppName == "" {
		return nil, fmt.Errorf("%w: missing meta manifest", domain.ErrInvalidArchive)
	}

	parsed.settings = map[string]string{}
	if _, err := readJSON(filepath.Join(scratch, settingsFile), &parsed.settings); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}

	parsed.sections, err = readManifest[catalogdomain.Section](scratch, sectionsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if len(parsed.sections) == 0 {
		// Historical rename: old archives wrote sections as folders.
		parsed.sections, err = readManifest[catalogdomain.Section](scratch, foldersLegacyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
		}
	}

	if parsed.products, err = readManifest[productManifest](scratch, productsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.canvases, err = readManifest[canvasManifest](scratch, canvasesFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.transactions, err = readManifest[ledgerdomain.Transaction](scratch, transactionsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.rentals, err = readManifest[ledgerdomain.RentalDetail](scratch, rentalsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.decorations, err = readManifest[ledgerdomain.DecorationDetail](scratch, decorationsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.expenses, err = readManifest[ledgerdomain.Expense](scratch, expensesFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.quotations, err = readManifest[quotationdomain.Quotation](scratch, quotationsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.clients, err = readManifest[clientdomain.Client](scratch, clientsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.notes, err = readManifest[notedomain.Note](scratch, notesFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}
	if parsed.reports, err = readManifest[reportdomain.SavedReport](scratch, savedReportsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}

	return &parsed, nil
}

// restore re-inserts everything in dependency order, copying each staged blob
// back into the store before the owning record is written.
func (s *Service) restore(ctx context.Context, scratch string, parsed *manifests) error {
	if err := s.settings.ReplaceAll(ctx, parsed.settings); err != nil {
		return err
	}

	for i := range parsed.sections {
		section := parsed.sections[i]
		section.Image = s.restoreRef(scratch, section.Image)
		if err := s.catalog.InsertSection(ctx, s.db, &section); err != nil {
			return err
		}
	}

	for i := range parsed.products {
		product := parsed.products[i].Product
		if product.SectionID == "" && parsed.products[i].FolderID != nil {
			product.SectionID = *parsed.products[i].FolderID
		}
		product.Image = s.restoreRef(scratch, product.Image)
		product.ImageSecondary1 = s.restoreRef(scratch, product.ImageSecondary1)
		product.ImageSecondary2 = s.restoreRef(scratch, product.ImageSecondary2)
		if err := s.catalog.InsertProduct(ctx, s.db, &product); err != nil {
			return err
		}
	}

	for i := range parsed.canvases {
		canvas, err := s.restoreCanvas(scratch, parsed.canvases[i])
		if err != nil {
			return err
		}
		if err := s.canvases.Insert(ctx, s.db, canvas); err != nil {
			return err
		}
	}

	for i := range parsed.transactions {
		if err := s.ledger.InsertTransaction(ctx, s.db, &parsed.transactions[i]); err != nil {
			return err
		}
	}
	for i := range parsed.rentals {
		if err := s.ledger.InsertRental(ctx, s.db, &parsed.rentals[i]); err != nil {
			return err
		}
	}
	for i := range parsed.decorations {
		if err := s.ledger.InsertDecoration(ctx, s.db, &parsed.decorations[i]); err != nil {
			return err
		}
	}

	for i := range parsed.expenses {
		expense := parsed.expenses[i]
		expense.Receipt = s.restoreRef(scratch, expense.Receipt)
		if err := s.ledger.InsertExpense(ctx, s.db, &expense); err != nil {
			return err
		}
	}

	for i := range parsed.quotations {
		if err := s.quotations.Insert(ctx, s.db, &parsed.quotations[i]); err != nil {
			return err
		}
	}

	// Flat kinds carry no blob references; rows go in verbatim to preserve
	// their original identifiers.
	for i := range parsed.clients {
		if err := s.db.WithContext(ctx).Create(&parsed.clients[i]).Error; err != nil {
			return err
		}
	}
	for i := range parsed.notes {
		if err := s.db.WithContext(ctx).Create(&parsed.notes[i]).Error; err != nil {
			return err
		}
	}
	for i := range parsed.reports {
		if err := s.db.WithContext(ctx).Create(&parsed.reports[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) restoreCanvas(scratch string, manifest canvasManifest) (*canvasdomain.Canvas, error) {
	payload, err := canvasdomain.ParsePayload(manifest.Data)
	if err != nil {
		s.log.Warn("unreadable canvas payload in archive, restoring empty",
			zap.String("canvas_id", manifest.ID), zap.Error(err))
		payload = canvasdomain.Payload{Images: []canvasdomain.PlacedImage{}}
	}

	for i := range payload.Images {
		if restored := s.restoreRefValue(scratch, payload.Images[i].URI); restored != nil {
			payload.Images[i].URI = *restored
		} else {
			payload.Images[i].URI = ""
		}
	}
	encoded, err := payload.Encode()
	if err != nil {
		return nil, err
	}

	return &canvasdomain.Canvas{
		ID:        manifest.ID,
		Name:      manifest.Name,
		Data:      encoded,
		Thumbnail: s.restoreRef(scratch, manifest.Thumbnail),
		CreatedAt: manifest.CreatedAt,
		UpdatedAt: manifest.UpdatedAt,
	}, nil
}

// restoreRef copies a staged blob back into the store and returns the new
// internal path. A reference whose file is missing in the archive becomes
// nil instead of aborting the restore.
func (s *Service) restoreRef(scratch string, ref *string) *string {
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return nil
	}
	return s.restoreRefValue(scratch, *ref)
}

func (s *Service) restoreRefValue(scratch, ref string) *string {
	if strings.TrimSpace(ref) == "" {
		return nil
	}
	src := filepath.Join(scratch, filepath.FromSlash(ref))
	internal, err := s.blobs.CopyToInternal(src)
	if err != nil {
		s.log.Warn("image missing in archive, nulling reference",
			zap.String("ref", ref), zap.Error(err))
		return nil
	}
	return &internal
}
