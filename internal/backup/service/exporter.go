package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/decora/internal/backup/archive"
	"github.com/smallbiznis/decora/internal/backup/domain"
	canvasdomain "github.com/smallbiznis/decora/internal/canvas/domain"
	catalogdomain "github.com/smallbiznis/decora/internal/catalog/domain"
	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
	settingsdomain "github.com/smallbiznis/decora/internal/settings/domain"
	"go.uber.org/zap"
)

// Export builds a portable archive of every record and referenced blob.
// It never mutates live data: every reference rewrite happens on in-memory
// copies written into a scratch directory, which is then packed and removed.
func (s *Service) Export(ctx context.Context) (string, error) {
	scratch := filepath.Join(s.cfg.ScratchDir(), "export")
	if err := os.RemoveAll(scratch); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(scratch, "data"), 0o755); err != nil {
		return "", err
	}
	defer os.RemoveAll(scratch)

	counts := map[string]int{}

	sections, err := s.exportSections(ctx, scratch)
	if err != nil {
		return "", err
	}
	counts["sections"] = len(sections)

	products, err := s.exportProducts(ctx, scratch)
	if err != nil {
		return "", err
	}
	counts["products"] = len(products)

	canvases, err := s.exportCanvases(ctx, scratch)
	if err != nil {
		return "", err
	}
	counts["canvases"] = len(canvases)

	transactions, err := s.ledger.ListTransactions(ctx, s.db, ledgerdomain.ListFilter{})
	if err != nil {
		return "", err
	}
	counts["transactions"] = len(transactions)

	rentals, err := s.ledger.ListRentals(ctx, s.db)
	if err != nil {
		return "", err
	}
	counts["rentals"] = len(rentals)

	decorations, err := s.ledger.ListDecorations(ctx, s.db)
	if err != nil {
		return "", err
	}
	counts["decorations"] = len(decorations)

	expenses, err := s.exportExpenses(ctx, scratch)
	if err != nil {
		return "", err
	}
	counts["expenses"] = len(expenses)

	quotations, err := s.quotations.List(ctx, s.db)
	if err != nil {
		return "", err
	}
	counts["quotations"] = len(quotations)

	clients, err := s.clients.List(ctx)
	if err != nil {
		return "", err
	}
	counts["clients"] = len(clients)

	notes, err := s.notes.List(ctx)
	if err != nil {
		return "", err
	}
	counts["notes"] = len(notes)

	reports, err := s.reports.List(ctx)
	if err != nil {
		return "", err
	}
	counts["saved_reports"] = len(reports)

	settings, err := s.settings.All(ctx)
	if err != nil {
		return "", err
	}

	manifests := []struct {
		name string
		data any
	}{
		{sectionsFile, sections},
		{productsFile, products},
		{canvasesFile, canvases},
		{transactionsFile, transactions},
		{rentalsFile, rentals},
		{decorationsFile, decorations},
		{expensesFile, expenses},
		{quotationsFile, quotations},
		{clientsFile, clients},
		{notesFile, notes},
		{savedReportsFile, reports},
	}
	for _, m := range manifests {
		if err := writeJSON(filepath.Join(scratch, filepath.FromSlash(m.name)), m.data); err != nil {
			return "", err
		}
	}
	if err := writeJSON(filepath.Join(scratch, settingsFile), settings); err != nil {
		return "", err
	}

	meta := domain.Meta{
		AppName:    s.cfg.AppName,
		Version:    s.cfg.AppVersion,
		ExportDate: s.clock.Now(),
		Counts:     counts,
	}
	if err := writeJSON(filepath.Join(scratch, metaFile), meta); err != nil {
		return "", err
	}

	archivePath, err := s.archiveDestination(ctx)
	if err != nil {
		return "", err
	}
	if err := archive.Pack(scratch, archivePath); err != nil {
		return "", err
	}
	s.pruneArchives(filepath.Dir(archivePath))

	s.log.Info("backup exported",
		zap.String("archive", archivePath),
		zap.Int("sections", counts["sections"]),
		zap.Int("products", counts["products"]),
	)
	return archivePath, nil
}

func (s *Service) exportSections(ctx context.Context, scratch string) ([]catalogdomain.Section, error) {
	rows, err := s.catalog.ListSections(ctx, s.db)
	if err != nil {
		return nil, err
	}
	sections := make([]catalogdomain.Section, 0, len(rows))
	for _, row := range rows {
		section := row.Section
		section.Image = s.exportRef(scratch, kindSections, section.Image)
		sections = append(sections, section)
	}
	return sections, nil
}

func (s *Service) exportProducts(ctx context.Context, scratch string) ([]catalogdomain.Product, error) {
	products, err := s.catalog.ListAllProducts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Image = s.exportRef(scratch, kindProducts, products[i].Image)
		products[i].ImageSecondary1 = s.exportRef(scratch, kindProducts, products[i].ImageSecondary1)
		products[i].ImageSecondary2 = s.exportRef(scratch, kindProducts, products[i].ImageSecondary2)
	}
	return products, nil
}

func (s *Service) exportCanvases(ctx context.Context, scratch string) ([]canvasManifest, error) {
	canvases, err := s.canvases.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	manifests := make([]canvasManifest, 0, len(canvases))
	for _, canvas := range canvases {
		payload, err := canvasdomain.ParsePayload(canvas.Data)
		if err != nil {
			s.log.Warn("skipping unreadable canvas payload in export",
				zap.String("canvas_id", canvas.ID), zap.Error(err))
			payload = canvasdomain.Payload{Images: []canvasdomain.PlacedImage{}}
		}
		for i := range payload.Images {
			if rel := s.exportRefValue(scratch, kindCanvasesContent, payload.Images[i].URI); rel != nil {
				payload.Images[i].URI = *rel
			} else {
				payload.Images[i].URI = ""
			}
		}
		encoded, err := payload.Encode()
		if err != nil {
			return nil, err
		}

		manifests = append(manifests, canvasManifest{
			ID:        canvas.ID,
			Name:      canvas.Name,
			Data:      []byte(encoded),
			Thumbnail: s.exportRef(scratch, kindCanvases, canvas.Thumbnail),
			CreatedAt: canvas.CreatedAt,
			UpdatedAt: canvas.UpdatedAt,
		})
	}
	return manifests, nil
}

func (s *Service) exportExpenses(ctx context.Context, scratch string) ([]ledgerdomain.Expense, error) {
	expenses, err := s.ledger.ListExpenses(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].Receipt = s.exportRef(scratch, kindExpenses, expenses[i].Receipt)
	}
	return expenses, nil
}

// exportRef stages a referenced blob into the scratch tree and returns its
// archive-relative path. A missing blob degrades to nil instead of failing
// the whole export.
func (s *Service) exportRef(scratch, kind string, ref *string) *string {
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return nil
	}
	return s.exportRefValue(scratch, kind, *ref)
}

func (s *Service) exportRefValue(scratch, kind, ref string) *string {
	if strings.TrimSpace(ref) == "" {
		return nil
	}
	rel, err := s.blobs.PrepareExport(ref, scratch, kind)
	if err != nil {
		s.log.Warn("image missing at export, nulling reference",
			zap.String("ref", ref), zap.Error(err))
		return nil
	}
	return &rel
}

// archiveDestination names the archive after the configured prefix, or the
// slugified business name, with a local date stamp for human sortability.
func (s *Service) archiveDestination(ctx context.Context) (string, error) {
	exportsDir := filepath.Join(s.cfg.DataDir, "exports")
	if err := os.MkdirAll(exportsDir, 0o755); err != nil {
		return "", err
	}

	prefix := s.backup.Get().ArchivePrefix
	if prefix == "" {
		name, ok, err := s.settings.Get(ctx, settingsdomain.KeyBusinessName)
		if err != nil {
			return "", err
		}
		if !ok || strings.TrimSpace(name) == "" {
			name = s.cfg.AppName
		}
		prefix = slug.Make(name)
	}

	stamp := s.clock.Now().Format("2006-01-02")
	return filepath.Join(exportsDir, fmt.Sprintf("%s-backup-%s.tar.gz", prefix, stamp)), nil
}

// pruneArchives keeps the newest keepArchives files in the exports directory.
// Zero means keep everything.
func (s *Service) pruneArchives(exportsDir string) {
	keep := s.backup.Get().KeepArchives
	if keep <= 0 {
		return
	}

	entries, err := os.ReadDir(exportsDir)
	if err != nil {
		s.log.Warn("listing exports failed", zap.Error(err))
		return
	}

	var archives []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".tar.gz") {
			archives = append(archives, entry)
		}
	}
	if len(archives) <= keep {
		return
	}

	sort.Slice(archives, func(i, j int) bool {
		a, _ := archives[i].Info()
		b, _ := archives[j].Info()
		if a == nil || b == nil {
			return archives[i].Name() < archives[j].Name()
		}
		return a.ModTime().After(b.ModTime())
	})
	for _, old := range archives[keep:] {
		if err := os.Remove(filepath.Join(exportsDir, old.Name())); err != nil {
			s.log.Warn("pruning old archive failed", zap.String("archive", old.Name()), zap.Error(err))
		}
	}
}
