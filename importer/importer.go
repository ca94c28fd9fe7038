package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"promotion-backend/dtos"
	"promotion-backend/models"
	"promotion-backend/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Importer moves promotions between the repository and JSON arrays of
// serialized dictionaries.
type Importer struct {
	repo   repository.PromotionRepository
	logger zerolog.Logger
}

func New(repo repository.PromotionRepository) *Importer {
	return &Importer{repo: repo, logger: log.Logger}
}

// ReadRows decodes a JSON array of promotion dictionaries. Numbers are kept
// as json.Number so identifiers survive without float rounding.
func ReadRows(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode promotions: %w", err)
	}
	return rows, nil
}

// Import applies rows in order. A row whose promotion_id names an existing
// promotion updates it; every other row creates a new promotion. Rows that
// fail are recorded in the report and do not stop the import.
func (im *Importer) Import(ctx context.Context, rows []map[string]any) *dtos.ImportReport {
	report := &dtos.ImportReport{
		ID:        uuid.New(),
		Total:     len(rows),
		Errors:    []dtos.ImportError{},
		StartedAt: time.Now(),
	}

	for i, row := range rows {
		updated, err := im.importRow(ctx, row)
		report.Processed++
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, rowError(i+1, row, err))
			im.logger.Warn().Err(err).Int("row", i+1).Msg("Skipping promotion row")
			continue
		}
		if updated {
			report.Updated++
		} else {
			report.Created++
		}
	}

	report.Status = dtos.ImportStatusCompleted
	if report.Total > 0 && report.Failed == report.Total {
		report.Status = dtos.ImportStatusFailed
	}
	now := time.Now()
	report.CompletedAt = &now

	im.logger.Info().
		Str("import_id", report.ID.String()).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("failed", report.Failed).
		Msg("Promotion import finished")
	return report
}

func (im *Importer) importRow(ctx context.Context, row map[string]any) (bool, error) {
	existing, err := im.findExisting(ctx, row)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := existing.Deserialize(row); err != nil {
			return false, err
		}
		return true, im.repo.Update(ctx, existing)
	}

	promotion := &models.Promotion{}
	if err := promotion.Deserialize(row); err != nil {
		return false, err
	}
	return false, im.repo.Create(ctx, promotion)
}

func (im *Importer) findExisting(ctx context.Context, row map[string]any) (*models.Promotion, error) {
	id, err := models.ParsePromotionID(row["promotion_id"])
	if err != nil || id == 0 {
		return nil, err
	}
	return im.repo.Find(ctx, id)
}

// Export writes every promotion as an indented JSON array.
func (im *Importer) Export(ctx context.Context, w io.Writer) error {
	promotions, err := im.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load promotions: %w", err)
	}
	rows := make([]map[string]any, 0, len(promotions))
	for i := range promotions {
		rows = append(rows, promotions[i].Serialize())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func rowError(row int, data map[string]any, err error) dtos.ImportError {
	ie := dtos.ImportError{Row: row, Message: err.Error()}
	if name, ok := data["promotion_name"].(string); ok {
		ie.Promotion = name
	}
	var dve *models.DataValidationError
	if errors.As(err, &dve) && len(dve.Fields) > 0 {
		ie.Fields = dve.Fields
	} else {
		ie.Fields = map[string]string{"error": err.Error()}
	}
	return ie
}
