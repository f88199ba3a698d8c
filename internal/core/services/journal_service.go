package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/corefac/facility_billing_app/internal/core/domain"
	portsrepo "github.com/corefac/facility_billing_app/internal/core/ports/repositories"
	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
	"github.com/corefac/facility_billing_app/internal/dto"
	"github.com/corefac/facility_billing_app/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// chargeDateFormat is the MM/DD/YYYY date rendered into charge row descriptions.
	chargeDateFormat = "01/02/2006"
)

// journalService implements the journal engine on top of the repository ports.
type journalService struct {
	journalRepo  portsrepo.JournalRepositoryFacade
	billableRepo portsrepo.BillableReader
	productRepo  portsrepo.ProductReader
	accountRepo  portsrepo.FundingAccountReader
	facilityRepo portsrepo.FacilityReader
	validator    portssvc.AccountValidator
	renderer     portssvc.SpreadsheetRenderer
	blob         portssvc.BlobStore
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	repos *portsrepo.RepositoryProvider,
	validator portssvc.AccountValidator,
	renderer portssvc.SpreadsheetRenderer,
	blob portssvc.BlobStore,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:  repos.JournalRepo,
		billableRepo: repos.BillableRepo,
		productRepo:  repos.ProductRepo,
		accountRepo:  repos.AccountRepo,
		facilityRepo: repos.FacilityRepo,
		validator:    validator,
		renderer:     renderer,
		blob:         blob,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournal batches the selected records into a pending journal.
// Implements portssvc.JournalSvcFacade
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, createdBy string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if createdBy == "" {
		return nil, &apperrors.RequiredFieldError{Field: "created_by"}
	}

	recordIDs := dedupe(req.RecordIDs)

	if req.FacilityID != nil {
		if _, err := s.facilityRepo.FindFacilityByID(ctx, *req.FacilityID); err != nil {
			return nil, err
		}
	}

	records, err := s.billableRepo.FindBillablesByIDs(ctx, recordIDs)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.Journaled() {
			return nil, &apperrors.AlreadyJournaledError{RecordID: rec.RecordID, JournalID: *rec.JournalID}
		}
		if req.FacilityID != nil && rec.FacilityID != *req.FacilityID {
			return nil, fmt.Errorf("%w: billable record %s belongs to facility %s, not %s",
				apperrors.ErrValidation, rec.RecordID, rec.FacilityID, *req.FacilityID)
		}
	}

	if err := s.checkPendingExclusivity(ctx, req.FacilityID, records); err != nil {
		return nil, err
	}

	rows, err := s.buildRows(ctx, records)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journal := domain.Journal{
		JournalID:  uuid.NewString(),
		FacilityID: req.FacilityID,
		Outcome:    domain.OutcomePending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}
	for i := range rows {
		rows[i].JournalID = journal.JournalID
		rows[i].AuditFields = journal.AuditFields
	}

	if err := s.journalRepo.CreateJournalWithRows(ctx, journal, rows, recordIDs); err != nil {
		return nil, err
	}

	logger.Info("Journal created",
		slog.String("journal_id", journal.JournalID),
		slog.Int("record_count", len(recordIDs)),
		slog.Int("row_count", len(rows)),
	)

	journal.Rows = rows
	return &journal, nil
}

// checkPendingExclusivity rejects creation when any facility the new journal
// would touch already has an open journal. The partial unique index on the
// journals table backstops the single-facility race.
func (s *journalService) checkPendingExclusivity(ctx context.Context, facilityID *string, records []domain.BillableRecord) error {
	pending, err := s.journalRepo.PendingFacilityIDs(ctx)
	if err != nil {
		return err
	}
	if facilityID != nil {
		if _, busy := pending[*facilityID]; busy {
			return &apperrors.FacilityHasPendingJournalError{FacilityID: *facilityID}
		}
		return nil
	}
	for _, rec := range records {
		if _, busy := pending[rec.FacilityID]; busy {
			return &apperrors.FacilityHasPendingJournalError{FacilityID: rec.FacilityID}
		}
	}
	return nil
}

// buildRows turns the record selection into balanced double-entry rows: one
// charge row per record, then one aggregate recharge row per product. An empty
// selection yields no rows.
func (s *journalService) buildRows(ctx context.Context, records []domain.BillableRecord) ([]domain.JournalRow, error) {
	if len(records) == 0 {
		return nil, nil
	}

	productIDs := make([]string, 0, len(records))
	accountIDs := make([]string, 0, len(records))
	seenProducts := make(map[string]struct{})
	seenAccounts := make(map[string]struct{})
	for _, rec := range records {
		if _, ok := seenProducts[rec.ProductID]; !ok {
			seenProducts[rec.ProductID] = struct{}{}
			productIDs = append(productIDs, rec.ProductID)
		}
		if _, ok := seenAccounts[rec.AccountID]; !ok {
			seenAccounts[rec.AccountID] = struct{}{}
			accountIDs = append(accountIDs, rec.AccountID)
		}
	}

	products, err := s.productRepo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.FindFundingAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.JournalRow, 0, len(records)+len(productIDs))
	sums := make(map[string]decimal.Decimal, len(productIDs))

	for _, rec := range records {
		product, ok := products[rec.ProductID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("product not found: %s", rec.ProductID))
		}
		account, ok := accounts[rec.AccountID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("funding account not found: %s", rec.AccountID))
		}

		if err := s.validator.AccountIsOpen(ctx, account, product); err != nil {
			return nil, &apperrors.InvalidAccountError{
				RecordID:      rec.RecordID,
				AccountNumber: account.AccountNumber,
				Reason:        err.Error(),
			}
		}

		rec := rec
		rows = append(rows, domain.JournalRow{
			RowID:       uuid.NewString(),
			RecordID:    &rec.RecordID,
			Account:     account.AccountNumber,
			Amount:      rec.Total,
			Description: chargeDescription(rec, product),
		})
		sums[rec.ProductID] = sums[rec.ProductID].Add(rec.Total)
	}

	// Recharge rows come after the charges, in a stable product order. A
	// product whose charges net to zero gets no recharge row.
	sort.Strings(productIDs)
	for _, productID := range productIDs {
		if sums[productID].IsZero() {
			continue
		}
		product := products[productID]
		rows = append(rows, domain.JournalRow{
			RowID:       uuid.NewString(),
			Account:     product.RevenueAccount,
			Amount:      sums[productID].Neg(),
			Description: product.Name,
		})
	}
	return rows, nil
}

// chargeDescription formats the ledger line for a single billed record.
func chargeDescription(rec domain.BillableRecord, product domain.Product) string {
	return fmt.Sprintf("#%s: %s: %s: %s x%d",
		rec.RecordID, rec.Requester, rec.FulfilledAt.Format(chargeDateFormat), product.Name, rec.Quantity)
}

// GetJournalByID retrieves a journal with its rows.
// Implements portssvc.JournalSvcFacade
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	rows, err := s.journalRepo.FindRowsByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	journal.Rows = rows
	return journal, nil
}

// ListJournals retrieves a paginated list of journals.
// Implements portssvc.JournalSvcFacade
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	journals, nextToken, err := s.journalRepo.ListJournalsByFacilities(ctx, params.FacilityIDs, params.IncludeMulti, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListJournalsResponse{
		Journals:  make([]dto.JournalResponse, 0, len(journals)),
		NextToken: nextToken,
	}
	for i := range journals {
		if params.IncludeRows {
			rows, err := s.journalRepo.FindRowsByJournalID(ctx, journals[i].JournalID)
			if err != nil {
				return nil, err
			}
			journals[i].Rows = rows
		}
		resp.Journals = append(resp.Journals, dto.ToJournalResponse(&journals[i]))
	}
	return resp, nil
}

// Status derives the reconciliation status of a journal.
// Implements portssvc.JournalSvcFacade
func (s *journalService) Status(ctx context.Context, journalID string) (domain.ReconciliationStatus, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return "", err
	}
	switch {
	case journal.Open():
		return domain.StatusPending, nil
	case journal.Outcome == domain.OutcomeFailed:
		return domain.StatusFailed, nil
	case journal.Outcome == domain.OutcomeSucceeded:
		unreconciled, err := s.journalRepo.CountUnreconciledRecords(ctx, journalID)
		if err != nil {
			return "", err
		}
		if unreconciled == 0 {
			return domain.StatusSuccessfulReconciled, nil
		}
		return domain.StatusSuccessfulUnreconciled, nil
	default:
		return "", apperrors.NewAppError(500, fmt.Sprintf("unknown journal outcome: %s", journal.Outcome), apperrors.ErrInternal)
	}
}

// IsReconciled reports whether no further reconciliation work remains. A
// failed journal never reached the ledger, so there is nothing to reconcile.
// Implements portssvc.JournalSvcFacade
func (s *journalService) IsReconciled(ctx context.Context, journalID string) (bool, error) {
	status, err := s.Status(ctx, journalID)
	if err != nil {
		return false, err
	}
	return status == domain.StatusFailed || status == domain.StatusSuccessfulReconciled, nil
}

// Amount computes the gross billed total: the sum of the positive rows.
// Implements portssvc.JournalSvcFacade
func (s *journalService) Amount(ctx context.Context, journalID string) (decimal.Decimal, error) {
	rows, err := s.journalRepo.FindRowsByJournalID(ctx, journalID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		if row.Amount.IsPositive() {
			total = total.Add(row.Amount)
		}
	}
	return total, nil
}

// CloseJournal records the downstream import outcome on a pending journal.
// Implements portssvc.JournalSvcFacade
func (s *journalService) CloseJournal(ctx context.Context, journalID string, succeeded bool, reference string, updatedBy string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reference == "" {
		return nil, &apperrors.RequiredFieldError{Field: "reference"}
	}
	if updatedBy == "" {
		return nil, &apperrors.RequiredFieldError{Field: "updated_by"}
	}

	outcome := domain.OutcomeFailed
	if succeeded {
		outcome = domain.OutcomeSucceeded
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateJournalOutcome(ctx, journalID, outcome, reference, updatedBy, now); err != nil {
		return nil, err
	}

	logger.Info("Journal closed",
		slog.String("journal_id", journalID),
		slog.String("outcome", string(outcome)),
		slog.String("reference", reference),
	)
	return s.journalRepo.FindJournalByID(ctx, journalID)
}

// ExportSpreadsheet renders the journal rows and stores the file in blob
// storage. A journal with no rows is not exportable; that is the false
// return, not an error.
// Implements portssvc.JournalSvcFacade
func (s *journalService) ExportSpreadsheet(ctx context.Context, journalID string, updatedBy string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if updatedBy == "" {
		return false, &apperrors.RequiredFieldError{Field: "updated_by"}
	}
	if s.blob == nil {
		return false, apperrors.NewAppError(500, "blob storage is not configured", apperrors.ErrInternal)
	}

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return false, err
	}
	rows, err := s.journalRepo.FindRowsByJournalID(ctx, journalID)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		logger.Warn("Export skipped for journal without rows", slog.String("journal_id", journalID))
		return false, nil
	}

	data, err := s.renderer.Render(rows)
	if err != nil {
		return false, err
	}

	facilitySegment := "multi"
	if journal.FacilityID != nil {
		facilitySegment = *journal.FacilityID
	}
	objectName := fmt.Sprintf("journals/%s/%s.xlsx", facilitySegment, journalID)

	object, err := s.blob.Upload(ctx, objectName, data, xlsxContentType)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.AttachFileObject(ctx, journalID, object, updatedBy, now); err != nil {
		return false, err
	}

	logger.Info("Journal exported",
		slog.String("journal_id", journalID),
		slog.String("object", object),
	)
	return true, nil
}

// FacilityIDs resolves the distinct facilities a journal touches.
// Implements portssvc.JournalSvcFacade
func (s *journalService) FacilityIDs(ctx context.Context, journalID string) ([]string, error) {
	return s.journalRepo.JournalFacilityIDs(ctx, journalID)
}

// SpansFiscalYears reports whether the selection crosses the September 1st
// fiscal year boundary.
// Implements portssvc.JournalSvcFacade
func (s *journalService) SpansFiscalYears(ctx context.Context, recordIDs []string) (bool, error) {
	records, err := s.billableRepo.FindBillablesByIDs(ctx, dedupe(recordIDs))
	if err != nil {
		return false, err
	}
	return domain.SpansFiscalYears(records)
}

// PendingFacilityIDs lists the facilities with an open journal, sorted for
// stable output.
// Implements portssvc.JournalSvcFacade
func (s *journalService) PendingFacilityIDs(ctx context.Context) ([]string, error) {
	pending, err := s.journalRepo.PendingFacilityIDs(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// dedupe removes duplicate IDs while preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
