package casestore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/gateway"
	"loan-case-tracker/internal/pkg/lifecycle"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/otel"
	"loan-case-tracker/internal/pkg/validation"
	"loan-case-tracker/internal/service/documents"
	"loan-case-tracker/internal/service/events"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DocumentUploader stores case files and records their slots.
type DocumentUploader interface {
	CheckCeiling(c models.LoanCase, att models.Attachment) error
	Upload(ctx context.Context, c models.LoanCase, att models.Attachment) (models.CaseDocument, error)
}

// Store is the in-process source of truth for cases and reference data.
// Mutations are serialised by writeMu and hold it across their gateway round
// trips; readers only take mu and always receive copies.
type Store struct {
	gateway   interfaces.CaseGateway
	documents DocumentUploader
	validator *validation.Validator
	machine   *lifecycle.Machine
	events    interfaces.CaseEventPublisher
	now       func() time.Time

	writeMu sync.Mutex

	mu        sync.RWMutex
	cases     []models.LoanCase
	config    models.AppConfiguration
	seeded    bool
	officers  []string
	lastError string
}

func NewStore(
	gw interfaces.CaseGateway,
	documents DocumentUploader,
	validator *validation.Validator,
	machine *lifecycle.Machine,
	publisher interfaces.CaseEventPublisher,
) *Store {
	if publisher == nil {
		publisher = events.NewPublisher()
	}
	return &Store{
		gateway:   gw,
		documents: documents,
		validator: validator,
		machine:   machine,
		events:    publisher,
		now:       time.Now,
		config:    models.AppConfiguration{},
	}
}

// Load replaces the in-memory state with the gateway's. On failure the prior
// state is kept and the error is recorded.
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := otel.StartSpan(ctx, "casestore.Load", "")
	defer span.End()

	cases, err := s.gateway.ListCases(ctx)
	if err != nil {
		return s.fail(ctx, log_messages.CaseStoreLoadFailed, err)
	}
	items, err := s.gateway.ListConfiguration(ctx)
	if err != nil {
		return s.fail(ctx, log_messages.CaseStoreLoadFailed, err)
	}
	officers, err := s.gateway.DistinctOfficers(ctx)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to fetch officers referenced by cases", zap.Error(err))
		officers = nil
	}

	cfg := BuildConfiguration(items)
	documentTypes := documentTypesOf(effective(cfg, len(items) > 0))
	for i := range cases {
		cases[i].Documents = ReconcileDocuments(cases[i].Documents, documentTypes)
	}

	s.mu.Lock()
	s.cases = cases
	s.config = cfg
	s.seeded = len(items) > 0
	s.officers = officers
	s.lastError = ""
	view := s.view()
	s.mu.Unlock()
	s.validator.SetConfiguration(view)

	logger.CtxInfo(ctx, log_messages.CaseStoreLoaded,
		zap.Int("cases", len(cases)),
		zap.Int("configuration_items", len(items)),
	)
	return nil
}

// GetByID returns a copy of the case, or false when it is not loaded.
func (s *Store) GetByID(id string) (models.LoanCase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := lo.Find(s.cases, func(c models.LoanCase) bool { return c.ID == id })
	if !ok {
		return models.LoanCase{}, false
	}
	return c.Clone(), true
}

// Cases returns copies of the cases matching filter, newest first.
func (s *Store) Cases(filter models.CaseFilter) []models.LoanCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LoanCase, 0, len(s.cases))
	for _, c := range s.cases {
		if filter.Matches(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// ApprovalHistory summarises every loaded case for the suggestion flow.
func (s *Store) ApprovalHistory() []models.ApprovalHistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.cases, func(c models.LoanCase, _ int) models.ApprovalHistoryRecord {
		return models.ApprovalHistoryRecord{LoanAmount: c.LoanAmount, LoanType: c.LoanType, Status: c.Status}
	})
}

// Configuration is the active option lists. Until the configuration table
// holds rows every category reads as absent, so consumers fall back to the
// default options.
func (s *Store) Configuration() models.AppConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view()
}

// Officers is the configured team member roster.
func (s *Store) Officers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().Values(consts.CategoryTeamMember, consts.DefaultOptions[consts.CategoryTeamMember])
}

// ReferencedOfficers lists the officers assigned to loaded cases, whether or
// not they are still on the roster.
func (s *Store) ReferencedOfficers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.officers...)
}

func (s *Store) Banks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().Values(consts.CategoryBankName, consts.DefaultOptions[consts.CategoryBankName])
}

// LastError is the message of the most recent failed gateway operation, or
// empty after a successful load.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// AddCase validates the draft, persists the case, uploads its attachments in
// order and prepends the result. The first failure aborts the remaining steps.
func (s *Store) AddCase(ctx context.Context, draft models.CaseDraft, attachments []models.Attachment) (models.LoanCase, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := otel.StartSpan(ctx, "casestore.AddCase", "")
	defer span.End()

	if err := s.validator.ValidateDraft(&draft); err != nil {
		return models.LoanCase{}, err
	}

	documentTypes := documentTypesOf(s.Configuration())
	now := s.now()
	c := NewCase(draft, documentTypes, now)

	if err := s.checkAttachments(ctx, c, attachments, documentTypes); err != nil {
		return models.LoanCase{}, err
	}

	created, err := s.gateway.CreateCase(ctx, c)
	if err != nil && !s.tolerate(ctx, err) {
		return models.LoanCase{}, s.fail(ctx, log_messages.CaseCreateFailed, err)
	}

	for _, att := range attachments {
		doc, err := s.documents.Upload(ctx, created, att)
		if err != nil {
			return models.LoanCase{}, s.fail(ctx, log_messages.CaseDocumentUploadFailed, err,
				zap.String("case_id", created.ID),
				zap.String("document_type", att.DocumentType),
			)
		}
		created.Documents = MergeDocument(created.Documents, doc)
	}

	s.mu.Lock()
	s.cases = append([]models.LoanCase{created}, s.cases...)
	if created.TeamMember != "" && !lo.Contains(s.officers, created.TeamMember) {
		s.officers = append(s.officers, created.TeamMember)
	}
	s.mu.Unlock()

	logger.CtxInfo(ctx, log_messages.CaseCreated,
		zap.String("case_id", created.ID),
		zap.String("status", string(created.Status)),
		zap.Int("attachments", len(attachments)),
	)
	s.events.Publish(ctx, events.NewEvent(consts.EventCaseCreated, created, ""))
	return created.Clone(), nil
}

// checkAttachments rejects unknown document types and any attachment set that
// would exceed the upload ceiling, before anything is written.
func (s *Store) checkAttachments(ctx context.Context, c models.LoanCase, attachments []models.Attachment, documentTypes []string) error {
	simulated := c.Clone()
	for _, att := range attachments {
		if !lo.Contains(documentTypes, att.DocumentType) {
			logger.CtxWarn(ctx, log_messages.UploadRejectedUnknownDocType, zap.String("document_type", att.DocumentType))
			return unknownDocumentType()
		}
		if err := s.documents.CheckCeiling(simulated, att); err != nil {
			logger.CtxWarn(ctx, log_messages.UploadRejectedOverCeiling, zap.String("document_type", att.DocumentType))
			return err
		}
		simulated.Documents = MergeDocument(simulated.Documents, models.CaseDocument{
			Type:      att.DocumentType,
			Uploaded:  true,
			SizeBytes: att.Size(),
		})
	}
	return nil
}

// UpdateCaseStatus moves a case to a new status. The in-memory case changes
// only after the gateway accepts the write.
func (s *Store) UpdateCaseStatus(ctx context.Context, id string, update models.StatusUpdate) (models.LoanCase, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := otel.StartSpan(ctx, "casestore.UpdateCaseStatus", id)
	defer span.End()

	if err := s.validator.ValidateStatusUpdate(&update); err != nil {
		return models.LoanCase{}, err
	}
	current, ok := s.GetByID(id)
	if !ok {
		return models.LoanCase{}, gateway.ErrCaseNotFound
	}

	updated, change, err := s.machine.Apply(current, update, s.now())
	if err != nil {
		return models.LoanCase{}, err
	}

	if err := s.gateway.UpdateCaseStatus(ctx, id, change); err != nil && !s.tolerate(ctx, err) {
		return models.LoanCase{}, s.fail(ctx, log_messages.CaseStatusUpdateFailed, err, zap.String("case_id", id))
	}

	s.replace(updated)
	logger.CtxInfo(ctx, log_messages.CaseStatusUpdated,
		zap.String("case_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
	)
	s.events.Publish(ctx, events.NewEvent(consts.EventStatusUpdated, updated, ""))
	return updated.Clone(), nil
}

// UpdateCaseDocument uploads a file into one of the case's slots.
func (s *Store) UpdateCaseDocument(ctx context.Context, id string, att models.Attachment) (models.CaseDocument, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := otel.StartSpan(ctx, "casestore.UpdateCaseDocument", id)
	defer span.End()

	documentTypes := documentTypesOf(s.Configuration())
	if !lo.Contains(documentTypes, att.DocumentType) {
		logger.CtxWarn(ctx, log_messages.UploadRejectedUnknownDocType,
			zap.String("case_id", id),
			zap.String("document_type", att.DocumentType),
		)
		return models.CaseDocument{}, unknownDocumentType()
	}

	current, ok := s.GetByID(id)
	if !ok {
		return models.CaseDocument{}, gateway.ErrCaseNotFound
	}

	doc, err := s.documents.Upload(ctx, current, att)
	if err != nil {
		if errors.Is(err, documents.ErrUploadLimitExceeded) {
			return models.CaseDocument{}, err
		}
		return models.CaseDocument{}, s.fail(ctx, log_messages.CaseDocumentUploadFailed, err, zap.String("case_id", id))
	}

	current.Documents = ReconcileDocuments(MergeDocument(current.Documents, doc), documentTypes)
	current.UpdatedAt = s.now()
	s.replace(current)

	s.events.Publish(ctx, events.NewEvent(consts.EventDocumentUploaded, current, doc.Type))
	return doc, nil
}

// NewCase builds an unsaved case from a validated draft.
func NewCase(draft models.CaseDraft, documentTypes []string, now time.Time) models.LoanCase {
	status := draft.Status
	if status == "" {
		status = models.StatusDocumentPending
	}
	c := models.LoanCase{
		ApplicantName:   draft.ApplicantName,
		LoanAmount:      draft.LoanAmount,
		LoanType:        draft.LoanType,
		CaseType:        draft.CaseType,
		ContactNumber:   draft.ContactNumber,
		Email:           draft.Email,
		Address:         draft.Address,
		ApplicationDate: draft.ApplicationDate,
		TeamMember:      draft.TeamMember,
		Status:          status,
		Notes:           draft.Notes,
		History:         []models.HistoryEntry{{Timestamp: now, Status: status, Remarks: consts.CaseCreatedRemarks}},
		Salary:          draft.Salary,
		Location:        draft.Location,
		DOB:             draft.DOB,
		PANCardNumber:   draft.PANCardNumber,
		JobProfile:      draft.JobProfile,
		JobDesignation:  draft.JobDesignation,
		ReferenceName:   draft.ReferenceName,
		BankName:        draft.BankName,
		BankOfficeSM:    draft.BankOfficeSM,
		Documents:       NewSlots(documentTypes),
		Tenure:          draft.Tenure,
		Obligation:      draft.Obligation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if draft.BankName == consts.OtherBankName {
		c.OtherBankName = draft.OtherBankName
	}
	if status.IsApprovalLike() {
		c.ApprovalDetails = draft.ApprovalDetails
	}
	return c
}

// BuildConfiguration groups active items by category in display order.
func BuildConfiguration(items []models.ConfigItem) models.AppConfiguration {
	active := lo.Filter(items, func(item models.ConfigItem, _ int) bool { return item.IsActive })
	sort.SliceStable(active, func(i, j int) bool { return active[i].DisplayOrder < active[j].DisplayOrder })

	cfg := models.AppConfiguration{}
	for _, item := range active {
		cfg[item.Category] = append(cfg[item.Category], item.Value)
	}
	return cfg
}

// effective returns cfg with every known category present once the table is
// seeded, so empty categories stay empty instead of reverting to defaults.
func effective(cfg models.AppConfiguration, seeded bool) models.AppConfiguration {
	out := cfg.Clone()
	if !seeded {
		return out
	}
	for _, category := range consts.Categories {
		if _, ok := out[category]; !ok {
			out[category] = []string{}
		}
	}
	return out
}

// view is the configuration readers and the validator see. Callers hold mu.
func (s *Store) view() models.AppConfiguration {
	return effective(s.config, s.seeded)
}

func documentTypesOf(cfg models.AppConfiguration) []string {
	return cfg.Values(consts.CategoryDocumentType, consts.DefaultOptions[consts.CategoryDocumentType])
}

// replace swaps in c by id.
func (s *Store) replace(c models.LoanCase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cases {
		if s.cases[i].ID == c.ID {
			s.cases[i] = c
			return
		}
	}
}

// tolerate reports whether err is a partial write already queued for repair.
func (s *Store) tolerate(ctx context.Context, err error) bool {
	if !errors.Is(err, gateway.ErrPartialWrite) {
		return false
	}
	logger.CtxWarn(ctx, log_messages.PartialWriteQueuedForRepair, zap.Error(err))
	return true
}

// fail records err as the store's error state and returns it unchanged.
func (s *Store) fail(ctx context.Context, msg string, err error, fields ...zap.Field) error {
	logger.CtxError(ctx, msg, err, fields...)
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	return err
}

func unknownDocumentType() error {
	return validation.FieldErrors{"documentType": {"Unknown document type."}}
}
