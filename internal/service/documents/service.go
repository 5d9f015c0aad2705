package documents

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUploadLimitExceeded = errors.New("upload exceeds the per-case document size limit")

// DocumentRecorder persists the uploaded slot of a case.
type DocumentRecorder interface {
	UpsertDocument(ctx context.Context, caseID string, doc models.CaseDocument) (models.CaseDocument, error)
}

type Service struct {
	storage  interfaces.ObjectStorage
	recorder DocumentRecorder
	folder   string
	maxBytes int64
	newID    func() string
}

func NewService(storage interfaces.ObjectStorage, recorder DocumentRecorder, folder string, maxBytes int64) *Service {
	return &Service{
		storage:  storage,
		recorder: recorder,
		folder:   folder,
		maxBytes: maxBytes,
		newID:    uuid.NewString,
	}
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// CheckCeiling fails with ErrUploadLimitExceeded when att would push the
// case's uploaded total over the ceiling. A slot being replaced does not count.
func (s *Service) CheckCeiling(c models.LoanCase, att models.Attachment) error {
	existing := c.UploadedBytes(att.DocumentType)
	if existing+att.Size() > s.maxBytes {
		return fmt.Errorf("%w: case %s has %d bytes uploaded, %s is %d bytes, limit is %d",
			ErrUploadLimitExceeded, c.ID, existing, att.FileName, att.Size(), s.maxBytes)
	}
	return nil
}

// Upload checks the ceiling, stores the file and records the slot as
// uploaded. Nothing is stored when the ceiling check fails.
func (s *Service) Upload(ctx context.Context, c models.LoanCase, att models.Attachment) (models.CaseDocument, error) {
	if err := s.CheckCeiling(c, att); err != nil {
		logger.CtxWarn(ctx, log_messages.UploadRejectedOverCeiling,
			zap.String("case_id", c.ID),
			zap.String("document_type", att.DocumentType),
			zap.Int64("size", att.Size()),
		)
		return models.CaseDocument{}, err
	}

	objectName := s.ObjectName(c.ID, att.FileName)
	url, err := s.storage.Upload(ctx, objectName, contentType(att), att.Data)
	if err != nil {
		logger.CtxError(ctx, log_messages.CaseDocumentUploadFailed, err, zap.String("case_id", c.ID))
		return models.CaseDocument{}, fmt.Errorf("store %s: %w", att.DocumentType, err)
	}

	doc, err := s.recorder.UpsertDocument(ctx, c.ID, models.CaseDocument{
		Type:      att.DocumentType,
		Uploaded:  true,
		FileURL:   url,
		SizeBytes: att.Size(),
	})
	if err != nil {
		return models.CaseDocument{}, fmt.Errorf("record %s: %w", att.DocumentType, err)
	}

	logger.CtxInfo(ctx, log_messages.CaseDocumentUploaded,
		zap.String("case_id", c.ID),
		zap.String("document_type", att.DocumentType),
		zap.String("object", objectName),
	)
	return doc, nil
}

// ObjectName is <folder>/<caseId>/<uuid>-<filename>.
func (s *Service) ObjectName(caseID, fileName string) string {
	return path.Join(s.folder, caseID, s.newID()+"-"+sanitizeFileName(fileName))
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

func contentType(att models.Attachment) string {
	if att.ContentType != "" {
		return att.ContentType
	}
	return "application/octet-stream"
}
