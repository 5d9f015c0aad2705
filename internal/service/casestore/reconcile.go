package casestore

import (
	"loan-case-tracker/internal/pkg/models"

	"github.com/samber/lo"
)

// ReconcileDocuments lays out one slot per active document type, in
// configured order. Existing slots are kept; missing ones are added as not
// uploaded. Slots for inactive types survive only when already uploaded.
func ReconcileDocuments(docs []models.CaseDocument, documentTypes []string) []models.CaseDocument {
	byType := lo.KeyBy(docs, func(d models.CaseDocument) string { return d.Type })
	active := lo.Associate(documentTypes, func(t string) (string, struct{}) { return t, struct{}{} })

	out := make([]models.CaseDocument, 0, len(documentTypes))
	for _, t := range documentTypes {
		if d, ok := byType[t]; ok {
			out = append(out, d)
			continue
		}
		out = append(out, models.CaseDocument{Type: t})
	}
	for _, d := range docs {
		if _, ok := active[d.Type]; !ok && d.Uploaded {
			out = append(out, d)
		}
	}
	return out
}

// MergeDocument replaces the slot for doc.Type, or appends it.
func MergeDocument(docs []models.CaseDocument, doc models.CaseDocument) []models.CaseDocument {
	out := append([]models.CaseDocument(nil), docs...)
	if _, i, ok := lo.FindIndexOf(out, func(d models.CaseDocument) bool { return d.Type == doc.Type }); ok {
		out[i] = doc
		return out
	}
	return append(out, doc)
}

// NewSlots returns an empty slot per document type.
func NewSlots(documentTypes []string) []models.CaseDocument {
	return lo.Map(documentTypes, func(t string, _ int) models.CaseDocument {
		return models.CaseDocument{Type: t}
	})
}
