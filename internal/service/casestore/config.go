package casestore

import (
	"context"
	"errors"
	"strings"

	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/gateway"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/otel"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

func (s *Store) AddOfficer(ctx context.Context, name string) error {
	return s.addRosterValue(ctx, consts.CategoryTeamMember, name)
}

// UpdateOfficer renames an officer and every case assigned to them.
func (s *Store) UpdateOfficer(ctx context.Context, oldName, newName string) error {
	return s.renameRosterValue(ctx, consts.CategoryTeamMember, models.RosterTeamMember, oldName, newName)
}

func (s *Store) RemoveOfficer(ctx context.Context, name string) error {
	return s.removeRosterValue(ctx, consts.CategoryTeamMember, name)
}

func (s *Store) AddBank(ctx context.Context, name string) error {
	return s.addRosterValue(ctx, consts.CategoryBankName, name)
}

// UpdateBank renames a bank and every case that references it.
func (s *Store) UpdateBank(ctx context.Context, oldName, newName string) error {
	return s.renameRosterValue(ctx, consts.CategoryBankName, models.RosterBankName, oldName, newName)
}

func (s *Store) RemoveBank(ctx context.Context, name string) error {
	return s.removeRosterValue(ctx, consts.CategoryBankName, name)
}

func (s *Store) addRosterValue(ctx context.Context, category, name string) error {
	name = strings.TrimSpace(name)
	if err := s.validator.ValidateName(name); err != nil {
		return err
	}
	_, err := s.AddConfigItem(ctx, models.ConfigItem{Category: category, Value: name})
	return err
}

func (s *Store) removeRosterValue(ctx context.Context, category, name string) error {
	return s.DeleteConfigItem(ctx, category, strings.TrimSpace(name))
}

func (s *Store) renameRosterValue(ctx context.Context, category string, field models.RosterField, oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if err := s.validator.ValidateName(newName); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := otel.StartSpan(ctx, "casestore.RenameRoster", "")
	defer span.End()

	if err := s.ensureSeeded(ctx); err != nil {
		return err
	}
	values := s.Configuration()[category]
	if !lo.Contains(values, oldName) {
		return ErrValueNotFound
	}
	if oldName == newName {
		return nil
	}
	if lo.Contains(values, newName) {
		return ErrDuplicateValue
	}

	if err := s.gateway.RenameConfigItem(ctx, category, oldName, newName); err != nil {
		return s.fail(ctx, "Failed to rename configuration item", err, zap.String("category", category))
	}
	changed, err := s.gateway.RenameCaseField(ctx, field, oldName, newName)
	if err != nil {
		return s.fail(ctx, "Failed to cascade roster rename", err, zap.String("field", string(field)))
	}

	s.mu.Lock()
	s.config[category] = lo.Map(s.config[category], func(v string, _ int) string {
		if v == oldName {
			return newName
		}
		return v
	})
	for i := range s.cases {
		renameField(&s.cases[i], field, oldName, newName)
	}
	s.officers = lo.Map(s.officers, func(v string, _ int) string {
		if field == models.RosterTeamMember && v == oldName {
			return newName
		}
		return v
	})
	cfg := s.view()
	s.mu.Unlock()
	s.validator.SetConfiguration(cfg)

	logger.CtxInfo(ctx, log_messages.RosterRenameCascaded,
		zap.String("field", string(field)),
		zap.String("from", oldName),
		zap.String("to", newName),
		zap.Int64("cases_changed", changed),
	)
	return nil
}

func renameField(c *models.LoanCase, field models.RosterField, oldValue, newValue string) {
	switch field {
	case models.RosterTeamMember:
		if c.TeamMember == oldValue {
			c.TeamMember = newValue
		}
	case models.RosterBankName:
		if c.BankName == oldValue {
			c.BankName = newValue
		}
	}
}

// AddConfigItem adds an active value at the end of its category.
func (s *Store) AddConfigItem(ctx context.Context, item models.ConfigItem) (models.ConfigItem, error) {
	if err := s.validator.ValidateConfigItem(&item); err != nil {
		return models.ConfigItem{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := otel.StartSpan(ctx, "casestore.AddConfigItem", "")
	defer span.End()

	if err := s.ensureSeeded(ctx); err != nil {
		return models.ConfigItem{}, err
	}
	if lo.Contains(s.Configuration()[item.Category], item.Value) {
		return models.ConfigItem{}, ErrDuplicateValue
	}

	added, err := s.gateway.AddConfigItem(ctx, item.Category, item.Value)
	if err != nil {
		return models.ConfigItem{}, s.fail(ctx, "Failed to add configuration item", err, zap.String("category", item.Category))
	}

	s.mu.Lock()
	s.config[added.Category] = append(s.config[added.Category], added.Value)
	s.mu.Unlock()
	s.configChanged(added.Category)

	logger.CtxInfo(ctx, log_messages.ConfigItemAdded,
		zap.String("category", added.Category),
		zap.String("value", added.Value),
	)
	return added, nil
}

// DeleteConfigItem removes a value from its category. Cases that reference it
// are left unchanged.
func (s *Store) DeleteConfigItem(ctx context.Context, category, value string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := otel.StartSpan(ctx, "casestore.DeleteConfigItem", "")
	defer span.End()

	if err := s.ensureSeeded(ctx); err != nil {
		return err
	}
	if err := s.gateway.DeleteConfigItem(ctx, category, value); err != nil {
		if errors.Is(err, gateway.ErrConfigItemNotFound) {
			return ErrValueNotFound
		}
		return s.fail(ctx, "Failed to delete configuration item", err,
			zap.String("category", category),
			zap.String("value", value),
		)
	}

	s.mu.Lock()
	s.config[category] = lo.Without(s.config[category], value)
	s.mu.Unlock()
	s.configChanged(category)

	logger.CtxInfo(ctx, log_messages.ConfigItemDeleted,
		zap.String("category", category),
		zap.String("value", value),
	)
	return nil
}

// InitConfiguration seeds the default option lists into an empty
// configuration table.
func (s *Store) InitConfiguration(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := otel.StartSpan(ctx, "casestore.InitConfiguration", "")
	defer span.End()

	inserted, err := s.seedDefaults(ctx)
	if err != nil {
		return 0, s.fail(ctx, "Failed to seed configuration", err)
	}
	return inserted, nil
}

// ensureSeeded persists the default options before the first change to an
// empty configuration table, so the values readers were shown stay valid.
// Callers hold writeMu.
func (s *Store) ensureSeeded(ctx context.Context) error {
	s.mu.RLock()
	seeded := s.seeded
	s.mu.RUnlock()
	if seeded {
		return nil
	}

	_, err := s.seedDefaults(ctx)
	switch {
	case errors.Is(err, gateway.ErrConfigurationInitialized):
		// Only inactive rows were loaded.
		s.mu.Lock()
		s.seeded = true
		s.mu.Unlock()
		s.configChanged(consts.CategoryDocumentType)
		return nil
	case err != nil:
		return s.fail(ctx, "Failed to seed configuration", err)
	}
	return nil
}

func (s *Store) seedDefaults(ctx context.Context) (int, error) {
	inserted, err := s.gateway.SeedConfiguration(ctx, consts.DefaultOptions)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.config = models.AppConfiguration(consts.DefaultOptions).Clone()
	s.seeded = true
	s.mu.Unlock()
	s.configChanged(consts.CategoryDocumentType)

	logger.CtxInfo(ctx, log_messages.ConfigurationSeeded, zap.Int("rows", inserted))
	return inserted, nil
}

// configChanged pushes the configuration to the validator and reconciles
// document slots when the document types changed. Callers hold writeMu.
func (s *Store) configChanged(category string) {
	s.mu.Lock()
	cfg := s.view()
	if category == consts.CategoryDocumentType {
		documentTypes := documentTypesOf(cfg)
		for i := range s.cases {
			s.cases[i].Documents = ReconcileDocuments(s.cases[i].Documents, documentTypes)
		}
	}
	s.mu.Unlock()
	s.validator.SetConfiguration(cfg)
}
