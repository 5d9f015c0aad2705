package validation

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var (
	phonePattern    = regexp.MustCompile(`^([+]?[\s0-9]+)?(\d{3}|[(]\d{3}[)])?[\s-]?(\d{3})[\s-]?(\d{4})$`)
	panPattern      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// Validator checks case payloads against field rules and the runtime
// allow-lists loaded from app_configuration.
type Validator struct {
	validate *validator.Validate

	mu      sync.RWMutex
	allowed map[string]map[string]struct{}
}

// New builds a Validator whose allow-lists start as the default options.
func New() *Validator {
	v := &Validator{validate: validator.New()}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return panPattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("allowed", func(fl validator.FieldLevel) bool {
		return v.IsAllowed(fl.Param(), fl.Field().String())
	})
	_ = v.validate.RegisterValidation("maxsentences", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return CountSentences(fl.Field().String()) <= limit
	})
	v.validate.RegisterStructValidation(otherBankRule, models.CaseDraft{})

	v.SetConfiguration(models.AppConfiguration{})
	return v
}

// otherBankRule requires a bank name of more than two characters when the
// "Other" bank is selected.
func otherBankRule(sl validator.StructLevel) {
	draft, ok := sl.Current().Interface().(models.CaseDraft)
	if !ok {
		return
	}
	if draft.BankName == consts.OtherBankName && len(strings.TrimSpace(draft.OtherBankName)) <= 2 {
		sl.ReportError(draft.OtherBankName, "otherBankName", "OtherBankName", "otherbank", "")
	}
}

// SetConfiguration swaps the allow-lists. Categories absent from cfg fall
// back to the default options; present but empty ones allow nothing.
func (v *Validator) SetConfiguration(cfg models.AppConfiguration) {
	allowed := make(map[string]map[string]struct{}, len(consts.Categories))
	for _, category := range consts.Categories {
		values := cfg.Values(category, consts.DefaultOptions[category])
		allowed[category] = lo.Associate(values, func(value string) (string, struct{}) {
			return value, struct{}{}
		})
	}

	v.mu.Lock()
	v.allowed = allowed
	v.mu.Unlock()
}

// IsAllowed reports whether value is in the allow-list for category.
func (v *Validator) IsAllowed(category, value string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.allowed[category][value]
	return ok
}

// ValidateDraft trims the draft in place and validates it.
func (v *Validator) ValidateDraft(draft *models.CaseDraft) error {
	NormalizeDraft(draft)
	return v.check(draft)
}

// ValidateStatusUpdate trims the remarks in place and validates the update.
func (v *Validator) ValidateStatusUpdate(update *models.StatusUpdate) error {
	update.Remarks = strings.TrimSpace(update.Remarks)
	update.Status = models.CaseStatus(strings.TrimSpace(string(update.Status)))
	return v.check(update)
}

func (v *Validator) ValidateSuggestionInput(input models.SuggestionInput) error {
	return v.check(input)
}

func (v *Validator) ValidateSuggestionOutput(output models.SuggestionOutput) error {
	return v.check(output)
}

// ValidateConfigItem checks a new configuration item. The category must be
// one of the known categories.
func (v *Validator) ValidateConfigItem(item *models.ConfigItem) error {
	item.Category = strings.TrimSpace(item.Category)
	item.Value = strings.TrimSpace(item.Value)
	err := v.check(item)
	if item.Category != "" && !consts.IsKnownCategory(item.Category) {
		fields, ok := err.(FieldErrors)
		if !ok {
			fields = FieldErrors{}
		}
		fields.add("category", msgUnknownCategory)
		return fields
	}
	return err
}

// ValidateName checks a roster name (officer or bank).
func (v *Validator) ValidateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return FieldErrors{"name": {msgNameRequired}}
	}
	return nil
}

func (v *Validator) check(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := FieldErrors{}
	for _, fe := range validationErrors {
		fields.add(fe.Field(), messageFor(fe.Field(), fe.Tag()))
	}
	return fields
}

// NormalizeDraft trims surrounding whitespace from every text field.
func NormalizeDraft(d *models.CaseDraft) {
	d.ApplicantName = strings.TrimSpace(d.ApplicantName)
	d.LoanType = strings.TrimSpace(d.LoanType)
	d.CaseType = strings.TrimSpace(d.CaseType)
	d.ContactNumber = strings.TrimSpace(d.ContactNumber)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
	d.TeamMember = strings.TrimSpace(d.TeamMember)
	d.Status = models.CaseStatus(strings.TrimSpace(string(d.Status)))
	d.Notes = strings.TrimSpace(d.Notes)
	d.Location = strings.TrimSpace(d.Location)
	d.DOB = strings.TrimSpace(d.DOB)
	d.PANCardNumber = strings.TrimSpace(d.PANCardNumber)
	d.JobProfile = strings.TrimSpace(d.JobProfile)
	d.JobDesignation = strings.TrimSpace(d.JobDesignation)
	d.ReferenceName = strings.TrimSpace(d.ReferenceName)
	d.BankName = strings.TrimSpace(d.BankName)
	d.OtherBankName = strings.TrimSpace(d.OtherBankName)
	d.BankOfficeSM = strings.TrimSpace(d.BankOfficeSM)
}

// CountSentences counts non-empty runs of text terminated by ., ! or ? (or
// by the end of the string).
func CountSentences(s string) int {
	return len(lo.Filter(sentencePattern.Split(s, -1), func(part string, _ int) bool {
		return strings.TrimSpace(part) != ""
	}))
}
