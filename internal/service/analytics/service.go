package analytics

import (
	"context"
	"sort"

	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/otel"

	"github.com/samber/lo"
)

// CaseSource is the read side of the case store.
type CaseSource interface {
	Cases(filter models.CaseFilter) []models.LoanCase
	Configuration() models.AppConfiguration
}

type Service struct {
	source CaseSource
}

func NewService(source CaseSource) *Service {
	return &Service{source: source}
}

// Summary aggregates every case whose application date falls within r.
// Statuses are reported in the configured CASE_STATUS order.
func (s *Service) Summary(ctx context.Context, r models.DateRange) models.AnalyticsSummary {
	_, span := otel.StartSpan(ctx, "analytics.Summary", "")
	defer span.End()

	statuses := s.source.Configuration().Values(consts.CategoryCaseStatus, consts.DefaultOptions[consts.CategoryCaseStatus])
	return Summarize(s.source.Cases(models.CaseFilter{}), statuses, r)
}

// Summarize builds the dashboard aggregates for cases within r.
func Summarize(cases []models.LoanCase, statusOrder []string, r models.DateRange) models.AnalyticsSummary {
	inRange := lo.Filter(cases, func(c models.LoanCase, _ int) bool {
		return r.Contains(c.ApplicationDate)
	})

	return models.AnalyticsSummary{
		Total:            len(inRange),
		Pending:          countStatus(inRange, models.StatusDocumentPending),
		Approved:         countStatus(inRange, models.StatusApproved),
		Rejected:         countStatus(inRange, models.StatusReject),
		ByStatus:         byStatus(inRange, statusOrder),
		CasesOverTime:    casesOverTime(inRange),
		DisbursedByMonth: disbursedByMonth(inRange),
		Officers:         officerTotals(inRange),
	}
}

func countStatus(cases []models.LoanCase, status models.CaseStatus) int {
	return lo.CountBy(cases, func(c models.LoanCase) bool { return c.Status == status })
}

func byStatus(cases []models.LoanCase, order []string) []models.StatusCount {
	counts := lo.CountValuesBy(cases, func(c models.LoanCase) string { return string(c.Status) })
	return lo.Map(order, func(status string, _ int) models.StatusCount {
		return models.StatusCount{Status: status, Count: counts[status]}
	})
}

func casesOverTime(cases []models.LoanCase) []models.MonthlyCount {
	counts := lo.CountValuesBy(cases, monthOf)
	months := lo.Keys(counts)
	sort.Strings(months)
	return lo.Map(months, func(month string, _ int) models.MonthlyCount {
		return models.MonthlyCount{Month: month, Count: counts[month]}
	})
}

func disbursedByMonth(cases []models.LoanCase) []models.MonthlyAmount {
	disbursed := lo.Filter(cases, func(c models.LoanCase, _ int) bool {
		return c.Status == models.StatusDisbursed && c.ApprovedAmount != nil && *c.ApprovedAmount > 0
	})
	amounts := make(map[string]float64)
	for _, c := range disbursed {
		amounts[monthOf(c)] += *c.ApprovedAmount
	}
	months := lo.Keys(amounts)
	sort.Strings(months)
	return lo.Map(months, func(month string, _ int) models.MonthlyAmount {
		return models.MonthlyAmount{Month: month, Amount: amounts[month]}
	})
}

// officerTotals keeps officers in order of first appearance.
func officerTotals(cases []models.LoanCase) []models.OfficerTotal {
	counts := lo.CountValuesBy(cases, func(c models.LoanCase) string { return c.TeamMember })
	names := lo.Uniq(lo.Map(cases, func(c models.LoanCase, _ int) string { return c.TeamMember }))
	return lo.Map(names, func(name string, _ int) models.OfficerTotal {
		return models.OfficerTotal{Name: name, Total: counts[name]}
	})
}

func monthOf(c models.LoanCase) string {
	return c.ApplicationDate.Format(consts.MonthFormat)
}
