package suggestion

import (
	"strings"
	"text/template"

	"loan-case-tracker/internal/pkg/models"
)

var promptTemplate = template.Must(template.New("suggestion").Parse(
	`You are an AI loan expert. Given the applicant data and historical loan approval data, suggest the best combination of loan features (loan amount, loan type, repayment terms) to maximize approval chances and minimize risk.

Applicant Data: {{.ApplicantData}}
Approval History Data: {{.ApprovalHistoryData}}

Consider the following when creating the response:
*  Suggest only realistic loan amounts, loan types, and repayment terms.
*  The rationale should be no more than 5 sentences.
*  The suggestion should take into account both the applicant's data and the approval history data. If there are conflicts, err on the side of caution.

Here's the suggested output in JSON format:
{
  "suggestedLoanAmount": <suggested loan amount>,
  "suggestedLoanType": <suggested loan type>,
  "suggestedRepaymentTerms": <suggested repayment terms>,
  "rationale": <explanation of why these features are suggested>
}
`))

// RenderPrompt fills the suggestion prompt with the two JSON inputs.
func RenderPrompt(input models.SuggestionInput) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, input); err != nil {
		return "", err
	}
	return b.String(), nil
}
