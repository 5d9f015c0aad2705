package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loan-case-tracker/internal/pkg/gateway"
	"loan-case-tracker/internal/pkg/lifecycle"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/validation"
	"loan-case-tracker/internal/service/casestore"
	"loan-case-tracker/internal/service/documents"
	"loan-case-tracker/internal/service/suggestion"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewHealthCheckHandler().HealthCheck)

	w := serve(r, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Health Check", decode(t, w)["message"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"case not found", gateway.ErrCaseNotFound, http.StatusNotFound},
		{"config item not found", gateway.ErrConfigItemNotFound, http.StatusNotFound},
		{"roster value not found", casestore.ErrValueNotFound, http.StatusNotFound},
		{"duplicate", casestore.ErrDuplicateValue, http.StatusConflict},
		{"already seeded", gateway.ErrConfigurationInitialized, http.StatusConflict},
		{"transition", &lifecycle.TransitionError{From: models.StatusApproved, To: models.StatusLogin}, http.StatusConflict},
		{"over ceiling", fmt.Errorf("upload: %w", documents.ErrUploadLimitExceeded), http.StatusRequestEntityTooLarge},
		{"bad model output", fmt.Errorf("%w: rationale", suggestion.ErrInvalidOutput), http.StatusBadGateway},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRespondError_FieldErrors(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		respondError(c, validation.FieldErrors{"email": {"Invalid email address."}})
	})

	w := serve(r, http.MethodGet, "/", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, map[string]interface{}{"email": []interface{}{"Invalid email address."}}, body["fields"])
}

const testUploadLimit = 16

func caseRouter(svc *MockCaseService) *gin.Engine {
	h := NewCaseHandler(svc, testUploadLimit)
	r := gin.New()
	r.GET("/cases", h.ListCases)
	r.GET("/cases/:id", h.GetCase)
	r.POST("/cases", h.AddCase)
	r.PATCH("/cases/:id/status", h.UpdateStatus)
	r.POST("/cases/reload", h.Reload)
	r.POST("/documents", NewDocumentHandler(svc, testUploadLimit).Upload)
	return r
}

func TestCaseHandler_ListCasesBindsFilter(t *testing.T) {
	svc := new(MockCaseService)
	filter := models.CaseFilter{Search: "asha", Status: "Reject", Officer: "Ravi"}
	svc.On("Cases", filter).Return([]models.LoanCase{{ID: "c1"}})

	w := serve(caseRouter(svc), http.MethodGet, "/cases?search=asha&status=Reject&officer=Ravi", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	cases := decode(t, w)["cases"].([]interface{})
	assert.Len(t, cases, 1)
	svc.AssertExpectations(t)
}

func TestCaseHandler_GetCase(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("GetByID", "c1").Return(models.LoanCase{ID: "c1", ApplicantName: "Asha"}, true)
	svc.On("GetByID", "missing").Return(models.LoanCase{}, false)
	r := caseRouter(svc)

	w := serve(r, http.MethodGet, "/cases/c1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha", decode(t, w)["applicantName"])

	w = serve(r, http.MethodGet, "/cases/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaseHandler_AddCaseJSON(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("AddCase", mock.Anything, mock.MatchedBy(func(d models.CaseDraft) bool {
		return d.ApplicantName == "Asha" && d.LoanAmount == 500000
	}), []models.Attachment(nil)).Return(models.LoanCase{ID: "c1"}, nil)

	body := []byte(`{"applicantName":"Asha","loanAmount":500000}`)
	w := serve(caseRouter(svc), http.MethodPost, "/cases", body, "application/json")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "c1", decode(t, w)["id"])
	svc.AssertExpectations(t)
}

func TestCaseHandler_AddCaseMultipart(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("AddCase", mock.Anything, mock.Anything, mock.MatchedBy(func(atts []models.Attachment) bool {
		return len(atts) == 2 &&
			atts[0].DocumentType == "Aadhar Card" && string(atts[0].Data) == "aadhar" &&
			atts[1].DocumentType == "PAN Card" && atts[1].FileName == "pan.pdf"
	})).Return(models.LoanCase{ID: "c1"}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("case", `{"applicantName":"Asha"}`))
	part, err := mw.CreateFormFile("PAN Card", "pan.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("pan"))
	part, err = mw.CreateFormFile("Aadhar Card", "aadhar.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("aadhar"))
	require.NoError(t, mw.Close())

	w := serve(caseRouter(svc), http.MethodPost, "/cases", buf.Bytes(), mw.FormDataContentType())

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCaseHandler_AddCaseMultipartOverLimit(t *testing.T) {
	svc := new(MockCaseService)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("case", `{"applicantName":"Asha"}`))
	part, err := mw.CreateFormFile("PAN Card", "pan.pdf")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte("p"), 10))
	part, err = mw.CreateFormFile("Salary Slip", "slip.pdf")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte("s"), 10))
	require.NoError(t, mw.Close())

	w := serve(caseRouter(svc), http.MethodPost, "/cases", buf.Bytes(), mw.FormDataContentType())

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "AddCase", mock.Anything, mock.Anything, mock.Anything)
}

func TestCaseHandler_AddCaseMultipartWithoutDraft(t *testing.T) {
	svc := new(MockCaseService)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	w := serve(caseRouter(svc), http.MethodPost, "/cases", buf.Bytes(), mw.FormDataContentType())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "AddCase", mock.Anything, mock.Anything, mock.Anything)
}

func TestCaseHandler_AddCaseValidationFailure(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("AddCase", mock.Anything, mock.Anything, mock.Anything).
		Return(models.LoanCase{}, validation.FieldErrors{"applicantName": {"Applicant name must be at least 2 characters."}})

	w := serve(caseRouter(svc), http.MethodPost, "/cases", []byte(`{"applicantName":"A"}`), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "applicantName")
}

func TestCaseHandler_UpdateStatus(t *testing.T) {
	svc := new(MockCaseService)
	update := models.StatusUpdate{Status: models.StatusApproved, Remarks: "ok"}
	svc.On("UpdateCaseStatus", mock.Anything, "c1", update).
		Return(models.LoanCase{ID: "c1", Status: models.StatusApproved}, nil)
	svc.On("UpdateCaseStatus", mock.Anything, "missing", update).
		Return(models.LoanCase{}, gateway.ErrCaseNotFound)
	r := caseRouter(svc)
	body := []byte(`{"status":"Approved","remarks":"ok"}`)

	w := serve(r, http.MethodPatch, "/cases/c1/status", body, "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Approved", decode(t, w)["status"])

	w = serve(r, http.MethodPatch, "/cases/missing/status", body, "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaseHandler_Reload(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("Load", mock.Anything).Return(nil).Once()
	svc.On("Cases", models.CaseFilter{}).Return([]models.LoanCase{{ID: "a"}, {ID: "b"}})
	r := caseRouter(svc)

	w := serve(r, http.MethodPost, "/cases/reload", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["cases"])

	svc.On("Load", mock.Anything).Return(errors.New("mongo down"))
	w = serve(r, http.MethodPost, "/cases/reload", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func documentForm(t *testing.T, caseID, documentType string, data []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if caseID != "" {
		require.NoError(t, mw.WriteField("caseId", caseID))
	}
	if documentType != "" {
		require.NoError(t, mw.WriteField("documentType", documentType))
	}
	if data != nil {
		part, err := mw.CreateFormFile("file", "pan.pdf")
		require.NoError(t, err)
		_, _ = part.Write(data)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestDocumentHandler_Upload(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("UpdateCaseDocument", mock.Anything, "c1", mock.MatchedBy(func(a models.Attachment) bool {
		return a.DocumentType == "PAN Card" && string(a.Data) == "pdf"
	})).Return(models.CaseDocument{Type: "PAN Card", Uploaded: true, FileURL: "https://x/pan.pdf"}, nil)

	body, ct := documentForm(t, "c1", "PAN Card", []byte("pdf"))
	w := serve(caseRouter(svc), http.MethodPost, "/documents", body, ct)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["uploaded"])
}

func TestDocumentHandler_UploadMissingParts(t *testing.T) {
	svc := new(MockCaseService)

	body, ct := documentForm(t, "c1", "", []byte("pdf"))
	w := serve(caseRouter(svc), http.MethodPost, "/documents", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = documentForm(t, "c1", "PAN Card", nil)
	w = serve(caseRouter(svc), http.MethodPost, "/documents", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file, caseId and documentType are required", decode(t, w)["error"])
}

func TestDocumentHandler_UploadOverCeiling(t *testing.T) {
	svc := new(MockCaseService)
	svc.On("UpdateCaseDocument", mock.Anything, "c1", mock.Anything).
		Return(models.CaseDocument{}, documents.ErrUploadLimitExceeded)

	body, ct := documentForm(t, "c1", "PAN Card", []byte("pdf"))
	w := serve(caseRouter(svc), http.MethodPost, "/documents", body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDocumentHandler_UploadLargerThanLimitIsNotRead(t *testing.T) {
	svc := new(MockCaseService)

	body, ct := documentForm(t, "c1", "PAN Card", bytes.Repeat([]byte("a"), testUploadLimit+1))
	w := serve(caseRouter(svc), http.MethodPost, "/documents", body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "UpdateCaseDocument", mock.Anything, mock.Anything, mock.Anything)
}

func configRouter(svc *MockConfigService) *gin.Engine {
	h := NewConfigHandler(svc)
	r := gin.New()
	r.GET("/configuration", h.GetConfiguration)
	r.POST("/configuration/items", h.AddItem)
	r.DELETE("/configuration/items/:category/:value", h.DeleteItem)
	r.POST("/configuration/init", h.Init)
	return r
}

func TestConfigHandler(t *testing.T) {
	svc := new(MockConfigService)
	svc.On("Configuration").Return(models.AppConfiguration{"LOAN_TYPE": {"Home Loan"}})
	svc.On("LastError").Return("")
	svc.On("AddConfigItem", mock.Anything, models.ConfigItem{Category: "LOAN_TYPE", Value: "Gold Loan"}).
		Return(models.ConfigItem{ID: "7", Category: "LOAN_TYPE", Value: "Gold Loan"}, nil)
	svc.On("AddConfigItem", mock.Anything, models.ConfigItem{Category: "LOAN_TYPE", Value: "Home Loan"}).
		Return(models.ConfigItem{}, casestore.ErrDuplicateValue)
	svc.On("DeleteConfigItem", mock.Anything, "LOAN_TYPE", "Home Loan").Return(nil)
	svc.On("DeleteConfigItem", mock.Anything, "LOAN_TYPE", "Nope").Return(casestore.ErrValueNotFound)
	svc.On("InitConfiguration", mock.Anything).Return(42, nil).Once()
	svc.On("InitConfiguration", mock.Anything).Return(0, gateway.ErrConfigurationInitialized)
	r := configRouter(svc)

	t.Run("get", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/configuration", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, map[string]interface{}{"LOAN_TYPE": []interface{}{"Home Loan"}}, body["configuration"])
		assert.Equal(t, "", body["lastError"])
	})

	t.Run("add", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/configuration/items", []byte(`{"category":"LOAN_TYPE","value":"Gold Loan"}`), "application/json")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("add duplicate", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/configuration/items", []byte(`{"category":"LOAN_TYPE","value":"Home Loan"}`), "application/json")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := serve(r, http.MethodDelete, "/configuration/items/LOAN_TYPE/Home%20Loan", nil, "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("delete unknown", func(t *testing.T) {
		w := serve(r, http.MethodDelete, "/configuration/items/LOAN_TYPE/Nope", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("init then init again", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/configuration/init", nil, "")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, float64(42), decode(t, w)["inserted"])

		w = serve(r, http.MethodPost, "/configuration/init", nil, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestRosterHandlers(t *testing.T) {
	svc := new(MockRosterService)
	svc.On("Officers").Return([]string{"Ravi", "Meena"})
	svc.On("ReferencedOfficers").Return([]string{"Ravi", "Old Officer"})
	svc.On("Banks").Return([]string{"HDFC Bank"})
	svc.On("AddOfficer", mock.Anything, "Kiran").Return(nil)
	svc.On("UpdateOfficer", mock.Anything, "Ravi", "Ravi K").Return(nil)
	svc.On("UpdateBank", mock.Anything, "Missing", "X Bank").Return(casestore.ErrValueNotFound)
	svc.On("RemoveBank", mock.Anything, "HDFC Bank").Return(nil)

	officers := NewOfficerHandler(svc)
	banks := NewBankHandler(svc)
	r := gin.New()
	r.GET("/officers", officers.List)
	r.GET("/officers/referenced", officers.Referenced)
	r.GET("/banks/referenced", banks.Referenced)
	r.POST("/officers", officers.Add)
	r.PUT("/officers/:name", officers.Update)
	r.GET("/banks", banks.List)
	r.PUT("/banks/:name", banks.Update)
	r.DELETE("/banks/:name", banks.Remove)

	w := serve(r, http.MethodGet, "/officers", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"Ravi", "Meena"}, decode(t, w)["names"])

	w = serve(r, http.MethodGet, "/banks", nil, "")
	assert.Equal(t, []interface{}{"HDFC Bank"}, decode(t, w)["names"])

	w = serve(r, http.MethodGet, "/officers/referenced", nil, "")
	assert.Equal(t, []interface{}{"Ravi", "Old Officer"}, decode(t, w)["names"])

	w = serve(r, http.MethodGet, "/banks/referenced", nil, "")
	assert.Equal(t, []interface{}{}, decode(t, w)["names"])

	w = serve(r, http.MethodPost, "/officers", []byte(`{"name":"Kiran"}`), "application/json")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, http.MethodPut, "/officers/Ravi", []byte(`{"name":"Ravi K"}`), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPut, "/banks/Missing", []byte(`{"name":"X Bank"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodDelete, "/banks/HDFC%20Bank", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	svc.AssertExpectations(t)
}

func TestParseDateRange(t *testing.T) {
	r, err := parseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, r.From.IsZero())
	assert.True(t, r.To.IsZero())

	r, err = parseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), r.To)

	_, err = parseDateRange("01/01/2024", "")
	assert.Error(t, err)
}

func TestAnalyticsHandler(t *testing.T) {
	svc := new(MockAnalyticsService)
	svc.On("Summary", mock.Anything, mock.MatchedBy(func(r models.DateRange) bool {
		return r.From.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) && r.To.IsZero()
	})).Return(models.AnalyticsSummary{Total: 3, Pending: 1})

	r := gin.New()
	r.GET("/analytics", NewAnalyticsHandler(svc).Summary)

	w := serve(r, http.MethodGet, "/analytics?from=2024-02-01", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["total"])

	w = serve(r, http.MethodGet, "/analytics?to=yesterday", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionHandler(t *testing.T) {
	svc := new(MockSuggestionService)
	good := models.SuggestionInput{ApplicantData: `{"salary":90000}`}
	bad := models.SuggestionInput{ApplicantData: `{"salary":1}`}
	svc.On("Suggest", mock.Anything, good).Return(models.SuggestionOutput{
		SuggestedLoanAmount: 400000,
		SuggestedLoanType:   "Personal Loan",
		Rationale:           "Stable income.",
	}, nil)
	svc.On("Suggest", mock.Anything, bad).Return(models.SuggestionOutput{}, fmt.Errorf("%w: amount", suggestion.ErrInvalidOutput))

	r := gin.New()
	r.POST("/suggestions", NewSuggestionHandler(svc).Suggest)

	body, _ := json.Marshal(good)
	w := serve(r, http.MethodPost, "/suggestions", body, "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Personal Loan", decode(t, w)["suggestedLoanType"])

	body, _ = json.Marshal(bad)
	w = serve(r, http.MethodPost, "/suggestions", body, "application/json")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = serve(r, http.MethodPost, "/suggestions", []byte(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRepairHandler(t *testing.T) {
	svc := new(MockRepairService)
	svc.On("Drain", mock.Anything, nil).Return(models.RepairReport{Repaired: 2, Dead: 1}, nil)
	svc.On("Pending", mock.Anything).Return(int64(4), nil)
	svc.On("DeadLetters", mock.Anything).Return(int64(1), nil)

	h := NewRepairHandler(svc, nil)
	r := gin.New()
	r.POST("/repairs/run", h.Run)
	r.GET("/repairs", h.Status)

	w := serve(r, http.MethodPost, "/repairs/run", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["repaired"])

	w = serve(r, http.MethodGet, "/repairs", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(4), body["pending"])
	assert.Equal(t, float64(1), body["dead"])
}
