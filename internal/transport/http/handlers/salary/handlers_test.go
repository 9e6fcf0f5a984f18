package salaryhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"salaryengine/internal/domain/auth"
	"salaryengine/internal/domain/salary"
	"salaryengine/internal/transport/http/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newRouter(user *auth.UserContext) http.Handler {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(middleware.WithUser(r.Context(), *user))
			}
			next.ServeHTTP(w, r)
		})
	})
	NewHandler(salary.DefaultRates(), auth.RoleTable{}).RegisterRoutes(router)
	return router
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

var employee = &auth.UserContext{UserID: "u1", RoleName: auth.RoleEmployee}

func TestCalculate(t *testing.T) {
	rec, env := post(t, newRouter(employee), "/salary/calculate", `{"gross":30000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var b salary.Breakdown
	require.NoError(t, json.Unmarshal(env.Data, &b))
	require.Equal(t, 28000.0, b.Summary.InHand)
	require.Equal(t, 33300.0, b.Summary.CTC)
}

func TestCalculateRejectsInputOverride(t *testing.T) {
	rec, env := post(t, newRouter(employee), "/salary/calculate", `{"gross":30000,"overrides":{"gross_salary":1}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation_error", env.Error.Code)
}

func TestCalculateRequiresUser(t *testing.T) {
	rec, env := post(t, newRouter(nil), "/salary/calculate", `{"gross":30000}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", env.Error.Code)
}

func TestRecomputeReplaysChanges(t *testing.T) {
	body := `{
		"record": {"salaryType":"monthly","grossSalary":30000,"pfApplicable":true,"ptApplicable":true},
		"changes": [
			{"field":"basic_da","value":20000,"manual":true},
			{"field":"call_allowance","value":1000,"manual":true},
			{"field":"gross_salary","value":40000,"manual":true}
		]
	}`
	rec, env := post(t, newRouter(employee), "/salary/recompute", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Record    salary.Record    `json:"record"`
		Overrides []salary.Field   `json:"overrides"`
		Breakdown salary.Breakdown `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Equal(t, []salary.Field{salary.FieldCallAllowance}, out.Overrides)
	require.Equal(t, 24000.0, out.Breakdown.Earnings.BasicDA)
	require.Equal(t, 1000.0, out.Breakdown.Earnings.CallAllowance)
	require.Equal(t, 24000.0, out.Record.BasicDA)
}

func TestRecomputeRejectsChangeWithoutField(t *testing.T) {
	rec, env := post(t, newRouter(employee), "/salary/recompute", `{"record":{"grossSalary":30000},"changes":[{"value":1}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation_error", env.Error.Code)
}

func TestPreviewAddsTakeHomeDeductions(t *testing.T) {
	body := `{"record":{"salaryType":"monthly","grossSalary":30000,"pfApplicable":true,"ptApplicable":true,"loanActive":true,"loanEmi":2000,"advancePayment":500}}`
	rec, env := post(t, newRouter(employee), "/salary/preview", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var b salary.Breakdown
	require.NoError(t, json.Unmarshal(env.Data, &b))
	require.Equal(t, 2000.0, b.Deductions.LoanEMI)
	require.Equal(t, 500.0, b.Deductions.Advance)
	require.Equal(t, 25500.0, b.Summary.NetPay)
}
