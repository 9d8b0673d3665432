package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/judge/internal/api"
	"github.com/mini-maxit/judge/internal/pipeline"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
	"github.com/mini-maxit/judge/pkg/solution"
	"github.com/mini-maxit/judge/tests/mocks"
)

func newRouter(t *testing.T, eng *mocks.MockEngine, worker pipeline.Worker, limiter *api.RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := api.NewHandler(eng, languages.NewRegistry(), worker)
	return api.NewRouter(h, limiter)
}

func performRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRun_ReturnsEngineResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().RunSingle(gomock.Any(), "python", "print(input())", "hi\n").Return(solution.RunResult{
		Verdict: solution.Success,
		Stdout:  "hi",
		Message: constants.SolutionMessageSuccess,
	})

	rec := performRequest(newRouter(t, eng, nil, nil), http.MethodPost, "/run", messages.RunRequest{
		Language: "python",
		Code:     "print(input())",
		Input:    "hi\n",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res solution.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Verdict != solution.Success || res.Stdout != "hi" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRun_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing code", map[string]string{"language": "python"}},
		{"missing language", map[string]string{"code": "x"}},
		{"unknown language", messages.RunRequest{Language: "cobol", Code: "x"}},
		{"not json", "just a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// The engine must not be called for invalid requests.
			eng := mocks.NewMockEngine(ctrl)
			rec := performRequest(newRouter(t, eng, nil, nil), http.MethodPost, "/run", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRunBatch_ReturnsReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	testCases := []messages.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "3"},
	}
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().RunFullBatch(gomock.Any(), "cpp", "int main(){}", testCases).Return(solution.BatchReport{
		Verdict: solution.WrongAnswer,
		Cases: []solution.CaseReport{
			{CaseIndex: 1, Verdict: solution.Passed},
			{CaseIndex: 2, Verdict: solution.WrongAnswer},
		},
	})

	rec := performRequest(newRouter(t, eng, nil, nil), http.MethodPost, "/run/batch", messages.BatchRequest{
		Language:  "cpp",
		Code:      "int main(){}",
		TestCases: testCases,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report solution.BatchReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(report.Cases) != 2 || report.Cases[1].CaseIndex != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestRunBatch_RequiresTestCases(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng := mocks.NewMockEngine(ctrl)
	rec := performRequest(newRouter(t, eng, nil, nil), http.MethodPost, "/run/batch", messages.BatchRequest{
		Language: "cpp",
		Code:     "int main(){}",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLanguages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rec := performRequest(newRouter(t, mocks.NewMockEngine(ctrl), nil, nil), http.MethodGet, "/languages", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var specs []messages.LanguageSpec
	if err := json.Unmarshal(rec.Body.Bytes(), &specs); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	found := false
	for _, s := range specs {
		if s.ID == "cpp" {
			found = true
			if !s.Compiled {
				t.Fatalf("expected cpp to be compiled")
			}
		}
	}
	if !found {
		t.Fatalf("expected cpp in %+v", specs)
	}
}

func TestHealth_IncludesWorkerState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	worker := mocks.NewMockWorker(ctrl)
	worker.EXPECT().GetState().Return(pipeline.WorkerState{
		Status:                 constants.WorkerStatusBusy,
		ProcessingSubmissionID: 9,
	})

	rec := performRequest(newRouter(t, mocks.NewMockEngine(ctrl), worker, nil), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Worker struct {
			Status                 string `json:"status"`
			ProcessingSubmissionID int64  `json:"processing_submission_id"`
		} `json:"worker"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "ok" || body.Worker.Status != "busy" || body.Worker.ProcessingSubmissionID != 9 {
		t.Fatalf("unexpected health body %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rec := performRequest(newRouter(t, mocks.NewMockEngine(ctrl), nil, nil), http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("judge_rate_limit_hits_total")) {
		t.Fatalf("expected judge metrics to be exported")
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().RunSingle(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(solution.RunResult{Verdict: solution.Success}).Times(2)

	router := newRouter(t, eng, nil, api.NewRateLimiter(0.001, 2))
	req := messages.RunRequest{Language: "python", Code: "print(1)"}

	for i := 0; i < 2; i++ {
		if rec := performRequest(router, http.MethodPost, "/run", req); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on attempt %d, got %d", i+1, rec.Code)
		}
	}
	if rec := performRequest(router, http.MethodPost, "/run", req); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	// Read-only endpoints are not throttled.
	if rec := performRequest(router, http.MethodGet, "/languages", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for languages, got %d", rec.Code)
	}
}

func TestRateLimiter_Prune(t *testing.T) {
	rl := api.NewRateLimiter(0.001, 1)
	if !rl.Allow("a") {
		t.Fatalf("expected first request to pass")
	}
	if rl.Allow("a") {
		t.Fatalf("expected second request to be throttled")
	}
	time.Sleep(5 * time.Millisecond)
	rl.Prune(time.Millisecond)
	if !rl.Allow("a") {
		t.Fatalf("expected a fresh bucket after pruning")
	}
}
