package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"service-order/internal/dto"
	"service-order/internal/entities"
	"service-order/internal/workflow"
	apperrors "service-order/pkg/errors"
	"service-order/pkg/validation"
)

type fakeTransitionService struct {
	advance  func(dto.AdvanceTransitionDTO) (*dto.TransitionResultDTO, error)
	complete func(dto.CompleteActionsDTO) (*dto.TransitionResultDTO, error)
	revert   func(dto.RevertTransitionDTO) (*dto.TransitionResultDTO, error)
	progress func(uint64) (*dto.ProgressDTO, error)
}

func (f *fakeTransitionService) Advance(_ context.Context, d dto.AdvanceTransitionDTO) (*dto.TransitionResultDTO, error) {
	return f.advance(d)
}

func (f *fakeTransitionService) CompleteRequiredActions(_ context.Context, d dto.CompleteActionsDTO) (*dto.TransitionResultDTO, error) {
	return f.complete(d)
}

func (f *fakeTransitionService) Revert(_ context.Context, d dto.RevertTransitionDTO) (*dto.TransitionResultDTO, error) {
	return f.revert(d)
}

func (f *fakeTransitionService) DescribeFlow(at workflow.AttendanceType) dto.FlowDTO {
	flow := workflow.FlowFor(at)
	return dto.FlowDTO{AttendanceType: flow.AttendanceType().String(), Fallback: !workflow.Known(at)}
}

func (f *fakeTransitionService) GetProgress(_ context.Context, id uint64) (*dto.ProgressDTO, error) {
	return f.progress(id)
}

func (f *fakeTransitionService) ProgressOf(*entities.ServiceOrder) float64 { return 0 }

type fakeHistoryService struct {
	timeline []dto.TimelineEventDTO
}

func (f *fakeHistoryService) GetTimelineByOrderID(_ context.Context, _ uint64, _, _ string) ([]dto.TimelineEventDTO, error) {
	return f.timeline, nil
}

type fakeReportService struct {
	rows []dto.HistoryReportRowDTO
}

func (f *fakeReportService) GetHistoryReport(context.Context, uint64) ([]dto.HistoryReportRowDTO, error) {
	return f.rows, nil
}

type responseBody struct {
	Status  bool            `json:"status"`
	Body    json.RawMessage `json:"body"`
	Message string          `json:"message"`
}

type ControllerTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	service *fakeTransitionService
	history *fakeHistoryService
	report  *fakeReportService
}

func (s *ControllerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.Validator = validation.New()
	s.service = &fakeTransitionService{}
	s.history = &fakeHistoryService{}
	s.report = &fakeReportService{}

	logger := zap.NewNop()
	tc := NewTransitionController(s.service, logger)
	hc := NewOrderHistoryController(s.history, s.service, logger)
	rc := NewReportController(s.report, logger)

	s.echo.GET("/flows/:attendanceType", tc.DescribeFlow)
	s.echo.GET("/orders/:id/progress", tc.GetProgress)
	s.echo.POST("/orders/:id/transitions/advance", tc.Advance)
	s.echo.POST("/orders/:id/transitions/complete-actions", tc.CompleteActions)
	s.echo.POST("/orders/:id/transitions/revert", tc.Revert)
	s.echo.GET("/orders/:id/history", hc.GetHistoryForOrder)
	s.echo.GET("/orders/:id/history/export", rc.ExportHistory)
}

func (s *ControllerTestSuite) do(method, path, body string) (*httptest.ResponseRecorder, responseBody) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var resp responseBody
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func (s *ControllerTestSuite) TestAdvance_Success() {
	var got dto.AdvanceTransitionDTO
	s.service.advance = func(d dto.AdvanceTransitionDTO) (*dto.TransitionResultDTO, error) {
		got = d
		return &dto.TransitionResultDTO{Success: true, OrderID: d.OrderID, AppliedStatus: d.TargetStatus, SideEffectErrors: []dto.SideEffectErrorDTO{}}, nil
	}

	rec, resp := s.do(http.MethodPost, "/orders/15/transitions/advance", `{"target_status":"scheduled","notes":"утро"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.True(resp.Status)
	s.Equal(uint64(15), got.OrderID)
	s.Equal("утро", got.Notes.String)

	var result dto.TransitionResultDTO
	s.Require().NoError(json.Unmarshal(resp.Body, &result))
	s.Equal("scheduled", result.AppliedStatus)
}

func (s *ControllerTestSuite) TestAdvance_ValidationErrors() {
	rec, _ := s.do(http.MethodPost, "/orders/15/transitions/advance", `{"target_status":"Flying Now"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/orders/abc/transitions/advance", `{"target_status":"scheduled"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/orders/15/transitions/advance", `{broken`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ControllerTestSuite) TestAdvance_ErrorMapping() {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"rejection", &workflow.RejectionError{Reason: workflow.ErrTerminalState, From: "completed", To: "in_progress"}, http.StatusUnprocessableEntity},
		{"in progress", apperrors.ErrAlreadyInProgress, http.StatusConflict},
		{"conflict", apperrors.ErrPersistenceConflict, http.StatusConflict},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.service.advance = func(dto.AdvanceTransitionDTO) (*dto.TransitionResultDTO, error) { return nil, tc.err }
			rec, resp := s.do(http.MethodPost, "/orders/1/transitions/advance", `{"target_status":"in_progress"}`)
			s.Equal(tc.code, rec.Code)
			s.False(resp.Status)
		})
	}
}

func (s *ControllerTestSuite) TestAdvance_RejectionCarriesKind() {
	s.service.advance = func(dto.AdvanceTransitionDTO) (*dto.TransitionResultDTO, error) {
		return nil, &workflow.RejectionError{Reason: workflow.ErrTerminalState, From: "completed", To: "in_progress"}
	}
	_, resp := s.do(http.MethodPost, "/orders/1/transitions/advance", `{"target_status":"in_progress"}`)

	var details map[string]string
	s.Require().NoError(json.Unmarshal(resp.Body, &details))
	s.Equal("terminal_state", details["kind"])
	s.Equal(workflow.ErrTerminalState.Error(), resp.Message)
}

func (s *ControllerTestSuite) TestAdvance_ActionRequired() {
	s.service.advance = func(d dto.AdvanceTransitionDTO) (*dto.TransitionResultDTO, error) {
		return &dto.TransitionResultDTO{ActionRequired: true, RequiredAction: &dto.RequiredActionConfigDTO{Title: "Фото"}}, nil
	}
	rec, resp := s.do(http.MethodPost, "/orders/1/transitions/advance", `{"target_status":"in_progress"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Требуется выполнить обязательные действия", resp.Message)
}

func (s *ControllerTestSuite) TestCompleteActions() {
	var got dto.CompleteActionsDTO
	s.service.complete = func(d dto.CompleteActionsDTO) (*dto.TransitionResultDTO, error) {
		got = d
		return &dto.TransitionResultDTO{
			Success:          true,
			SideEffectErrors: []dto.SideEffectErrorDTO{{Hook: "warranty", Message: "timeout"}},
		}, nil
	}

	body := `{"target_status":"in_progress","actions":{"photo":"1.jpg"},"skipped":false}`
	rec, resp := s.do(http.MethodPost, "/orders/4/transitions/complete-actions", body)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("1.jpg", got.Actions["photo"])
	s.Equal("Статус изменён, часть связанных действий не выполнена", resp.Message)
}

func (s *ControllerTestSuite) TestRevert() {
	s.service.revert = func(d dto.RevertTransitionDTO) (*dto.TransitionResultDTO, error) {
		return &dto.TransitionResultDTO{Success: true, AppliedStatus: "pending"}, nil
	}

	rec, _ := s.do(http.MethodPost, "/orders/4/transitions/revert", `{"reason":"   "}`)
	s.Equal(http.StatusBadRequest, rec.Code, "пустая причина отклоняется валидацией")

	rec, resp := s.do(http.MethodPost, "/orders/4/transitions/revert", `{"reason":"ошибка диспетчера"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.True(resp.Status)
}

func (s *ControllerTestSuite) TestDescribeFlow() {
	rec, resp := s.do(http.MethodGet, "/flows/unknown_type", "")
	s.Equal(http.StatusOK, rec.Code)

	var flow dto.FlowDTO
	s.Require().NoError(json.Unmarshal(resp.Body, &flow))
	s.True(flow.Fallback)
	s.Equal("on_site", flow.AttendanceType)
}

func (s *ControllerTestSuite) TestHistory() {
	s.service.progress = func(id uint64) (*dto.ProgressDTO, error) {
		if id == 404 {
			return nil, apperrors.ErrNotFound
		}
		return &dto.ProgressDTO{OrderID: id}, nil
	}
	s.history.timeline = []dto.TimelineEventDTO{{ID: 1, Lines: []string{"Установлен статус: «Ожидает»"}}}

	rec, _ := s.do(http.MethodGet, "/orders/404/history", "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec, resp := s.do(http.MethodGet, "/orders/2/history?limit=10", "")
	s.Equal(http.StatusOK, rec.Code)
	var timeline []dto.TimelineEventDTO
	s.Require().NoError(json.Unmarshal(resp.Body, &timeline))
	s.Len(timeline, 1)
}

func (s *ControllerTestSuite) TestExportHistory() {
	s.report.rows = []dto.HistoryReportRowDTO{
		{Number: 1, OrderID: 2, Date: "01.02.2026", EventType: "Смена статуса", ToStatus: "Запланирована"},
	}

	rec, _ := s.do(http.MethodGet, "/orders/2/history/export", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "order_2_history_")

	f, err := excelize.OpenReader(rec.Body)
	s.Require().NoError(err)
	defer f.Close()
	header, err := f.GetCellValue("История статусов", "E1")
	s.Require().NoError(err)
	s.Equal("Событие", header)
	status, err := f.GetCellValue("История статусов", "G2")
	s.Require().NoError(err)
	s.Equal("Запланирована", status)

	rec, resp := s.do(http.MethodGet, "/orders/2/history/export?format=json", "")
	s.Equal(http.StatusOK, rec.Code)
	s.True(resp.Status)
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}
