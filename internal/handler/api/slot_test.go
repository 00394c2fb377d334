//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"parkpass/internal/domain/user"
	"parkpass/internal/handler/api"
	resdto "parkpass/internal/handler/dto/response"
	"parkpass/internal/handler/middleware"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/queries"
	"parkpass/tests/common/builder"
	"parkpass/tests/common/httptest"
	commandsmock "parkpass/tests/mock/commands"
	queriesmock "parkpass/tests/mock/queries"
	usecasemock "parkpass/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockSlotQueries
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSlotQueries(s.mockCtrl)
	validator := usecasemock.NewMockTokenValidator(s.mockCtrl)
	stubTokens(s.T(), validator)

	auth := middleware.NewAuthMiddleware(validator)
	h := api.NewSlotHandler(s.mockCommands, s.mockQueries)

	s.router.Use(middleware.ErrorHandler())
	slots := s.router.Group("/api/slots")
	slots.GET("", h.List)
	slots.GET("/stats", h.Stats)
	slots.GET("/:id", h.Get)
	slots.GET("/:id/quote", h.Quote)
	slots.POST("/:id/release", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleOperator), h.Release)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

func (s *SlotHandlerTestSuite) TestList() {
	views := []*queries.SlotView{
		builder.NewSlotBuilder().WithName("A-01").BuildView(),
		builder.NewSlotBuilder().WithName("A-02").BuildView(),
	}

	s.Run("success: no auth required", func() {
		s.mockQueries.EXPECT().List(gomock.Any()).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/slots", nil, "")

		var body []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 2)
		s.Equal("A-02", body[1].Name)
		s.Equal([]string{"Covered", "24/7"}, body[0].Features)
	})

	s.Run("error: 503 when the store is down", func() {
		s.mockQueries.EXPECT().List(gomock.Any()).Return(nil, errs.ErrStoreUnavailable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/slots", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "Service unavailable")
	})
}

func (s *SlotHandlerTestSuite) TestStats() {
	s.mockQueries.EXPECT().Stats(gomock.Any()).
		Return(&queries.SlotStats{Total: 5, Available: 3, Reserved: 1, Booked: 1}, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/slots/stats", nil, "")

	var body resdto.SlotStatsResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal(resdto.SlotStatsResponse{Total: 5, Available: 3, Reserved: 1, Booked: 1}, body)
}

func (s *SlotHandlerTestSuite) TestGet() {
	view := builder.NewSlotBuilder().BuildView()

	s.Run("success", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/slots/"+view.ID.String(), nil, "")

		var body resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
		s.Equal("available", body.Status)
	})

	s.Run("error: 404 for unknown slot", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().Get(gomock.Any(), id).Return(nil, errs.ErrSlotNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/slots/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})
}

func (s *SlotHandlerTestSuite) TestQuote() {
	id := uuid.New()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	url := "/api/slots/" + id.String() + "/quote?start=2025-01-01T09:00:00Z&end=2025-01-01T10:30:00Z"

	s.Run("success: 1.5h at 10 costs 20", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), id, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, _ uuid.UUID, gotStart, gotEnd time.Time) (*queries.Quote, error) {
				s.True(gotStart.Equal(start))
				s.True(gotEnd.Equal(end))
				return &queries.Quote{SlotID: id, StartTime: start, EndTime: end, BillableHours: 2, HourlyPrice: 10, Amount: 20}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(20), body.Amount)
		s.Equal(int64(2), body.BillableHours)
	})

	s.Run("error: 400 without window", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/slots/"+id.String()+"/quote", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 for inverted window", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), id, gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrInvalidTimeWindow).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid time window")
	})
}

func (s *SlotHandlerTestSuite) TestRelease() {
	id := uuid.New()
	url := "/api/slots/" + id.String() + "/release"

	s.Run("success: admins may release", func() {
		s.mockCommands.EXPECT().Release(gomock.Any(), id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, adminToken)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 403 for viewers", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, driverToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})

	s.Run("error: 404 for unknown slot", func() {
		s.mockCommands.EXPECT().Release(gomock.Any(), id).Return(errs.ErrSlotNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})
}
