package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"standup/src/db"
	"standup/src/middlewares"
	"standup/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB   *gorm.DB
	Mock *sqlmock.Sqlmock
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

// NewRegexpMockDB matches expected SQL as a regexp so expectations can name
// just the clause that matters instead of the full generated statement.
func NewRegexpMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

// adminTestMiddleware stands in for AuthMiddleware so handler validation can
// be exercised without a live token or user row.
func adminTestMiddleware(ctx *gin.Context) {
	ctx.Set("id", uint(1))
	ctx.Set("email", "someone@example.com")
	ctx.Set("role", string(types.ROLE_ADMIN))
	ctx.Set("timezone", "UTC")
	ctx.Set("team_id", uint(1))
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("hhmm", hhmmValidatorFunc)
		v.RegisterValidation("dateymd", dateymdValidatorFunc)
	}

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = &mock
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAuthRoutes() {
	router := setupRouter()
	guestAuthRoutes(router)

	s.Run("Should reject login without a password", func() {
		jbody := map[string]any{
			"email": "someone@example.com",
		}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		loginReq, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, loginReq)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Greaterf(s.T(), len(rbytes), 0, "Empty response")
	})

	s.Run("Should reject registration with a short password", func() {
		body := types.RegisterUserRequestBody{
			Name:     "Test User",
			Email:    "someone@example.com",
			Password: "abc",
			Timezone: "UTC",
		}
		sbody, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		registerReq, _ := http.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, registerReq)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestTeamRoutes() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(adminTestMiddleware)
	teamHandlers(apiv1)

	s.Run("Should reject a reminder time that is not HH:mm", func() {
		body := types.CreateTeamRequestBody{
			Name:         "Platform",
			Description:  "Platform engineering",
			ReminderTime: "9am",
		}
		sbody, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/teams", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.NotEmpty(s.T(), errMsg)
	})

	s.Run("Should reject a team without a name", func() {
		body := types.CreateTeamRequestBody{
			Description:  "No name",
			ReminderTime: "09:30",
		}
		sbody, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/teams", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should return conflict for a duplicate team name", func() {
		d, mock := NewRegexpMockDB()
		db.NewDB(d)
		defer db.NewDB(s.DB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "teams"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		body := types.CreateTeamRequestBody{
			Name:         "Platform",
			Description:  "Platform engineering",
			ReminderTime: "09:00",
		}
		sbody, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/teams", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 409, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Equal(s.T(), "team name already exists", errMsg)
		assert.Nil(s.T(), mock.ExpectationsWereMet())
	})
}

func (s *TestSuite) TestAuthMiddlewareMalformedBearer() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	sessionHandlers(apiv1)

	s.Run("Should return 401 for a bare Bearer header", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/auth/session", nil)
		req.Header.Set("Authorization", "Bearer")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("Should return 401 for an empty token", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/auth/session", nil)
		req.Header.Set("Authorization", "Bearer ")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestInviteValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(adminTestMiddleware)
	inviteHandlers(apiv1)

	w := httptest.NewRecorder()
	body := types.SendInviteRequestBody{
		TeamID: 1,
		Email:  "not-an-email",
	}
	sbody, _ := json.Marshal(&body)
	req, _ := http.NewRequest("POST", "/api/v1/teams/invite", strings.NewReader(string(sbody)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestMemberRoutes() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(adminTestMiddleware)
	memberHandlers(apiv1)

	s.Run("Should reject an unsupported sort field", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/members?sort=bogus", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Equal(s.T(), "unsupported sort field", errMsg)
	})

	s.Run("Should reject deleting your own account", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/members/1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Equal(s.T(), "cannot delete your own account", errMsg)
	})
}

func (s *TestSuite) TestReminderValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(adminTestMiddleware)
	reminderHandlers(apiv1)

	s.Run("Should require at least one assignee", func() {
		body := types.CreateReminderRequestBody{
			Title:       "Sprint review",
			Description: "Prepare demo",
			DueDate:     "2026-09-01",
			DueTime:     "14:00",
			TeamID:      1,
			AssignedTo:  []uint{},
		}
		sbody, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/reminders", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should require a pattern for recurring reminders", func() {
		body := types.CreateReminderRequestBody{
			Title:       "Daily standup",
			Description: "Post your update",
			DueDate:     "2026-09-01",
			DueTime:     "09:00",
			TeamID:      1,
			AssignedTo:  []uint{2},
			IsRecurring: true,
		}
		sbody, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/reminders", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.Equal(s.T(), "recurring_pattern is required for recurring reminders", errMsg)
	})

	s.Run("Should reject an unknown update action", func() {
		jbody := map[string]any{"action": "archive"}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/reminders/1", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a due date that is not Y-m-d", func() {
		body := types.CreateReminderRequestBody{
			Title:       "Retro",
			Description: "Retro board",
			DueDate:     "01/09/2026",
			DueTime:     "15:00",
			TeamID:      1,
			AssignedTo:  []uint{2},
		}
		sbody, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/reminders", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestStandupValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(adminTestMiddleware)
	standupHandlers(apiv1)

	w := httptest.NewRecorder()
	form := strings.NewReader("yesterday=did+things")
	req, _ := http.NewRequest("POST", "/api/v1/standup/submit", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	errMsg := gjson.Get(string(rbytes), "error").String()
	assert.Equal(s.T(), "yesterday, today and blockers are required", errMsg)
}

func (s *TestSuite) TestAdminGuard() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(func(ctx *gin.Context) {
		ctx.Set("id", uint(2))
		ctx.Set("role", string(types.ROLE_MEMBER))
	})
	memberHandlers(apiv1)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/members", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 403, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	redirect := gjson.Get(string(rbytes), "redirect").String()
	assert.Equal(s.T(), "/dashboard", redirect)
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
