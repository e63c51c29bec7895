package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/app"
	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/skillgap"
	"github.com/samyuktha-jana/SAP-hackathon/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	t   *testing.T
	db  *gorm.DB
	r   *gin.Engine
	app *app.App
}

type apiResp struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedUsers(t, db)

	dir := t.TempDir()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		JWT:      config.JWTConfig{Secret: "test-secret", Issuer: "test", ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: 4, EncryptionKey: "audit-key"},
		Mentor:   config.MentorConfig{MinMonths: 24, Limit: 3},
		Invites:  config.InvitesConfig{Dir: filepath.Join(dir, "invites")},
		Progress: config.ProgressConfig{CSVDir: dir},
		App:      config.AppSubConfig{PageSize: 20},
	}
	a, err := app.New(cfg, logger.Nop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return &env{t: t, db: db, r: SetupRouter(a), app: a}
}

func (e *env) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResp) {
	e.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	var out apiResp
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (e *env) login(email string) string {
	e.t.Helper()
	w, out := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	return out.Data["token"].(string)
}

func (e *env) setRole(userID uint, role string) {
	e.t.Helper()
	require.NoError(e.t, e.db.Model(&models.Account{}).Where("user_id = ?", userID).Update("role", role).Error)
}

func TestAuth_LoginAndMe(t *testing.T) {
	e := newEnv(t)

	w, out := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@corp.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotZero(t, out.Code)

	w, _ = e.do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := e.login("Cleo@Corp.com")
	w, out = e.do(http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := out.Data["user"].(map[string]interface{})
	assert.Equal(t, "cleo@corp.com", user["email"])
	assert.Equal(t, models.RoleEmployee, user["role"])

	// ?token= works for downloads
	w, _ = e.do(http.MethodGet, "/api/me?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_PasswordAndLockout(t *testing.T) {
	e := newEnv(t)
	token := e.login("cleo@corp.com")

	w, _ := e.do(http.MethodPost, "/api/profile/password", token, map[string]string{"new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(http.MethodPost, "/api/profile/password", token, map[string]string{"new_password": "Sup3rSecret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// email alone is no longer enough
	w, _ = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cleo@corp.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cleo@corp.com", "password": "Sup3rSecret"})
	assert.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 5; i++ {
		e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cleo@corp.com", "password": "wrong"})
	}
	w, out := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "cleo@corp.com", "password": "Sup3rSecret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, out.Message, "locked")
}

func TestMentorSearch(t *testing.T) {
	e := newEnv(t)
	token := e.login("cleo@corp.com")

	w, _ := e.do(http.MethodGet, "/api/mentors/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out := e.do(http.MethodGet, "/api/mentors/search?q=Payments", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := out.Data["items"].([]interface{})
	require.Len(t, items, 1)
	m := items[0].(map[string]interface{})
	assert.Equal(t, "ben@corp.com", m["email"])
	assert.Len(t, m["availability"], 3)
}

func TestSessions_ApproveFlowAndInvite(t *testing.T) {
	e := newEnv(t)
	cleo := e.login("cleo@corp.com")
	ben := e.login("ben@corp.com")

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)
	w, out := e.do(http.MethodPost, "/api/sessions", cleo, map[string]interface{}{
		"mentor_id": 2,
		"start_utc": start.Format(time.RFC3339),
		"end_utc":   start.Add(30 * time.Minute).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sess := out.Data["session"].(map[string]interface{})
	assert.Equal(t, models.SessionRequested, sess["status"])

	// end before start
	w, _ = e.do(http.MethodPost, "/api/sessions", cleo, map[string]interface{}{
		"mentor_id": 2,
		"start_utc": start.Format(time.RFC3339),
		"end_utc":   start.Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, out = e.do(http.MethodGet, "/api/sessions/pending", ben, nil)
	assert.Len(t, out.Data["items"], 1)

	w, _ = e.do(http.MethodPost, "/api/sessions/1/approve", cleo, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, out = e.do(http.MethodPost, "/api/sessions/1/approve", ben, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, out.Data["ics_path"], "session_1.ics")

	w, _ = e.do(http.MethodPost, "/api/sessions/1/approve", ben, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	_, out = e.do(http.MethodGet, "/api/notifications", cleo, nil)
	notes := out.Data["items"].([]interface{})
	require.Len(t, notes, 1)
	id := int(notes[0].(map[string]interface{})["id"].(float64))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/"+strconv.Itoa(id)+"/invite?token="+cleo, nil)
	rec := httptest.NewRecorder()
	e.r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")

	// someone else's notification is not found
	w, _ = e.do(http.MethodGet, "/api/notifications/"+strconv.Itoa(id)+"/invite", ben, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, out = e.do(http.MethodGet, "/api/sessions/meetings", cleo, nil)
	assert.Contains(t, out.Data["markdown"], "**Status:** booked")

	w, out = e.do(http.MethodPost, "/api/sessions/1/feedback", cleo, map[string]interface{}{"rating": 5, "takeaway": "learn Kubernetes next"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, out = e.do(http.MethodGet, "/api/learning/recommendations", cleo, nil)
	assert.Equal(t, "learn Kubernetes next", out.Data["takeaway"])

	w, out = e.do(http.MethodDelete, "/api/notifications", cleo, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out.Data["deleted"])
}

func TestTickets_RolesAndExport(t *testing.T) {
	e := newEnv(t)
	cleo := e.login("cleo@corp.com")
	ben := e.login("ben@corp.com")
	asha := e.login("asha@corp.com")

	w, out := e.do(http.MethodPost, "/api/tickets", cleo, map[string]string{"title": "VPN drops", "category": "IT", "priority": "P2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "TCK-0001", out.Data["ref"])

	w, _ = e.do(http.MethodPost, "/api/tickets", cleo, map[string]string{"title": "x", "priority": "P9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(http.MethodGet, "/api/tickets/queue", cleo, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	e.setRole(2, models.RoleAgent)
	w, out = e.do(http.MethodGet, "/api/tickets/queue?category=it", ben, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out.Data["total"])

	w, _ = e.do(http.MethodPut, "/api/tickets/1/triage", ben, map[string]string{"assignee_email": "ben@corp.com", "status": models.TicketInProgress})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// only the requester may change the status
	w, _ = e.do(http.MethodPut, "/api/tickets/1/status", ben, map[string]string{"status": models.TicketClosed})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = e.do(http.MethodPut, "/api/tickets/1/status", cleo, map[string]string{"status": models.TicketResolved})
	assert.Equal(t, http.StatusOK, w.Code)

	_, out = e.do(http.MethodGet, "/api/tickets/counts", cleo, nil)
	counts := out.Data["counts"].(map[string]interface{})
	assert.EqualValues(t, 1, counts[models.TicketResolved])

	// agents cannot manage categories, admins can
	w, _ = e.do(http.MethodPost, "/api/tickets/categories", ben, map[string]string{"key": "fac", "label": "Facilities"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	e.setRole(1, models.RoleAdmin)
	w, _ = e.do(http.MethodPost, "/api/tickets/categories", asha, map[string]string{"key": "fac", "label": "Facilities"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(http.MethodPost, "/api/tickets/categories", asha, map[string]string{"key": "fac", "label": "Facilities"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = e.do(http.MethodGet, "/api/export/tickets.csv", cleo, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, w.Body.String(), "VPN drops")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "tickets_")

	w, _ = e.do(http.MethodGet, "/api/export/tickets.xlsx", ben, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestChat_WithoutModel(t *testing.T) {
	e := newEnv(t)
	token := e.login("cleo@corp.com")

	w, out := e.do(http.MethodPost, "/api/chat", token, map[string]string{"message": "raise a ticket printer jam"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reply := out.Data["reply"].(map[string]interface{})
	assert.Equal(t, "raise_ticket", reply["intent"])
	assert.Equal(t, "TCK-0001", reply["ticket_id"])

	_, out = e.do(http.MethodPost, "/api/chat", token, map[string]string{"message": "who is my buddy?"})
	reply = out.Data["reply"].(map[string]interface{})
	assert.Equal(t, "error", reply["intent"])

	_, out = e.do(http.MethodGet, "/api/chat/history", token, nil)
	assert.Len(t, out.Data["items"], 4)

	_, out = e.do(http.MethodDelete, "/api/chat/history", token, nil)
	assert.EqualValues(t, 4, out.Data["deleted"])
}

func TestProgressAndLearning(t *testing.T) {
	e := newEnv(t)
	token := e.login("cleo@corp.com")

	w, _ := e.do(http.MethodPut, "/api/progress/module", token, map[string]interface{}{"item": "SAP Basics", "completed": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	e.do(http.MethodPut, "/api/progress/module", token, map[string]interface{}{"item": "Fiori 101", "completed": false})

	w, out := e.do(http.MethodGet, "/api/progress/module", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sum := out.Data["summary"].(map[string]interface{})
	assert.EqualValues(t, 50, sum["percent"])

	w, _ = e.do(http.MethodGet, "/api/progress/videos", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = e.do(http.MethodGet, "/api/export/progress.xlsx", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, out = e.do(http.MethodGet, "/api/learning/roles", token, nil)
	assert.Len(t, out.Data["items"], len(skillgap.Roles()))

	w, out = e.do(http.MethodPost, "/api/learning/gap", token, map[string]string{"role": "data analyst"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	analysis := out.Data["analysis"].(map[string]interface{})
	assert.Equal(t, "Data Analyst", analysis["role"])

	w, _ = e.do(http.MethodPost, "/api/learning/gap", token, map[string]string{"role": "astronaut"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(http.MethodPost, "/api/learning/plan", token, map[string]string{"role": "Data Analyst"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = e.do(http.MethodGet, "/api/learning/plan", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuditLogs(t *testing.T) {
	e := newEnv(t)
	token := e.login("cleo@corp.com")

	e.do(http.MethodPut, "/api/progress/software", token, map[string]interface{}{"item": "VS Code", "completed": true})
	e.do(http.MethodGet, "/api/progress/software", token, nil)

	w, out := e.do(http.MethodGet, "/api/logs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out.Data["total"])
	item := out.Data["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "PUT /api/progress/:kind", item["action"])
	details := item["details"].(map[string]interface{})
	assert.Contains(t, details["body"], "VS Code")

	var raw models.AuditLog
	require.NoError(t, e.db.First(&raw).Error)
	assert.NotContains(t, string(raw.Details), "VS Code")
}

func TestAdminImport(t *testing.T) {
	e := newEnv(t)
	cleo := e.login("cleo@corp.com")
	asha := e.login("asha@corp.com")
	e.setRole(1, models.RoleAdmin)

	csv := "ID,Name,Department,Team,Position,Age,College,Salary,Skills,Experience Period (Months),email,chat,timezone,topics,office_hours\n" +
		"5,Eli Fox,Engineering,Payments,Staff Engineer,40,MIT,150000,Go,120,eli@corp.com,@eli,CET,Go,Mon 9-10\n"

	upload := func(token string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("file", "employees.csv")
		require.NoError(t, err)
		_, _ = fw.Write([]byte(csv))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		e.r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusForbidden, upload(cleo).Code)

	w := upload(asha)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var u models.User
	require.NoError(t, e.db.First(&u, 5).Error)
	assert.True(t, u.IsMentor)

	_, out := e.do(http.MethodGet, "/api/rewards", cleo, nil)
	assert.NotEmpty(t, out.Data["items"])
}
