package topic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, *internal.Deps, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.Topic{}, model.TopicGoal{}))

	u := &model.User{Email: "user@example.com", Username: "user", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)

	d := &internal.Deps{DB: db}

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware(), func(c *gin.Context) {
		c.Set("userID", u.ID)
	})

	r.POST("/topics", func(c *gin.Context) { TopicCreate(c, d) })
	r.GET("/topics", func(c *gin.Context) { TopicList(c, d) })
	r.GET("/topics/search", func(c *gin.Context) { TopicSearch(c, d) })
	r.GET("/topics/:id", func(c *gin.Context) { TopicFetch(c, d) })
	r.PUT("/topics/:id", func(c *gin.Context) { TopicUpdate(c, d) })
	r.DELETE("/topics/:id", func(c *gin.Context) { TopicDelete(c, d) })
	r.POST("/topics/:id/toggle-completion", func(c *gin.Context) { TopicToggleCompletion(c, d) })
	r.GET("/topics/:id/stats", func(c *gin.Context) { TopicStats(c, d) })
	r.POST("/topics/:id/goals", func(c *gin.Context) { GoalCreate(c, d) })
	r.GET("/topics/:id/goals", func(c *gin.Context) { GoalList(c, d) })
	r.PUT("/topics/goals/:goalID/progress", func(c *gin.Context) { GoalUpdateProgress(c, d) })

	return r, d, u.ID
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func createTopic(t *testing.T, r *gin.Engine, body map[string]any) map[string]any {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/topics", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode(t, w)["topic"].(map[string]any)
}

func TestTopicCreateDefaults(t *testing.T) {
	r, _, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{"name": "  Calculus  "})

	assert.Equal(t, "Calculus", topic["name"])
	assert.Equal(t, model.DefaultTopicColor, topic["color"])
	assert.Equal(t, float64(1), topic["difficulty_level"])
	assert.Equal(t, float64(3), topic["priority_level"])
	assert.Equal(t, float64(30), topic["daily_study_goal_minutes"])
}

func TestTopicCreateClampsLevels(t *testing.T) {
	r, _, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{
		"name":             "Calculus",
		"difficulty_level": 9,
		"priority_level":   -2,
	})

	assert.Equal(t, float64(5), topic["difficulty_level"])
	assert.Equal(t, float64(1), topic["priority_level"])
}

func TestTopicCreateEmptyName(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/topics", map[string]any{"name": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTopicCreateUnknownParent(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/topics", map[string]any{
		"name":            "Calculus",
		"parent_topic_id": uuid.NewString(),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTopicListRootsOnly(t *testing.T) {
	r, _, _ := newTestRouter(t)

	parent := createTopic(t, r, map[string]any{"name": "Math"})
	createTopic(t, r, map[string]any{"name": "Algebra", "parent_topic_id": parent["id"]})

	w := doJSON(t, r, http.MethodGet, "/topics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = doJSON(t, r, http.MethodGet, "/topics?parent_id="+parent["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	topics := body["topics"].([]any)
	assert.Equal(t, "Algebra", topics[0].(map[string]any)["name"])
}

func TestTopicListExcludeCompleted(t *testing.T) {
	r, _, _ := newTestRouter(t)

	createTopic(t, r, map[string]any{"name": "Open"})
	done := createTopic(t, r, map[string]any{"name": "Done"})

	w := doJSON(t, r, http.MethodPost, "/topics/"+done["id"].(string)+"/toggle-completion", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/topics?include_completed=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])
}

func TestTopicSearch(t *testing.T) {
	r, _, _ := newTestRouter(t)

	createTopic(t, r, map[string]any{"name": "Linear Algebra"})
	createTopic(t, r, map[string]any{"name": "History", "description": "Algebraic structures in antiquity"})
	createTopic(t, r, map[string]any{"name": "Chemistry"})

	w := doJSON(t, r, http.MethodGet, "/topics/search?q=ALGEBRA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["total"])

	w = doJSON(t, r, http.MethodGet, "/topics/search?q=", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTopicUpdate(t *testing.T) {
	r, _, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{"name": "Calculus"})
	id := topic["id"].(string)

	w := doJSON(t, r, http.MethodPut, "/topics/"+id, map[string]any{
		"name":           "Calculus II",
		"study_progress": 150,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode(t, w)["topic"].(map[string]any)
	assert.Equal(t, "Calculus II", updated["name"])
	assert.Equal(t, float64(100), updated["study_progress"])
}

func TestTopicUpdateSelfParent(t *testing.T) {
	r, _, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{"name": "Calculus"})
	id := topic["id"].(string)

	w := doJSON(t, r, http.MethodPut, "/topics/"+id, map[string]any{"parent_topic_id": id})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTopicFetchNotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/topics/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/topics/not-a-uuid", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTopicOwnershipIsolation(t *testing.T) {
	r, d, _ := newTestRouter(t)

	other := &model.User{Email: "other@example.com", Username: "other", PasswordHash: "x", IsActive: true}
	require.NoError(t, d.DB.Create(other).Error)

	foreign := &model.Topic{UserID: other.ID, Name: "Secret", DifficultyLevel: 1, PriorityLevel: 3, IsActive: true}
	require.NoError(t, d.DB.Create(foreign).Error)

	// Someone else's topic is indistinguishable from a missing one
	w := doJSON(t, r, http.MethodGet, "/topics/"+foreign.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTopicDeleteSubtree(t *testing.T) {
	r, d, userID := newTestRouter(t)

	parent := createTopic(t, r, map[string]any{"name": "Math"})
	child := createTopic(t, r, map[string]any{"name": "Algebra", "parent_topic_id": parent["id"]})
	createTopic(t, r, map[string]any{"name": "Groups", "parent_topic_id": child["id"]})

	w := doJSON(t, r, http.MethodDelete, "/topics/"+parent["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, d.DB.Model(model.Topic{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestTopicDeleteRefusesWithContent(t *testing.T) {
	r, d, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{"name": "Math"})
	id := topic["id"].(string)

	require.NoError(t, d.DB.Model(&model.Topic{}).Where("id = ?", id).Update("total_notes", 2).Error)

	w := doJSON(t, r, http.MethodDelete, "/topics/"+id, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BUSINESS_LOGIC_ERROR", decode(t, w)["code"])
}

func TestTopicToggleCompletion(t *testing.T) {
	r, _, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{"name": "Math"})
	id := topic["id"].(string)

	w := doJSON(t, r, http.MethodPost, "/topics/"+id+"/toggle-completion", nil)
	require.Equal(t, http.StatusOK, w.Code)

	done := decode(t, w)["topic"].(map[string]any)
	assert.Equal(t, true, done["is_completed"])
	assert.Equal(t, float64(100), done["study_progress"])
	assert.NotNil(t, done["completed_at"])

	w = doJSON(t, r, http.MethodPost, "/topics/"+id+"/toggle-completion", nil)
	require.Equal(t, http.StatusOK, w.Code)

	reopened := decode(t, w)["topic"].(map[string]any)
	assert.Equal(t, false, reopened["is_completed"])
	assert.Nil(t, reopened["completed_at"])
}

func TestTopicStats(t *testing.T) {
	r, d, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{"name": "Math"})
	id := topic["id"].(string)

	createTopic(t, r, map[string]any{"name": "Algebra", "parent_topic_id": id})
	require.NoError(t, d.DB.Model(&model.Topic{}).Where("id = ?", id).
		Updates(map[string]any{"total_pdfs": 2, "total_notes": 1}).Error)

	w := doJSON(t, r, http.MethodGet, "/topics/"+id+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stats := decode(t, w)
	assert.Equal(t, float64(3), stats["total_content_items"])
	assert.Equal(t, float64(1), stats["subtopic_count"])
	assert.Equal(t, float64(0), stats["goal_count"])
}

func TestGoalLifecycle(t *testing.T) {
	r, _, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{"name": "Math"})
	id := topic["id"].(string)

	w := doJSON(t, r, http.MethodPost, "/topics/"+id+"/goals", map[string]any{
		"title":        "Solve 50 exercises",
		"goal_type":    "exercises",
		"target_value": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	goal := decode(t, w)["goal"].(map[string]any)
	goalID := goal["id"].(string)

	w = doJSON(t, r, http.MethodGet, "/topics/"+id+"/goals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["goals"].([]any), 1)

	w = doJSON(t, r, http.MethodPut, "/topics/goals/"+goalID+"/progress", map[string]any{"current_value": 25})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, float64(50), body["progress_percentage"])
	assert.Equal(t, false, body["goal"].(map[string]any)["is_completed"])

	// Reaching the target completes the goal
	w = doJSON(t, r, http.MethodPut, "/topics/goals/"+goalID+"/progress", map[string]any{"current_value": 50})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["goal"].(map[string]any)["is_completed"])
}

func TestGoalCreateInvalidType(t *testing.T) {
	r, _, _ := newTestRouter(t)

	topic := createTopic(t, r, map[string]any{"name": "Math"})

	w := doJSON(t, r, http.MethodPost, "/topics/"+topic["id"].(string)+"/goals", map[string]any{
		"title":        "Bad",
		"goal_type":    "calories",
		"target_value": 10,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
