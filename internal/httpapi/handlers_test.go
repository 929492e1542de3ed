package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kbowl/knowledge-bowl-backend/internal/hub"
	"github.com/kbowl/knowledge-bowl-backend/internal/question"
)

func testRouter(t *testing.T, poolSize int) http.Handler {
	t.Helper()
	pool := make([]question.Question, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		pool = append(pool, question.Question{
			ID:         fmt.Sprintf("q%d", i),
			Prompt:     fmt.Sprintf("prompt %d", i),
			Answer:     question.Answer{Primary: fmt.Sprintf("answer %d", i), Type: question.TypeText},
			Domain:     "science",
			Difficulty: question.DifficultyMedium,
		})
	}
	h := hub.NewHub(context.Background(), pool, zap.NewNop())
	return SetupRoutes(h, zap.NewNop())
}

func TestHealthz(t *testing.T) {
	r := testRouter(t, 14)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCreateMatch(t *testing.T) {
	r := testRouter(t, 14)

	body, _ := json.Marshal(CreateMatchRequest{
		Region:     "colorado",
		Format:     "scrimmage",
		PlayerTeam: "Us",
		Opponents:  []OpponentRequest{{Name: "Rivals", Strength: "novice"}},
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Code, 6)
}

func TestCreateMatchRejectsUnknownRegion(t *testing.T) {
	r := testRouter(t, 14)

	body, _ := json.Marshal(CreateMatchRequest{Region: "atlantis", Format: "scrimmage"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches", bytes.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMatchRejectsUndersizedPool(t *testing.T) {
	r := testRouter(t, 3)

	body, _ := json.Marshal(CreateMatchRequest{Region: "colorado", Format: "scrimmage"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches", bytes.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMatchRejectsBadBody(t *testing.T) {
	r := testRouter(t, 14)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matches", bytes.NewReader([]byte("{"))))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
