package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wiki-quiz-service/internal/app"
	"wiki-quiz-service/internal/domain"
	"wiki-quiz-service/internal/infra/memory"

	"github.com/gorilla/websocket"
)

func TestWebSocketTakeFlow(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server, "/ws?quizId=quiz-1")
	_, opened := readNext(conn, t, "opened")
	if opened["presentationId"] == "" {
		t.Fatalf("expected presentation id, got %v", opened)
	}

	send(t, conn, "select", map[string]any{"questionIndex": 0, "optionIndex": 1})
	_, view := readNext(conn, t, "view")
	if view["answeredCount"].(float64) != 1 {
		t.Fatalf("expected 1 answered, got %v", view["answeredCount"])
	}

	send(t, conn, "submit", map[string]any{})
	_, confirm := readNext(conn, t, "confirm")
	if confirm["answered"].(float64) != 1 || confirm["total"].(float64) != 2 {
		t.Fatalf("unexpected confirm payload %v", confirm)
	}

	send(t, conn, "select", map[string]any{"questionIndex": 1, "option": "Rome"})
	readNext(conn, t, "view")

	send(t, conn, "submit", nil)
	_, view = readNext(conn, t, "view")
	if view["revealed"] != true || view["score"].(float64) != 1 {
		t.Fatalf("expected revealed with score 1, got %v", view)
	}

	send(t, conn, "select", map[string]any{"questionIndex": 1, "optionIndex": 0})
	_, errPayload := readNext(conn, t, "error")
	if errPayload["code"] != "answers_locked" {
		t.Fatalf("expected answers_locked, got %v", errPayload)
	}

	send(t, conn, "retake", nil)
	_, view = readNext(conn, t, "view")
	if view["revealed"] != false || view["answeredCount"].(float64) != 0 {
		t.Fatalf("expected fresh attempt, got %v", view)
	}

	send(t, conn, "shout", nil)
	_, errPayload = readNext(conn, t, "error")
	if errPayload["code"] != "unsupported" {
		t.Fatalf("expected unsupported, got %v", errPayload)
	}
}

func TestWebSocketReviewRejectsMutations(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server, "/ws?quizId=quiz-1&mode=review")
	_, opened := readNext(conn, t, "opened")
	view := opened["view"].(map[string]any)
	if view["mode"] != "review" || view["revealed"] != true {
		t.Fatalf("expected revealed review, got %v", view)
	}

	send(t, conn, "select", map[string]any{"questionIndex": 0, "optionIndex": 0})
	_, errPayload := readNext(conn, t, "error")
	if errPayload["code"] != "review_only" {
		t.Fatalf("expected review_only, got %v", errPayload)
	}
}

func TestWebSocketClosesPresentationOnDisconnect(t *testing.T) {
	server, store := newTestServer(t)

	conn := dial(t, server, "/ws?quizId=quiz-1")
	readNext(conn, t, "opened")
	if store.Len() != 1 {
		t.Fatalf("expected one stored presentation, got %d", store.Len())
	}
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for store.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("presentation was not closed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketResumeKeepsPresentation(t *testing.T) {
	server, store := newTestServer(t)

	first := dial(t, server, "/ws?quizId=quiz-1")
	_, opened := readNext(first, t, "opened")
	id := opened["presentationId"].(string)
	send(t, first, "select", map[string]any{"questionIndex": 0, "optionIndex": 1})
	readNext(first, t, "view")

	second := dial(t, server, "/ws?presentationId="+id)
	_, resumed := readNext(second, t, "opened")
	view := resumed["view"].(map[string]any)
	if view["answeredCount"].(float64) != 1 {
		t.Fatalf("expected resumed selection, got %v", view)
	}
	second.Close()

	// the owner is still connected; the resumed socket must not discard its state
	time.Sleep(50 * time.Millisecond)
	if store.Len() != 1 {
		t.Fatalf("expected presentation to survive resumed disconnect, got %d", store.Len())
	}
	send(t, first, "view", nil)
	readNext(first, t, "view")
}

func TestWebSocketUnknownQuiz(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dial(t, server, "/ws?quizId=missing")
	_, errPayload := readNext(conn, t, "error")
	if errPayload["code"] != "quiz_not_found" {
		t.Fatalf("expected quiz_not_found, got %v", errPayload)
	}
}

func TestWebSocketRejectsMissingParams(t *testing.T) {
	server, _ := newTestServer(t)

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %+v", resp)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.PresentationStore) {
	t.Helper()
	catalog := memory.NewCatalog(sampleRecord())
	store := memory.NewPresentationStore()
	service := app.NewPresentationService(store, memory.NewQuizCache(catalog, time.Minute), catalog, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(service, nil).ServeWS)
	NewCatalogHandler(service, app.NewImporter(catalog), nil).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func dial(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func sampleRecord() domain.QuizRecord {
	return domain.QuizRecord{
		HistoryItem: domain.HistoryItem{
			ID:          "quiz-1",
			Title:       "Arithmetic and geography",
			URL:         "https://en.wikipedia.org/wiki/Quiz",
			GeneratedAt: time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC),
		},
		Quiz: domain.Quiz{
			ID:      "quiz-1",
			Title:   "Arithmetic and geography",
			Summary: "Two warm-up questions.",
			Questions: []domain.Question{
				{Text: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Answer: "4", Difficulty: "easy", Explanation: "Basic addition."},
				{Text: "Capital of France?", Options: []string{"Paris", "Rome"}, Answer: "Paris", Difficulty: "medium", Explanation: "Paris is the capital."},
			},
			RelatedTopics: []string{"Mathematics", "Europe"},
		},
	}
}
