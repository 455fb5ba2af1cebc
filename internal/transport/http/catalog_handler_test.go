package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"wiki-quiz-service/internal/domain"
)

const generatorOutput = "Here is your quiz:\n```json\n" + `{
  "title": "Go (programming language)",
  "summary": "A statically typed language.",
  "quiz": [
    {"question": "Who designed Go?", "options": ["Google", "Mozilla"], "answer": "Google", "difficulty": "easy", "explanation": "Designed at Google."}
  ],
  "related_topics": ["Concurrency"]
}` + "\n```"

func TestHistoryAndRecord(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/history")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	defer resp.Body.Close()
	var items []domain.HistoryItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(items) != 1 || items[0].ID != "quiz-1" {
		t.Fatalf("unexpected history %+v", items)
	}

	resp, err = http.Get(server.URL + "/quizzes/quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	defer resp.Body.Close()
	var record struct {
		ID   string      `json:"id"`
		URL  string      `json:"url"`
		Quiz domain.Quiz `json:"quiz"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.ID != "quiz-1" || record.URL == "" || len(record.Quiz.Questions) != 2 {
		t.Fatalf("unexpected record %+v", record)
	}

	resp, err = http.Get(server.URL + "/quizzes/missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestImportQuiz(t *testing.T) {
	tests := []struct {
		name     string
		document any
		status   int
	}{
		{name: "raw generator text", document: generatorOutput, status: http.StatusCreated},
		{name: "json object", document: map[string]any{
			"title":          "Rust",
			"summary":        "Systems language.",
			"quiz":           []any{map[string]any{"question": "Mascot?", "options": []string{"Ferris", "Gopher"}, "answer": "Ferris", "difficulty": "hard", "explanation": "A crab."}},
			"related_topics": []string{},
		}, status: http.StatusCreated},
		{name: "answer not among options", document: map[string]any{
			"title":          "Broken",
			"summary":        "",
			"quiz":           []any{map[string]any{"question": "Q?", "options": []string{"a", "b"}, "answer": "c", "difficulty": "easy", "explanation": ""}},
			"related_topics": []string{},
		}, status: http.StatusBadRequest},
		{name: "not a document", document: "no json here", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t)
			body, _ := json.Marshal(map[string]any{"url": "https://en.wikipedia.org/wiki/Go", "document": tt.document})

			resp, err := http.Post(server.URL+"/quizzes", "application/json", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if tt.status != http.StatusCreated {
				return
			}

			var item domain.HistoryItem
			if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
				t.Fatalf("decode item: %v", err)
			}
			if item.ID == "" || item.URL != "https://en.wikipedia.org/wiki/Go" {
				t.Fatalf("unexpected item %+v", item)
			}

			conn := dial(t, server, "/ws?quizId="+item.ID)
			readNext(conn, t, "opened")
		})
	}
}

func TestImportRejectsMissingDocument(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/quizzes", "application/json", bytes.NewReader([]byte(`{"url":"x"}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
