package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func newTestApp() *fiber.App {
	log := zerolog.Nop()
	gm := service.NewGameManager(service.ManagerConfig{AIDelay: time.Hour, Seed: 1, Logger: log})
	gs := service.NewGameService(gm)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	SetupRoutes(app, NewGameController(gs, log), NewWebSocketController(gs, log), nil)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, out
}

func createGame(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	code, out := do(t, app, http.MethodPost, "/api/games", body)
	if code != fiber.StatusCreated {
		t.Fatalf("create status = %d, body %v", code, out)
	}
	var id string
	if err := json.Unmarshal(out["gameId"], &id); err != nil || id == "" {
		t.Fatalf("no game id in %v", out)
	}
	return id
}

func TestCreateGameEndpoint(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"default", "", fiber.StatusCreated},
		{"local", `{"mode":"pvp"}`, fiber.StatusCreated},
		{"computer plays white", `{"mode":"ai","computerColor":"white"}`, fiber.StatusCreated},
		{"from fen", `{"mode":"pvp","fen":"4k3/8/8/8/8/8/8/4K3 b"}`, fiber.StatusCreated},
		{"bad mode", `{"mode":"blitz"}`, fiber.StatusBadRequest},
		{"bad color", `{"mode":"ai","computerColor":"purple"}`, fiber.StatusBadRequest},
		{"bad fen", `{"mode":"pvp","fen":"8/8/8"}`, fiber.StatusBadRequest},
		{"bad json", `{"mode":`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := do(t, app, http.MethodPost, "/api/games", tt.body)
			if code != tt.want {
				t.Errorf("status = %d, want %d (%v)", code, tt.want, out)
			}
		})
	}
}

func TestMoveEndpoint(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app, `{"mode":"pvp"}`)
	path := "/api/games/" + id + "/moves"

	code, out := do(t, app, http.MethodPost, path, `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`)
	if code != fiber.StatusOK {
		t.Fatalf("e2e4 status = %d (%v)", code, out)
	}
	var state struct {
		ToMove   model.Color `json:"toMove"`
		LastMove model.Move  `json:"lastMove"`
	}
	if err := json.Unmarshal(out["state"], &state); err != nil {
		t.Fatal(err)
	}
	if state.ToMove != model.Black || state.LastMove.String() != "e2e4" {
		t.Errorf("state after e2e4 = %+v", state)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not your turn", `{"from":{"row":6,"col":3},"to":{"row":5,"col":3}}`, fiber.StatusConflict},
		{"illegal", `{"from":{"row":0,"col":0},"to":{"row":3,"col":3}}`, fiber.StatusUnprocessableEntity},
		{"off the board", `{"from":{"row":1,"col":4},"to":{"row":9,"col":4}}`, fiber.StatusBadRequest},
		{"garbage", `[1,2`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, out := do(t, app, http.MethodPost, path, tt.body); code != tt.want {
				t.Errorf("status = %d, want %d (%v)", code, tt.want, out)
			}
		})
	}

	if code, _ := do(t, app, http.MethodPost, "/api/games/missing/moves", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`); code != fiber.StatusNotFound {
		t.Errorf("unknown game status = %d", code)
	}
}

func TestComputerSeatIsProtected(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app, `{"mode":"ai","computerColor":"white"}`)
	code, _ := do(t, app, http.MethodPost, "/api/games/"+id+"/moves", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`)
	if code != fiber.StatusConflict {
		t.Errorf("status = %d, want 409", code)
	}
}

func TestValidMovesEndpoint(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app, `{"mode":"pvp"}`)

	code, out := do(t, app, http.MethodGet, "/api/games/"+id+"/moves?row=7&col=1", "")
	if code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var moves []model.Square
	if err := json.Unmarshal(out["moves"], &moves); err != nil {
		t.Fatal(err)
	}
	want := []model.Square{{Row: 5, Col: 0}, {Row: 5, Col: 2}}
	if len(moves) != len(want) || moves[0] != want[0] || moves[1] != want[1] {
		t.Errorf("knight moves = %v, want %v", moves, want)
	}

	code, out = do(t, app, http.MethodGet, "/api/games/"+id+"/moves?row=4&col=4", "")
	if code != fiber.StatusOK || string(out["moves"]) != "[]" {
		t.Errorf("empty square: %d %s", code, out["moves"])
	}

	if code, _ := do(t, app, http.MethodGet, "/api/games/"+id+"/moves", ""); code != fiber.StatusBadRequest {
		t.Errorf("missing square status = %d", code)
	}
}

func TestGameLifecycleEndpoints(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app, `{"mode":"pvp","fen":"4k3/8/8/8/8/8/8/4R1K1 b"}`)
	base := "/api/games/" + id

	code, out := do(t, app, http.MethodGet, base, "")
	if code != fiber.StatusOK || string(out["isCheck"]) != "true" {
		t.Errorf("get state: %d isCheck=%s", code, out["isCheck"])
	}

	code, out = do(t, app, http.MethodGet, base+"/check/black", "")
	if code != fiber.StatusOK || string(out["inCheck"]) != "true" {
		t.Errorf("check black: %d %v", code, out)
	}
	if code, _ := do(t, app, http.MethodGet, base+"/check/blue", ""); code != fiber.StatusBadRequest {
		t.Errorf("check blue status = %d", code)
	}

	code, out = do(t, app, http.MethodPost, base+"/reset", "")
	if code != fiber.StatusOK || string(out["isCheck"]) != "false" {
		t.Errorf("reset: %d isCheck=%s", code, out["isCheck"])
	}
	var fen string
	_ = json.Unmarshal(out["fen"], &fen)
	if fen != model.NewGame().FEN() {
		t.Errorf("reset fen = %q", fen)
	}

	if code, _ := do(t, app, http.MethodDelete, base, ""); code != fiber.StatusNoContent {
		t.Errorf("delete status = %d", code)
	}
	if code, _ := do(t, app, http.MethodGet, base, ""); code != fiber.StatusNotFound {
		t.Errorf("get after delete status = %d", code)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/games/abc", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["error"] == "" {
		t.Errorf("error body = %v, %v", body, err)
	}
}
