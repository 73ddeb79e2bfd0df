package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"sekolah-backend/config"
	"sekolah-backend/internal/handlers"
	"sekolah-backend/internal/routes"
	"sekolah-backend/internal/store"
)

const masterEmail = "caproktaroy03@gmail.com"

func newApp() (*fiber.App, *store.MemoryStore) {
	mem := store.NewMemoryStore()
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.Register(app, routes.Deps{
		Store: mem,
		Config: config.Config{
			MongoURI:         "mem://",
			MongoDB:          "test",
			MasterAdminEmail: masterEmail,
		},
	})
	return app, mem
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Auth-Token", token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeMap(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func decodeList(t *testing.T, r io.Reader) []map[string]any {
	t.Helper()
	var v []map[string]any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := do(t, app, "POST", "/auth/login", "", map[string]any{"email": masterEmail})
	if resp.StatusCode != 200 {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	body := decodeMap(t, resp.Body)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func TestRootAndTest(t *testing.T) {
	app, _ := newApp()

	resp := do(t, app, "GET", "/", "", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if decodeMap(t, resp.Body)["message"] != "School Management API is running" {
		t.Fatal("unexpected root message")
	}

	resp = do(t, app, "GET", "/test", "", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if decodeMap(t, resp.Body)["database"] != "connected" {
		t.Fatal("expected database connected")
	}
}

func TestLoginRejectsNonMaster(t *testing.T) {
	app, mem := newApp()

	resp := do(t, app, "POST", "/auth/login", "", map[string]any{"email": "admin@example.com"})
	if resp.StatusCode != 403 {
		t.Fatalf("got %d", resp.StatusCode)
	}

	// No side effects on rejection.
	ctx := context.Background()
	if docs, _ := mem.Find(ctx, "user", bson.M{}, "", 0); len(docs) != 0 {
		t.Fatalf("user created on rejected login: %v", docs)
	}
	if docs, _ := mem.Find(ctx, "session", bson.M{}, "", 0); len(docs) != 0 {
		t.Fatalf("session created on rejected login: %v", docs)
	}
}

func TestLoginIssuesIndependentSessions(t *testing.T) {
	app, mem := newApp()

	t1 := login(t, app)
	t2 := login(t, app)
	if t1 == t2 {
		t.Fatal("two logins shared a token")
	}

	// Both tokens work until individually deactivated.
	if resp := do(t, app, "GET", "/admin/newsarticle", t1, nil); resp.StatusCode != 200 {
		t.Fatalf("t1: got %d", resp.StatusCode)
	}
	if resp := do(t, app, "GET", "/admin/newsarticle", t2, nil); resp.StatusCode != 200 {
		t.Fatalf("t2: got %d", resp.StatusCode)
	}

	do(t, app, "POST", "/auth/logout", t1, nil)
	if resp := do(t, app, "GET", "/admin/newsarticle", t1, nil); resp.StatusCode != 401 {
		t.Fatalf("t1 after logout: got %d", resp.StatusCode)
	}
	if resp := do(t, app, "GET", "/admin/newsarticle", t2, nil); resp.StatusCode != 200 {
		t.Fatalf("t2 after t1 logout: got %d", resp.StatusCode)
	}

	// Login upserts: one user document, two session documents.
	ctx := context.Background()
	if docs, _ := mem.Find(ctx, "user", bson.M{}, "", 0); len(docs) != 1 {
		t.Fatalf("expected 1 user doc, got %d", len(docs))
	}
	if docs, _ := mem.Find(ctx, "session", bson.M{}, "", 0); len(docs) != 2 {
		t.Fatalf("expected 2 session docs, got %d", len(docs))
	}
}

func TestLogoutIdempotent(t *testing.T) {
	app, _ := newApp()

	resp := do(t, app, "POST", "/auth/logout", "", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if decodeMap(t, resp.Body)["message"] != "ok" {
		t.Fatal("expected ok for tokenless logout")
	}

	token := login(t, app)
	for i := 0; i < 2; i++ {
		resp := do(t, app, "POST", "/auth/logout", token, nil)
		if resp.StatusCode != 200 {
			t.Fatalf("logout %d: got %d", i, resp.StatusCode)
		}
		if decodeMap(t, resp.Body)["message"] != "logged out" {
			t.Fatalf("logout %d: unexpected message", i)
		}
	}
}

func TestAdminRequiresSession(t *testing.T) {
	app, _ := newApp()

	resp := do(t, app, "GET", "/admin/newsarticle", "", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if decodeMap(t, resp.Body)["message"] != "Missing auth token" {
		t.Fatal("wrong message for missing token")
	}

	resp = do(t, app, "GET", "/admin/newsarticle", "garbled", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if decodeMap(t, resp.Body)["message"] != "Invalid or expired token" {
		t.Fatal("wrong message for invalid token")
	}
}

func TestUnknownCollection(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	if resp := do(t, app, "GET", "/public/blog", "", nil); resp.StatusCode != 400 {
		t.Fatalf("public list: got %d", resp.StatusCode)
	}
	resp := do(t, app, "POST", "/admin/blog", token, map[string]any{"data": map[string]any{"title": "x"}})
	if resp.StatusCode != 400 {
		t.Fatalf("create: got %d", resp.StatusCode)
	}
}

func TestCreateAndList(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	resp := do(t, app, "POST", "/admin/newsarticle", token, map[string]any{
		"data": map[string]any{
			"title":   "Penerimaan Siswa Baru",
			"content": "Pendaftaran dibuka bulan Juni.",
			"tags":    []string{"ppdb", "pengumuman"},
		},
	})
	if resp.StatusCode != 200 {
		t.Fatalf("create: got %d", resp.StatusCode)
	}
	created := decodeMap(t, resp.Body)
	id, _ := created["_id"].(string)
	if id == "" {
		t.Fatal("create returned no id")
	}
	if _, err := store.DecodeID(id); err != nil {
		t.Fatalf("create returned a malformed id: %q", id)
	}

	resp = do(t, app, "GET", "/public/newsarticle", "", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("list: got %d", resp.StatusCode)
	}
	items := decodeList(t, resp.Body)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	doc := items[0]
	if doc["_id"] != id {
		t.Fatalf("_id: got %v", doc["_id"])
	}
	if doc["title"] != "Penerimaan Siswa Baru" || doc["content"] != "Pendaftaran dibuka bulan Juni." {
		t.Fatalf("fields mangled: %v", doc)
	}
	for _, key := range []string{"created_at", "updated_at"} {
		s, ok := doc[key].(string)
		if !ok {
			t.Fatalf("%s: not a string timestamp: %v (%T)", key, doc[key], doc[key])
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			t.Fatalf("%s: not RFC 3339: %q", key, s)
		}
	}
}

func TestCreateValidationErrors(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	resp := do(t, app, "POST", "/admin/scheduleentry", token, map[string]any{
		"data": map[string]any{"type": "rapat", "extra": true},
	})
	if resp.StatusCode != 422 {
		t.Fatalf("got %d", resp.StatusCode)
	}
	body := decodeMap(t, resp.Body)
	errs, _ := body["errors"].([]any)
	if len(errs) != 2 {
		t.Fatalf("expected 2 field errors, got %v", body["errors"])
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	resp := do(t, app, "POST", "/admin/newsarticle", token, map[string]any{
		"data": map[string]any{"title": "Judul Lama", "content": "Isi", "author": "Pak Agus"},
	})
	id := decodeMap(t, resp.Body)["_id"].(string)

	resp = do(t, app, "PUT", "/admin/newsarticle/"+id, token, map[string]any{
		"data": map[string]any{"title": "Judul Baru"},
	})
	if resp.StatusCode != 200 {
		t.Fatalf("update: got %d", resp.StatusCode)
	}
	if decodeMap(t, resp.Body)["message"] != "updated" {
		t.Fatal("unexpected update message")
	}

	items := decodeList(t, do(t, app, "GET", "/public/newsarticle", "", nil).Body)
	doc := items[0]
	if doc["title"] != "Judul Baru" {
		t.Fatalf("title not updated: %v", doc["title"])
	}
	if doc["content"] != "Isi" || doc["author"] != "Pak Agus" {
		t.Fatalf("untouched fields changed: %v", doc)
	}
}

func TestUpdateRejectsUnknownFields(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	resp := do(t, app, "POST", "/admin/staff", token, map[string]any{
		"data": map[string]any{"name": "Bu Sari", "role": "guru"},
	})
	id := decodeMap(t, resp.Body)["_id"].(string)

	resp = do(t, app, "PUT", "/admin/staff/"+id, token, map[string]any{
		"data": map[string]any{"salary": 100},
	})
	if resp.StatusCode != 422 {
		t.Fatalf("got %d", resp.StatusCode)
	}
}

func TestDeleteThenGone(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	resp := do(t, app, "POST", "/admin/achievement", token, map[string]any{
		"data": map[string]any{"title": "Juara 1 LKS"},
	})
	id := decodeMap(t, resp.Body)["_id"].(string)

	resp = do(t, app, "DELETE", "/admin/achievement/"+id, token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("delete: got %d", resp.StatusCode)
	}
	if decodeMap(t, resp.Body)["message"] != "deleted" {
		t.Fatal("unexpected delete message")
	}

	if resp := do(t, app, "PUT", "/admin/achievement/"+id, token, map[string]any{"data": map[string]any{"title": "x"}}); resp.StatusCode != 404 {
		t.Fatalf("update after delete: got %d", resp.StatusCode)
	}
	if resp := do(t, app, "DELETE", "/admin/achievement/"+id, token, nil); resp.StatusCode != 404 {
		t.Fatalf("second delete: got %d", resp.StatusCode)
	}
}

func TestMalformedVersusMissingID(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	resp := do(t, app, "PUT", "/admin/newsarticle/not-an-id", token, map[string]any{"data": map[string]any{}})
	if resp.StatusCode != 400 {
		t.Fatalf("malformed id: got %d", resp.StatusCode)
	}

	// Well-formed but never inserted decodes fine and then misses.
	resp = do(t, app, "PUT", "/admin/newsarticle/64b000000000000000000000", token, map[string]any{"data": map[string]any{}})
	if resp.StatusCode != 404 {
		t.Fatalf("missing id: got %d", resp.StatusCode)
	}
}

func TestListLimit(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	for _, title := range []string{"pertama", "kedua", "ketiga"} {
		resp := do(t, app, "POST", "/admin/announcement", token, map[string]any{
			"data": map[string]any{"title": title, "content": "isi"},
		})
		if resp.StatusCode != 200 {
			t.Fatalf("create %s: got %d", title, resp.StatusCode)
		}
		time.Sleep(5 * time.Millisecond) // distinct created_at millis
	}

	items := decodeList(t, do(t, app, "GET", "/public/announcement?limit=2", "", nil).Body)
	if len(items) != 2 {
		t.Fatalf("limit ignored: got %d items", len(items))
	}
	if items[0]["title"] != "ketiga" || items[1]["title"] != "kedua" {
		t.Fatalf("not newest first: %v, %v", items[0]["title"], items[1]["title"])
	}
}

func TestPageSoftDefault(t *testing.T) {
	app, _ := newApp()

	resp := do(t, app, "GET", "/public/page/kontak_alamat", "", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("got %d", resp.StatusCode)
	}
	body := decodeMap(t, resp.Body)
	if body["key"] != "kontak_alamat" || body["title"] != "" || body["content"] != "" {
		t.Fatalf("unexpected shell: %v", body)
	}
}

func TestPageUpsertKeepsOneDocument(t *testing.T) {
	app, mem := newApp()
	token := login(t, app)

	for _, title := range []string{"Sejarah Sekolah", "Sejarah Singkat"} {
		resp := do(t, app, "POST", "/admin/page/sejarah", token, map[string]any{
			"data": map[string]any{"title": title, "content": "..."},
		})
		if resp.StatusCode != 200 {
			t.Fatalf("set: got %d", resp.StatusCode)
		}
		if decodeMap(t, resp.Body)["message"] != "saved" {
			t.Fatal("unexpected set message")
		}
	}

	docs, _ := mem.Find(context.Background(), "schoolpage", bson.M{"key": "sejarah"}, "", 0)
	if len(docs) != 1 {
		t.Fatalf("expected 1 page doc, got %d", len(docs))
	}

	body := decodeMap(t, do(t, app, "GET", "/public/page/sejarah", "", nil).Body)
	if body["title"] != "Sejarah Singkat" {
		t.Fatalf("second set not applied: %v", body["title"])
	}
	if _, ok := body["created_at"]; !ok {
		t.Fatal("created_at missing after upsert")
	}
}

func TestPageKeyOverridesPayload(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	// Client tries to smuggle a different key; the route key wins.
	resp := do(t, app, "POST", "/admin/page/fasilitas", token, map[string]any{
		"data": map[string]any{"key": "sejarah", "title": "Fasilitas"},
	})
	if resp.StatusCode != 200 {
		t.Fatalf("got %d", resp.StatusCode)
	}

	body := decodeMap(t, do(t, app, "GET", "/public/page/fasilitas", "", nil).Body)
	if body["key"] != "fasilitas" || body["title"] != "Fasilitas" {
		t.Fatalf("key injection failed: %v", body)
	}
}

func TestPageSetUnknownKey(t *testing.T) {
	app, _ := newApp()
	token := login(t, app)

	resp := do(t, app, "POST", "/admin/page/beranda", token, map[string]any{
		"data": map[string]any{"title": "x"},
	})
	if resp.StatusCode != 422 {
		t.Fatalf("got %d", resp.StatusCode)
	}
}
