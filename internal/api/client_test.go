package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lmoraes94/verzel-admin/internal/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"count":0,"rows":[]}`))
	}))
	defer server.Close()

	if _, err := List[models.User](context.Background(), client, "users", 0, 5, ""); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header before SetToken, got %q", gotAuth)
	}

	client.SetToken("tok-123")
	if _, err := List[models.User](context.Background(), client, "users", 0, 5, ""); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}

	client.ClearToken()
	if _, err := List[models.User](context.Background(), client, "users", 0, 5, ""); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected header cleared after ClearToken, got %q", gotAuth)
	}
}

func TestListQueryString(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"count":12,"rows":[{"id":1,"name":"a","username":"u","email":"e","phone":null,"role":"User","avatar":null}]}`))
	}))
	defer server.Close()

	result, err := List[models.User](context.Background(), client, "users", 0, 5, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if gotQuery != "page=0&pageSize=5&q=" {
		t.Errorf("expected query 'page=0&pageSize=5&q=', got %q", gotQuery)
	}
	if result.Count != 12 {
		t.Errorf("expected count 12, got %d", result.Count)
	}
	if len(result.Rows) != 1 || result.Rows[0].Name != "a" {
		t.Errorf("unexpected rows: %+v", result.Rows)
	}
}

func TestErrorEnvelope(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"E-mail já cadastrado."}`))
	}))
	defer server.Close()

	_, err := client.Create(context.Background(), "users", map[string]string{"name": "x"})
	if err == nil {
		t.Fatal("expected error from 409 response")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("expected status 409, got %d", apiErr.Status)
	}
	if apiErr.Message != "E-mail já cadastrado." {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestUploadMultipart(t *testing.T) {
	var gotPath, gotField, gotFilename, gotContent string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path

		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		buf := make([]byte, 64)
		n, _ := file.Read(buf)
		gotField = "avatar"
		gotFilename = header.Filename
		gotContent = string(buf[:n])
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	_, err := client.Upload(context.Background(), "users", 7, "avatar", "me.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if gotPath != "PATCH /users/7/avatar" {
		t.Errorf("unexpected request: %q", gotPath)
	}
	if gotField != "avatar" || gotFilename != "me.png" || gotContent != "png-bytes" {
		t.Errorf("unexpected multipart payload: field=%q filename=%q content=%q", gotField, gotFilename, gotContent)
	}
}

func TestRemoveUploadPath(t *testing.T) {
	var gotPath string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	if _, err := client.RemoveUpload(context.Background(), "cars", 3, "image"); err != nil {
		t.Fatalf("remove upload failed: %v", err)
	}
	if gotPath != "PATCH /cars/3/remove-image" {
		t.Errorf("unexpected request: %q", gotPath)
	}
}
