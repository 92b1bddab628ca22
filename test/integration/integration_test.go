package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lmoraes94/verzel-admin/internal/api"
	"github.com/lmoraes94/verzel-admin/internal/models"
)

// Exercises the client SDK against a running backend (the dev server or
// the real API). Requires the seeded admin account.

var (
	apiBaseURL    = getEnv("API_BASE_URL", "http://localhost:3333")
	adminEmail    = getEnv("ADMIN_EMAIL", "admin@verzel.com.br")
	adminPassword = getEnv("ADMIN_PASSWORD", "Admin123")
	client        *api.Client
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		fmt.Println("Skipping integration tests. Set INTEGRATION_TEST=true to run.")
		os.Exit(0)
	}
	client = api.NewClient(apiBaseURL, 10*time.Second)
	os.Exit(m.Run())
}

func TestLogin(t *testing.T) {
	resp, err := client.Login(context.Background(), adminEmail, adminPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.User == nil {
		t.Fatal("expected user in login response")
	}
	if resp.Token == "" {
		t.Fatal("expected token in login response")
	}
	client.SetToken(resp.Token)
}

func TestLoginRejected(t *testing.T) {
	rejected := api.NewClient(apiBaseURL, 10*time.Second)
	resp, err := rejected.Login(context.Background(), adminEmail, "wrong-password")
	if err == nil && resp.User != nil {
		t.Fatal("expected rejected login")
	}
}

func TestUnauthorizedList(t *testing.T) {
	anon := api.NewClient(apiBaseURL, 10*time.Second)
	_, err := api.List[models.User](context.Background(), anon, models.ResourceUsers, 0, 5, "")
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
}

func TestListUsers(t *testing.T) {
	if client.Token() == "" {
		t.Skip("no auth token available")
	}

	result, err := api.List[models.User](context.Background(), client, models.ResourceUsers, 0, 5, "")
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if result.Count < 1 {
		t.Error("expected at least the seeded admin user")
	}
	if len(result.Rows) == 0 {
		t.Error("expected at least one row")
	}
}

func TestUserLifecycle(t *testing.T) {
	if client.Token() == "" {
		t.Skip("no auth token available")
	}

	email := fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
	_, err := client.Create(context.Background(), models.ResourceUsers, map[string]any{
		"name":     "Usuário de Teste",
		"username": "teste.integracao",
		"email":    email,
		"role":     "User",
		"password": "Abcdefg1",
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	result, err := api.List[models.User](context.Background(), client, models.ResourceUsers, 0, 50, "Teste")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	var created *models.User
	for i := range result.Rows {
		if result.Rows[i].Email == email {
			created = &result.Rows[i]
			break
		}
	}
	if created == nil {
		t.Fatal("created user not found in search results")
	}

	upd, err := client.Update(context.Background(), models.ResourceUsers, created.ID, map[string]any{
		"name": "Usuário Renomeado",
	})
	if err != nil {
		t.Fatalf("update user failed: %v", err)
	}
	if upd.User != nil && upd.User.Name != "Usuário Renomeado" {
		t.Errorf("updated name = %q", upd.User.Name)
	}

	if _, err := client.Delete(context.Background(), models.ResourceUsers, created.ID); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
}

func TestCarLifecycle(t *testing.T) {
	if client.Token() == "" {
		t.Skip("no auth token available")
	}

	name := fmt.Sprintf("Carro Teste %d", time.Now().UnixNano())
	_, err := client.Create(context.Background(), models.ResourceCars, map[string]any{
		"name":  name,
		"brand": "Marca",
		"model": "2024",
		"price": 75000.0,
	})
	if err != nil {
		t.Fatalf("create car failed: %v", err)
	}

	result, err := api.List[models.Car](context.Background(), client, models.ResourceCars, 0, 50, "Carro Teste")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	var created *models.Car
	for i := range result.Rows {
		if result.Rows[i].Name == name {
			created = &result.Rows[i]
			break
		}
	}
	if created == nil {
		t.Fatal("created car not found in search results")
	}

	if _, err := client.Update(context.Background(), models.ResourceCars, created.ID, map[string]any{
		"price": 69990.0,
	}); err != nil {
		t.Fatalf("update car failed: %v", err)
	}

	if _, err := client.Delete(context.Background(), models.ResourceCars, created.ID); err != nil {
		t.Fatalf("delete car failed: %v", err)
	}
}

func TestPagination(t *testing.T) {
	if client.Token() == "" {
		t.Skip("no auth token available")
	}

	page0, err := api.List[models.Car](context.Background(), client, models.ResourceCars, 0, 2, "")
	if err != nil {
		t.Fatalf("list page 0 failed: %v", err)
	}
	if len(page0.Rows) > 2 {
		t.Errorf("page 0 rows = %d, want at most 2", len(page0.Rows))
	}

	if page0.Count > 2 {
		page1, err := api.List[models.Car](context.Background(), client, models.ResourceCars, 1, 2, "")
		if err != nil {
			t.Fatalf("list page 1 failed: %v", err)
		}
		if len(page1.Rows) == 0 {
			t.Error("expected rows on page 1")
		}
	}
}
