// test/helpers/helpers.go
package helpers

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/pkg/config"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_optigest",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Dashboard: config.DashboardConfig{
			CacheTTL: 5 * time.Minute,
		},
		Console: config.ConsoleConfig{
			APIBaseURL:     "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestProduct creates a test product
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	product := &domain.Product{
		ID:        1,
		Code:      "PROD-TEST0001",
		Name:      "Armazón Clásico",
		Category:  domain.CategoryFrames,
		Supplier:  "Luxottica",
		Stock:     15,
		Price:     decimal.NewFromFloat(120.50),
		Status:    domain.StockNormal.Display(),
		Type:      domain.TypeOwned,
		CreatedAt: time.Now().AddDate(0, -1, 0),
	}

	for _, override := range overrides {
		override(product)
	}

	return product
}

// CreateTestProducts creates multiple test products spread across the
// catalog facets.
func CreateTestProducts(count int) []domain.Product {
	products := make([]domain.Product, count)

	categories := domain.Categories()
	suppliers := []string{"Luxottica", "Essilor", "Telko"}
	types := domain.ProductTypes()

	for i := 0; i < count; i++ {
		products[i] = *CreateTestProduct(func(p *domain.Product) {
			p.ID = int64(i + 1)
			p.Code = fmt.Sprintf("PROD-TEST%04d", i+1)
			p.Name = fmt.Sprintf("Producto %d", i+1)
			p.Category = categories[i%len(categories)]
			p.Supplier = suppliers[i%len(suppliers)]
			p.Type = types[i%len(types)]
			p.Stock = (i * 3) % 20
			p.Status = domain.ClassifyStock(p.Stock).Display()
			p.Price = decimal.NewFromInt(int64(50 + i*10))
		})
	}

	return products
}

// CreateTestPatient creates a test patient
func CreateTestPatient(overrides ...func(*domain.Patient)) *domain.Patient {
	patient := &domain.Patient{
		ID:             1,
		Name:           "María González",
		Email:          "maria.gonzalez@example.com",
		Phone:          "+34 600 123 456",
		Status:         domain.PatientActive.Display(),
		Address:        "Calle Mayor 12, Madrid",
		Notes:          "Prefiere lentes de contacto",
		TotalPurchases: 3,
		PurchaseHistory: []domain.PurchaseRef{
			{
				Product:  "Lentes Progresivas",
				Quantity: 1,
				Price:    decimal.NewFromFloat(280.00),
				Date:     time.Now().AddDate(0, -2, 0),
			},
		},
		CreatedAt: time.Now().AddDate(-1, 0, 0),
	}

	for _, override := range overrides {
		override(patient)
	}

	return patient
}

// CreateTestPatients creates multiple test patients
func CreateTestPatients(count int) []domain.Patient {
	patients := make([]domain.Patient, count)

	statuses := domain.PatientStatuses()

	for i := 0; i < count; i++ {
		patients[i] = *CreateTestPatient(func(p *domain.Patient) {
			p.ID = int64(i + 1)
			p.Name = fmt.Sprintf("Paciente %d", i+1)
			p.Email = fmt.Sprintf("paciente%d@example.com", i+1)
			p.Phone = fmt.Sprintf("+34 600 000 %03d", i+1)
			p.Status = statuses[i%len(statuses)].Display()
			p.TotalPurchases = i % 5
			p.PurchaseHistory = nil
		})
	}

	return patients
}
