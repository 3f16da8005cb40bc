package service

import (
	"context"
	"sync"
	"testing"

	"go-grocery-delivery/internal/event"
	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	// every pooled connection to :memory: would otherwise see its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&model.User{}, &model.Product{}, &model.Order{}, &model.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Action
	}
	return out
}

func (p *recordingPublisher) byAction(action string) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Event
	for _, ev := range p.events {
		if ev.Action == action {
			out = append(out, ev)
		}
	}
	return out
}

type testEnv struct {
	DB       *gorm.DB
	Events   *recordingPublisher
	Orders   OrderService
	Products ProductService
	Users    repository.UserRepository
	Catalog  repository.ProductRepository
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)
	events := &recordingPublisher{}
	pRepo := repository.NewProductRepo(db)
	uRepo := repository.NewUserRepo(db)
	oRepo := repository.NewOrderRepo(db)

	return &testEnv{
		DB:       db,
		Events:   events,
		Orders:   NewOrderService(oRepo, pRepo, uRepo, db, events),
		Products: NewProductService(pRepo, db, events),
		Users:    uRepo,
		Catalog:  pRepo,
	}
}

func (env *testEnv) actor(t *testing.T, email string, role model.Role) Actor {
	t.Helper()
	u := &model.User{Name: email, Email: email, Role: role, Password: "x"}
	require.NoError(t, env.Users.Create(context.Background(), u))
	return Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (env *testEnv) product(t *testing.T, vendor Actor, name string, price int64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: price, Stock: stock, VendorID: vendor.ID}
	require.NoError(t, env.Catalog.Create(context.Background(), p))
	return p
}

func (env *testEnv) stockOf(t *testing.T, p *model.Product) int {
	t.Helper()
	got, err := env.Catalog.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got.Stock
}

func (env *testEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.DB.Model(&model.Order{}).Count(&n).Error)
	return n
}

func placeReq(total int64, items ...CartItem) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		LineItems:   items,
		TotalAmount: total,
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Address:     "12 Market Road",
	}
}
