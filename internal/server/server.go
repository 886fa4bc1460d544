package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/keylab/storefront/internal/domain/model"
)

// Server is an in-process storefront backend holding all state in memory.
// The test suite runs the client against it; cmd/storefront serves it in
// demo mode.
type Server struct {
	logger *slog.Logger
	hub    *wsHub

	mu           sync.Mutex
	users        map[string]*userRecord // keyed by email
	tokens       map[string]string      // token -> email
	products     map[string]*model.Product
	productOrder []string
	carts        map[string][]model.CartEntry
	orders       map[string]*model.Order
	orderOrder   []string
}

type userRecord struct {
	ID        string
	Name      string
	Email     string
	Hash      []byte
	IsAdmin   bool
	CreatedAt time.Time
}

// New creates an empty backend.
func New(logger *slog.Logger) *Server {
	return &Server{
		logger:   logger,
		hub:      newWSHub(logger),
		users:    make(map[string]*userRecord),
		tokens:   make(map[string]string),
		products: make(map[string]*model.Product),
		carts:    make(map[string][]model.CartEntry),
		orders:   make(map[string]*model.Order),
	}
}

// Router builds the gin engine with the full REST and WebSocket surface.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws"})))

	auth := engine.Group("/auth")
	auth.POST("/signup", s.handleSignup)
	auth.POST("/login", s.handleLogin)
	auth.GET("/user", s.authRequired, s.handleCurrentUser)
	auth.PUT("/user", s.authRequired, s.handleUpdateUser)

	products := engine.Group("/products")
	products.GET("/search", s.handleSearchProducts)
	products.GET("/categories", s.handleCategories)
	products.GET("/:id", s.handleProduct)
	products.POST("", s.authRequired, s.adminRequired, s.handleCreateProduct)
	products.PUT("/:id", s.authRequired, s.adminRequired, s.handleUpdateProduct)
	products.DELETE("/:id", s.authRequired, s.adminRequired, s.handleDeleteProduct)

	cart := engine.Group("/cart", s.authRequired)
	cart.GET("", s.handleGetCart)
	cart.POST("/add", s.handleAddToCart)
	cart.PUT("/update", s.handleUpdateCart)
	cart.DELETE("/:product_id", s.handleRemoveFromCart)
	cart.DELETE("", s.handleClearCart)

	orders := engine.Group("/orders", s.authRequired)
	orders.POST("", s.handlePlaceOrder)
	orders.GET("", s.handleListOrders)
	orders.GET("/:id", s.handleGetOrder)
	orders.PUT("/:id/status", s.adminRequired, s.handleUpdateOrderStatus)

	admin := engine.Group("/admin", s.authRequired, s.adminRequired)
	admin.GET("/stats", s.handleAdminStats)
	admin.GET("/users", s.handleAdminUsers)
	admin.PUT("/users/:id/role", s.handleSetUserRole)
	admin.GET("/orders", s.handleAdminOrders)
	admin.GET("/products", s.handleAdminProducts)

	engine.GET("/ws", s.handleWS)

	return engine
}

// SeedUser registers a user directly, bypassing the signup route.
func (s *Server) SeedUser(name, email, password string, isAdmin bool) (*model.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &userRecord{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Hash:      hash,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now().UTC(),
	}
	s.users[email] = rec
	return identityOf(rec), nil
}

// SeedProduct inserts a catalog entry, assigning an identifier when absent.
func (s *Server) SeedProduct(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	stored := p
	s.products[p.ID] = &stored
	s.productOrder = append(s.productOrder, p.ID)
	return p
}

func identityOf(rec *userRecord) *model.Identity {
	return &model.Identity{
		ID:        rec.ID,
		Name:      rec.Name,
		Email:     rec.Email,
		IsAdmin:   rec.IsAdmin,
		CreatedAt: rec.CreatedAt,
	}
}

func (s *Server) userByToken(token string) *userRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		return nil
	}
	return s.users[email]
}

// RevokeToken invalidates one issued credential, simulating expiry.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}
