package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/keylab/storefront/internal/credential"
	domainErrors "github.com/keylab/storefront/internal/domain/errors"
	"github.com/keylab/storefront/internal/domain/model"
	testhelpers "github.com/keylab/storefront/internal/test"
)

func newTestClient(t *testing.T, baseURL string) (*Client, *credential.Holder) {
	t.Helper()
	holder := credential.NewHolder()
	client, err := New(baseURL, 5*time.Second, holder, testhelpers.Logger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, holder
}

func TestNewValidatesURL(t *testing.T) {
	holder := credential.NewHolder()
	if _, err := New("://bad-url", time.Second, holder, testhelpers.Logger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := New("/relative", time.Second, holder, testhelpers.Logger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		statusCode int
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, domainErrors.ErrAuthRejected) {
					t.Fatalf("expected ErrAuthRejected, got %v", err)
				}
			},
		},
		{
			name:       "forbidden",
			statusCode: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, domainErrors.ErrAuthRejected) {
					t.Fatalf("expected ErrAuthRejected, got %v", err)
				}
			},
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, domainErrors.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			},
		},
		{
			name:       "bad request carries detail",
			statusCode: http.StatusBadRequest,
			body:       `{"detail":"Cart is empty"}`,
			check: func(t *testing.T, err error) {
				var ve domainErrors.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if ve.Detail != "Cart is empty" {
					t.Fatalf("unexpected detail %q", ve.Detail)
				}
			},
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var ne domainErrors.NetworkError
				if !errors.As(err, &ne) {
					t.Fatalf("expected NetworkError, got %v", err)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.statusCode)
				if tc.body != "" {
					w.Write([]byte(tc.body))
				}
			}))
			defer srv.Close()

			client, _ := newTestClient(t, srv.URL)
			_, err := client.Cart(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			tc.check(t, err)
		})
	}
}

func TestDecodeFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	_, err := client.Cart(context.Background())
	var ne domainErrors.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestBearerInjection(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"user_email":"a@x.com","items":[]}`))
	}))
	defer srv.Close()

	client, holder := newTestClient(t, srv.URL)

	if _, err := client.Cart(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawAuth != "" {
		t.Fatalf("anonymous request must carry no credential, got %q", sawAuth)
	}

	holder.Set("tok-1")
	if _, err := client.Cart(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", sawAuth)
	}
}

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "a@x.com" || r.PostForm.Get("password") != "pw" {
			t.Errorf("unexpected form values %v", r.PostForm)
		}
		w.Write([]byte(`{"access_token":"tok-42","token_type":"bearer"}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	token, err := client.Login(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "tok-42" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestSearchProductsBuildsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	minPrice := 5.0
	inStock := true
	_, err := client.SearchProducts(context.Background(), model.ProductFilter{
		Query:    "lamp",
		MinPrice: &minPrice,
		InStock:  &inStock,
		Category: "office",
		Page:     2,
		Limit:    6,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, want := range []string{"q=lamp", "min_price=5", "in_stock=true", "category=office", "page=2", "limit=6"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestGzipResponsesDecodeTransparently(t *testing.T) {
	backend := testhelpers.NewBackend()
	defer backend.Close()
	product := backend.Server.SeedProduct(model.Product{Name: "Gadget", Price: 9.99, InStock: true})

	client, _ := newTestClient(t, backend.URL())
	got, err := client.Product(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("product fetch failed: %v", err)
	}
	if got.Name != "Gadget" || got.Price != 9.99 {
		t.Fatalf("unexpected product %+v", got)
	}
}
