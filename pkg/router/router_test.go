package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikhilverma/shopline/pkg/router"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestGroupPrefixAndParams(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/products/{id}", "products.show", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, router.Param(req, "id"))
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/products/42")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var buf [8]byte
	n, _ := resp.Body.Read(buf[:])
	if got := string(buf[:n]); got != "42" {
		t.Errorf("param: got %q, want %q", got, "42")
	}
}

func TestNestedGroupMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(label string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, label)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	outer := r.Group("/api", mw("outer"))
	inner := outer.Group("/admin", mw("inner"))
	inner.Get("/stats", "admin.stats", ok, mw("route"))

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	if _, err := http.Get(srv.URL + "/api/admin/stats"); err != nil {
		t.Fatal(err)
	}

	want := []string{"outer", "inner", "route"}
	if len(order) != len(want) {
		t.Fatalf("middleware calls: got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("middleware order: got %v, want %v", order, want)
		}
	}
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Get("/api/orders/{id}", "orders.show", ok)

	url, err := r.URL("orders.show", map[string]string{"id": "7"})
	if err != nil {
		t.Fatal(err)
	}
	if url != "/api/orders/7" {
		t.Errorf("got %q", url)
	}

	if _, err := r.URL("orders.show", nil); err == nil {
		t.Error("expected error for missing params")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r := router.New()
	r.Post("/api/orders", "orders.create", ok)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/orders")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", resp.StatusCode)
	}
}
