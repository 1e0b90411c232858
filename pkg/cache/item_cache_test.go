package cache

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestListQuery_Key_Deterministic(t *testing.T) {
	q1 := ListQuery{Scope: "user", UserID: "user-1", Page: 2, Size: 20, Sort: "name,desc;id,asc"}
	q2 := ListQuery{Scope: "user", UserID: "user-1", Page: 2, Size: 20, Sort: "name,desc;id,asc"}

	if q1.Key() != q2.Key() {
		t.Fatalf("identical queries produced different keys: %q vs %q", q1.Key(), q2.Key())
	}
}

func TestListQuery_Key_DistinguishesQueries(t *testing.T) {
	base := ListQuery{Scope: "all", Page: 0, Size: 20, Sort: "id,asc"}

	variants := []ListQuery{
		{Scope: "user", UserID: "user-1", Page: 0, Size: 20, Sort: "id,asc"},
		{Scope: "all", Page: 1, Size: 20, Sort: "id,asc"},
		{Scope: "all", Page: 0, Size: 50, Sort: "id,asc"},
		{Scope: "all", Page: 0, Size: 20, Sort: "name,desc;id,asc"},
	}

	seen := map[string]bool{base.Key(): true}
	for _, v := range variants {
		if seen[v.Key()] {
			t.Errorf("key collision for %+v: %q", v, v.Key())
		}
		seen[v.Key()] = true
	}
}

func TestListQuery_Key_Prefix(t *testing.T) {
	q := ListQuery{Scope: "all", Page: 0, Size: 20, Sort: "id,asc"}
	if !strings.HasPrefix(q.Key(), "items:") {
		t.Fatalf("expected items: prefix, got %q", q.Key())
	}
}

func TestItemKey(t *testing.T) {
	id := uuid.New()
	if got, want := itemKey(id), "item:"+id.String(); got != want {
		t.Fatalf("itemKey = %q, want %q", got, want)
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}
