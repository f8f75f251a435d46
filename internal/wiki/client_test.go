package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func pageJSON(id int) string {
	return fmt.Sprintf(`{
		"id": "%d",
		"title": "Page %d",
		"body": {"storage": {"value": "<p>body %d</p>"}},
		"version": {
			"by": {"email": "author@example.com", "publicName": "Ada Author", "accountId": "acct-1"},
			"friendlyWhen": "yesterday"
		},
		"_links": {"webui": "/spaces/ENG/pages/%d"}
	}`, id, id, id, id)
}

func listingServer(t *testing.T, total int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, token, ok := r.BasicAuth()
		if !ok || user != "svc@example.com" || token != "api-token" {
			t.Errorf("basic auth = %q/%q, want configured credentials", user, token)
		}
		if got := r.URL.Query().Get("spaceKey"); got != "ENG" {
			t.Errorf("spaceKey = %q, want ENG", got)
		}
		if got := r.URL.Query().Get("expand"); got != "body.storage,version" {
			t.Errorf("expand = %q, want body.storage,version", got)
		}

		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		end := start + pageLimit
		if end > total {
			end = total
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[`)
		for i := start; i < end; i++ {
			if i > start {
				fmt.Fprint(w, ",")
			}
			fmt.Fprint(w, pageJSON(i))
		}
		fmt.Fprint(w, `]}`)
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "svc@example.com", "api-token", "ENG")
}

func TestListPagesSingleBatch(t *testing.T) {
	srv := listingServer(t, 3)
	defer srv.Close()

	pages, err := newTestClient(srv.URL).ListPages(context.Background())
	if err != nil {
		t.Fatalf("ListPages() error = %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}

	got := pages[1]
	if got.ID != "1" {
		t.Errorf("ID = %q, want 1", got.ID)
	}
	if got.Title != "Page 1" {
		t.Errorf("Title = %q, want Page 1", got.Title)
	}
	if got.Body != "<p>body 1</p>" {
		t.Errorf("Body = %q, want storage markup", got.Body)
	}
	if got.AuthorName != "Ada Author" || got.AuthorEmail != "author@example.com" || got.AuthorID != "acct-1" {
		t.Errorf("author fields = %q/%q/%q, want version.by values", got.AuthorName, got.AuthorEmail, got.AuthorID)
	}
	if got.WebURL != "/spaces/ENG/pages/1" {
		t.Errorf("WebURL = %q, want _links.webui", got.WebURL)
	}
	if got.When != "yesterday" {
		t.Errorf("When = %q, want yesterday", got.When)
	}
}

func TestListPagesFollowsPagination(t *testing.T) {
	srv := listingServer(t, 150)
	defer srv.Close()

	pages, err := newTestClient(srv.URL).ListPages(context.Background())
	if err != nil {
		t.Fatalf("ListPages() error = %v", err)
	}
	if len(pages) != 150 {
		t.Fatalf("pages = %d, want 150 across two batches", len(pages))
	}
	if pages[149].ID != "149" {
		t.Errorf("last page ID = %q, want 149", pages[149].ID)
	}
}

func TestListPagesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).ListPages(context.Background()); err == nil {
		t.Error("ListPages() error = nil, want error on non-200 status")
	}
}

func TestSearchPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/search" {
			t.Errorf("path = %q, want /content/search", r.URL.Path)
		}
		if got := r.URL.Query().Get("cql"); got != "type = page" {
			t.Errorf("cql = %q, want type = page", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"results":[%s]}`, pageJSON(7))
	}))
	defer srv.Close()

	pages, err := newTestClient(srv.URL).SearchPages(context.Background(), "type = page")
	if err != nil {
		t.Fatalf("SearchPages() error = %v", err)
	}
	if len(pages) != 1 || pages[0].Title != "Page 7" {
		t.Errorf("pages = %+v, want single Page 7", pages)
	}
}
