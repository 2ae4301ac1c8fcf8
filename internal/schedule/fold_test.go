package schedule

import (
	"encoding/base64"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/iliyamo/cinema-showtimes/internal/model"
)

type row struct {
	key string
	seq int
}

func TestFoldPreservesFirstSeenOrder(t *testing.T) {
	rows := []row{{"b", 0}, {"a", 1}, {"b", 2}, {"c", 3}, {"a", 4}, {"b", 5}}
	groups := Fold(rows,
		func(r row) string { return r.key },
		func(r row) int { return r.seq },
		func(r row) int { return r.seq },
	)

	wantKeys := []string{"b", "a", "c"}
	wantChildren := [][]int{{0, 2, 5}, {1, 4}, {3}}
	if len(groups) != len(wantKeys) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantKeys))
	}
	for i, g := range groups {
		if g.Key != wantKeys[i] {
			t.Errorf("group %d key = %q, want %q", i, g.Key, wantKeys[i])
		}
		if g.Header != wantChildren[i][0] {
			t.Errorf("group %q header from row %d, want first row %d", g.Key, g.Header, wantChildren[i][0])
		}
		if len(g.Children) != len(wantChildren[i]) {
			t.Fatalf("group %q children = %v, want %v", g.Key, g.Children, wantChildren[i])
		}
		for j := range g.Children {
			if g.Children[j] != wantChildren[i][j] {
				t.Errorf("group %q children = %v, want %v", g.Key, g.Children, wantChildren[i])
				break
			}
		}
	}
}

func TestFoldEmpty(t *testing.T) {
	groups := Fold([]row(nil), func(r row) string { return r.key }, func(row) int { return 0 }, func(row) int { return 0 })
	if groups == nil || len(groups) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", groups)
	}
}

// Randomized check: flattening the groups back gives, per key, exactly the
// input subsequence, and keys come out in first-seen order.
func TestFoldRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(60)
		rows := make([]row, n)
		for i := range rows {
			rows[i] = row{key: string(rune('a' + rng.Intn(6))), seq: i}
		}
		groups := Fold(rows, func(r row) string { return r.key }, func(r row) string { return r.key }, func(r row) int { return r.seq })

		var firstSeen []string
		seen := map[string]bool{}
		perKey := map[string][]int{}
		for _, r := range rows {
			if !seen[r.key] {
				seen[r.key] = true
				firstSeen = append(firstSeen, r.key)
			}
			perKey[r.key] = append(perKey[r.key], r.seq)
		}
		if len(groups) != len(firstSeen) {
			t.Fatalf("iter %d: %d groups, want %d", iter, len(groups), len(firstSeen))
		}
		for i, g := range groups {
			if g.Key != firstSeen[i] {
				t.Fatalf("iter %d: group %d = %q, want %q", iter, i, g.Key, firstSeen[i])
			}
			want := perKey[g.Key]
			if len(want) != len(g.Children) {
				t.Fatalf("iter %d: group %q has %d children, want %d", iter, g.Key, len(g.Children), len(want))
			}
			for j := range want {
				if want[j] != g.Children[j] {
					t.Fatalf("iter %d: group %q children %v, want %v", iter, g.Key, g.Children, want)
				}
			}
		}
	}
}

func strptr(s string) *string { return &s }

func TestTicketURL(t *testing.T) {
	l := Links{Ticket: "https://tickets.example/w/{id}"}

	u := l.TicketURL(strptr("  abc 123 \n"))
	if u == nil {
		t.Fatal("want url, got nil")
	}
	want := base64.StdEncoding.EncodeToString([]byte("abc 123"))
	if !strings.HasSuffix(*u, want) {
		t.Errorf("url %q does not end with %q", *u, want)
	}
	if *u != "https://tickets.example/w/"+want {
		t.Errorf("url = %q", *u)
	}

	if l.TicketURL(nil) != nil {
		t.Error("nil id should give nil url")
	}
	if l.TicketURL(strptr("   ")) != nil {
		t.Error("blank id should give nil url")
	}
}

func TestCatalogURL(t *testing.T) {
	l := Links{Catalog: "https://catalog.example/film/{id}/"}
	id := int64(42)
	if u := l.CatalogURL(&id); u == nil || *u != "https://catalog.example/film/42/" {
		t.Errorf("CatalogURL = %v", u)
	}
	if l.CatalogURL(nil) != nil {
		t.Error("nil catalog id should give nil url")
	}
}

func TestByCinemaJSON(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	l := Links{Ticket: "https://t/{id}"}
	rows := []CinemaRow{
		{Session: model.Session{ID: 10, CinemaID: 2, YaID: strptr("x"), Date: time.Date(2026, 10, 18, 13, 30, 0, 0, msk), PriceMin: 250, PriceMax: 400, Type: model.SessionType3D}, CinemaName: "Fav", Address: "A st.", IsFavorite: true},
		{Session: model.Session{ID: 11, CinemaID: 1, Date: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}, CinemaName: "Other", Address: "B st."},
		{Session: model.Session{ID: 12, CinemaID: 2, Date: time.Date(2026, 10, 18, 19, 0, 0, 0, time.UTC), Hall: strptr("Hall 3")}, CinemaName: "Fav", Address: "A st.", IsFavorite: true},
	}

	got := l.ByCinema(rows)
	if len(got) != 2 || got[0].CinemaID != 2 || got[1].CinemaID != 1 {
		t.Fatalf("unexpected groups: %+v", got)
	}
	if ids := []uint64{got[0].Sessions[0].ID, got[0].Sessions[1].ID}; ids[0] != 10 || ids[1] != 12 {
		t.Errorf("session order = %v", ids)
	}

	b, err := json.Marshal(got[0].Sessions[0])
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":10,"ticket_url":"https://t/eA==","date":"2026-10-18T10:30:00Z","price_min":250,"price_max":400,"hall":null,"type":"3D"}`
	if string(b) != want {
		t.Errorf("json = %s\nwant   %s", b, want)
	}

	b, _ = json.Marshal(got[1].Sessions[0])
	if !strings.Contains(string(b), `"ticket_url":null`) {
		t.Errorf("missing null ticket_url: %s", b)
	}
}

func TestByMovie(t *testing.T) {
	rating := 7.5
	rows := []MovieRow{
		{Session: model.Session{ID: 1, MovieID: 5}, Title: "Starred", Rating: &rating, IsStarred: true},
		{Session: model.Session{ID: 2, MovieID: 3}, Title: "Plain"},
		{Session: model.Session{ID: 3, MovieID: 5}, Title: "Starred", Rating: &rating, IsStarred: true},
	}
	got := Links{}.ByMovie(rows)
	if len(got) != 2 {
		t.Fatalf("groups = %d", len(got))
	}
	if got[0].MovieID != 5 || !got[0].IsStarred || len(got[0].Sessions) != 2 {
		t.Errorf("first group = %+v", got[0])
	}
	if got[1].MovieID != 3 || got[1].IsStarred || got[1].Rating != nil {
		t.Errorf("second group = %+v", got[1])
	}
}
