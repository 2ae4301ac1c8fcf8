package queue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatLine(t *testing.T) {
	cases := []struct {
		queue, body, want string
	}{
		{
			PreferencesChangedQueue,
			`{"user_id":3,"kind":"star","target_id":100,"on":true,"changed_at":"2026-10-18T10:00:00Z"}`,
			"[2026-10-18T10:00:00Z] Preference added | user_id=3 | kind=star | target_id=100\n",
		},
		{
			PreferencesChangedQueue,
			`{"user_id":3,"kind":"favorite","target_id":11,"on":false,"changed_at":"2026-10-18T10:00:00Z"}`,
			"[2026-10-18T10:00:00Z] Preference removed | user_id=3 | kind=favorite | target_id=11\n",
		},
		{
			UsersRegisteredQueue,
			`{"user_id":9,"email":"a@b.co","city_id":null,"registered_at":"2026-10-18T09:00:00Z"}`,
			"[2026-10-18T09:00:00Z] User registered | user_id=9 | email=\"a@b.co\" | city_id=-\n",
		},
		{
			UsersRegisteredQueue,
			`{"user_id":9,"email":"a@b.co","city_id":2,"registered_at":"2026-10-18T09:00:00Z"}`,
			"[2026-10-18T09:00:00Z] User registered | user_id=9 | email=\"a@b.co\" | city_id=2\n",
		},
	}
	for _, tc := range cases {
		got, err := FormatLine(tc.queue, []byte(tc.body))
		if err != nil {
			t.Errorf("%s: %v", tc.queue, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s:\n got %q\nwant %q", tc.queue, got, tc.want)
		}
	}

	if _, err := FormatLine("other", []byte(`{}`)); err == nil {
		t.Error("unknown queue accepted")
	}
	if _, err := FormatLine(UsersRegisteredQueue, []byte(`{`)); err == nil {
		t.Error("malformed body accepted")
	}
}

func TestHandleAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.log")
	c := &Consumer{LogPath: path}
	body := []byte(`{"user_id":1,"kind":"star","target_id":5,"on":true,"changed_at":"t"}`)
	for _i := 0; _i < 2; _i++ {
		if err := c.handle(PreferencesChangedQueue, body); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Errorf("got %d lines:\n%s", n, data)
	}
}
