package database

import (
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
)

func TestDSN(t *testing.T) {
	dsn := DSN("app", "s3cret", "db", "3306", "showtimes")
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q): %v", dsn, err)
	}
	if cfg.User != "app" || cfg.Passwd != "s3cret" || cfg.Addr != "db:3306" || cfg.DBName != "showtimes" {
		t.Errorf("parsed %+v from %q", cfg, dsn)
	}
	if !cfg.ParseTime || cfg.Loc != time.UTC {
		t.Errorf("parseTime=%v loc=%v", cfg.ParseTime, cfg.Loc)
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Errorf("dsn %q lacks charset", dsn)
	}
}

func TestDSNWithoutPassword(t *testing.T) {
	dsn := DSN("root", "", "localhost", "3306", "showtimes")
	if !strings.HasPrefix(dsn, "root@tcp(localhost:3306)/showtimes?") {
		t.Errorf("dsn = %q", dsn)
	}
}
