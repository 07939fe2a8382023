package db

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ResolveDSN works out the Postgres connection string from environment
// state. A full discrete set of credential variables wins over the
// opaque DATABASE_URL. SSL defaults on unless the host is loopback;
// PGSSL=require|disable (or DATABASE_SSL=true|false) forces it either
// way. Pure function of getenv — no side effects, deterministic.
func ResolveDSN(getenv func(string) string) (string, error) {
	host := getenv("PGHOST")
	user := getenv("PGUSER")
	password := getenv("PGPASSWORD")
	database := getenv("PGDATABASE")

	if host != "" && user != "" && password != "" && database != "" {
		port := getenv("PGPORT")
		if port == "" {
			port = "5432"
		}

		return fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			url.QueryEscape(user),
			url.QueryEscape(password),
			host,
			port,
			database,
			resolveSSLMode(getenv, host),
		), nil
	}

	dsn := getenv("DATABASE_URL")
	if dsn == "" {
		return "", errors.New("postgres connection target not set: define DATABASE_URL or the PGHOST/PGUSER/PGPASSWORD/PGDATABASE set")
	}

	if strings.Contains(dsn, "sslmode=") {
		return dsn, nil
	}

	mode := resolveSSLMode(getenv, hostOf(dsn))

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + "sslmode=" + mode, nil
}

func resolveSSLMode(getenv func(string) string, host string) string {
	switch strings.ToLower(getenv("PGSSL")) {
	case "require":
		return "require"
	case "disable":
		return "disable"
	}

	switch strings.ToLower(getenv("DATABASE_SSL")) {
	case "true", "1":
		return "require"
	case "false", "0":
		return "disable"
	}

	if isLoopback(host) {
		return "disable"
	}
	return "require"
}

func isLoopback(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1", "":
		return true
	}
	return false
}

func hostOf(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
