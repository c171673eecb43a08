package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanStrings cleans every item of `ss` and drops the empty ones.
func CleanStrings(ss []string) []string {
	cleaned := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = CleanString(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the package being tested, so we walk up from there.
// Falls back to the current working directory for deployed binaries.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}

// Date layouts shared by the domain packages.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var NowFunc = time.Now // mockable

// Today returns the current UTC date formatted as DateLayout.
func Today() string {
	return NowFunc().UTC().Format(DateLayout)
}
