package utils_test

import (
	"testing"

	"github.com/temirov/filetree/internal/utils"
)

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0 Bytes"},
		{name: "zero", bytes: 0, expected: "0 Bytes"},
		{name: "bytes", bytes: 512, expected: "512 Bytes"},
		{name: "one kilobyte", bytes: 1024, expected: "1 KB"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5 KB"},
		{name: "two decimals", bytes: 1234567, expected: "1.18 MB"},
		{name: "rounds into next unit", bytes: 1048575, expected: "1 MB"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10 MB"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestNewApplicationLogger(t *testing.T) {
	logger, loggerError := utils.NewApplicationLogger("debug")
	if loggerError != nil {
		t.Fatalf("unexpected error: %v", loggerError)
	}
	if !logger.Core().Enabled(-1) {
		t.Fatalf("expected debug level to be enabled")
	}
	if _, invalidError := utils.NewApplicationLogger("loud"); invalidError == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}

func TestGetApplicationVersionPrefersLinkedVersion(t *testing.T) {
	previousVersion := utils.Version
	t.Cleanup(func() { utils.Version = previousVersion })

	utils.Version = "v9.9.9"
	if version := utils.GetApplicationVersion(); version != "v9.9.9" {
		t.Fatalf("expected linked version, got %s", version)
	}
}
