package types_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/temirov/filetree/internal/types"
)

func TestParseOptions(testingHandle *testing.T) {
	if mode, known := types.ParseIgnoredBy("gitignore"); !known || mode != types.IgnoredByGitignore {
		testingHandle.Fatalf("expected gitignore mode, got %v (%t)", mode, known)
	}
	if _, known := types.ParseIgnoredBy("everything"); known {
		testingHandle.Fatalf("expected unknown ignoredBy value to be rejected")
	}
	if order, known := types.ParseSortOrder("alphabetical"); !known || order != types.SortAlphabetical {
		testingHandle.Fatalf("expected alphabetical order, got %v (%t)", order, known)
	}
	if format, known := types.ParseOutputFormat("yaml"); !known || format != types.FormatYAML {
		testingHandle.Fatalf("expected yaml format, got %v (%t)", format, known)
	}
	if _, known := types.ParseOutputFormat("html"); known {
		testingHandle.Fatalf("expected unknown format to be rejected")
	}
}

func TestKindText(testingHandle *testing.T) {
	encoded, marshalError := json.Marshal(types.NewDirectoryNode("root", nil))
	if marshalError != nil {
		testingHandle.Fatalf("marshal failed: %v", marshalError)
	}
	if string(encoded) != `{"name":"root","type":"directory","children":[]}` {
		testingHandle.Fatalf("unexpected encoding %s", encoded)
	}

	var decoded types.Node
	if unmarshalError := json.Unmarshal([]byte(`{"name":"a","type":"symlink","target":"b"}`), &decoded); unmarshalError != nil {
		testingHandle.Fatalf("unmarshal failed: %v", unmarshalError)
	}
	if decoded.Kind != types.KindSymlink || decoded.Children != nil {
		testingHandle.Fatalf("unexpected node %+v", decoded)
	}

	if _, marshalError := json.Marshal(types.Node{Name: "x", Kind: types.Kind(7)}); marshalError == nil {
		testingHandle.Fatalf("expected unknown kind to fail marshalling")
	}
}

func TestValidateCollectsEveryViolation(testingHandle *testing.T) {
	config := types.BuildConfig{
		IgnoredBy:    types.IgnoredBy(9),
		SortOrder:    types.SortOrder(9),
		OutputFormat: types.OutputFormat(9),
		Indent:       -1,
		MaxDepth:     -2,
	}
	validationError := config.Validate()
	if !errors.Is(validationError, types.ErrInvalidConfiguration) {
		testingHandle.Fatalf("expected invalid configuration, got %v", validationError)
	}
	var typedError *types.Error
	if !errors.As(validationError, &typedError) {
		testingHandle.Fatalf("expected *types.Error, got %T", validationError)
	}
	if len(typedError.Details) != 5 {
		testingHandle.Fatalf("expected five violations, got %v", typedError.Details)
	}

	if validError := (types.BuildConfig{MaxDepth: types.UnboundedDepth, Indent: 1}).Validate(); validError != nil {
		testingHandle.Fatalf("expected valid configuration, got %v", validError)
	}
}

func TestErrorMatching(testingHandle *testing.T) {
	unexpected := types.NewUnexpectedError("/tmp/root", context.Canceled)
	if !errors.Is(unexpected, types.ErrUnexpected) || !errors.Is(unexpected, context.Canceled) {
		testingHandle.Fatalf("expected sentinel and cause to match: %v", unexpected)
	}
	if errors.Is(unexpected, types.ErrPathNotFound) {
		testingHandle.Fatalf("unexpected error must not match path not found")
	}
	notFound := types.NewPathNotFoundError("/missing")
	if !strings.Contains(notFound.Error(), `"/missing"`) {
		testingHandle.Fatalf("expected path in message, got %q", notFound.Error())
	}
}
