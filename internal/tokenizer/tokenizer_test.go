package tokenizer

import (
	"errors"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("boom") }

func TestCountRendered(t *testing.T) {
	testCases := []struct {
		name        string
		counter     Counter
		rendered    string
		expected    int
		expectError bool
	}{
		{name: "tree text", counter: testCounter{}, rendered: "root/\n└─ a.txt", expected: len([]rune("root/\n└─ a.txt"))},
		{name: "empty", counter: testCounter{}, rendered: "", expected: 0},
		{name: "nil counter", counter: nil, rendered: "x", expectError: true},
		{name: "invalid utf8", counter: testCounter{}, rendered: string([]byte{0xff, 0xfe}), expectError: true},
		{name: "counter failure", counter: failingCounter{}, rendered: "x", expectError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			tokens, err := CountRendered(testCase.counter, testCase.rendered)
			if testCase.expectError {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CountRendered error: %v", err)
			}
			if tokens != testCase.expected {
				t.Fatalf("expected %d tokens, got %d", testCase.expected, tokens)
			}
		})
	}
}

func TestEncodingCounterRequiresEncoding(t *testing.T) {
	counter, err := newEncodingCounter(nil, "cl100k_base")
	if !errors.Is(err, errNilEncoding) {
		t.Fatalf("expected errNilEncoding, got %v", err)
	}
	if counter != nil {
		t.Fatalf("expected no counter, got %v", counter)
	}
}

func TestEncodingCounterEmptyInput(t *testing.T) {
	tokens, err := (encodingCounter{encodingName: "cl100k_base"}).CountString("")
	if err != nil || tokens != 0 {
		t.Fatalf("expected zero tokens without error, got %d (%v)", tokens, err)
	}
}
