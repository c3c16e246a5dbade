package commands

import "testing"

func TestVisitedPathsBranchesIndependently(testingHandle *testing.T) {
	var empty *VisitedPaths
	if empty.Contains("/root") || empty.Head() != "" {
		testingHandle.Fatalf("empty chain must contain nothing")
	}
	root := empty.With("/root")
	left := root.With("/root/left")
	right := root.With("/root/right")

	if !left.Contains("/root") || !left.Contains("/root/left") {
		testingHandle.Fatalf("left branch lost its ancestry")
	}
	if left.Contains("/root/right") || right.Contains("/root/left") {
		testingHandle.Fatalf("sibling branches must not observe each other")
	}
	if root.Contains("/root/left") {
		testingHandle.Fatalf("extending a chain must not modify it")
	}
	if right.Head() != "/root/right" {
		testingHandle.Fatalf("unexpected head %q", right.Head())
	}
}
