package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestEvaluateEmptySource(t *testing.T) {
	eng := NewEngine()

	for _, src := range []string{"", "   \n\t  \n  "} {
		s, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("%q: unexpected fatal error: %v", src, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("%q: unexpected eval errors: %v", src, evalErrs)
		}
		if s == nil {
			t.Fatalf("%q: expected non-nil scene", src)
		}
		if s.NodeCount() != 0 {
			t.Errorf("%q: expected empty scene, got %d nodes", src, s.NodeCount())
		}
	}
}

func TestEvaluatePlainLisp(t *testing.T) {
	eng := NewEngine()

	source := `
(def x 10)
(def y 20)
(+ x y)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil || s.NodeCount() != 0 {
		t.Fatalf("expected an empty scene, got %v", s)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	// Unmatched paren on line 2.
	s, evalErrs, err := eng.Evaluate("(+ 1 2)\n(+ 3")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvalErrorString(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	if got := e.Error(); got != "line 5: something went wrong" {
		t.Errorf("Error() = %q", got)
	}
	e = EvalError{Message: "no location"}
	if got := e.Error(); got != "no location" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNewEngineWithTimeoutFallback(t *testing.T) {
	if got := NewEngineWithTimeout(0).timeout; got != EvalTimeout {
		t.Errorf("timeout = %s, want %s", got, EvalTimeout)
	}
	if got := NewEngineWithTimeout(time.Second).timeout; got != time.Second {
		t.Errorf("timeout = %s, want 1s", got)
	}
}

func TestWaitExpires(t *testing.T) {
	e := NewEngineWithTimeout(20 * time.Millisecond)
	gen := e.begin()
	ch := make(chan evalResult) // never sends

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	start := time.Now()
	_, _, err := e.wait(ctx, ch, gen)
	if errors.Cause(err) != ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if !strings.Contains(err.Error(), "20ms") {
		t.Errorf("error %q should name the limit", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("wait took far longer than its limit")
	}
}

func TestWaitCancelled(t *testing.T) {
	e := NewEngine()
	gen := e.begin()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.wait(ctx, make(chan evalResult), gen)
	if errors.Cause(err) != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWaitDiscardsStale(t *testing.T) {
	e := NewEngine()
	stale := e.begin()
	e.begin()

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	if _, _, err := e.wait(context.Background(), ch, stale); err != ErrSuperseded {
		t.Fatalf("err = %v, want ErrSuperseded", err)
	}
}

func TestWaitDelivers(t *testing.T) {
	e := NewEngine()
	gen := e.begin()

	ch := make(chan evalResult, 1)
	ch <- evalResult{errors: []EvalError{{Message: "boom"}}}

	_, evalErrs, err := e.wait(context.Background(), ch, gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(evalErrs) != 1 || evalErrs[0].Message != "boom" {
		t.Errorf("evalErrs = %v", evalErrs)
	}
}

func TestEvaluateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The sandbox may finish before the select observes cancellation, so
	// either outcome is fine as long as no scene is half built.
	s, _, err := NewEngine().EvaluateContext(ctx, "(+ 1 2)")
	if err != nil && errors.Cause(err) != context.Canceled {
		t.Fatalf("err = %v, want nil or context.Canceled", err)
	}
	if err != nil && s != nil {
		t.Error("scene returned alongside an error")
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short form", "line 3: bad thing", 3, "bad thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}
