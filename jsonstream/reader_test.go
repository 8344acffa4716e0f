package jsonstream

import (
	"strings"
	"testing"
)

func TestPeekDoesNotConsume(t *testing.T) {
	r := New(strings.NewReader(`{"a":1}`))
	k1, err := r.Peek()
	if err != nil {
		t.Fatal(err)
	}
	k2, err := r.Peek()
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 || k1 != KindObjectBegin {
		t.Fatalf("peek not idempotent: %v %v", k1, k2)
	}
	if err := r.NextObjectBegin(); err != nil {
		t.Fatal(err)
	}
}

func TestNextScopeObject(t *testing.T) {
	r := New(strings.NewReader(`{"foo":1,"bar":2}`))
	var names []string
	err := r.NextScope(func(name string) error {
		names = append(names, name)
		if _, err := r.NextInteger(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "foo" || names[1] != "bar" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestSkipCurrentScope(t *testing.T) {
	r := New(strings.NewReader(`{"type":"structure","members":{"a":{"target":"x"}},"x":1}`))
	if err := r.NextObjectBegin(); err != nil {
		t.Fatal(err)
	}
	if err := r.NextStringEql("type"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.NextString(); err != nil {
		t.Fatal(err)
	}
	if err := r.NextStringEql("members"); err != nil {
		t.Fatal(err)
	}
	if err := r.NextObjectBegin(); err != nil {
		t.Fatal(err)
	}
	if err := r.SkipCurrentScope(); err != nil {
		t.Fatal(err)
	}
	if err := r.NextStringEql("x"); err != nil {
		t.Fatal(err)
	}
}

func TestUnexpectedToken(t *testing.T) {
	r := New(strings.NewReader(`"hello"`))
	if err := r.NextObjectBegin(); err == nil {
		t.Fatal("expected error")
	}
}

func TestNextStringEqlMismatch(t *testing.T) {
	r := New(strings.NewReader(`"foo"`))
	err := r.NextStringEql("bar")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*UnexpectedValue); !ok {
		t.Fatalf("wrong error type: %T", err)
	}
}
