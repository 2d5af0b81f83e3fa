package server

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bastiangx/wordrank/pkg/config"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
)

func testCompleter(t *testing.T) suggest.Autocompletor {
	t.Helper()
	ac, err := suggest.NewTrie(
		[]string{"ape", "app", "apple", "bat", "ban", "bee"},
		[]float64{6, 4, 3, 9, 7, 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	return ac
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{MaxLimit: 2, MinPrefix: 0, MaxPrefix: 4, DefaultLimit: 1}
}

// encode concatenates msgpack messages into one input stream.
func encode(t *testing.T, msgs ...any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			t.Fatal(err)
		}
	}
	return &buf
}

func serve(t *testing.T, ac suggest.Autocompletor, msgs ...any) *msgpack.Decoder {
	t.Helper()
	var out bytes.Buffer
	s := NewServer(ac, testConfig(), encode(t, msgs...), &out)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	if err := dec.Decode(&ready); err != nil || ready.Status != "ready" {
		t.Fatalf("first message = %+v, %v; want ready", ready, err)
	}
	return dec
}

func next[T any](t *testing.T, dec *msgpack.Decoder) T {
	t.Helper()
	var v T
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestComplete(t *testing.T) {
	dec := serve(t, testCompleter(t),
		Request{ID: "1", Action: ActionComplete, Prefix: "ap", Limit: 5},
		Request{ID: "2", Prefix: "b"},
		Request{ID: "3", Prefix: "zz", Limit: 2},
	)

	got := next[CompletionResponse](t, dec)
	got.TimeTaken = 0
	want := CompletionResponse{
		ID: "1",
		Suggestions: []CompletionSuggestion{
			{Word: "ape", Rank: 1, Weight: 6},
			{Word: "app", Rank: 2, Weight: 4},
		},
		Count: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("limit above max (-want, +got):\n%s", diff)
	}

	got = next[CompletionResponse](t, dec)
	got.TimeTaken = 0
	want = CompletionResponse{
		ID:          "2",
		Suggestions: []CompletionSuggestion{{Word: "bat", Rank: 1, Weight: 9}},
		Count:       1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("default limit (-want, +got):\n%s", diff)
	}

	got = next[CompletionResponse](t, dec)
	if got.ID != "3" || got.Count != 0 || len(got.Suggestions) != 0 {
		t.Errorf("no match = %+v; want empty", got)
	}
}

func TestTopAndWeight(t *testing.T) {
	dec := serve(t, testCompleter(t),
		Request{ID: "t1", Action: ActionTop, Prefix: "ba"},
		Request{ID: "t2", Action: ActionTop, Prefix: "c"},
		Request{ID: "w1", Action: ActionWeight, Word: "apple"},
		Request{ID: "w2", Action: ActionWeight, Word: "appl"},
		Request{ID: "h", Action: ActionHealth},
	)

	tests := []TermResponse{
		{ID: "t1", Word: "bat", Weight: 9},
		{ID: "t2"},
		{ID: "w1", Word: "apple", Weight: 3},
		{ID: "w2", Word: "appl"},
	}
	for _, want := range tests {
		got := next[TermResponse](t, dec)
		got.TimeTaken = 0
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s (-want, +got):\n%s", want.ID, diff)
		}
	}

	if got := next[StatusResponse](t, dec); got != (StatusResponse{ID: "h", Status: "ok"}) {
		t.Errorf("health = %+v", got)
	}
}

func TestBadRequests(t *testing.T) {
	dec := serve(t, testCompleter(t),
		"not a map",
		Request{ID: "long", Prefix: "apple"},
		Request{ID: "top-long", Action: ActionTop, Prefix: "ápplé"},
		Request{ID: "what", Action: "delete"},
		Request{ID: "ok", Prefix: "bee"},
	)

	for _, id := range []string{"", "long", "top-long", "what"} {
		got := next[CompletionError](t, dec)
		if got.ID != id || got.Code != CodeBadRequest || got.Error == "" {
			t.Errorf("error response = %+v; want id %q code 400", got, id)
		}
	}

	// The stream stays usable after errors.
	if got := next[CompletionResponse](t, dec); got.ID != "ok" || got.Count != 1 {
		t.Errorf("after errors = %+v; want one suggestion", got)
	}
}

func TestMinPrefix(t *testing.T) {
	var out bytes.Buffer
	cfg := testConfig()
	cfg.MinPrefix = 1
	s := NewServer(testCompleter(t), cfg, encode(t, Request{ID: "e", Prefix: ""}), &out)
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	dec := msgpack.NewDecoder(&out)
	next[StatusResponse](t, dec)
	if got := next[CompletionError](t, dec); got.Code != CodeBadRequest {
		t.Errorf("empty prefix = %+v; want 400", got)
	}
}

type failing struct{ suggest.Autocompletor }

func (failing) TopMatches(string, int) ([]string, error) {
	return nil, errors.New("index unavailable")
}

func TestInternalError(t *testing.T) {
	dec := serve(t, failing{testCompleter(t)}, Request{ID: "x", Prefix: "a"})
	got := next[CompletionError](t, dec)
	if diff := cmp.Diff(CompletionError{ID: "x", Error: "index unavailable", Code: CodeInternal}, got); diff != "" {
		t.Errorf("(-want, +got):\n%s", diff)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := NewServer(testCompleter(t), testConfig(), encode(t, Request{ID: "1", Prefix: "a"}), &out)
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dec := msgpack.NewDecoder(&out)
	next[StatusResponse](t, dec)
	var extra CompletionResponse
	if err := dec.Decode(&extra); err == nil {
		t.Errorf("served %+v after cancellation", extra)
	}
}
