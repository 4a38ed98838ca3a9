package implication_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stateworks/go-implied/pkg/implication"
	"github.com/stateworks/go-implied/pkg/model"
)

const sampleDoc = `{
  "name": "checkout-review",
  "description": "Order review before payment",
  "context": {"status": "pending", "total": 99.5, "items": [1, 2]},
  "screens": [
    {"id": "review", "title": "Review", "covered": true, "order": 1},
    {"id": "payment", "covered": false, "order": 2}
  ],
  "transitions": [
    {"event": "CONFIRM", "target": "payment-entry", "guard": "total > 0"}
  ],
  "testData": [
    {"field": "status", "value": "pending", "source": "fixture"}
  ]
}`

func TestDecodeEncodeRoundTrip(t *testing.T) {
	doc, err := implication.Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if doc.Name != "checkout-review" {
		t.Fatalf("name = %q", doc.Name)
	}
	if diff := cmp.Diff([]string{"status", "total", "items"}, doc.Context.Names()); diff != "" {
		t.Fatalf("context order mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Screens) != 2 || !doc.Screens[0].Covered {
		t.Fatalf("screens = %+v", doc.Screens)
	}

	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Context key order survives the round trip.
	text := string(out)
	if strings.Index(text, `"status"`) > strings.Index(text, `"total"`) {
		t.Fatalf("context order lost:\n%s", text)
	}

	again, err := implication.Decode(out)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if diff := cmp.Diff(doc.Context.Names(), again.Context.Names()); diff != "" {
		t.Fatalf("round-trip order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMissingContext(t *testing.T) {
	doc, err := implication.Decode([]byte(`{"name": "bare"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Context == nil || doc.Context.Len() != 0 {
		t.Fatalf("context = %v, want empty set", doc.Context)
	}
}

func TestDiffContext(t *testing.T) {
	base := model.NewContextSet(
		model.Field{Name: "status", Value: "pending"},
		model.Field{Name: "count", Value: 3.0},
		model.Field{Name: "gone", Value: true},
	)
	next := model.NewContextSet(
		model.Field{Name: "status", Value: "pending"},
		model.Field{Name: "count", Value: 4.0},
		model.Field{Name: "fresh", Value: nil},
	)

	diff := implication.DiffContext(base, next)

	wantUpdates := map[string]any{"count": 4.0, "fresh": nil}
	if d := cmp.Diff(wantUpdates, diff.Updates); d != "" {
		t.Fatalf("updates mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"gone"}, diff.Removed); d != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", d)
	}
}

func TestDiffContextEmpty(t *testing.T) {
	set := model.NewContextSet(model.Field{Name: "a", Value: []any{1.0}})
	diff := implication.DiffContext(set, set.Clone())
	if !diff.Empty() {
		t.Fatalf("identical sets produced diff %+v", diff)
	}
}

func TestCloneIsolation(t *testing.T) {
	doc := implication.New("s1")
	doc.Context.Set("a", 1.0)
	doc.Screens = []implication.Screen{{ID: "s", Covered: true}}

	clone := doc.Clone()
	clone.Context.Set("a", 2.0)
	clone.Screens[0].Covered = false

	if value, _ := doc.Context.Get("a"); value != 1.0 {
		t.Fatalf("clone shares context: %v", value)
	}
	if !doc.Screens[0].Covered {
		t.Fatal("clone shares screens")
	}
}
