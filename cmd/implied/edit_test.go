package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateworks/go-implied/pkg/client"
	"github.com/stateworks/go-implied/pkg/model"
	"github.com/stateworks/go-implied/pkg/suggest"
)

// scriptDriver replays queued answers in order.
type scriptDriver struct {
	t        *testing.T
	inputs   []string
	selects  []string
	confirms []bool
	infos    []string
}

func (d *scriptDriver) Input(message, help, defaultValue string, validator func(string) error) (string, error) {
	require.NotEmpty(d.t, d.inputs, "unexpected input prompt: %s", message)
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	if validator != nil {
		require.NoError(d.t, validator(next))
	}
	return next, nil
}

func (d *scriptDriver) Confirm(message string, defaultValue bool) (bool, error) {
	require.NotEmpty(d.t, d.confirms, "unexpected confirm prompt: %s", message)
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

func (d *scriptDriver) Select(message string, options []string) (int, error) {
	require.NotEmpty(d.t, d.selects, "unexpected select prompt: %s", message)
	want := d.selects[0]
	d.selects = d.selects[1:]
	for i, option := range options {
		if option == want {
			return i, nil
		}
	}
	d.t.Fatalf("option %q not offered among %v", want, options)
	return -1, nil
}

func (d *scriptDriver) Info(msg string) {
	d.infos = append(d.infos, msg)
}

// fakeAPI serves one context set and records the flushed change set.
type fakeAPI struct {
	set       *model.ContextSet
	suggested []client.SuggestedField
	updates   map[string]any
	removed   []string
	flushes   int
}

func (f *fakeAPI) Context(ctx context.Context, file string) (*model.ContextSet, error) {
	return f.set, nil
}

func (f *fakeAPI) SuggestedFields(ctx context.Context, file, spec string) ([]client.SuggestedField, error) {
	return f.suggested, nil
}

func (f *fakeAPI) UpdateContext(ctx context.Context, file string, updates map[string]any, removed []string) error {
	f.updates = updates
	f.removed = removed
	f.flushes++
	return nil
}

func seededAPI() *fakeAPI {
	set := model.NewContextSet()
	set.Set("status", "pending")
	set.Set("total", 99.5)
	return &fakeAPI{set: set}
}

func TestEditLoopEditAndSave(t *testing.T) {
	api := seededAPI()
	driver := &scriptDriver{
		t:       t,
		selects: []string{"total (number)", actionSave, actionQuit},
		inputs:  []string{"120"},
	}

	require.NoError(t, editLoop(context.Background(), driver, api, "checkout", ""))
	require.Equal(t, 1, api.flushes)
	assert.Equal(t, map[string]any{"total": 120.0}, api.updates)
	assert.Empty(t, api.removed)
}

func TestEditLoopCoercionRetry(t *testing.T) {
	api := seededAPI()
	driver := &scriptDriver{
		t:       t,
		selects: []string{"total (number)", actionSave, actionQuit},
		inputs:  []string{"abc", "7"},
	}

	require.NoError(t, editLoop(context.Background(), driver, api, "checkout", ""))
	require.Equal(t, 1, api.flushes)
	assert.Equal(t, map[string]any{"total": 7.0}, api.updates)
	require.NotEmpty(t, driver.infos)
	assert.Contains(t, driver.infos[0], "number")
}

func TestEditLoopAddAndDelete(t *testing.T) {
	api := seededAPI()
	driver := &scriptDriver{
		t:        t,
		selects:  []string{actionAddField, "boolean", actionDelete, "status", actionSave, actionQuit},
		inputs:   []string{"archived"},
		confirms: []bool{true},
	}

	require.NoError(t, editLoop(context.Background(), driver, api, "checkout", ""))
	require.Equal(t, 1, api.flushes)
	assert.Equal(t, map[string]any{"archived": false}, api.updates)
	assert.Equal(t, []string{"status"}, api.removed)
}

func TestEditLoopQuitConfirmsDirty(t *testing.T) {
	api := seededAPI()
	driver := &scriptDriver{
		t:        t,
		selects:  []string{"status (string)", actionQuit, actionQuit},
		inputs:   []string{"done"},
		confirms: []bool{false, true},
	}

	require.NoError(t, editLoop(context.Background(), driver, api, "checkout", ""))
	assert.Zero(t, api.flushes, "quitting must not flush")
}

func TestEditLoopApplySuggested(t *testing.T) {
	api := seededAPI()
	api.suggested = []client.SuggestedField{
		{SuggestedField: suggest.SuggestedField{Name: "couponCode", Source: suggest.SourceUISpec}},
		{SuggestedField: suggest.SuggestedField{Name: "customerName", Source: suggest.SourceUISpec}},
	}
	driver := &scriptDriver{
		t:        t,
		selects:  []string{actionSuggested, actionSave, actionQuit},
		confirms: []bool{true},
	}

	require.NoError(t, editLoop(context.Background(), driver, api, "checkout", "checkout.yaml"))
	require.Equal(t, 1, api.flushes)
	assert.Equal(t, map[string]any{"couponCode": nil, "customerName": nil}, api.updates)
}

func TestEditLoopSaveWithNothingDirty(t *testing.T) {
	api := seededAPI()
	driver := &scriptDriver{
		t:       t,
		selects: []string{actionSave, actionQuit},
	}

	require.NoError(t, editLoop(context.Background(), driver, api, "checkout", ""))
	assert.Zero(t, api.flushes)
	assert.Contains(t, driver.infos, "nothing to save")
}
