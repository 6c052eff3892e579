package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledseq/stream"
	"github.com/matt-g-everett/ledseq/stream/chain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	calls    []string
	name     string
	steps    []chain.Step
	infinite bool
	err      error
}

func (c *fakeController) Statuses() []stream.ElementStatus {
	return []stream.ElementStatus{{Name: "star", Sequences: 2, Infinite: true}}
}

func (c *fakeController) Pause()  { c.calls = append(c.calls, "pause") }
func (c *fakeController) Resume() { c.calls = append(c.calls, "resume") }
func (c *fakeController) Abort()  { c.calls = append(c.calls, "abort") }

func (c *fakeController) Animate(name string, steps []chain.Step, infinite bool) (string, error) {
	c.calls = append(c.calls, "animate")
	c.name, c.steps, c.infinite = name, steps, infinite
	if c.err != nil {
		return "", c.err
	}
	return "seq-1", nil
}

func newTestApi(c Controller, static string) http.Handler {
	return NewApi(":0", static, c, zerolog.Nop()).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestElements(t *testing.T) {
	h := newTestApi(&fakeController{}, "")

	rec := do(t, h, http.MethodGet, "/elements", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []stream.ElementStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "star", got[0].Name)
	assert.Equal(t, 2, got[0].Sequences)
}

func TestControls(t *testing.T) {
	c := &fakeController{}
	h := newTestApi(c, "")

	for _, path := range []string{"/pause", "/resume", "/abort"} {
		rec := do(t, h, http.MethodPost, path, "")
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
	}
	assert.Equal(t, []string{"pause", "resume", "abort"}, c.calls)

	rec := do(t, h, http.MethodGet, "/pause", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnimate(t *testing.T) {
	c := &fakeController{}
	h := newTestApi(c, "")

	body := `{"steps":[{"translate":[10],"duration":500,"ease":"quad-in"},{"opacity":0.5}],"infinite":true}`
	rec := do(t, h, http.MethodPost, "/elements/star/animate", body)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp AnimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "seq-1", resp.Sequence)

	assert.Equal(t, "star", c.name)
	assert.True(t, c.infinite)
	require.Len(t, c.steps, 2)
	require.NotNil(t, c.steps[0].Translate)
	assert.Equal(t, chain.Vec3{10, 0, 0}, *c.steps[0].Translate)
	assert.Equal(t, int64(500), c.steps[0].Duration)
	assert.Equal(t, "quad-in", c.steps[0].Ease)
	require.NotNil(t, c.steps[1].Opacity)
	assert.Equal(t, 0.5, *c.steps[1].Opacity)
}

func TestAnimateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad json", `{"steps":`, nil, http.StatusBadRequest},
		{"unknown field", `{"stepz":[]}`, nil, http.StatusBadRequest},
		{"no element", `{"steps":[{"duration":1}]}`, fmt.Errorf("animate: %w", stream.ErrElementNotFound), http.StatusNotFound},
		{"no steps", `{"steps":[]}`, chain.ErrNoSteps, http.StatusBadRequest},
		{"other", `{"steps":[{"duration":1}]}`, errors.New("nope"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestApi(&fakeController{err: tt.err}, "")
			rec := do(t, h, http.MethodPost, "/elements/star/animate", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestStaticClient(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>tree</h1>"), 0644))

	h := newTestApi(&fakeController{}, dir)
	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tree")

	h = newTestApi(&fakeController{}, filepath.Join(dir, "missing"))
	rec = do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAgainstRealController(t *testing.T) {
	scene := stream.NewScene(20, colorful.Color{})
	require.NoError(t, scene.Add(stream.NewElement("bar", 2, 4, colorful.Color{})))
	ctrl := stream.NewController(scene, 30, zerolog.Nop())
	h := newTestApi(ctrl, "")

	rec := do(t, h, http.MethodPost, "/elements/bar/animate", `{"steps":[{"translate":[3],"duration":100}]}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	ctrl.CalculateFrame(0)
	ctrl.CalculateFrame(100)

	rec = do(t, h, http.MethodGet, "/elements", "")
	var got []stream.ElementStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.InDelta(t, 3, got[0].Transform.Translate[0], 1e-9)
	assert.Contains(t, got[0].CSS, "translate3d(3px, 0px, 0px)")

	rec = do(t, h, http.MethodPost, "/elements/nope/animate", `{"steps":[{"duration":1}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
