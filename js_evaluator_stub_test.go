//go:build !js_eval

package inventory

import (
	"errors"
	"testing"
)

func TestJSEngineRequiresBuildTag(t *testing.T) {
	if _, err := NewEvaluator(EngineJS, nil, nil); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator without js_eval, got %v", err)
	}
}
