package nmos

import (
	"io"
	"testing"

	"nmosconn/util"
)

func quietLogger(t *testing.T) *util.Logger {
	t.Helper()
	l := util.NewLogger(0)
	l.SetOutput(io.Discard)
	return l
}

func transportParams(t *testing.T, doc Document) map[string]any {
	t.Helper()
	list, ok := doc["transport_params"].([]any)
	if !ok || len(list) == 0 {
		t.Fatalf("transport_params = %#v", doc["transport_params"])
	}
	p, ok := list[0].(map[string]any)
	if !ok {
		t.Fatalf("transport_params[0] = %#v", list[0])
	}
	return p
}
