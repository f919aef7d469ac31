package nmos

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTemplate(t *testing.T) {
	for _, role := range []Role{RoleSender, RoleReceiver} {
		doc, err := DefaultTemplate(role)
		if err != nil {
			t.Fatalf("%s: %v", role, err)
		}
		if _, ok := doc["transport_params"]; !ok {
			t.Errorf("%s template has no transport_params", role)
		}
	}
	if _, err := DefaultTemplate("bogus"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestLoadDocument_MissingUsesTemplate(t *testing.T) {
	doc, err := LoadDocument(filepath.Join(t.TempDir(), "receiver.json"), RoleReceiver)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["transport_file"]; !ok {
		t.Errorf("receiver template not used: %v", doc)
	}
}

func TestLoadDocument_Invalid(t *testing.T) {
	for name, content := range map[string]string{
		"garbage": "{not json",
		"array":   "[1,2]",
		"null":    "null",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sender.json")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadDocument(path, RoleSender); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveAndLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sender.json")
	doc := Document{
		"receiver_id": "rx",
		"custom":      map[string]any{"keep": true},
	}
	if err := SaveDocument(path, doc); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Fatalf("written file is not JSON: %s", data)
	}

	back, err := LoadDocument(path, RoleSender)
	if err != nil {
		t.Fatal(err)
	}
	if back["receiver_id"] != "rx" || back["custom"].(map[string]any)["keep"] != true {
		t.Errorf("round trip = %v", back)
	}
}

func TestSaveSDP_Verbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetched_sender.sdp")
	raw := SDP("v=0\r\ns=x\r\n")
	if err := SaveSDP(path, raw); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(raw) {
		t.Errorf("got %q, want %q", got, raw)
	}
}

func TestDocumentClone(t *testing.T) {
	orig := Document{"list": []any{map[string]any{"a": 1.0}}}
	c := orig.Clone()
	c["list"].([]any)[0].(map[string]any)["a"] = 2.0
	if orig["list"].([]any)[0].(map[string]any)["a"] != 1.0 {
		t.Error("clone shares nested state with original")
	}
	if len(Document(nil).Clone()) != 0 {
		t.Error("nil clone should be empty")
	}
}
