package nmos

import (
	"encoding/json"
	"testing"
)

var senderFields = []string{"source_ip", "source_port", "destination_ip", "destination_port"}

func mustTemplate(t *testing.T, role Role) Document {
	t.Helper()
	doc, err := DefaultTemplate(role)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestBuildSenderPatch_AllFieldsPresentWhenUnset(t *testing.T) {
	for _, policy := range []OverwritePolicy{OverwriteAlways, OverwriteIfSet} {
		t.Run(string(policy), func(t *testing.T) {
			out, err := BuildSenderPatch(Document{}, "receiverA", ConnectionDetails{}, policy)
			if err != nil {
				t.Fatal(err)
			}
			if out["receiver_id"] != "receiverA" {
				t.Errorf("receiver_id = %v", out["receiver_id"])
			}
			p := transportParams(t, out)
			for _, f := range senderFields {
				v, ok := p[f]
				if !ok {
					t.Errorf("%s omitted", f)
				} else if v != nil {
					t.Errorf("%s = %v, want null", f, v)
				}
			}

			data, _ := json.Marshal(out)
			var back map[string]any
			json.Unmarshal(data, &back) //nolint:errcheck
			if _, ok := back["transport_params"].([]any)[0].(map[string]any)["source_port"]; !ok {
				t.Error("source_port missing from serialized document")
			}
		})
	}
}

func TestBuildSenderPatch_SourcePort(t *testing.T) {
	d := ConnectionDetails{
		SenderSourceIP:        String("192.168.1.10"),
		SenderSourcePort:      Int(5004),
		SenderDestinationIP:   String("239.100.1.1"),
		SenderDestinationPort: Int(5006),
	}
	out, err := BuildSenderPatch(mustTemplate(t, RoleSender), "rx", d, OverwriteAlways)
	if err != nil {
		t.Fatal(err)
	}
	p := transportParams(t, out)
	if p["source_port"] != 5004 {
		t.Errorf("source_port = %#v, want 5004", p["source_port"])
	}
	if p["source_ip"] != "192.168.1.10" || p["destination_ip"] != "239.100.1.1" || p["destination_port"] != 5006 {
		t.Errorf("transport_params[0] = %v", p)
	}
	if p["rtp_enabled"] != true {
		t.Error("unmanaged key rtp_enabled lost")
	}
	if out["master_enable"] != true {
		t.Error("unmanaged key master_enable lost")
	}
}

func TestBuildSenderPatch_OverwritePolicy(t *testing.T) {
	tmpl := Document{
		"transport_params": []any{map[string]any{
			"source_ip":      "10.0.0.1",
			"destination_ip": "239.0.0.1",
		}},
	}
	d := ConnectionDetails{SenderSourcePort: Int(5004)}

	always, err := BuildSenderPatch(tmpl, "rx", d, OverwriteAlways)
	if err != nil {
		t.Fatal(err)
	}
	if p := transportParams(t, always); p["source_ip"] != nil || p["destination_ip"] != nil {
		t.Errorf("always kept template values: %v", p)
	}

	ifSet, err := BuildSenderPatch(tmpl, "rx", d, OverwriteIfSet)
	if err != nil {
		t.Fatal(err)
	}
	p := transportParams(t, ifSet)
	if p["source_ip"] != "10.0.0.1" || p["destination_ip"] != "239.0.0.1" {
		t.Errorf("if-set lost template values: %v", p)
	}
	if p["source_port"] != 5004 {
		t.Errorf("source_port = %v", p["source_port"])
	}
	if v, ok := p["destination_port"]; !ok || v != nil {
		t.Errorf("destination_port = %v (present=%v), want null", v, ok)
	}
}

func TestBuildSenderPatch_DoesNotMutateInput(t *testing.T) {
	tmpl := mustTemplate(t, RoleSender)
	before, _ := json.Marshal(tmpl)

	if _, err := BuildSenderPatch(tmpl, "rx", ConnectionDetails{SenderSourcePort: Int(1)}, OverwriteAlways); err != nil {
		t.Fatal(err)
	}
	after, _ := json.Marshal(tmpl)
	if string(before) != string(after) {
		t.Errorf("input mutated:\n%s\n%s", before, after)
	}
}

func TestBuildSenderPatch_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		id   ResourceID
	}{
		{"empty id", Document{}, ""},
		{"params not array", Document{"transport_params": "x"}, "rx"},
		{"params entry not object", Document{"transport_params": []any{1.0}}, "rx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildSenderPatch(tt.doc, tt.id, ConnectionDetails{}, OverwriteAlways); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBuildSenderPatch_EmptyParamsArray(t *testing.T) {
	out, err := BuildSenderPatch(Document{"transport_params": []any{}}, "rx", ConnectionDetails{}, OverwriteAlways)
	if err != nil {
		t.Fatal(err)
	}
	if len(transportParams(t, out)) != 4 {
		t.Errorf("transport_params[0] = %v", transportParams(t, out))
	}
}

func TestBuildReceiverPatch_EmbedsSDPVerbatim(t *testing.T) {
	raw := SDP("v=0\r\no=- 1 1 IN IP4 10.0.0.1\r\ns= \r\nt=0 0\r\na=x:\"quoted\" <tag> &amp;\r\n")
	d := ConnectionDetails{ReceiverInterfaceIP: String("192.168.2.20")}

	out, err := BuildReceiverPatch(mustTemplate(t, RoleReceiver), "senderB", raw, d, OverwriteAlways)
	if err != nil {
		t.Fatal(err)
	}
	if out["sender_id"] != "senderB" {
		t.Errorf("sender_id = %v", out["sender_id"])
	}
	tf := out["transport_file"].(map[string]any)
	if tf["data"] != string(raw) {
		t.Errorf("data = %q, want %q", tf["data"], raw)
	}
	if tf["type"] != "application/sdp" {
		t.Errorf("type = %v", tf["type"])
	}
	if p := transportParams(t, out); p["interface_ip"] != "192.168.2.20" {
		t.Errorf("interface_ip = %v", p["interface_ip"])
	}

	// The bytes must also survive serialization unchanged.
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	var back struct {
		TransportFile struct {
			Data string `json:"data"`
		} `json:"transport_file"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.TransportFile.Data != string(raw) {
		t.Errorf("serialized data = %q", back.TransportFile.Data)
	}
}

func TestBuildReceiverPatch_CreatesMissingObjects(t *testing.T) {
	out, err := BuildReceiverPatch(Document{}, "tx", "v=0", ConnectionDetails{}, OverwriteIfSet)
	if err != nil {
		t.Fatal(err)
	}
	tf := out["transport_file"].(map[string]any)
	if tf["data"] != "v=0" || tf["type"] != "application/sdp" {
		t.Errorf("transport_file = %v", tf)
	}
	if v, ok := transportParams(t, out)["interface_ip"]; !ok || v != nil {
		t.Errorf("interface_ip = %v (present=%v)", v, ok)
	}
}

func TestBuildReceiverPatch_KeepsTransportFileType(t *testing.T) {
	doc := Document{"transport_file": map[string]any{"type": "application/sdp; charset=utf-8"}}
	out, err := BuildReceiverPatch(doc, "tx", "v=0", ConnectionDetails{}, OverwriteAlways)
	if err != nil {
		t.Fatal(err)
	}
	if got := out["transport_file"].(map[string]any)["type"]; got != "application/sdp; charset=utf-8" {
		t.Errorf("type = %v", got)
	}
}

func TestBuildReceiverPatch_Errors(t *testing.T) {
	if _, err := BuildReceiverPatch(Document{}, "", "v=0", ConnectionDetails{}, OverwriteAlways); err == nil {
		t.Error("expected error for empty sender id")
	}
	if _, err := BuildReceiverPatch(Document{"transport_file": "x"}, "tx", "v=0", ConnectionDetails{}, OverwriteAlways); err == nil {
		t.Error("expected error for non-object transport_file")
	}
}
