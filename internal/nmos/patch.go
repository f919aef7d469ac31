package nmos

import (
	"errors"
	"fmt"
)

// BuildSenderPatch returns a copy of doc staged to send to receiverID.
// transport_params[0] always carries source_ip, source_port,
// destination_ip and destination_port; unsupplied details follow policy.
func BuildSenderPatch(doc Document, receiverID ResourceID, d ConnectionDetails, policy OverwritePolicy) (Document, error) {
	if receiverID == "" {
		return nil, errors.New("sender patch: empty receiver id")
	}
	out := doc.Clone()
	out["receiver_id"] = string(receiverID)

	params, err := firstTransportParams(out)
	if err != nil {
		return nil, fmt.Errorf("sender patch: %w", err)
	}
	setParam(params, "source_ip", stringValue(d.SenderSourceIP), policy)
	setParam(params, "source_port", intValue(d.SenderSourcePort), policy)
	setParam(params, "destination_ip", stringValue(d.SenderDestinationIP), policy)
	setParam(params, "destination_port", intValue(d.SenderDestinationPort), policy)
	return out, nil
}

// BuildReceiverPatch returns a copy of doc staged to receive from
// senderID.  The SDP is embedded in transport_file.data unchanged.
func BuildReceiverPatch(doc Document, senderID ResourceID, sdp SDP, d ConnectionDetails, policy OverwritePolicy) (Document, error) {
	if senderID == "" {
		return nil, errors.New("receiver patch: empty sender id")
	}
	out := doc.Clone()
	out["sender_id"] = string(senderID)

	tf, err := objectField(out, "transport_file")
	if err != nil {
		return nil, fmt.Errorf("receiver patch: %w", err)
	}
	tf["data"] = string(sdp)
	if _, ok := tf["type"]; !ok {
		tf["type"] = "application/sdp"
	}

	params, err := firstTransportParams(out)
	if err != nil {
		return nil, fmt.Errorf("receiver patch: %w", err)
	}
	setParam(params, "interface_ip", stringValue(d.ReceiverInterfaceIP), policy)
	return out, nil
}

// firstTransportParams returns transport_params[0], creating the array
// or its first entry when absent.
func firstTransportParams(doc Document) (map[string]any, error) {
	raw, ok := doc["transport_params"]
	if !ok || raw == nil {
		p := map[string]any{}
		doc["transport_params"] = []any{p}
		return p, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("transport_params is %T, want array", raw)
	}
	if len(list) == 0 {
		p := map[string]any{}
		doc["transport_params"] = []any{p}
		return p, nil
	}
	p, ok := list[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("transport_params[0] is %T, want object", list[0])
	}
	return p, nil
}

func objectField(doc Document, key string) (map[string]any, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		m := map[string]any{}
		doc[key] = m
		return m, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s is %T, want object", key, raw)
	}
	return m, nil
}

// setParam writes v when supplied.  Otherwise the key becomes null,
// unless policy is if-set and the key already holds a value.
func setParam(params map[string]any, key string, v any, policy OverwritePolicy) {
	if v != nil {
		params[key] = v
		return
	}
	if _, exists := params[key]; exists && policy == OverwriteIfSet {
		return
	}
	params[key] = nil
}

func stringValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func intValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
