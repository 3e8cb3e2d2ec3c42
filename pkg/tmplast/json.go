package tmplast

import (
	"encoding/json"

	"github.com/walteh/tplcheck/pkg/position"
	"github.com/walteh/tplcheck/pkg/texpr"
	"gitlab.com/tozd/go/errors"
)

// jsonNode is the kind-discriminated interchange form of a template
// node. Expression payloads stay raw and are handed to the texpr decoder.
type jsonNode struct {
	Kind       string          `json:"kind"`
	Span       [2]int          `json:"span"`
	Name       string          `json:"name,omitempty"`
	Value      string          `json:"value,omitempty"`
	Selector   string          `json:"selector,omitempty"`
	Expr       json.RawMessage `json:"expr,omitempty"`
	Attributes []jsonAttr      `json:"attributes,omitempty"`
	Inputs     []jsonInput     `json:"inputs,omitempty"`
	Outputs    []jsonOutput    `json:"outputs,omitempty"`
	Variables  []jsonVar       `json:"variables,omitempty"`
	References []jsonVar       `json:"references,omitempty"`
	Children   []jsonNode      `json:"children,omitempty"`
}

type jsonAttr struct {
	Name      string  `json:"name"`
	Value     string  `json:"value"`
	Span      [2]int  `json:"span"`
	KeySpan   *[2]int `json:"keySpan,omitempty"`
	ValueSpan *[2]int `json:"valueSpan,omitempty"`
}

type jsonInput struct {
	Name    string          `json:"name"`
	Expr    json.RawMessage `json:"expr"`
	Type    string          `json:"type,omitempty"`
	Span    [2]int          `json:"span"`
	KeySpan *[2]int         `json:"keySpan,omitempty"`
}

type jsonOutput struct {
	Name        string          `json:"name"`
	Handler     json.RawMessage `json:"handler"`
	Type        string          `json:"type,omitempty"`
	Span        [2]int          `json:"span"`
	KeySpan     *[2]int         `json:"keySpan,omitempty"`
	HandlerSpan *[2]int         `json:"handlerSpan,omitempty"`
}

type jsonVar struct {
	Name    string  `json:"name"`
	Value   string  `json:"value,omitempty"`
	Span    [2]int  `json:"span"`
	KeySpan *[2]int `json:"keySpan,omitempty"`
}

// DecodeNodes parses an interchange-encoded list of template nodes, the
// payload a host sends for one template.
func DecodeNodes(data []byte) ([]Node, error) {
	var raw []jsonNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Errorf("decoding template nodes: %w", err)
	}
	return nodeList(raw)
}

func nodeList(raw []jsonNode) ([]Node, error) {
	out := make([]Node, 0, len(raw))
	for i := range raw {
		n, err := nodeFromJSON(&raw[i])
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func spanOf(raw [2]int) position.Span {
	return position.NewSpan(raw[0], raw[1])
}

func optSpan(raw *[2]int, fallback position.Span) position.Span {
	if raw == nil {
		return fallback
	}
	return spanOf(*raw)
}

func nodeFromJSON(j *jsonNode) (Node, error) {
	span := spanOf(j.Span)

	switch j.Kind {
	case "text":
		return &Text{Value: j.Value, Span: span}, nil

	case "boundText":
		value, err := texpr.Decode(j.Expr)
		if err != nil {
			return nil, errors.Errorf("bound text at %s: %w", span, err)
		}
		return &BoundText{Value: value, Span: span}, nil

	case "content":
		children, err := nodeList(j.Children)
		if err != nil {
			return nil, err
		}
		return &Content{Selector: j.Selector, Children: children, Span: span}, nil

	case "element":
		children, err := nodeList(j.Children)
		if err != nil {
			return nil, err
		}
		inputs, outputs, err := bindingsFromJSON(j)
		if err != nil {
			return nil, err
		}
		return &Element{
			Name:       j.Name,
			Attributes: attrsFromJSON(j.Attributes),
			Inputs:     inputs,
			Outputs:    outputs,
			References: refsFromJSON(j.References),
			Children:   children,
			Span:       span,
		}, nil

	case "template":
		children, err := nodeList(j.Children)
		if err != nil {
			return nil, err
		}
		inputs, outputs, err := bindingsFromJSON(j)
		if err != nil {
			return nil, err
		}
		variables := make([]*Variable, 0, len(j.Variables))
		for _, v := range j.Variables {
			vspan := spanOf(v.Span)
			variables = append(variables, &Variable{
				Name:    v.Name,
				Value:   v.Value,
				Span:    vspan,
				KeySpan: optSpan(v.KeySpan, vspan),
			})
		}
		return &Template{
			Tag:        j.Name,
			Attributes: attrsFromJSON(j.Attributes),
			Inputs:     inputs,
			Outputs:    outputs,
			Variables:  variables,
			References: refsFromJSON(j.References),
			Children:   children,
			Span:       span,
		}, nil

	default:
		return nil, errors.Errorf("unknown template node kind %q", j.Kind)
	}
}

func attrsFromJSON(raw []jsonAttr) []*TextAttribute {
	out := make([]*TextAttribute, 0, len(raw))
	for _, a := range raw {
		span := spanOf(a.Span)
		attr := &TextAttribute{
			Name:    a.Name,
			Value:   a.Value,
			Span:    span,
			KeySpan: optSpan(a.KeySpan, span),
		}
		if a.ValueSpan != nil {
			vs := spanOf(*a.ValueSpan)
			attr.ValueSpan = &vs
		}
		out = append(out, attr)
	}
	return out
}

func refsFromJSON(raw []jsonVar) []*Reference {
	out := make([]*Reference, 0, len(raw))
	for _, r := range raw {
		span := spanOf(r.Span)
		out = append(out, &Reference{
			Name:    r.Name,
			Value:   r.Value,
			Span:    span,
			KeySpan: optSpan(r.KeySpan, span),
		})
	}
	return out
}

func bindingsFromJSON(j *jsonNode) ([]*BoundAttribute, []*BoundEvent, error) {
	inputs := make([]*BoundAttribute, 0, len(j.Inputs))
	for _, in := range j.Inputs {
		value, err := texpr.Decode(in.Expr)
		if err != nil {
			return nil, nil, errors.Errorf("binding [%s]: %w", in.Name, err)
		}
		bindingType := BindingType(in.Type)
		if bindingType == "" {
			bindingType = BindingProperty
		}
		span := spanOf(in.Span)
		inputs = append(inputs, &BoundAttribute{
			Name:    in.Name,
			Value:   value,
			Type:    bindingType,
			Span:    span,
			KeySpan: optSpan(in.KeySpan, span),
		})
	}

	outputs := make([]*BoundEvent, 0, len(j.Outputs))
	for _, out := range j.Outputs {
		handler, err := texpr.Decode(out.Handler)
		if err != nil {
			return nil, nil, errors.Errorf("event (%s): %w", out.Name, err)
		}
		eventType := EventType(out.Type)
		if eventType == "" {
			eventType = EventRegular
		}
		span := spanOf(out.Span)
		outputs = append(outputs, &BoundEvent{
			Name:        out.Name,
			Handler:     handler,
			Type:        eventType,
			Span:        span,
			KeySpan:     optSpan(out.KeySpan, span),
			HandlerSpan: optSpan(out.HandlerSpan, span),
		})
	}

	return inputs, outputs, nil
}
