package render

import (
	"bytes"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/errors"
)

func encodeYAML(buf *bytes.Buffer, c *beam.Container) error {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, tag := range c.Tags() {
		v, _ := c.Lookup(tag)
		value, err := yamlValue(v)
		if err != nil {
			return err
		}
		doc.Content = append(doc.Content, yamlString(tag), value)
	}
	if len(doc.Content) == 0 {
		doc.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(buf)
	enc.SetIndent(len(Indent))
	if err := enc.Encode(doc); err != nil {
		return yamlError(err)
	}
	if err := enc.Close(); err != nil {
		return yamlError(err)
	}
	return nil
}

func yamlValue(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, s := range v {
			seq.Content = append(seq.Content, yamlString(s))
		}
		if len(seq.Content) == 0 {
			seq.Style = yaml.FlowStyle
		}
		return seq, nil
	case *beam.ExportTable:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range v.Keys() {
			label, _ := v.Get(key)
			m.Content = append(m.Content,
				yamlString(key),
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(uint64(label), 10)})
		}
		if len(m.Content) == 0 {
			m.Style = yaml.FlowStyle
		}
		return m, nil
	default:
		// Values from registered custom decoders.
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, yamlError(err)
		}
		return n, nil
	}
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func yamlError(err error) error {
	return errors.New(errors.KindInvalidInput).
		Phase(errors.PhaseRender).
		Detail("encode yaml").
		Cause(err).
		Build()
}
