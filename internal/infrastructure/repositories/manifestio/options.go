package manifestio

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/deplock/internal/domain/entities"
)

const (
	FormatYAML = "yaml"
	FormatHCL  = "hcl"
)

// OptionsAsYAML returns the options payload as a YAML node. Payloads read
// from YAML are decoded verbatim; payloads from HCL are evaluated and
// converted through JSON.
func OptionsAsYAML(opts *entities.Options) (*yaml.Node, error) {
	if opts.Format == FormatHCL {
		return hclToYAML(opts.Raw)
	}
	if opts.Format != FormatYAML {
		return nil, fmt.Errorf("%w: options in %q", entities.ErrUnsupportedManifest, opts.Format)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(opts.Raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return doc.Content[0], nil
}

// OptionsAsHCL returns the options payload as HCL expression source.
func OptionsAsHCL(opts *entities.Options) ([]byte, error) {
	switch opts.Format {
	case FormatHCL:
		return opts.Raw, nil
	case FormatYAML:
		return yamlToHCL(opts.Raw)
	default:
		return nil, fmt.Errorf("%w: options in %q", entities.ErrUnsupportedManifest, opts.Format)
	}
}

// hclToYAML re-encodes the evaluated value so the result uses block style
// rather than the flow style of its JSON form.
func hclToYAML(raw []byte) (*yaml.Node, error) {
	js, err := hclToJSON(raw)
	if err != nil {
		return nil, err
	}
	var decoded interface{}
	if unmarshalErr := yaml.Unmarshal(js, &decoded); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to convert options: %w", unmarshalErr)
	}
	var node yaml.Node
	if encodeErr := node.Encode(decoded); encodeErr != nil {
		return nil, fmt.Errorf("failed to convert options: %w", encodeErr)
	}
	return &node, nil
}

func hclToJSON(raw []byte) ([]byte, error) {
	expr, diags := hclsyntax.ParseExpression(raw, "options", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse options: %s", diags.Error())
	}
	val, valDiags := expr.Value(nil)
	if valDiags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate options: %s", valDiags.Error())
	}
	js, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to convert options: %w", err)
	}
	return js, nil
}

func yamlToHCL(raw []byte) ([]byte, error) {
	var decoded interface{}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	js, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to convert options: %w", err)
	}
	ty, err := ctyjson.ImpliedType(js)
	if err != nil {
		return nil, fmt.Errorf("failed to convert options: %w", err)
	}
	val, err := ctyjson.Unmarshal(js, ty)
	if err != nil {
		return nil, fmt.Errorf("failed to convert options: %w", err)
	}
	return hclwrite.TokensForValue(val).Bytes(), nil
}
