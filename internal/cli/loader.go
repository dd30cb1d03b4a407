package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gcpdev/xshacl/internal/model"
	"github.com/gcpdev/xshacl/internal/signature"
)

// signatureFile is the YAML shape of a signature document:
//
//	constraint_id: sh:MinCountConstraintComponent
//	property_path: ex:hasName
//	violation_type: cardinality
//	constraint_params:
//	  minCount: "1"
type signatureFile struct {
	ConstraintID  string         `yaml:"constraint_id"`
	PropertyPath  string         `yaml:"property_path"`
	ViolationType string         `yaml:"violation_type"`
	Params        map[string]any `yaml:"constraint_params"`
}

// LoadSignature reads a signature from a YAML file. Parameter values are
// restricted to the cache's value domain: strings, integers, booleans,
// and nested sequences/mappings of those. Floats and nulls are rejected
// up front so a bad file never reaches the canonicalizer.
func LoadSignature(path string) (signature.Signature, error) {
	var sig signature.Signature

	data, err := os.ReadFile(path)
	if err != nil {
		return sig, fmt.Errorf("read signature file: %w", err)
	}
	var doc signatureFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return sig, fmt.Errorf("parse signature file %s: %w", path, err)
	}
	if doc.ConstraintID == "" {
		return sig, fmt.Errorf("signature file %s: constraint_id is required", path)
	}
	vt := model.ViolationType(doc.ViolationType)
	if doc.ViolationType != "" && !vt.Valid() {
		return sig, fmt.Errorf("signature file %s: unknown violation_type %q", path, doc.ViolationType)
	}

	params, err := toObject(doc.Params)
	if err != nil {
		return sig, fmt.Errorf("signature file %s: constraint_params: %w", path, err)
	}

	return signature.Signature{
		ConstraintID: doc.ConstraintID,
		PropertyPath: doc.PropertyPath,
		Type:         vt,
		Params:       params,
	}, nil
}

func toObject(m map[string]any) (model.Object, error) {
	if m == nil {
		return nil, nil
	}
	obj := make(model.Object, len(m))
	for k, v := range m {
		val, err := toValue(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		obj[k] = val
	}
	return obj, nil
}

func toValue(v any) (model.Value, error) {
	switch val := v.(type) {
	case string:
		return model.String(val), nil
	case int:
		return model.Int(val), nil
	case int64:
		return model.Int(val), nil
	case bool:
		return model.Bool(val), nil
	case []any:
		arr := make(model.Array, len(val))
		for i, elem := range val {
			converted, err := toValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = converted
		}
		return arr, nil
	case map[string]any:
		return toObject(val)
	case nil:
		return nil, fmt.Errorf("null values are not allowed")
	case float32, float64:
		return nil, fmt.Errorf("float values are not allowed: %v", val)
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
